// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"os"
	"strings"

	"github.com/db47h/hwbind"
	"github.com/db47h/hwbind/vcd"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ModelOption configures a Model.
//
type ModelOption func(*modelConfig)

type modelConfig struct {
	rules    []string
	meta     string
	maxSteps int
	log      *zap.Logger
}

// Rules sets the rule names of the model. Rule i maps to bit i of the model's
// rule vectors.
//
func Rules(names ...string) ModelOption {
	return func(c *modelConfig) { c.rules = names }
}

// Metadata sets the JSON metadata of the model.
//
func Metadata(json string) ModelOption {
	return func(c *modelConfig) { c.meta = json }
}

// MaxSteps sets the maximum number of simulation steps per evaluation. It
// defaults to twice the component count of the circuit, plus two.
//
func MaxSteps(n int) ModelOption {
	return func(c *modelConfig) { c.maxSteps = n }
}

// WithLogger sets the logger used to report evaluations that fail to settle.
//
func WithLogger(l *zap.Logger) ModelOption {
	return func(c *modelConfig) { c.log = l }
}

// Model wraps a Circuit into a hwbind.Model. Top-level inputs and outputs are
// exposed as input and output signals, named top-level nets as internal
// signals and memories of the top-level chip as arrays.
//
type Model struct {
	c      *Circuit
	t      *hwbind.Table
	nets   map[string]int
	max    int
	log    *zap.Logger
	stable bool
}

// NewModel builds a circuit for top and wraps it into a Model.
//
func NewModel(workers int, top *PartSpec, opts ...ModelOption) (*Model, error) {
	var cfg modelConfig
	for _, o := range opts {
		o(&cfg)
	}
	c, err := NewCircuit(workers, top)
	if err != nil {
		return nil, err
	}
	m := &Model{c: c, nets: make(map[string]int), max: cfg.maxSteps, log: cfg.log}
	if m.max <= 0 {
		m.max = 2*c.Size() + 2
	}
	if m.log == nil {
		m.log = hwbind.Logger()
	}
	d := hwbind.Descriptor{Module: top.Name, Rules: cfg.rules, Metadata: cfg.meta}
	for _, p := range top.Inputs {
		d.Signals = append(d.Signals, hwbind.Signal{Name: p.Name, Width: p.Width, Role: hwbind.Input})
	}
	for _, p := range top.Outputs {
		d.Signals = append(d.Signals, hwbind.Signal{Name: p.Name, Width: p.Width, Role: hwbind.Output})
	}
	for i, n := range c.nets {
		if _, ok := top.Port(n.name); ok {
			m.nets[n.name] = i
			continue
		}
		if strings.HasPrefix(n.name, cstPrefix) || strings.ContainsRune(n.name, '.') {
			continue
		}
		m.nets[n.name] = i
		d.Signals = append(d.Signals, hwbind.Signal{Name: n.name, Width: n.width, Role: hwbind.Internal})
	}
	for _, mem := range c.Memories() {
		if strings.ContainsRune(mem.Name, '.') {
			continue
		}
		d.Arrays = append(d.Arrays, hwbind.Array{Name: mem.Name, Width: mem.Width, Depth: uint32(mem.Depth)})
	}
	if m.t, err = hwbind.NewTable(d); err != nil {
		c.Dispose()
		return nil, errors.Wrap(err, "build table for "+top.Name)
	}
	m.settle()
	return m, nil
}

// NewModelFn returns a hwbind.NewModelFn that builds a new Model for top on
// every call.
//
func NewModelFn(workers int, top *PartSpec, opts ...ModelOption) hwbind.NewModelFn {
	return func() (hwbind.Model, error) {
		return NewModel(workers, top, opts...)
	}
}

// TableOf returns the signal table of the models built by NewModel for top.
//
func TableOf(top *PartSpec, opts ...ModelOption) (*hwbind.Table, error) {
	m, err := NewModel(1, top, opts...)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return m.Table(), nil
}

// Table returns the signal table of the model.
//
func (m *Model) Table() *hwbind.Table { return m.t }

// Circuit returns the underlying circuit.
//
func (m *Model) Circuit() *Circuit { return m.c }

// Stable returns false if the last evaluation did not settle.
//
func (m *Model) Stable() bool { return m.stable }

// Load implements hwbind.Model.
//
func (m *Model) Load(name string, elem, word int) uint32 {
	if n, ok := m.nets[name]; ok {
		ws := m.c.Words(n)
		if word < 0 || word >= len(ws) {
			return 0
		}
		return ws[word]
	}
	if mem, ok := m.c.Memory(name); ok {
		return mem.Load(elem, word)
	}
	return 0
}

// Store implements hwbind.Model.
//
func (m *Model) Store(name string, word int, v uint32) {
	if n, ok := m.nets[name]; ok {
		m.c.Poke(n, word, v)
	}
}

// Eval implements hwbind.Model. It runs the simulation until all nets are
// stable.
//
func (m *Model) Eval() {
	m.settle()
}

func (m *Model) settle() {
	n, ok := m.c.Settle(m.max)
	m.stable = ok
	if !ok {
		m.log.Warn("circuit did not settle", zap.String("module", m.t.Module()), zap.Int("steps", n))
	}
}

// Close implements hwbind.Model.
//
func (m *Model) Close() error {
	m.c.Dispose()
	return nil
}

// Trace implements hwbind.Tracer. It writes a VCD file of all signals of the
// model.
//
func (m *Model) Trace(path string) (hwbind.TraceSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sigs := m.t.Signals()
	vars := make([]vcd.Var, len(sigs))
	nets := make([]int, len(sigs))
	for i, s := range sigs {
		vars[i] = vcd.Var{Name: s.Name, Width: s.Width}
		nets[i] = m.nets[s.Name]
	}
	w, err := vcd.NewWriter(f, m.t.Module(), "1ns", vars)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &traceSink{w: w, c: m.c, nets: nets, buf: make([][]uint32, len(nets))}, nil
}

type traceSink struct {
	w    *vcd.Writer
	c    *Circuit
	nets []int
	buf  [][]uint32
}

func (t *traceSink) Dump(ts uint64) error {
	for i, n := range t.nets {
		t.buf[i] = t.c.Words(n)
	}
	return t.w.Dump(ts, t.buf)
}

func (t *traceSink) Flush() error { return t.w.Flush() }
func (t *traceSink) Close() error { return t.w.Close() }
