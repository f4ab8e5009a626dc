// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/hwbind"
	"github.com/pkg/errors"
)

// Bank is a plain storage model for a descriptor table: every signal and
// array element is a slice of words and Eval only calls OnEval. It is meant
// to stand in for a compiled model in tests.
//
// Like a compiled model, Bank truncates stored values to the declared
// width.
//
type Bank struct {
	Table  *hwbind.Table
	OnEval func(b *Bank) // called on every Eval

	Evals  int  // number of Eval calls
	Closed bool // true once Close has been called

	Traces []*MemTrace // traces opened with Trace

	sigs  map[string][]uint32
	width map[string]uint32
	arrs  map[string][][]uint32
}

// NewBank returns a new zeroed Bank for t.
//
func NewBank(t *hwbind.Table) *Bank {
	b := &Bank{
		Table: t,
		sigs:  make(map[string][]uint32),
		width: make(map[string]uint32),
		arrs:  make(map[string][][]uint32),
	}
	for _, s := range t.Signals() {
		b.sigs[s.Name] = make([]uint32, s.Words())
		b.width[s.Name] = s.Width
	}
	for _, a := range t.Arrays() {
		els := make([][]uint32, a.Depth)
		for i := range els {
			els[i] = make([]uint32, a.Words())
		}
		b.arrs[a.Name] = els
		b.width[a.Name] = a.Width
	}
	return b
}

// NewModelFn returns a hwbind.NewModelFn creating Banks for t, each with the
// given OnEval function.
//
func NewModelFn(t *hwbind.Table, onEval func(b *Bank)) hwbind.NewModelFn {
	return func() (hwbind.Model, error) {
		b := NewBank(t)
		b.OnEval = onEval
		return b, nil
	}
}

func topMask(width uint32) uint32 {
	if r := width % hwbind.WordBits; r != 0 {
		return 1<<r - 1
	}
	return ^uint32(0)
}

func (b *Bank) store(dst []uint32, width uint32, word int, v uint32) {
	if word == len(dst)-1 {
		v &= topMask(width)
	}
	dst[word] = v
}

// Load implements hwbind.Model.
//
func (b *Bank) Load(name string, elem, word int) uint32 {
	if ws, ok := b.sigs[name]; ok {
		return ws[word]
	}
	return b.arrs[name][elem][word]
}

// Store implements hwbind.Model.
//
func (b *Bank) Store(name string, word int, v uint32) {
	b.store(b.sigs[name], b.width[name], word, v)
}

// Eval implements hwbind.Model.
//
func (b *Bank) Eval() {
	b.Evals++
	if b.OnEval != nil {
		b.OnEval(b)
	}
}

// Close implements hwbind.Model. Closing a Bank twice is an error.
//
func (b *Bank) Close() error {
	if b.Closed {
		return errors.New("bank closed twice")
	}
	b.Closed = true
	return nil
}

// Set sets the words of any scalar signal, outputs included. Missing words
// are zeroed. It panics if name is not a scalar signal.
//
func (b *Bank) Set(name string, words ...uint32) {
	ws, ok := b.sigs[name]
	if !ok {
		panic("no such signal " + name)
	}
	for i := range ws {
		var v uint32
		if i < len(words) {
			v = words[i]
		}
		b.store(ws, b.width[name], i, v)
	}
}

// Words returns a copy of the words of a scalar signal.
//
func (b *Bank) Words(name string) []uint32 {
	return append([]uint32(nil), b.sigs[name]...)
}

// Poke sets the words of an array element. It panics if name is not an
// array or elem is out of range.
//
func (b *Bank) Poke(name string, elem int, words ...uint32) {
	els, ok := b.arrs[name]
	if !ok {
		panic("no such array " + name)
	}
	ws := els[elem]
	for i := range ws {
		var v uint32
		if i < len(words) {
			v = words[i]
		}
		b.store(ws, b.width[name], i, v)
	}
}

// MemTrace is an in-memory trace sink recording dump timestamps.
//
type MemTrace struct {
	Path    string
	Dumps   []uint64
	Flushes int
	Closed  bool
}

// Trace implements hwbind.Tracer.
//
func (b *Bank) Trace(path string) (hwbind.TraceSink, error) {
	t := &MemTrace{Path: path}
	b.Traces = append(b.Traces, t)
	return t, nil
}

// Dump implements hwbind.TraceSink.
//
func (t *MemTrace) Dump(ts uint64) error {
	if t.Closed {
		return errors.New("dump on closed trace")
	}
	t.Dumps = append(t.Dumps, ts)
	return nil
}

// Flush implements hwbind.TraceSink.
//
func (t *MemTrace) Flush() error {
	t.Flushes++
	return nil
}

// Close implements hwbind.TraceSink.
//
func (t *MemTrace) Close() error {
	t.Closed = true
	return nil
}
