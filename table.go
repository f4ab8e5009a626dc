// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"strconv"

	"github.com/pkg/errors"
)

// Role determines which accessor directions are legal for a signal.
//
type Role uint8

// Signal roles.
//
const (
	Input Role = iota
	Output
	Internal
)

func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Output:
		return "output"
	case Internal:
		return "internal"
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// Settable returns true if signals with this role accept Set calls.
//
func (r Role) Settable() bool { return r == Input }

// A Signal describes a scalar signal of the simulated model.
//
type Signal struct {
	Name  string
	Width uint32
	Role  Role
}

// Class returns the signal's representation class.
//
func (s *Signal) Class() Class { return Classify(s.Width) }

// Words returns the number of storage words of the signal.
//
func (s *Signal) Words() int { return WordCount(s.Width) }

// An Array describes a memory array of Depth elements of Width bits each.
//
type Array struct {
	Name  string
	Width uint32
	Depth uint32
}

// Class returns the representation class of the array elements.
//
func (a *Array) Class() Class { return Classify(a.Width) }

// Words returns the number of storage words per element.
//
func (a *Array) Words() int { return WordCount(a.Width) }

// A Rule is a named rule or action of the model's control logic. Its index
// is the bit position of the rule in every rule vector.
//
type Rule struct {
	Name  string
	Index uint32
}

// Descriptor is the raw material for a Table, as supplied by a code
// generator, a descriptor file or a simulator backend.
//
type Descriptor struct {
	Module   string
	Signals  []Signal
	Arrays   []Array
	Rules    []string // rule names, in index order
	Metadata string   // opaque JSON blob; "null" if empty
}

// Table is the immutable descriptor table of a model. Signal and array names
// share a single namespace.
//
type Table struct {
	module  string
	signals []Signal
	arrays  []Array
	rules   []Rule
	meta    string

	sigs  map[string]int
	arrs  map[string]int
	rlIdx map[string]int
}

// NewTable validates d and returns the corresponding Table.
//
func NewTable(d Descriptor) (*Table, error) {
	t := &Table{
		module:  d.Module,
		signals: make([]Signal, 0, len(d.Signals)),
		arrays:  make([]Array, 0, len(d.Arrays)),
		rules:   make([]Rule, 0, len(d.Rules)),
		meta:    d.Metadata,
		sigs:    make(map[string]int, len(d.Signals)),
		arrs:    make(map[string]int, len(d.Arrays)),
		rlIdx:   make(map[string]int, len(d.Rules)),
	}
	if t.meta == "" {
		t.meta = "null"
	}
	for _, s := range d.Signals {
		if s.Name == "" {
			return nil, errors.New("empty signal name")
		}
		if s.Width == 0 {
			return nil, errors.Errorf("signal %q: zero width", s.Name)
		}
		if s.Role > Internal {
			return nil, errors.Errorf("signal %q: invalid role %v", s.Name, s.Role)
		}
		if _, ok := t.sigs[s.Name]; ok {
			return nil, errors.Errorf("duplicate signal name %q", s.Name)
		}
		t.sigs[s.Name] = len(t.signals)
		t.signals = append(t.signals, s)
	}
	for _, a := range d.Arrays {
		if a.Name == "" {
			return nil, errors.New("empty array name")
		}
		if a.Width == 0 {
			return nil, errors.Errorf("array %q: zero element width", a.Name)
		}
		if a.Depth == 0 {
			return nil, errors.Errorf("array %q: zero depth", a.Name)
		}
		if _, ok := t.sigs[a.Name]; ok {
			return nil, errors.Errorf("array %q: name already used by a signal", a.Name)
		}
		if _, ok := t.arrs[a.Name]; ok {
			return nil, errors.Errorf("duplicate array name %q", a.Name)
		}
		t.arrs[a.Name] = len(t.arrays)
		t.arrays = append(t.arrays, a)
	}
	for i, r := range d.Rules {
		if r == "" {
			return nil, errors.Errorf("rule %d: empty name", i)
		}
		if _, ok := t.rlIdx[r]; ok {
			return nil, errors.Errorf("duplicate rule name %q", r)
		}
		t.rlIdx[r] = i
		t.rules = append(t.rules, Rule{Name: r, Index: uint32(i)})
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
//
func MustTable(d Descriptor) *Table {
	t, err := NewTable(d)
	if err != nil {
		panic(err)
	}
	return t
}

// Module returns the model's module name.
//
func (t *Table) Module() string { return t.module }

// Metadata returns the opaque metadata blob.
//
func (t *Table) Metadata() string { return t.meta }

// Signal returns the descriptor of the named scalar signal.
//
func (t *Table) Signal(name string) (Signal, bool) {
	if i, ok := t.sigs[name]; ok {
		return t.signals[i], true
	}
	return Signal{}, false
}

// Array returns the descriptor of the named array.
//
func (t *Table) Array(name string) (Array, bool) {
	if i, ok := t.arrs[name]; ok {
		return t.arrays[i], true
	}
	return Array{}, false
}

// Rule returns the named rule.
//
func (t *Table) Rule(name string) (Rule, bool) {
	if i, ok := t.rlIdx[name]; ok {
		return t.rules[i], true
	}
	return Rule{}, false
}

// NumRules returns the number of rules.
//
func (t *Table) NumRules() int { return len(t.rules) }

// Signals returns all scalar signals in declaration order.
//
func (t *Table) Signals() []Signal {
	return append([]Signal(nil), t.signals...)
}

// Role returns the signals with the given role in declaration order.
//
func (t *Table) Role(r Role) []Signal {
	var out []Signal
	for _, s := range t.signals {
		if s.Role == r {
			out = append(out, s)
		}
	}
	return out
}

// Arrays returns all arrays in declaration order.
//
func (t *Table) Arrays() []Array {
	return append([]Array(nil), t.arrays...)
}

// Rules returns all rules in index order.
//
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Descriptor returns a copy of the descriptor t was built from.
//
func (t *Table) Descriptor() Descriptor {
	d := Descriptor{
		Module:   t.module,
		Signals:  t.Signals(),
		Arrays:   t.Arrays(),
		Metadata: t.meta,
	}
	for _, r := range t.rules {
		d.Rules = append(d.Rules, r.Name)
	}
	return d
}
