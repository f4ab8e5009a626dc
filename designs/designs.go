// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package designs provides built-in reference designs simulated with hwsim.
//
package designs

import (
	"sort"
	"sync"

	"github.com/db47h/hwbind"
	"github.com/db47h/hwbind/hwsim"
	"github.com/pkg/errors"
)

// A Design is a named top-level part ready to be bound.
//
type Design struct {
	Name string
	Doc  string

	load func() (*built, error)
}

type built struct {
	top  *hwsim.PartSpec
	t    *hwbind.Table
	opts []hwsim.ModelOption
}

func newDesign(name, doc string, build func() (*hwsim.PartSpec, error), opts ...hwsim.ModelOption) *Design {
	return &Design{
		Name: name,
		Doc:  doc,
		load: sync.OnceValues(func() (*built, error) {
			top, err := build()
			if err != nil {
				return nil, errors.Wrap(err, "build "+name)
			}
			t, err := hwsim.TableOf(top, opts...)
			if err != nil {
				return nil, err
			}
			return &built{top, t, opts}, nil
		}),
	}
}

// Top returns the top-level part of the design.
//
func (d *Design) Top() (*hwsim.PartSpec, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}
	return b.top, nil
}

// Table returns the descriptor table of the design.
//
func (d *Design) Table() (*hwbind.Table, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}
	return b.t, nil
}

// NewModelFn returns a constructor for new model instances of the design.
//
func (d *Design) NewModelFn(workers int) (hwbind.NewModelFn, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}
	return hwsim.NewModelFn(workers, b.top, b.opts...), nil
}

// Bind returns a Binding for the design. The binding runs the reset sequence
// returned by hwbind.AutoReset on new instances; it can be overridden with
// hwbind.WithReset.
//
func (d *Design) Bind(workers int, opts ...hwbind.Option) (*hwbind.Binding, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}
	opts = append([]hwbind.Option{hwbind.WithReset(hwbind.AutoReset(b.t))}, opts...)
	return hwbind.New(b.t, hwsim.NewModelFn(workers, b.top, b.opts...), opts...)
}

var registry = map[string]*Design{}

func register(d *Design) *Design {
	if _, ok := registry[d.Name]; ok {
		panic("duplicate design " + d.Name)
	}
	registry[d.Name] = d
	return d
}

// Lookup returns the design with the given module name.
//
func Lookup(name string) (*Design, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the names of all built-in designs, sorted.
//
func Names() []string {
	ns := make([]string, 0, len(registry))
	for n := range registry {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}
