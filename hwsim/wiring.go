// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	typeInternal = iota
	typeInput
	typeOutput
)

// a wire is a net within a chip.
type wire struct {
	name   string
	width  uint32
	typ    int
	driver string // part port driving the wire
	reader string // first part port reading the wire
}

func (w *wire) driven() bool {
	return w.typ == typeInput || w.driver != ""
}

// wiring tracks the nets of a chip in declaration order.
type wiring struct {
	m     map[string]*wire
	order []*wire
}

func newWiring(ins, outs Ports) (*wiring, error) {
	wr := &wiring{m: make(map[string]*wire, len(ins)+len(outs))}
	for _, ps := range [...]struct {
		ports Ports
		typ   int
	}{{ins, typeInput}, {outs, typeOutput}} {
		for _, p := range ps.ports {
			if err := checkName(p.Name); err != nil {
				return nil, err
			}
			if wr.m[p.Name] != nil {
				return nil, errors.Errorf("duplicate port name %q", p.Name)
			}
			if p.Width == 0 {
				return nil, errors.Errorf("zero width port %q", p.Name)
			}
			wr.add(&wire{name: p.Name, width: p.Width, typ: ps.typ})
		}
	}
	return wr, nil
}

func checkName(name string) error {
	switch {
	case name == "":
		return errors.New("empty net name")
	case IsConstant(name):
		return errors.Errorf("%q is a reserved name", name)
	case strings.HasPrefix(name, cstPrefix):
		return errors.Errorf("invalid net name %q: names starting with %q are reserved", name, cstPrefix)
	}
	return nil
}

func (wr *wiring) add(w *wire) {
	wr.m[w.name] = w
	wr.order = append(wr.order, w)
}

// use returns the wire for net name, creating it if necessary.
func (wr *wiring) use(name string, width uint32) (*wire, error) {
	w := wr.m[name]
	if w == nil {
		if err := checkName(name); err != nil {
			return nil, err
		}
		w = &wire{name: name, width: width}
		wr.add(w)
	} else if w.width != width {
		return nil, errors.Errorf("width mismatch: net %q has width %d, port has width %d", name, w.width, width)
	}
	return w, nil
}

func (wr *wiring) connectInput(port string, width uint32, net string) error {
	if IsConstant(net) {
		return nil
	}
	w, err := wr.use(net, width)
	if err != nil {
		return err
	}
	if w.reader == "" {
		w.reader = port
	}
	return nil
}

func (wr *wiring) connectOutput(port string, width uint32, net string) error {
	if IsConstant(net) {
		return errors.Errorf("output %s connected to constant %q", port, net)
	}
	w, err := wr.use(net, width)
	if err != nil {
		return err
	}
	switch {
	case w.typ == typeInput:
		return errors.Errorf("output %s connected to chip input %q", port, net)
	case w.driver != "":
		return errors.Errorf("net %q driven by both %s and %s", net, w.driver, port)
	}
	w.driver = port
	return nil
}

func (wr *wiring) check() error {
	for _, w := range wr.order {
		if w.driven() {
			continue
		}
		if w.typ == typeOutput {
			return errors.Errorf("chip output %q not connected to any part output", w.name)
		}
		return errors.Errorf("net %q read by %s is not driven", w.name, w.reader)
	}
	return nil
}

func portName(p *PartSpec, n int, port string) string {
	return p.Name + "[" + strconv.Itoa(n) + "]." + port
}
