// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

type chip struct {
	parts []chipPart
}

type chipPart struct {
	*PartSpec
	conns map[string]string // part port to chip net
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component

	for i, p := range c.parts {
		sub := s.sub(p.PartSpec, i)
		for _, pt := range p.Inputs {
			if n, ok := p.conns[pt.Name]; ok {
				sub.m[pt.Name] = s.NetOrNew(n, pt.Width)
			} else {
				// unconnected inputs read as 0.
				sub.m[pt.Name] = s.constant(False, pt.Width)
			}
		}
		for _, pt := range p.Outputs {
			if n, ok := p.conns[pt.Name]; ok {
				sub.m[pt.Name] = s.NetOrNew(n, pt.Width)
			} else {
				sub.NetOrNew(pt.Name, pt.Width)
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The ports specified as inputs and outputs will be the inputs
// and outputs of the chip. Nets that are neither chip inputs nor outputs are
// internal nets; their width is set by the first port they connect to.
//
// A 32 bits Xor gate could be created like this:
//
//	xor, err := Chip(
//		"Xor",
//		In("a[32], b[32]"),
//		Out("out[32]"),
//		Parts{
//			Nand("a=a, b=b, out=nandAB"),
//			Nand("a=a, b=nandAB, out=w0"),
//			Nand("a=b, b=nandAB, out=w1"),
//			Nand("a=w0, b=w1, out=out"),
//		})
//
// The returned PartSpec can be used to compose the new part with others into
// other chips:
//
//	xnor, err := Chip(
//		"Xnor",
//		In("a[32], b[32]"),
//		Out("out[32]"),
//		Parts{
//			xor.NewPart("a=a, b=b, out=xorAB"),
//			Not("in=xorAB, out=out"),
//		})
//
// Chip checks that every connected port exists and has the same width as the
// net it connects to, that every net has exactly one driver and that every
// chip output is driven. Unconnected part inputs read as zero.
//
func Chip(name string, inputs Ports, outputs Ports, parts Parts) (*PartSpec, error) {
	wr, err := newWiring(inputs, outputs)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	c := &chip{parts: make([]chipPart, len(parts))}

	for pnum, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.Errorf("%s: nil part #%d", name, pnum)
		}
		cp := chipPart{p.PartSpec, make(map[string]string, len(p.Conns))}
		for _, cn := range p.Conns {
			pt, ok := p.Port(cn.Port)
			if !ok {
				return nil, errors.Errorf("%s: invalid port name %q for part %s", name, cn.Port, p.Name)
			}
			pn := portName(p.PartSpec, pnum, cn.Port)
			if _, ok := p.Inputs.Find(cn.Port); ok {
				err = wr.connectInput(pn, pt.Width, cn.Net)
			} else {
				err = wr.connectOutput(pn, pt.Width, cn.Net)
			}
			if err != nil {
				return nil, errors.Wrap(err, name)
			}
			cp.conns[cn.Port] = cn.Net
		}
		c.parts[pnum] = cp
	}

	if err := wr.check(); err != nil {
		return nil, errors.Wrap(err, name)
	}

	return &PartSpec{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
		Mount:   c.mount,
	}, nil
}
