// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwbind/hwsim"

// edge detects rising edges of a clock net.
type edge struct {
	clk  int
	prev bool
}

func (e *edge) rising(c *hwsim.Circuit) bool {
	v := c.Get(e.clk)&1 != 0
	r := v && !e.prev
	e.prev = v
	return r
}

// Reg returns a clocked register with synchronous reset. init is the reset
// value, least significant word first.
//
//	Inputs: CLK, d[width], en, rst
//	Outputs: q[width]
//	Function: on the rising edge of CLK:
//	          if rst { q = init } else if en { q = d }
//
// Reg starts with q = init. Connect en to true for a register loaded on every
// clock cycle.
//
func Reg(width uint32, init ...uint32) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("Reg", width),
		Inputs:  hwsim.Ports{port(pClk, 1), port("d", width), port("en", 1), port("rst", 1)},
		Outputs: hwsim.Ports{port("q", width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			d, en, rst, q := s.Net("d"), s.Net("en"), s.Net("rst"), s.Net("q")
			clk := &edge{clk: s.Net(pClk)}
			iv := make([]uint32, s.Circuit().WordCount(q))
			copy(iv, init)
			iv[len(iv)-1] &= mask(width)
			state := append([]uint32(nil), iv...)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if clk.rising(c) {
						switch {
						case c.Get(rst)&1 != 0:
							copy(state, iv)
						case c.Get(en)&1 != 0:
							copy(state, c.Words(d))
						}
					}
					c.SetWords(q, state)
				}}
		},
	}).NewPart
}

func mask(width uint32) uint32 {
	if r := width % 32; r != 0 {
		return 1<<r - 1
	}
	return ^uint32(0)
}
