// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"

	"github.com/db47h/hwbind/hwsim"
)

// AddrWidth returns the address width needed to index depth elements.
//
func AddrWidth(depth int) uint32 {
	if depth <= 2 {
		return 1
	}
	return uint32(bits.Len(uint(depth - 1)))
}

// RAM returns a memory of depth elements of width bits. The memory array is
// registered under the given name in the chip hosting the RAM. Addresses are
// AddrWidth(depth) bits wide.
//
//	Inputs: CLK, we, waddr[aw], d[width], raddr[aw]
//	Outputs: q[width]
//	Function: q = mem[raddr]
//	          on the rising edge of CLK: if we { mem[waddr] = d }
//
// Reading an address out of range returns 0. Writes out of range are ignored.
//
func RAM(mem string, width uint32, depth int) hwsim.NewPartFn {
	aw := AddrWidth(depth)
	return (&hwsim.PartSpec{
		Name: "RAM",
		Inputs: hwsim.Ports{
			port(pClk, 1),
			port("we", 1),
			port("waddr", aw),
			port("d", width),
			port("raddr", aw),
		},
		Outputs: hwsim.Ports{port("q", width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			we, waddr, d := s.Net("we"), s.Net("waddr"), s.Net("d")
			raddr, q := s.Net("raddr"), s.Net("q")
			clk := &edge{clk: s.Net(pClk)}
			m := s.Memory(mem, width, depth)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if clk.rising(c) && c.Get(we)&1 != 0 {
						m.Store(int(c.Get(waddr)), c.Words(d))
					}
					if a := int(c.Get(raddr)); a < m.Depth {
						c.SetWords(q, m.Elem(a))
					} else {
						c.SetWords(q, nil)
					}
				}}
		},
	}).NewPart
}
