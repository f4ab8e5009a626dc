// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwbind/hwsim"

// Mux returns a multiplexer.
//
//	Inputs: a[width], b[width], sel
//	Outputs: out[width]
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(width uint32) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("Mux", width),
		Inputs:  hwsim.Ports{port(pA, width), port(pB, width), port(pSel, 1)},
		Outputs: hwsim.Ports{port(pOut, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, sel, out := s.Net(pA), s.Net(pB), s.Net(pSel), s.Net(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Get(sel) != 0 {
					c.SetWords(out, c.Words(b))
				} else {
					c.SetWords(out, c.Words(a))
				}
			}}
		},
	}).NewPart
}

// DMux returns a demultiplexer.
//
//	Inputs: in[width], sel
//	Outputs: a[width], b[width]
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(width uint32) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("DMux", width),
		Inputs:  hwsim.Ports{port(pIn, width), port(pSel, 1)},
		Outputs: hwsim.Ports{port(pA, width), port(pB, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, sel, a, b := s.Net(pIn), s.Net(pSel), s.Net(pA), s.Net(pB)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Get(sel) != 0 {
					c.SetWords(a, nil)
					c.SetWords(b, c.Words(in))
				} else {
					c.SetWords(a, c.Words(in))
					c.SetWords(b, nil)
				}
			}}
		},
	}).NewPart
}
