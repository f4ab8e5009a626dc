// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwbind/hwsim"

// Uint64 returns the two least significant words of ws as an uint64.
//
func Uint64(ws []uint32) uint64 {
	var v uint64
	if len(ws) > 0 {
		v = uint64(ws[0])
	}
	if len(ws) > 1 {
		v |= uint64(ws[1]) << 32
	}
	return v
}

// SetUint64 sets ws to v, zero extended. Bits of v that do not fit in ws are
// dropped.
//
func SetUint64(ws []uint32, v uint64) {
	for i := range ws {
		ws[i] = uint32(v)
		v >>= 32
	}
}

// Const returns a constant source. value is given least significant word
// first.
//
//	Outputs: out[width]
//	Function: out = value
//
func Const(width uint32, value ...uint32) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("Const", width),
		Outputs: hwsim.Ports{port(pOut, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out := s.Net(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { c.SetWords(out, value) },
			}
		},
	}).NewPart
}

// Input creates a function based input. f is called on every simulation step.
//
//	Outputs: out[width]
//	Function: out = f()
//
func Input(width uint32, f func() uint64) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("Input", width),
		Outputs: hwsim.Ports{port(pOut, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out := s.Net(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { c.Set64(out, f()) },
			}
		},
	}).NewPart
}

// Output creates an output or probe. f is called with the current state of
// the input net on every simulation step.
//
//	Inputs: in[width]
//	Function: f(in)
//
func Output(width uint32, f func(ws []uint32)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:   name("Output", width),
		Inputs: hwsim.Ports{port(pIn, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Net(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.Words(in)) },
			}
		},
	}).NewPart
}
