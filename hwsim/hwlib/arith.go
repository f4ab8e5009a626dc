// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"

	"github.com/db47h/hwbind/hwsim"
)

func arith(base string, width uint32, sub bool) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name(base, width),
		Inputs:  hwsim.Ports{port(pA, width), port(pB, width)},
		Outputs: hwsim.Ports{port(pOut, width), port("c", 1)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b := s.Net(pA), s.Net(pB)
			out, cout := s.Net(pOut), s.Net("c")
			buf := make([]uint32, s.Circuit().WordCount(out))
			// carry (or borrow) out of the top bit
			top := (width - 1) % 32
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					wa, wb := c.Words(a), c.Words(b)
					var cc uint32
					for i := range buf {
						if sub {
							buf[i], cc = bits.Sub32(wa[i], wb[i], cc)
						} else {
							buf[i], cc = bits.Add32(wa[i], wb[i], cc)
						}
					}
					if top != 31 {
						// carry is bit width of the result
						cc = buf[len(buf)-1] >> (top + 1) & 1
					}
					c.SetWords(out, buf)
					c.Set(cout, cc)
				},
			}
		},
	}).NewPart
}

// Add returns a width bits adder.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width], c
//	Function: out = a + b (mod 2^width)
//	          c = carry out
//
func Add(width uint32) hwsim.NewPartFn { return arith("Add", width, false) }

// Sub returns a width bits subtractor.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width], c
//	Function: out = a - b (mod 2^width)
//	          c = borrow out
//
func Sub(width uint32) hwsim.NewPartFn { return arith("Sub", width, true) }

func compare(base string, width uint32, fn func(a, b []uint32) bool) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name(base, width),
		Inputs:  hwsim.Ports{port(pA, width), port(pB, width)},
		Outputs: hwsim.Ports{port(pOut, 1)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, out := s.Net(pA), s.Net(pB), s.Net(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					var v uint32
					if fn(c.Words(a), c.Words(b)) {
						v = 1
					}
					c.Set(out, v)
				},
			}
		},
	}).NewPart
}

// Eq returns an equality comparator.
//
//	Inputs: a[width], b[width]
//	Outputs: out
//	Function: out = a == b
//
func Eq(width uint32) hwsim.NewPartFn {
	return compare("Eq", width, func(a, b []uint32) bool {
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	})
}

// Lt returns an unsigned less than comparator.
//
//	Inputs: a[width], b[width]
//	Outputs: out
//	Function: out = a < b
//
func Lt(width uint32) hwsim.NewPartFn {
	return compare("Lt", width, func(a, b []uint32) bool {
		for i := len(a) - 1; i >= 0; i-- {
			if a[i] != b[i] {
				return a[i] < b[i]
			}
		}
		return false
	})
}
