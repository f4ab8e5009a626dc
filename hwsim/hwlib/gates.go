// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable word-level parts for hwsim.
//
// Parts are parameterized by their data width and return a hwsim.NewPartFn:
//
//	hwlib.And(32)("a=x, b=y, out=z")
//
package hwlib

import (
	"strconv"

	"github.com/db47h/hwbind/hwsim"
)

// common port names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
	pClk = "CLK"
)

func port(name string, width uint32) hwsim.Port {
	return hwsim.Port{Name: name, Width: width}
}

func name(base string, width uint32) string {
	return base + strconv.FormatUint(uint64(width), 10)
}

// Not returns a bitwise NOT gate.
//
//	Inputs: in[width]
//	Outputs: out[width]
//	Function: out = ^in
//
func Not(width uint32) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name("Not", width),
		Inputs:  hwsim.Ports{port(pIn, width)},
		Outputs: hwsim.Ports{port(pOut, width)},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Net(pIn), s.Net(pOut)
			buf := make([]uint32, s.Circuit().WordCount(in))
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					for i, w := range c.Words(in) {
						buf[i] = ^w
					}
					c.SetWords(out, buf)
				},
			}
		},
	}).NewPart
}

// other gates
type gate func(a, b uint32) uint32

func (g gate) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Net(pA), s.Net(pB), s.Net(pOut)
	buf := make([]uint32, s.Circuit().WordCount(out))
	return []hwsim.Component{
		func(c *hwsim.Circuit) {
			wa, wb := c.Words(a), c.Words(b)
			for i := range buf {
				buf[i] = g(wa[i], wb[i])
			}
			c.SetWords(out, buf)
		},
	}
}

func newGate(base string, width uint32, fn gate) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name(base, width),
		Inputs:  hwsim.Ports{port(pA, width), port(pB, width)},
		Outputs: hwsim.Ports{port(pOut, width)},
		Mount:   fn.mount,
	}).NewPart
}

// And returns a bitwise AND gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = a & b
//
func And(width uint32) hwsim.NewPartFn {
	return newGate("And", width, func(a, b uint32) uint32 { return a & b })
}

// Nand returns a bitwise NAND gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = ^(a & b)
//
func Nand(width uint32) hwsim.NewPartFn {
	return newGate("Nand", width, func(a, b uint32) uint32 { return ^(a & b) })
}

// Or returns a bitwise OR gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = a | b
//
func Or(width uint32) hwsim.NewPartFn {
	return newGate("Or", width, func(a, b uint32) uint32 { return a | b })
}

// Nor returns a bitwise NOR gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = ^(a | b)
//
func Nor(width uint32) hwsim.NewPartFn {
	return newGate("Nor", width, func(a, b uint32) uint32 { return ^(a | b) })
}

// Xor returns a bitwise XOR gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = a ^ b
//
func Xor(width uint32) hwsim.NewPartFn {
	return newGate("Xor", width, func(a, b uint32) uint32 { return a ^ b })
}

// Xnor returns a bitwise XNOR gate.
//
//	Inputs: a[width], b[width]
//	Outputs: out[width]
//	Function: out = ^(a ^ b)
//
func Xnor(width uint32) hwsim.NewPartFn {
	return newGate("Xnor", width, func(a, b uint32) uint32 { return ^(a ^ b) })
}
