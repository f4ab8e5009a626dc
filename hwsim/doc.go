// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim is a word-level hardware simulator that uses Go as a hardware
description language.

Parts are composed into chips with Chip. Nets carry values of any bit width,
stored as 32 bits words, least significant word first. Every simulation step,
each component reads the current state of its input nets and writes the next
state of its output nets. Clocked parts, like the registers and memories in
the hwlib package, latch their inputs on the rising edge of their CLK input.

A Model wraps a circuit into a hwbind.Model, so that it can be driven through
a hwbind.Binding:

	top, _ := hwsim.Chip("mkTop", hwsim.In("CLK, a[32]"), hwsim.Out("q[32]"), hwsim.Parts{
		hwlib.Reg(32)("CLK=CLK, d=a, en=true, q=q"),
	})
	t, _ := hwsim.TableOf(top)
	b, _ := hwbind.New(t, hwsim.NewModelFn(0, top))
*/
package hwsim
