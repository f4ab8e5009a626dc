// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package designs

import (
	"github.com/db47h/hwbind/hwsim"
	hl "github.com/db47h/hwbind/hwsim/hwlib"
)

func buildCounter() (*hwsim.PartSpec, error) {
	return hwsim.Chip("mkCounter",
		hwsim.In("CLK, RST_N, en"),
		hwsim.Out("count[64]"),
		hwsim.Parts{
			hl.Not(1)("in=RST_N, out=rst"),
			hl.Const(64, 1)("out=one"),
			hl.Add(64)("a=count, b=one, out=next"),
			hl.Reg(64)("CLK=CLK, d=next, en=en, rst=rst, q=count"),
		})
}

// Counter is a 64 bits counter incremented on every rising edge of CLK while
// en is high.
//
var Counter = register(newDesign("mkCounter", "64 bits counter with enable", buildCounter))
