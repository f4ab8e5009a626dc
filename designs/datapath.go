// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package designs

import (
	"github.com/db47h/hwbind/hwsim"
	hl "github.com/db47h/hwbind/hwsim/hwlib"
)

const datapathMeta = `{"arrays":{"mem64":"wide","mem80":"extended"}}`

func buildDatapath() (*hwsim.PartSpec, error) {
	return hwsim.Chip("mkDatapath",
		hwsim.In("CLK, RST_N, we, waddr[2], raddr[2], a[32], b[64], wdata[80]"),
		hwsim.Out("na[32], sum[64], carry, rdata64[64], rdata80[80], total[80]"),
		hwsim.Parts{
			hl.Not(1)("in=RST_N, out=rst"),
			hl.Not(32)("in=a, out=na"),
			hl.RAM("mem64", 64, 4)("CLK=CLK, we=we, waddr=waddr, d=b, raddr=raddr, q=rdata64"),
			hl.RAM("mem80", 80, 4)("CLK=CLK, we=we, waddr=waddr, d=wdata, raddr=raddr, q=rdata80"),
			hl.Add(64)("a=b, b=rdata64, out=sum, c=carry"),
			hl.Add(80)("a=total, b=wdata, out=acc_next"),
			hl.Reg(80)("CLK=CLK, d=acc_next, en=we, rst=rst, q=total"),
		})
}

// Datapath exercises every width class: it has narrow, wide and extended
// signals and two memories, one of 64 bits elements and one of 80 bits
// elements. On the rising edge of CLK, if we is high, b and wdata are written
// at waddr in mem64 and mem80, and wdata is added to the total accumulator.
// The memories are read asynchronously at raddr.
//
var Datapath = register(newDesign("mkDatapath", "mixed width datapath with memories", buildDatapath,
	hwsim.Metadata(datapathMeta)))
