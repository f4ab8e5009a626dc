// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package designs

import (
	"github.com/db47h/hwbind/hwsim"
	hl "github.com/db47h/hwbind/hwsim/hwlib"
)

// GCD rules, in scheduling order. Rule i maps to bit i of the rule vectors.
const (
	RuleSwap = iota
	RuleSubtract
	RuleFinish
)

// GCD states.
const (
	gcdIdle = iota
	gcdBusy
	gcdDone
)

var gcdRuleNames = []string{"swap", "subtract", "finish"}

const gcdMeta = `{"methods":{` +
	`"start":{"args":["start_a","start_b"],"enable":"EN_start","ready":"RDY_start"},` +
	`"result_ready":{"output":"result_ready"},` +
	`"result":{"output":"result","ready":"RDY_result"},` +
	`"result_deq":{"enable":"EN_result_deq","ready":"RDY_result_deq"}}}`

// gcdRules computes the rule and method conditions of mkGCD and the next
// state of its registers.
type gcdRules struct {
	X        int `hw:"in,x,32"`
	Y        int `hw:"in,y,32"`
	State    int `hw:"in,state,2"`
	A        int `hw:"in,start_a,32"`
	B        int `hw:"in,start_b,32"`
	EnStart  int `hw:"in,EN_start"`
	EnDeq    int `hw:"in,EN_result_deq"`
	Force    int `hw:"in,FORCE_FIRE,3"`
	Block    int `hw:"in,BLOCK_FIRE,3"`
	CanFire  int `hw:"out,CAN_FIRE,3"`
	WillFire int `hw:"out,WILL_FIRE,3"`
	XNext    int `hw:"out,x_D_IN,32"`
	YNext    int `hw:"out,y_D_IN,32"`
	SNext    int `hw:"out,state_D_IN,2"`
	RdyStart int `hw:"out,RDY_start"`
	Ready    int `hw:"out,result_ready"`
	Result   int `hw:"out,result,32"`
	RdyRes   int `hw:"out,RDY_result"`
	RdyDeq   int `hw:"out,RDY_result_deq"`
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (g *gcdRules) Update(c *hwsim.Circuit) {
	x, y, st := c.Get(g.X), c.Get(g.Y), c.Get(g.State)
	idle, busy, done := st == gcdIdle, st == gcdBusy, st == gcdDone

	var can uint32
	can |= b2u(busy && y > x && x != 0) << RuleSwap
	can |= b2u(busy && x >= y && x != 0) << RuleSubtract
	can |= b2u(busy && x == 0) << RuleFinish
	will := c.Get(g.Force) | can&^c.Get(g.Block)

	nx, ny, ns := x, y, st
	if idle && c.Get(g.EnStart) != 0 {
		nx, ny, ns = c.Get(g.A), c.Get(g.B), gcdBusy
	}
	if will&(1<<RuleSwap) != 0 {
		nx, ny = y, x
	}
	if will&(1<<RuleSubtract) != 0 {
		nx = x - y
	}
	if will&(1<<RuleFinish) != 0 {
		ns = gcdDone
	}
	if done && c.Get(g.EnDeq) != 0 {
		ns = gcdIdle
	}

	c.Set(g.CanFire, can)
	c.Set(g.WillFire, will)
	c.Set(g.XNext, nx)
	c.Set(g.YNext, ny)
	c.Set(g.SNext, ns)
	c.Set(g.RdyStart, b2u(idle))
	c.Set(g.Ready, b2u(done))
	c.Set(g.Result, y)
	c.Set(g.RdyRes, b2u(done))
	c.Set(g.RdyDeq, b2u(done))
}

var gcdRulesSpec = hwsim.MakePart((*gcdRules)(nil))

func buildGCD() (*hwsim.PartSpec, error) {
	return hwsim.Chip("mkGCD",
		hwsim.In("CLK, RST_N, start_a[32], start_b[32], EN_start, EN_result_deq, FORCE_FIRE[3], BLOCK_FIRE[3]"),
		hwsim.Out("RDY_start, result_ready, result[32], RDY_result, RDY_result_deq, CAN_FIRE[3], WILL_FIRE[3]"),
		hwsim.Parts{
			hl.Not(1)("in=RST_N, out=rst"),
			gcdRulesSpec.NewPart("x=x, y=y, state=state, start_a=start_a, start_b=start_b, " +
				"EN_start=EN_start, EN_result_deq=EN_result_deq, " +
				"FORCE_FIRE=FORCE_FIRE, BLOCK_FIRE=BLOCK_FIRE, CAN_FIRE=CAN_FIRE, WILL_FIRE=WILL_FIRE, " +
				"x_D_IN=x_D_IN, y_D_IN=y_D_IN, state_D_IN=state_D_IN, " +
				"RDY_start=RDY_start, result_ready=result_ready, result=result, " +
				"RDY_result=RDY_result, RDY_result_deq=RDY_result_deq"),
			hl.Reg(32)("CLK=CLK, d=x_D_IN, en=true, rst=rst, q=x"),
			hl.Reg(32)("CLK=CLK, d=y_D_IN, en=true, rst=rst, q=y"),
			hl.Reg(2)("CLK=CLK, d=state_D_IN, en=true, rst=rst, q=state"),
		})
}

// GCD is a Bluespec style GCD unit with scheduling control. Each rule i has
// its CAN_FIRE guard at bit i of CAN_FIRE; WILL_FIRE is
// FORCE_FIRE | CAN_FIRE &^ BLOCK_FIRE. Registers reset synchronously while
// RST_N is low.
//
var GCD = register(newDesign("mkGCD", "Euclid's GCD with rule scheduling control", buildGCD,
	hwsim.Rules(gcdRuleNames...),
	hwsim.Metadata(gcdMeta)))
