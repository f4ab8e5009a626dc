// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim_test

import (
	"strings"
	"testing"

	"github.com/db47h/hwbind"
	hw "github.com/db47h/hwbind/hwsim"
	hl "github.com/db47h/hwbind/hwsim/hwlib"
	"github.com/db47h/hwbind/hwtest"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// target returns a model instance for top.
func target(t *testing.T, top *hw.PartSpec) hwtest.Target {
	t.Helper()
	tbl, err := hw.TableOf(top)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	b, err := hwbind.New(tbl, hw.NewModelFn(0, top))
	if err != nil {
		t.Fatal(err)
	}
	h, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := b.Destruct(h); err != nil {
			t.Error(err)
		}
	})
	return hwtest.Target{B: b, H: h}
}

func Test_gate_custom(t *testing.T) {
	nand := hl.Nand(32)
	chip := func(name string, in, out string, parts hw.Parts) *hw.PartSpec {
		t.Helper()
		p, err := hw.Chip(name, hw.In(in), hw.Out(out), parts)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	and := chip("AND", "a[32], b[32]", "out[32]", hw.Parts{
		nand("a=a, b=b, out=nand"),
		nand("a=nand, b=nand, out=out"),
	})
	or := chip("OR", "a[32], b[32]", "out[32]", hw.Parts{
		nand("a=a, b=a, out=notA"),
		nand("a=b, b=b, out=notB"),
		nand("a=notA, b=notB, out=out"),
	})
	nor := chip("NOR", "a[32], b[32]", "out[32]", hw.Parts{
		or.NewPart("a=a, b=b, out=orAB"),
		nand("a=orAB, b=orAB, out=out"),
	})
	xor := chip("XOR", "a[32], b[32]", "out[32]", hw.Parts{
		nand("a=a, b=b, out=nandAB"),
		nand("a=a, b=nandAB, out=w0"),
		nand("a=b, b=nandAB, out=w1"),
		nand("a=w0, b=w1, out=out"),
	})
	not := chip("NOT", "in[32]", "out[32]", hw.Parts{
		nand("a=in, b=in, out=out"),
	})
	td := []struct {
		name string
		ref  hw.NewPartFn
		dut  *hw.PartSpec
	}{
		{"AND", hl.And(32), and},
		{"OR", hl.Or(32), or},
		{"NOR", hl.Nor(32), nor},
		{"XOR", hl.Xor(32), xor},
		{"NOT", hl.Not(32), not},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			hwtest.Compare(t, hwtest.CompareConfig{Cycles: 100},
				target(t, d.ref("").PartSpec), target(t, d.dut))
		})
	}
}

// Test a basic clock with a Nor gate.
//
// The purpose of this test is to catch changes in propagation delays
// as well as testing loops between input and outputs.
//
func Test_clock(t *testing.T) {
	clk, err := hw.Chip("CLK", hw.In("disable"), hw.Out("tick"), hw.Parts{
		hl.Nor(1)("a=disable, b=tick, out=tick"),
	})
	if err != nil {
		t.Fatal(err)
	}
	c, err := hw.NewCircuit(0, clk)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	disable, _ := c.Lookup("disable")
	tick, _ := c.Lookup("tick")

	check := func(v uint32) {
		t.Helper()
		c.Step()
		if got := c.Get(tick); got != v {
			t.Errorf("step %d: expected %v, got %v", c.Steps(), v, got)
		}
	}

	c.Poke(disable, 0, 1)
	check(0)
	check(0)

	c.Poke(disable, 0, 0)
	// the clock starts ticking now.
	check(1)
	check(0)
	check(1)

	c.Poke(disable, 0, 1)
	// the clock stops ticking now.
	check(0)
	check(0)

	if n, ok := c.Settle(4); !ok || n != 1 {
		t.Errorf("Settle: got %d, %v", n, ok)
	}
	c.Poke(disable, 0, 0)
	if n, ok := c.Settle(10); ok || n != 10 {
		t.Errorf("Settle: got %d, %v", n, ok)
	}
}

func TestCircuit_words(t *testing.T) {
	var n int
	p := &hw.PartSpec{
		Name:    "Words",
		Outputs: hw.Out("w[80]"),
		Mount: func(s *hw.Socket) []hw.Component {
			n = s.Net("w")
			return nil
		},
	}
	c, err := hw.NewCircuit(1, p)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	if c.Width(n) != 80 || c.WordCount(n) != 3 || c.Name(n) != "w" {
		t.Fatalf("bad net %q: width %d, %d words", c.Name(n), c.Width(n), c.WordCount(n))
	}
	c.Poke(n, 0, 0xffffffff)
	c.Poke(n, 2, 0xffffffff)
	c.Poke(n, 3, 1) // ignored
	if got := c.Words(n); got[0] != 0xffffffff || got[1] != 0 || got[2] != 0xffff {
		t.Errorf("Poke: got %#x", got)
	}
	if got := c.Get64(n); got != 0xffffffff {
		t.Errorf("Get64: got %#x", got)
	}
	if !c.Bit(n, 79) || c.Bit(n, 40) || c.Bit(n, 80) {
		t.Error("Bit: unexpected value")
	}
	if c.Size() != 0 || len(c.Nets()) != 1 {
		t.Errorf("Size = %d, Nets = %v", c.Size(), c.Nets())
	}
}

func TestNewCircuit_errors(t *testing.T) {
	td := []struct {
		name string
		top  *hw.PartSpec
		err  string
	}{
		{"nil", nil, "nil top part"},
		{"dup", &hw.PartSpec{Name: "dup", Inputs: hw.In("a"), Outputs: hw.Out("a"),
			Mount: func(*hw.Socket) []hw.Component { return nil }}, `duplicate port "a" in dup`},
		{"panic", &hw.PartSpec{Name: "bad", Inputs: hw.In("a"),
			Mount: func(s *hw.Socket) []hw.Component { s.Net("nope"); return nil }}, `mount bad: net "nope" does not exist`},
		{"mem", &hw.PartSpec{Name: "mem",
			Mount: func(s *hw.Socket) []hw.Component {
				s.Memory("m", 8, 2)
				s.Memory("m", 8, 2)
				return nil
			}}, `mount mem: duplicate memory "m"`},
		{"width", &hw.PartSpec{Name: "width", Inputs: hw.In("a[4]"),
			Mount: func(s *hw.Socket) []hw.Component { s.NetOrNew("a", 8); return nil }}, `mount width: net "a": width mismatch 4 != 8`},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := hw.NewCircuit(0, d.top)
			if err == nil {
				c.Dispose()
				t.Fatalf("expected error %q", d.err)
			}
			if !strings.HasPrefix(err.Error(), d.err) {
				t.Errorf("got error %q, expected %q", err, d.err)
			}
		})
	}
}
