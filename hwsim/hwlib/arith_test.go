// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"
	"testing/quick"

	hl "github.com/db47h/hwbind/hwsim/hwlib"
)

func TestAdd_quick(t *testing.T) {
	b := newBench(t, hl.Add(32)(""))
	f := func(x, y uint32) bool {
		b.set("a", x)
		b.set("b", y)
		b.eval()
		s := uint64(x) + uint64(y)
		return b.get("out")[0] == uint32(s) && b.get("c")[0] == uint32(s>>32)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestArith(t *testing.T) {
	td := []struct {
		name  string
		width uint32
		sub   bool
		a, b  []uint32
		out   []uint32
		c     uint32
	}{
		{"add8", 8, false, []uint32{200}, []uint32{100}, []uint32{44}, 1},
		{"add8/nc", 8, false, []uint32{20}, []uint32{100}, []uint32{120}, 0},
		{"sub8", 8, true, []uint32{1}, []uint32{2}, []uint32{0xff}, 1},
		{"sub8/nb", 8, true, []uint32{5}, []uint32{2}, []uint32{3}, 0},
		{"add64", 64, false, []uint32{0xffffffff, 0xffffffff}, []uint32{1, 0}, []uint32{0, 0}, 1},
		{"add80", 80, false, []uint32{0xffffffff, 0xffffffff, 0}, []uint32{1, 0, 0}, []uint32{0, 0, 1}, 0},
		{"add80/c", 80, false, []uint32{0, 0, 0xffff}, []uint32{0, 0, 1}, []uint32{0, 0, 0}, 1},
		{"sub80", 80, true, []uint32{0, 0, 1}, []uint32{1, 0, 0}, []uint32{0xffffffff, 0xffffffff, 0}, 0},
		{"sub96", 96, true, []uint32{0, 0, 0}, []uint32{1, 0, 0}, []uint32{0xffffffff, 0xffffffff, 0xffffffff}, 1},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			p := hl.Add(d.width)
			if d.sub {
				p = hl.Sub(d.width)
			}
			b := newBench(t, p(""))
			b.set("a", d.a...)
			b.set("b", d.b...)
			b.eval()
			if got := b.get("out"); !equal(got, d.out) {
				t.Errorf("out: got %#x, expected %#x", got, d.out)
			}
			if got := b.get("c")[0]; got != d.c {
				t.Errorf("c: got %d, expected %d", got, d.c)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	eq := newBench(t, hl.Eq(80)(""))
	lt := newBench(t, hl.Lt(80)(""))
	td := []struct {
		a, b   []uint32
		eq, lt uint32
	}{
		{[]uint32{1, 2, 3}, []uint32{1, 2, 3}, 1, 0},
		{[]uint32{1, 2, 3}, []uint32{2, 2, 3}, 0, 1},
		{[]uint32{5, 2, 3}, []uint32{2, 2, 4}, 0, 1},
		{[]uint32{0, 0, 4}, []uint32{0xffffffff, 0xffffffff, 3}, 0, 0},
	}
	for _, d := range td {
		for _, b := range []*bench{eq, lt} {
			b.set("a", d.a...)
			b.set("b", d.b...)
			b.eval()
		}
		if got := eq.get("out")[0]; got != d.eq {
			t.Errorf("%#x == %#x: got %d", d.a, d.b, got)
		}
		if got := lt.get("out")[0]; got != d.lt {
			t.Errorf("%#x < %#x: got %d", d.a, d.b, got)
		}
	}
}
