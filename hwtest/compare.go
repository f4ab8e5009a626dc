// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing models driven
// through hwbind.
//
package hwtest

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwbind"
)

// Target is a model instance of a Binding.
//
type Target struct {
	B *hwbind.Binding
	H hwbind.Handle
}

// CompareConfig configures Compare.
//
type CompareConfig struct {
	Cycles int      // number of random cycles
	Clock  string   // clock input toggled low then high each cycle; if empty, each cycle is a single Eval
	Fixed  []string // inputs left untouched
	Seed   int64    // random seed; 0 means seeded from the current time
}

func randValue(r *rand.Rand, width uint32) *big.Int {
	v := new(big.Int)
	var w big.Int
	for i := 0; i < hwbind.WordCount(width); i++ {
		v.Lsh(v, hwbind.WordBits)
		v.Or(v, w.SetUint64(uint64(r.Uint32())))
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return v.Mod(v, m)
}

// Compare takes two model instances and compares their outputs given the
// same inputs. Both models must have the same inputs and outputs.
//
// The first cycle drives all inputs to zero, the second to all ones, the
// following ones to random values.
//
func Compare(t testing.TB, cfg CompareConfig, ref, dut Target) {
	t.Helper()

	rt, dt := ref.B.Table(), dut.B.Table()
	ins, outs := rt.Role(hwbind.Input), rt.Role(hwbind.Output)
	if di, do := dt.Role(hwbind.Input), dt.Role(hwbind.Output); len(di) != len(ins) || len(do) != len(outs) {
		t.Fatalf("interface mismatch: %d/%d inputs, %d/%d outputs", len(ins), len(di), len(outs), len(do))
	}
	for _, s := range append(ins, outs...) {
		d, ok := dt.Signal(s.Name)
		if !ok || d.Width != s.Width || d.Role != s.Role {
			t.Fatalf("signal %q: mismatch %+v / %+v", s.Name, s, d)
		}
	}

	skip := map[string]bool{cfg.Clock: true}
	for _, f := range cfg.Fixed {
		skip[f] = true
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	values := make(map[string]*big.Int)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	set := func(name string, v *big.Int) {
		t.Helper()
		must(ref.B.SetBig(ref.H, name, v))
		must(dut.B.SetBig(dut.H, name, v))
	}
	eval := func() {
		t.Helper()
		must(ref.B.Eval(ref.H))
		must(dut.B.Eval(dut.H))
	}
	inString := func() string {
		var b strings.Builder
		for _, s := range ins {
			if v, ok := values[s.Name]; ok {
				if b.Len() > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s=%#x", s.Name, v)
			}
		}
		return b.String()
	}

	for c := 0; c < cfg.Cycles; c++ {
		for _, s := range ins {
			if skip[s.Name] {
				continue
			}
			var v *big.Int
			switch c {
			case 0:
				v = new(big.Int)
			case 1:
				v = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(s.Width)), big.NewInt(1))
			default:
				v = randValue(r, s.Width)
			}
			values[s.Name] = v
			set(s.Name, v)
		}
		if cfg.Clock != "" {
			set(cfg.Clock, big.NewInt(0))
			eval()
			set(cfg.Clock, big.NewInt(1))
		}
		eval()
		for _, s := range outs {
			ex, err := ref.B.GetBig(ref.H, s.Name)
			must(err)
			got, err := dut.B.GetBig(dut.H, s.Name)
			must(err)
			if ex.Cmp(got) != 0 {
				t.Fatalf("cycle %d (seed %d): %s\nexpected %s=%#x\ngot %#x", c, seed, inString(), s.Name, ex, got)
			}
		}
	}
}
