// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim_test

import (
	"testing"

	hw "github.com/db47h/hwbind/hwsim"
	hl "github.com/db47h/hwbind/hwsim/hwlib"
	"github.com/db47h/hwbind/hwtest"
	"github.com/google/go-cmp/cmp"
)

type testPart struct {
	A     int `hw:"in,a,32"`
	B     int `hw:"in,b,32"`
	Sel   int `hw:"in"`
	Out   int `hw:"out,,32"`
	state int // ignored
}

func (t *testPart) Update(c *hw.Circuit) {
	if c.Get(t.Sel) != 0 {
		c.Set(t.Out, c.Get(t.B))
	} else {
		c.Set(t.Out, c.Get(t.A))
	}
}

func Test_MakePart(t *testing.T) {
	p := hw.MakePart((*testPart)(nil))
	if p.Name != "testPart" {
		t.Errorf("name = %q", p.Name)
	}
	if diff := cmp.Diff(hw.In("a[32], b[32], sel"), p.Inputs); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(hw.Out("out[32]"), p.Outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
	hwtest.Compare(t, hwtest.CompareConfig{Cycles: 100}, target(t, hl.Mux(32)("").PartSpec), target(t, p))
}

type badTag struct {
	A int `hw:"inout"`
}

func (badTag) Update(*hw.Circuit) {}

type badType struct {
	A uint32 `hw:"in"`
}

func (badType) Update(*hw.Circuit) {}

type badWidth struct {
	A int `hw:"in,a,0"`
}

func (badWidth) Update(*hw.Circuit) {}

type notStruct int

func (notStruct) Update(*hw.Circuit) {}

func Test_MakePart_panics(t *testing.T) {
	for _, u := range []hw.Updater{badTag{}, badType{}, &badWidth{}, notStruct(0)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%T: expected panic", u)
				}
			}()
			hw.MakePart(u)
		}()
	}
}
