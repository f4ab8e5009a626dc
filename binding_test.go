// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind_test

import (
	"math/big"
	"testing"
	"testing/quick"

	"github.com/db47h/hwbind"
	"github.com/db47h/hwbind/hwtest"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

var testTable = hwbind.MustTable(hwbind.Descriptor{
	Module: "mkTest",
	Signals: []hwbind.Signal{
		{Name: "CLK", Width: 1, Role: hwbind.Input},
		{Name: "RST_N", Width: 1, Role: hwbind.Input},
		{Name: "a", Width: 32, Role: hwbind.Input},
		{Name: "b8", Width: 8, Role: hwbind.Input},
		{Name: "w", Width: 64, Role: hwbind.Input},
		{Name: "x80", Width: 80, Role: hwbind.Input},
		{Name: "FORCE_FIRE", Width: 8, Role: hwbind.Input},
		{Name: "BLOCK_FIRE", Width: 8, Role: hwbind.Input},
		{Name: "CAN_FIRE", Width: 8, Role: hwbind.Output},
		{Name: "out", Width: 32, Role: hwbind.Output},
		{Name: "state", Width: 40, Role: hwbind.Internal},
	},
	Arrays: []hwbind.Array{
		{Name: "mem64", Width: 64, Depth: 4},
		{Name: "mem96", Width: 96, Depth: 2},
		{Name: "mem8", Width: 8, Depth: 3},
	},
	Rules: []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"},
})

func newBinding(t *testing.T, onEval func(*hwtest.Bank), opts ...hwbind.Option) (*hwbind.Binding, hwbind.Handle, *hwtest.Bank) {
	t.Helper()
	var bank *hwtest.Bank
	b, err := hwbind.New(testTable, func() (hwbind.Model, error) {
		bank = hwtest.NewBank(testTable)
		bank.OnEval = onEval
		return bank, nil
	}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	h, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	return b, h, bank
}

func checkKind(t *testing.T, err error, k hwbind.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", k)
	}
	if !errors.Is(err, hwbind.ErrOutOfContract) {
		t.Fatalf("error %v does not match ErrOutOfContract", err)
	}
	if got := hwbind.KindOf(err); got != k {
		t.Fatalf("error kind = %v, expected %v (%v)", got, k, err)
	}
}

func TestScalar_roundTrip(t *testing.T) {
	b, h, _ := newBinding(t, nil)
	f := func(v uint32) bool {
		if err := b.Set32(h, "a", v); err != nil {
			t.Log(err)
			return false
		}
		got, err := b.Get32(h, "a")
		return err == nil && got == v
	}
	for _, v := range []uint32{0, 1, 0x80000000, 0xffffffff} {
		if !f(v) {
			t.Errorf("round trip failed for %#x", v)
		}
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
	g := func(v uint64) bool {
		if err := b.Set64(h, "w", v); err != nil {
			return false
		}
		got, err := b.Get64(h, "w")
		return err == nil && got == v
	}
	if err := quick.Check(g, nil); err != nil {
		t.Error(err)
	}
}

func TestScalar_truncation(t *testing.T) {
	b, h, _ := newBinding(t, nil)
	if err := b.Set32(h, "b8", 0x1ff); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get32(h, "b8"); v != 0xff {
		t.Errorf("b8 = %#x, expected 0xff", v)
	}
}

func TestMultiWord(t *testing.T) {
	b, h, bank := newBinding(t, nil)
	words := []uint32{0xAAAAAAAA, 0xBBBBBBBB, 0x000000CC}
	for i, w := range words {
		if err := b.SetWord(h, "x80", uint32(i), w); err != nil {
			t.Fatal(err)
		}
	}
	for i, w := range words {
		got, err := b.GetWord(h, "x80", uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("word %d = %#x, expected %#x", i, got, w)
		}
	}
	// top word is truncated to 16 bits by the model
	if err := b.SetWord(h, "x80", 2, 0x1234CCCC); err != nil {
		t.Fatal(err)
	}
	if got := bank.Words("x80"); got[2] != 0xCCCC || got[0] != words[0] || got[1] != words[1] {
		t.Errorf("words = %#x", got)
	}
	v, err := b.GetBig(h, "x80")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := new(big.Int).SetString("CCCCBBBBBBBBAAAAAAAA", 16)
	if v.Cmp(want) != 0 {
		t.Errorf("GetBig = %#x, expected %#x", v, want)
	}
}

func TestBig(t *testing.T) {
	b, h, _ := newBinding(t, nil)
	td := []struct {
		name string
		v    string
		want string
	}{
		{"b8", "1ff", "ff"},
		{"a", "deadbeef", "deadbeef"},
		{"w", "123456789abcdef0", "123456789abcdef0"},
		{"x80", "ffff0123456789abcdef", "ffff0123456789abcdef"},
		{"x80", "1ffff0123456789abcdef", "ffff0123456789abcdef"},
	}
	for _, d := range td {
		v, _ := new(big.Int).SetString(d.v, 16)
		if err := b.SetBig(h, d.name, v); err != nil {
			t.Fatal(err)
		}
		got, err := b.GetBig(h, d.name)
		if err != nil {
			t.Fatal(err)
		}
		if got.Text(16) != d.want {
			t.Errorf("%s: got %s, expected %s", d.name, got.Text(16), d.want)
		}
	}
	if err := b.SetBig(h, "a", big.NewInt(-1)); err == nil {
		t.Error("expected error on negative value")
	}
	if err := b.SetBig(h, "a", nil); err == nil {
		t.Error("expected error on nil value")
	}
}

func TestRuleBits(t *testing.T) {
	b, h, bank := newBinding(t, nil)
	bank.Set("FORCE_FIRE", 0xA5)
	get := func() []bool {
		t.Helper()
		r := make([]bool, 8)
		for i := range r {
			v, err := b.GetBit(h, "FORCE_FIRE", uint32(i))
			if err != nil {
				t.Fatal(err)
			}
			r[i] = v
		}
		return r
	}
	before := get()
	if err := b.SetBit(h, "FORCE_FIRE", 3, true); err != nil {
		t.Fatal(err)
	}
	after := get()
	for i := range after {
		if i == 3 {
			if !after[i] {
				t.Error("bit 3 not set")
			}
		} else if after[i] != before[i] {
			t.Errorf("bit %d changed", i)
		}
	}
	if err := b.SetBit(h, "FORCE_FIRE", 3, false); err != nil {
		t.Fatal(err)
	}
	after = get()
	for i := range after {
		if i == 3 {
			if after[i] {
				t.Error("bit 3 not cleared")
			}
		} else if after[i] != before[i] {
			t.Errorf("bit %d changed", i)
		}
	}
	if v, _ := b.Get32(h, "FORCE_FIRE"); v != 0xA5 {
		t.Errorf("FORCE_FIRE = %#x, expected 0xa5", v)
	}

	rs, err := b.ListBits(h, "FORCE_FIRE")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, r := range rs {
		names = append(names, r.Name)
	}
	if len(names) != 4 || names[0] != "r0" || names[1] != "r2" || names[2] != "r5" || names[3] != "r7" {
		t.Errorf("ListBits = %v", names)
	}

	if err = b.FireOnly(h, "BLOCK_FIRE", "r2", "r5"); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get32(h, "BLOCK_FIRE"); v != 0xDB {
		t.Errorf("BLOCK_FIRE = %#x, expected 0xdb", v)
	}
	// no partial update on error
	checkKind(t, b.FireOnly(h, "BLOCK_FIRE", "r1", "nope"), hwbind.UnknownName)
	if v, _ := b.Get32(h, "BLOCK_FIRE"); v != 0xDB {
		t.Errorf("BLOCK_FIRE = %#x after failed FireOnly", v)
	}
}

func TestRuleBits_multiWord(t *testing.T) {
	var rules []string
	for i := 0; i < 40; i++ {
		rules = append(rules, "rule"+string(rune('A'+i/26))+string(rune('a'+i%26)))
	}
	tb := hwbind.MustTable(hwbind.Descriptor{
		Module: "mkBig",
		Signals: []hwbind.Signal{
			{Name: "BLOCK_FIRE", Width: 40, Role: hwbind.Input},
			{Name: "WIDE_FIRE", Width: 100, Role: hwbind.Input},
		},
		Rules: rules,
	})
	b, err := hwbind.New(tb, hwtest.NewModelFn(tb, nil))
	if err != nil {
		t.Fatal(err)
	}
	h, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	if err = b.SetBit(h, "BLOCK_FIRE", 35, true); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get64(h, "BLOCK_FIRE"); v != 1<<35 {
		t.Errorf("BLOCK_FIRE = %#x", v)
	}
	if err = b.SetBit(h, "BLOCK_FIRE", 3, true); err != nil {
		t.Fatal(err)
	}
	if err = b.SetBit(h, "BLOCK_FIRE", 35, false); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get64(h, "BLOCK_FIRE"); v != 1<<3 {
		t.Errorf("BLOCK_FIRE = %#x", v)
	}
	if err = b.SetBit(h, "WIDE_FIRE", 39, true); err != nil {
		t.Fatal(err)
	}
	if w, _ := b.GetWord(h, "WIDE_FIRE", 1); w != 1<<7 {
		t.Errorf("WIDE_FIRE word 1 = %#x", w)
	}
	if v, _ := b.GetBit(h, "WIDE_FIRE", 39); !v {
		t.Error("WIDE_FIRE bit 39 not set")
	}
	// rule domain is 40 even if the vector is wider
	_, err = b.GetBit(h, "WIDE_FIRE", 40)
	checkKind(t, err, hwbind.InvalidIndex)
}

func TestArray(t *testing.T) {
	b, h, bank := newBinding(t, nil)
	sentinels := []uint64{0x1111111100000001, 0x2222222200000002, 0x3333333300000003, 0x4444444400000004}
	for i, v := range sentinels {
		bank.Poke("mem64", i, uint32(v), uint32(v>>32))
	}
	for i, v := range sentinels {
		got, err := b.GetElem64(h, "mem64", uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Errorf("mem64[%d] = %#x, expected %#x", i, got, v)
		}
	}
	bank.Poke("mem8", 2, 0x1AB)
	if v, err := b.GetElem32(h, "mem8", 2); err != nil || v != 0xAB {
		t.Errorf("mem8[2] = %#x, %v", v, err)
	}
	bank.Poke("mem96", 1, 10, 11, 12)
	bank.Poke("mem96", 0, 20, 21, 22)
	for w := uint32(0); w < 3; w++ {
		v, err := b.GetElemWord(h, "mem96", w, 1)
		if err != nil {
			t.Fatal(err)
		}
		if v != 10+w {
			t.Errorf("mem96[1] word %d = %d, expected %d", w, v, 10+w)
		}
	}
}

func TestOutOfContract(t *testing.T) {
	b, h, _ := newBinding(t, nil)
	td := []struct {
		name string
		fn   func() error
		kind hwbind.Kind
	}{
		{"Set32 output", func() error { return b.Set32(h, "out", 1) }, hwbind.RoleViolation},
		{"Set32 array", func() error { return b.Set32(h, "mem8", 1) }, hwbind.RoleViolation},
		{"SetWord internal", func() error { return b.SetWord(h, "state", 0, 1) }, hwbind.RoleViolation},
		{"SetBit output", func() error { return b.SetBit(h, "CAN_FIRE", 0, true) }, hwbind.RoleViolation},
		{"Get32 wide", func() error { _, err := b.Get32(h, "w"); return err }, hwbind.ClassMismatch},
		{"Get64 narrow", func() error { _, err := b.Get64(h, "a"); return err }, hwbind.ClassMismatch},
		{"Set64 narrow", func() error { return b.Set64(h, "a", 1) }, hwbind.ClassMismatch},
		{"GetWord narrow", func() error { _, err := b.GetWord(h, "a", 0); return err }, hwbind.ClassMismatch},
		{"Get32 array", func() error { _, err := b.Get32(h, "mem8"); return err }, hwbind.ClassMismatch},
		{"GetElem32 scalar", func() error { _, err := b.GetElem32(h, "a", 0); return err }, hwbind.ClassMismatch},
		{"GetElem32 wide", func() error { _, err := b.GetElem32(h, "mem64", 0); return err }, hwbind.ClassMismatch},
		{"Get32 unknown", func() error { _, err := b.Get32(h, "nope"); return err }, hwbind.UnknownName},
		{"GetElem64 unknown", func() error { _, err := b.GetElem64(h, "nope", 0); return err }, hwbind.UnknownName},
		{"GetWord index", func() error { _, err := b.GetWord(h, "x80", 3); return err }, hwbind.InvalidIndex},
		{"SetWord index", func() error { return b.SetWord(h, "x80", 3, 0) }, hwbind.InvalidIndex},
		{"GetElem64 index", func() error { _, err := b.GetElem64(h, "mem64", 4); return err }, hwbind.InvalidIndex},
		{"GetElemWord word", func() error { _, err := b.GetElemWord(h, "mem96", 3, 0); return err }, hwbind.InvalidIndex},
		{"GetElemWord index", func() error { _, err := b.GetElemWord(h, "mem96", 0, 2); return err }, hwbind.InvalidIndex},
		{"GetBit rule", func() error { _, err := b.GetBit(h, "CAN_FIRE", 8); return err }, hwbind.InvalidIndex},
		{"SetBit rule", func() error { return b.SetBit(h, "FORCE_FIRE", 8, true) }, hwbind.InvalidIndex},
		{"GetBit narrow vector", func() error { _, err := b.GetBit(h, "CLK", 1); return err }, hwbind.InvalidIndex},
		{"Eval zero handle", func() error { return b.Eval(hwbind.Handle{}) }, hwbind.InvalidHandle},
		{"Get32 zero handle", func() error { _, err := b.Get32(hwbind.Handle{}, "a"); return err }, hwbind.InvalidHandle},
		{"StopTrace zero handle", func() error { return b.StopTrace(hwbind.TraceHandle{}) }, hwbind.InvalidHandle},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			checkKind(t, d.fn(), d.kind)
		})
	}
}

func TestEvalOrdering(t *testing.T) {
	b, h, _ := newBinding(t, func(bank *hwtest.Bank) {
		bank.Set("out", bank.Words("a")...)
	})
	if err := b.Set32(h, "a", 42); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get32(h, "out"); v != 0 {
		t.Errorf("out = %d before Eval", v)
	}
	if err := b.Eval(h); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get32(h, "out"); v != 42 {
		t.Errorf("out = %d after Eval, expected 42", v)
	}
	if ts, _ := b.Time(h); ts != 1 {
		t.Errorf("Time = %d, expected 1", ts)
	}
}

func TestLifecycle(t *testing.T) {
	b, h, bank := newBinding(t, nil)
	if err := b.Set32(h, "a", 7); err != nil {
		t.Fatal(err)
	}
	if err := b.Destruct(h); err != nil {
		t.Fatal(err)
	}
	if !bank.Closed {
		t.Error("model not closed")
	}
	td := []struct {
		name string
		fn   func() error
	}{
		{"Get32", func() error { _, err := b.Get32(h, "a"); return err }},
		{"Set32", func() error { return b.Set32(h, "a", 1) }},
		{"Get64", func() error { _, err := b.Get64(h, "w"); return err }},
		{"GetWord", func() error { _, err := b.GetWord(h, "x80", 0); return err }},
		{"GetElem64", func() error { _, err := b.GetElem64(h, "mem64", 0); return err }},
		{"GetBit", func() error { _, err := b.GetBit(h, "CAN_FIRE", 0); return err }},
		{"Eval", func() error { return b.Eval(h) }},
		{"Time", func() error { _, err := b.Time(h); return err }},
		{"StartTrace", func() error { _, err := b.StartTrace(h, "x.vcd"); return err }},
		{"Destruct", func() error { return b.Destruct(h) }},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			checkKind(t, d.fn(), hwbind.InvalidHandle)
		})
	}

	// slot reuse must not revive the stale handle
	h2, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h {
		t.Fatal("new handle equals destructed one")
	}
	_, err = b.Get32(h, "a")
	checkKind(t, err, hwbind.InvalidHandle)
	if v, err := b.Get32(h2, "a"); err != nil || v != 0 {
		t.Errorf("new instance a = %d, %v", v, err)
	}
	if hh := hwbind.HandleFromUint64(h2.Uint64()); hh != h2 {
		t.Errorf("Uint64 round trip: %v != %v", hh, h2)
	}
}

func TestReset(t *testing.T) {
	type half struct{ rst, clk uint32 }
	var seen []half
	var bank *hwtest.Bank
	b, err := hwbind.New(testTable, func() (hwbind.Model, error) {
		bank = hwtest.NewBank(testTable)
		bank.Set("FORCE_FIRE", 0xff)
		bank.Set("BLOCK_FIRE", 0x0f)
		bank.OnEval = func(b *hwtest.Bank) {
			seen = append(seen, half{b.Words("RST_N")[0], b.Words("CLK")[0]})
		}
		return bank, nil
	}, hwbind.WithReset(hwbind.AutoReset(testTable)))
	if err != nil {
		t.Fatal(err)
	}
	h, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	want := []half{{0, 0}, {0, 1}, {0, 0}, {0, 1}, {0, 0}, {0, 1}, {1, 1}}
	if len(seen) != len(want) {
		t.Fatalf("got %d evals, expected %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("half cycle %d: got %+v, expected %+v", i, seen[i], want[i])
		}
	}
	for _, n := range []string{"FORCE_FIRE", "BLOCK_FIRE"} {
		if v, _ := b.Get32(h, n); v != 0 {
			t.Errorf("%s = %#x after reset", n, v)
		}
	}
	if ts, _ := b.Time(h); ts != uint64(len(want)) {
		t.Errorf("Time = %d after reset, expected %d", ts, len(want))
	}
	if err = b.Eval(h); err != nil {
		t.Fatal(err)
	}
	if ts, _ := b.Time(h); ts != uint64(len(want))+1 {
		t.Errorf("Time = %d after first Eval, expected %d", ts, len(want)+1)
	}
}

func TestReset_invalid(t *testing.T) {
	_, err := hwbind.New(testTable, hwtest.NewModelFn(testTable, nil),
		hwbind.WithReset(&hwbind.ResetSequence{Clock: "CLK", Reset: "out"}))
	if err == nil {
		t.Error("expected error for output reset line")
	}
	noClk := hwbind.MustTable(hwbind.Descriptor{Signals: []hwbind.Signal{{Name: "RST_N", Width: 1}}})
	if r := hwbind.AutoReset(noClk); r != nil {
		t.Errorf("AutoReset = %+v, expected nil", r)
	}
}

func TestTrace(t *testing.T) {
	b, h, bank := newBinding(t, nil)
	th, err := b.StartTrace(h, "test.vcd")
	if err != nil {
		t.Fatal(err)
	}
	if err = b.AppendTrace(th, 5); err != nil {
		t.Fatal(err)
	}
	if err = b.AppendTrace(th, 10); err != nil {
		t.Fatal(err)
	}
	if err = b.FlushTrace(th); err != nil {
		t.Fatal(err)
	}
	checkKind(t, b.Destruct(h), hwbind.TraceActive)
	// h is still usable
	if err = b.Eval(h); err != nil {
		t.Fatal(err)
	}
	if err = b.StopTrace(th); err != nil {
		t.Fatal(err)
	}
	mt := bank.Traces[0]
	if mt.Path != "test.vcd" || len(mt.Dumps) != 2 || mt.Dumps[1] != 10 || mt.Flushes != 1 || !mt.Closed {
		t.Errorf("unexpected trace state %+v", mt)
	}
	checkKind(t, b.AppendTrace(th, 15), hwbind.InvalidHandle)
	checkKind(t, b.StopTrace(th), hwbind.InvalidHandle)
	if err = b.Destruct(h); err != nil {
		t.Fatal(err)
	}
}

func TestTrace_unsupported(t *testing.T) {
	type plain struct{ hwbind.Model }
	b, err := hwbind.New(testTable, func() (hwbind.Model, error) {
		return plain{hwtest.NewBank(testTable)}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	h, err := b.Construct()
	if err != nil {
		t.Fatal(err)
	}
	if _, err = b.StartTrace(h, "x.vcd"); err == nil {
		t.Fatal("expected error")
	}
	if hwbind.KindOf(err) != hwbind.NoError {
		t.Errorf("unexpected out-of-contract error %v", err)
	}
}

// Model instances must not share simulation time.
//
func TestInstances(t *testing.T) {
	b, err := hwbind.New(testTable, hwtest.NewModelFn(testTable, func(bank *hwtest.Bank) {
		bank.Set("out", bank.Words("a")...)
	}))
	if err != nil {
		t.Fatal(err)
	}
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		n := i
		g.Go(func() error {
			h, err := b.Construct()
			if err != nil {
				return err
			}
			if err = b.Set32(h, "a", uint32(n)); err != nil {
				return err
			}
			for j := 0; j <= n; j++ {
				if err = b.Eval(h); err != nil {
					return err
				}
			}
			ts, err := b.Time(h)
			if err != nil {
				return err
			}
			if ts != uint64(n+1) {
				return errors.Errorf("instance %d: time = %d", n, ts)
			}
			if v, _ := b.Get32(h, "out"); v != uint32(n) {
				return errors.Errorf("instance %d: out = %d", n, v)
			}
			return b.Destruct(h)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b, h, _ := newBinding(t, nil, hwbind.WithLogger(zap.New(core)), hwbind.WithReset(hwbind.AutoReset(testTable)))
	if err := b.Destruct(h); err != nil {
		t.Fatal(err)
	}
	var msgs []string
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
		if m, ok := e.ContextMap()["module"]; !ok || m != "mkTest" {
			t.Errorf("%q: missing module field", e.Message)
		}
	}
	exp := []string{"reset sequence done", "model constructed", "model destructed"}
	if len(msgs) != len(exp) {
		t.Fatalf("got log messages %q, expected %q", msgs, exp)
	}
	for i := range exp {
		if msgs[i] != exp[i] {
			t.Errorf("message %d = %q, expected %q", i, msgs[i], exp[i])
		}
	}
}
