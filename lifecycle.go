// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ResetSequence describes the clock/reset sequence run by Construct.
//
// Every vector in Zero is cleared, then Reset is held low for three clock
// cycles, each made of a low and a high half cycle with an evaluation after
// each. Finally Reset is released with Clock high and the model is evaluated
// once more. The model is left with Reset = 1 and Clock = 1.
//
// The sequence matches the reset convention of Bluespec generated Verilog
// (active low reset, registers reset on the rising clock edge).
//
type ResetSequence struct {
	Clock string
	Reset string
	Zero  []string
}

// BluespecReset is the reset sequence for Bluespec designs with scheduling
// control vectors.
//
var BluespecReset = ResetSequence{
	Clock: "CLK",
	Reset: "RST_N",
	Zero:  []string{"FORCE_FIRE", "BLOCK_FIRE"},
}

// AutoReset returns the subset of BluespecReset applicable to t, or nil if t
// has no CLK and RST_N inputs. Control vectors missing from t are not zeroed.
//
func AutoReset(t *Table) *ResetSequence {
	isInput := func(name string) bool {
		s, ok := t.Signal(name)
		return ok && s.Role == Input
	}
	if !isInput(BluespecReset.Clock) || !isInput(BluespecReset.Reset) {
		return nil
	}
	r := &ResetSequence{Clock: BluespecReset.Clock, Reset: BluespecReset.Reset}
	for _, z := range BluespecReset.Zero {
		if isInput(z) {
			r.Zero = append(r.Zero, z)
		}
	}
	return r
}

func (r *ResetSequence) check(t *Table) error {
	for _, n := range append([]string{r.Clock, r.Reset}, r.Zero...) {
		s, ok := t.Signal(n)
		if !ok {
			return errors.Errorf("no such signal %q", n)
		}
		if s.Role != Input {
			return errors.Errorf("signal %q is not an input", n)
		}
	}
	return nil
}

// run applies the sequence to m and returns the number of evaluations.
func (r *ResetSequence) run(t *Table, m Model) uint64 {
	for _, n := range r.Zero {
		s, _ := t.Signal(n)
		for w := 0; w < s.Words(); w++ {
			m.Store(n, w, 0)
		}
	}
	var n uint64
	drive := func(rst, clk uint32) {
		m.Store(r.Reset, 0, rst)
		m.Store(r.Clock, 0, clk)
		m.Eval()
		n++
	}
	for i := 0; i < 3; i++ {
		drive(0, 0)
		drive(0, 1)
	}
	drive(1, 1)
	return n
}

// Construct creates a new model instance and returns its handle. If the
// Binding has a reset sequence, it is run before Construct returns. Each
// evaluation of the reset sequence advances the simulation time, so Time
// returns 7 right after a reset.
//
func (b *Binding) Construct() (Handle, error) {
	m, err := b.newFn()
	if err != nil {
		return Handle{}, errors.Wrapf(err, "construct %s", b.t.module)
	}
	if m == nil {
		return Handle{}, errors.Errorf("construct %s: nil model", b.t.module)
	}
	var t0 uint64
	if b.reset != nil {
		t0 = b.reset.run(b.t, m)
		b.log.Debug("reset sequence done",
			zap.String("clock", b.reset.Clock),
			zap.String("reset", b.reset.Reset))
	}
	h := b.alloc(m, t0)
	b.log.Debug("model constructed", zap.Uint64("handle", h.Uint64()))
	return h, nil
}

// Eval advances the model by one evaluation step and increments its
// simulation time. All Set calls for a step must precede Eval; Get calls
// observe the state as of the last Eval.
//
func (b *Binding) Eval(h Handle) error {
	in, err := b.model("Eval", h)
	if err != nil {
		return err
	}
	in.m.Eval()
	in.time++
	return nil
}

// Time returns the number of evaluations of h since it was constructed,
// reset sequence included.
//
func (b *Binding) Time(h Handle) (uint64, error) {
	in, err := b.model("Time", h)
	if err != nil {
		return 0, err
	}
	return in.time, nil
}

// Destruct releases the model instance identified by h and invalidates h.
// All traces of the model must have been stopped, otherwise Destruct fails
// with a TraceActive error and h remains valid.
//
// If closing the model fails, h is invalidated anyway and the error is
// returned.
//
func (b *Binding) Destruct(h Handle) error {
	b.mu.Lock()
	if h.gen == 0 || int(h.slot) >= len(b.models) || b.models[h.slot].gen != h.gen || b.models[h.slot].m == nil {
		b.mu.Unlock()
		return outOfContract(InvalidHandle, "Destruct", "", -1)
	}
	in := b.models[h.slot]
	if in.traces > 0 {
		b.mu.Unlock()
		return outOfContract(TraceActive, "Destruct", "", int64(in.traces))
	}
	m := in.m
	in.m = nil
	in.gen++
	if in.gen == 0 {
		in.gen = 1
	}
	b.free = append(b.free, h.slot)
	b.mu.Unlock()

	err := m.Close()
	if err != nil {
		b.log.Warn("model close failed", zap.Uint64("handle", h.Uint64()), zap.Error(err))
		return errors.Wrapf(err, "destruct %s", b.t.module)
	}
	b.log.Debug("model destructed", zap.Uint64("handle", h.Uint64()))
	return nil
}
