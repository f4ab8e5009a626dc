// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A Handle identifies one live model instance of a Binding. The zero Handle
// is never valid. A Handle is invalidated by Destruct; reusing it afterwards
// yields an InvalidHandle error, even if its slot has been recycled.
//
type Handle struct {
	slot uint32
	gen  uint32
}

// IsZero returns true for the zero Handle.
//
func (h Handle) IsZero() bool { return h.gen == 0 }

// Uint64 packs h into an opaque integer suitable for foreign callers.
//
func (h Handle) Uint64() uint64 { return uint64(h.slot)<<32 | uint64(h.gen) }

// HandleFromUint64 unpacks a Handle packed with Handle.Uint64.
//
func HandleFromUint64(v uint64) Handle { return Handle{slot: uint32(v >> 32), gen: uint32(v)} }

type instance struct {
	gen    uint32
	m      Model // nil once destructed
	time   uint64
	traces int
}

// Binding marshals host accesses to the signals of a model class described by
// a Table. It owns every model instance it constructs.
//
// Accesses to a given Handle must not be issued concurrently; callers that
// share a Handle across goroutines must provide their own mutual exclusion.
// Distinct handles may be used from distinct goroutines.
//
type Binding struct {
	t     *Table
	newFn NewModelFn
	reset *ResetSequence
	log   *zap.Logger

	mu     sync.RWMutex
	models []*instance
	free   []uint32
	traces []*trace
	tfree  []uint32
}

// An Option configures a Binding.
//
type Option func(b *Binding)

// WithLogger sets the logger of a Binding.
//
func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) { b.log = l }
}

// WithReset makes Construct run the reset sequence r on every new model.
// A nil r disables the reset sequence.
//
func WithReset(r *ResetSequence) Option {
	return func(b *Binding) { b.reset = r }
}

// New returns a new Binding for models of table t created by fn.
//
func New(t *Table, fn NewModelFn, opts ...Option) (*Binding, error) {
	if t == nil {
		return nil, errors.New("nil table")
	}
	if fn == nil {
		return nil, errors.New("nil model constructor")
	}
	b := &Binding{t: t, newFn: fn}
	for _, o := range opts {
		o(b)
	}
	if b.log == nil {
		b.log = Logger()
	}
	b.log = b.log.With(zap.String("module", t.module))
	if b.reset != nil {
		if err := b.reset.check(t); err != nil {
			return nil, errors.Wrap(err, "invalid reset sequence")
		}
	}
	return b, nil
}

// Table returns the descriptor table of b.
//
func (b *Binding) Table() *Table { return b.t }

// alloc registers m with simulation time t and returns its handle.
//
func (b *Binding) alloc(m Model, t uint64) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := len(b.free); n > 0 {
		slot := b.free[n-1]
		b.free = b.free[:n-1]
		in := b.models[slot]
		in.m = m
		in.time = t
		in.traces = 0
		return Handle{slot: slot, gen: in.gen}
	}
	b.models = append(b.models, &instance{gen: 1, m: m, time: t})
	return Handle{slot: uint32(len(b.models) - 1), gen: 1}
}

// model returns the live instance for h.
//
func (b *Binding) model(op string, h Handle) (*instance, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if h.gen == 0 || int(h.slot) >= len(b.models) {
		return nil, outOfContract(InvalidHandle, op, "", -1)
	}
	in := b.models[h.slot]
	if in.gen != h.gen || in.m == nil {
		return nil, outOfContract(InvalidHandle, op, "", -1)
	}
	return in, nil
}

// anyClass disables the class check in scalar.
const anyClass Class = 0xff

// scalar resolves a scalar signal access. If set is true, the signal must be
// an input.
//
func (b *Binding) scalar(op string, h Handle, name string, set bool, c Class) (*instance, *Signal, error) {
	in, err := b.model(op, h)
	if err != nil {
		return nil, nil, err
	}
	i, ok := b.t.sigs[name]
	if !ok {
		if _, ok = b.t.arrs[name]; ok {
			if set {
				return nil, nil, outOfContract(RoleViolation, op, name, -1)
			}
			return nil, nil, outOfContract(ClassMismatch, op, name, -1)
		}
		return nil, nil, outOfContract(UnknownName, op, name, -1)
	}
	s := &b.t.signals[i]
	if set && !s.Role.Settable() {
		return nil, nil, outOfContract(RoleViolation, op, name, -1)
	}
	if c != anyClass && s.Class() != c {
		return nil, nil, outOfContract(ClassMismatch, op, name, -1)
	}
	return in, s, nil
}

// array resolves an array element access.
//
func (b *Binding) array(op string, h Handle, name string, c Class, index uint32) (*instance, *Array, error) {
	in, err := b.model(op, h)
	if err != nil {
		return nil, nil, err
	}
	i, ok := b.t.arrs[name]
	if !ok {
		if _, ok = b.t.sigs[name]; ok {
			return nil, nil, outOfContract(ClassMismatch, op, name, -1)
		}
		return nil, nil, outOfContract(UnknownName, op, name, -1)
	}
	a := &b.t.arrays[i]
	if a.Class() != c {
		return nil, nil, outOfContract(ClassMismatch, op, name, -1)
	}
	if index >= a.Depth {
		return nil, nil, outOfContract(InvalidIndex, op, name, int64(index))
	}
	return in, a, nil
}
