// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A TraceHandle identifies an open trace. The zero TraceHandle is never
// valid.
//
type TraceHandle struct {
	slot uint32
	gen  uint32
}

// IsZero returns true for the zero TraceHandle.
//
func (th TraceHandle) IsZero() bool { return th.gen == 0 }

// Uint64 packs th into an opaque integer suitable for foreign callers.
//
func (th TraceHandle) Uint64() uint64 { return uint64(th.slot)<<32 | uint64(th.gen) }

// TraceHandleFromUint64 unpacks a TraceHandle packed with TraceHandle.Uint64.
//
func TraceHandleFromUint64(v uint64) TraceHandle {
	return TraceHandle{slot: uint32(v >> 32), gen: uint32(v)}
}

type trace struct {
	gen   uint32
	sink  TraceSink // nil once stopped
	owner *instance
	path  string
}

// StartTrace opens a waveform trace of model h at path. The model must
// implement Tracer. The trace must be stopped before h is destructed.
//
func (b *Binding) StartTrace(h Handle, path string) (TraceHandle, error) {
	in, err := b.model("StartTrace", h)
	if err != nil {
		return TraceHandle{}, err
	}
	tr, ok := in.m.(Tracer)
	if !ok {
		return TraceHandle{}, errors.Errorf("StartTrace: %s models do not support tracing", b.t.module)
	}
	sink, err := tr.Trace(path)
	if err != nil {
		return TraceHandle{}, errors.Wrapf(err, "StartTrace %q", path)
	}

	b.mu.Lock()
	var th TraceHandle
	if n := len(b.tfree); n > 0 {
		slot := b.tfree[n-1]
		b.tfree = b.tfree[:n-1]
		t := b.traces[slot]
		t.sink, t.owner, t.path = sink, in, path
		th = TraceHandle{slot: slot, gen: t.gen}
	} else {
		b.traces = append(b.traces, &trace{gen: 1, sink: sink, owner: in, path: path})
		th = TraceHandle{slot: uint32(len(b.traces) - 1), gen: 1}
	}
	in.traces++
	b.mu.Unlock()

	b.log.Debug("trace started", zap.String("path", path), zap.Uint64("handle", h.Uint64()))
	return th, nil
}

func (b *Binding) trace(op string, th TraceHandle) (*trace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if th.gen == 0 || int(th.slot) >= len(b.traces) {
		return nil, outOfContract(InvalidHandle, op, "", -1)
	}
	t := b.traces[th.slot]
	if t.gen != th.gen || t.sink == nil {
		return nil, outOfContract(InvalidHandle, op, "", -1)
	}
	return t, nil
}

// AppendTrace records the current state of the traced model at timestamp ts.
//
func (b *Binding) AppendTrace(th TraceHandle, ts uint64) error {
	t, err := b.trace("AppendTrace", th)
	if err != nil {
		return err
	}
	return errors.Wrapf(t.sink.Dump(ts), "AppendTrace %q", t.path)
}

// FlushTrace flushes buffered trace data to the trace file.
//
func (b *Binding) FlushTrace(th TraceHandle) error {
	t, err := b.trace("FlushTrace", th)
	if err != nil {
		return err
	}
	return errors.Wrapf(t.sink.Flush(), "FlushTrace %q", t.path)
}

// StopTrace closes the trace and invalidates th.
//
func (b *Binding) StopTrace(th TraceHandle) error {
	b.mu.Lock()
	if th.gen == 0 || int(th.slot) >= len(b.traces) || b.traces[th.slot].gen != th.gen || b.traces[th.slot].sink == nil {
		b.mu.Unlock()
		return outOfContract(InvalidHandle, "StopTrace", "", -1)
	}
	t := b.traces[th.slot]
	sink, path := t.sink, t.path
	t.owner.traces--
	t.sink, t.owner = nil, nil
	t.gen++
	if t.gen == 0 {
		t.gen = 1
	}
	b.tfree = append(b.tfree, th.slot)
	b.mu.Unlock()

	if err := sink.Close(); err != nil {
		return errors.Wrapf(err, "StopTrace %q", path)
	}
	b.log.Debug("trace stopped", zap.String("path", path))
	return nil
}
