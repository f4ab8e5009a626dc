// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package capi

func lookupTrace(op string, th uint64) (trace, error) {
	mu.Lock()
	t, ok := traces[th]
	mu.Unlock()
	if !ok {
		return t, badHandle(op)
	}
	return t, nil
}

// StartTrace opens a VCD trace of a model instance.
//
func StartTrace(h uint64, path string, th *uint64) int {
	if th == nil {
		return NullPointer
	}
	m, err := lookup("StartTrace", h)
	if err != nil {
		return status(h, err)
	}
	t, err := m.b.StartTrace(m.h, path)
	if err != nil {
		return status(h, err)
	}
	mu.Lock()
	id := newID()
	traces[id] = trace{m.b, t}
	mu.Unlock()
	*th = id
	return OK
}

// AppendTrace dumps the current signal values at time ts.
//
func AppendTrace(th, ts uint64) int {
	t, err := lookupTrace("AppendTrace", th)
	if err != nil {
		return status(th, err)
	}
	return status(th, t.b.AppendTrace(t.th, ts))
}

// FlushTrace flushes a trace.
//
func FlushTrace(th uint64) int {
	t, err := lookupTrace("FlushTrace", th)
	if err != nil {
		return status(th, err)
	}
	return status(th, t.b.FlushTrace(t.th))
}

// StopTrace closes a trace. The trace handle becomes invalid.
//
func StopTrace(th uint64) int {
	t, err := lookupTrace("StopTrace", th)
	if err != nil {
		return status(th, err)
	}
	if err = t.b.StopTrace(t.th); err != nil {
		return status(th, err)
	}
	mu.Lock()
	delete(traces, th)
	delete(errs, th)
	mu.Unlock()
	return OK
}
