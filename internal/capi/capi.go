// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package capi implements the flat, handle based API exported by the
// libhwbind shared library.
//
// Every function returns a status code: OK, the negated hwbind.Kind of an
// out-of-contract access, or Failure for any other error. Values are
// returned through out parameters, which are left untouched on error.
//
// Error messages are kept per handle: HandleError returns the message of the
// last failed call on a model or trace handle, so that callers driving
// distinct handles from distinct threads do not see each other's errors.
// LastError returns the message of the last failed call in the process,
// whatever the handle; it is only reliable in single threaded hosts.
//
// Model handles are process wide: a handle identifies both the design and
// the model instance. All functions are safe for concurrent use, but calls
// on the same model must not run concurrently.
//
package capi

import (
	"sync"

	"github.com/db47h/hwbind"
	"github.com/db47h/hwbind/designs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Status codes.
const (
	OK            = 0
	InvalidIndex  = -int(hwbind.InvalidIndex)
	InvalidHandle = -int(hwbind.InvalidHandle)
	RoleViolation = -int(hwbind.RoleViolation)
	ClassMismatch = -int(hwbind.ClassMismatch)
	UnknownName   = -int(hwbind.UnknownName)
	TraceActive   = -int(hwbind.TraceActive)
	NullPointer   = -62
	Failure       = -63
)

type model struct {
	b *hwbind.Binding
	h hwbind.Handle
}

type trace struct {
	b  *hwbind.Binding
	th hwbind.TraceHandle
}

var (
	mu       sync.Mutex
	bindings = make(map[string]*hwbind.Binding)
	comps    = make(map[string]*hwbind.Companion)
	models   = make(map[uint64]model)
	traces   = make(map[uint64]trace)
	errs     = make(map[uint64]string) // last error per live handle
	nextID   uint64
	lastErr  string

	// Workers is the number of simulation workers of new bindings.
	Workers = 1
)

// status records err for handle h and returns its status code. h is 0 for
// calls without a valid handle.
func status(h uint64, err error) int {
	if err == nil {
		return OK
	}
	mu.Lock()
	lastErr = err.Error()
	if _, ok := models[h]; ok {
		errs[h] = lastErr
	} else if _, ok = traces[h]; ok {
		errs[h] = lastErr
	}
	mu.Unlock()
	hwbind.Logger().Debug("capi call failed", zap.Uint64("handle", h), zap.Error(err))
	if k := hwbind.KindOf(err); k != hwbind.NoError {
		return -int(k)
	}
	return Failure
}

func badHandle(op string) error {
	return errors.WithStack(&hwbind.AccessError{Kind: hwbind.InvalidHandle, Op: op, Index: -1})
}

// LastError returns the message of the last failed call in the process.
//
func LastError() string {
	mu.Lock()
	defer mu.Unlock()
	return lastErr
}

// HandleError returns the message of the last failed call on the model or
// trace handle h, or an empty string if there is none or h is not live.
//
func HandleError(h uint64) string {
	mu.Lock()
	defer mu.Unlock()
	return errs[h]
}

func binding(design string) (*hwbind.Binding, error) {
	mu.Lock()
	defer mu.Unlock()
	if b, ok := bindings[design]; ok {
		return b, nil
	}
	d, ok := designs.Lookup(design)
	if !ok {
		return nil, errors.WithStack(&hwbind.AccessError{Kind: hwbind.UnknownName, Op: "Construct", Name: design, Index: -1})
	}
	b, err := d.Bind(Workers)
	if err != nil {
		return nil, err
	}
	bindings[design] = b
	return b, nil
}

func lookup(op string, h uint64) (model, error) {
	mu.Lock()
	m, ok := models[h]
	mu.Unlock()
	if !ok {
		return m, badHandle(op)
	}
	return m, nil
}

func newID() uint64 {
	nextID++
	return nextID
}

// Construct creates a new instance of the named built-in design.
//
func Construct(design string, h *uint64) int {
	if h == nil {
		return NullPointer
	}
	b, err := binding(design)
	if err != nil {
		return status(0, err)
	}
	mh, err := b.Construct()
	if err != nil {
		return status(0, err)
	}
	mu.Lock()
	id := newID()
	models[id] = model{b, mh}
	mu.Unlock()
	*h = id
	return OK
}

// Destruct destroys a model instance. The handle stays valid only if the
// model still has active traces; any other failure invalidates it.
//
func Destruct(h uint64) int {
	m, err := lookup("Destruct", h)
	if err != nil {
		return status(h, err)
	}
	err = m.b.Destruct(m.h)
	if hwbind.KindOf(err) == hwbind.TraceActive {
		return status(h, err)
	}
	mu.Lock()
	delete(models, h)
	delete(errs, h)
	mu.Unlock()
	return status(h, err)
}

// Eval evaluates a model instance.
//
func Eval(h uint64) int {
	m, err := lookup("Eval", h)
	if err != nil {
		return status(h, err)
	}
	return status(h, m.b.Eval(m.h))
}

// Time returns the simulation time of a model instance.
//
func Time(h uint64, t *uint64) int {
	return get("Time", h, t, func(m model) (uint64, error) { return m.b.Time(m.h) })
}

// Metadata returns the JSON metadata of the design of a model instance.
//
func Metadata(h uint64, s *string) int {
	return get("Metadata", h, s, func(m model) (string, error) { return m.b.Table().Metadata(), nil })
}
