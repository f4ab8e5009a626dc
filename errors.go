// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrOutOfContract is matched by every error returned for an access that
// violates the marshalling contract: bad index, stale handle, wrong direction
// or wrong accessor family. Use errors.Is to test for it and KindOf to get
// the details.
//
var ErrOutOfContract = errors.New("out-of-contract access")

// Kind identifies the reason of an out-of-contract access.
//
type Kind uint8

// Out-of-contract error kinds.
//
const (
	NoError Kind = iota
	InvalidIndex
	InvalidHandle
	RoleViolation
	ClassMismatch
	UnknownName
	TraceActive
)

var kindNames = [...]string{
	NoError:       "no error",
	InvalidIndex:  "invalid index",
	InvalidHandle: "invalid handle",
	RoleViolation: "role violation",
	ClassMismatch: "class mismatch",
	UnknownName:   "unknown name",
	TraceActive:   "trace active",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// AccessError describes an out-of-contract access.
//
type AccessError struct {
	Kind  Kind
	Op    string // accessor name, e.g. "Set32"
	Name  string // signal, array or vector name, if any
	Index int64  // offending index, -1 if not applicable
}

func (e *AccessError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Name != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.Name))
	}
	b.WriteString(": ")
	b.WriteString(ErrOutOfContract.Error())
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Index >= 0 {
		b.WriteString(" ")
		b.WriteString(strconv.FormatInt(e.Index, 10))
	}
	return b.String()
}

// Is reports whether target is ErrOutOfContract.
//
func (e *AccessError) Is(target error) bool {
	return target == ErrOutOfContract
}

// KindOf returns the Kind of an out-of-contract error, or NoError if err is
// not one.
//
func KindOf(err error) Kind {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return NoError
}

func outOfContract(k Kind, op, name string, index int64) error {
	return errors.WithStack(&AccessError{Kind: k, Op: op, Name: name, Index: index})
}
