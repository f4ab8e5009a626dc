// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package capi

import (
	"github.com/db47h/hwbind"
	"github.com/pkg/errors"
)

// Signal groups of the companion table.
const (
	GroupInputs = iota
	GroupOutputs
	GroupInternals
	GroupArrays
	GroupRules
)

func companion(design string) (*hwbind.Companion, error) {
	mu.Lock()
	c, ok := comps[design]
	mu.Unlock()
	if ok {
		return c, nil
	}
	b, err := binding(design)
	if err != nil {
		return nil, err
	}
	c = b.Table().Companion()
	mu.Lock()
	comps[design] = c
	mu.Unlock()
	return c, nil
}

func outOfRange(op, design string, i int64) error {
	return errors.WithStack(&hwbind.AccessError{Kind: hwbind.InvalidIndex, Op: op, Name: design, Index: i})
}

// group returns the names and widths of a group. Widths is nil for rules.
func group(op, design string, g int) ([]string, []uint32, error) {
	c, err := companion(design)
	if err != nil {
		return nil, nil, err
	}
	switch g {
	case GroupInputs:
		return c.Inputs, c.InputWidths, nil
	case GroupOutputs:
		return c.Outputs, c.OutputWidths, nil
	case GroupInternals:
		return c.InternalSignals, c.InternalSignalWidths, nil
	case GroupArrays:
		return c.InternalArrays, c.InternalArrayWidths, nil
	case GroupRules:
		return c.Rules, nil, nil
	}
	return nil, nil, outOfRange(op, design, int64(g))
}

// NumSignals returns the number of entries in group g of a design's
// companion table.
//
func NumSignals(design string, g int, n *uint32) int {
	if n == nil {
		return NullPointer
	}
	ns, _, err := group("NumSignals", design, g)
	if err != nil {
		return status(0, err)
	}
	*n = uint32(len(ns))
	return OK
}

// SignalName returns the name of entry i of group g.
//
func SignalName(design string, g int, i uint32, name *string) int {
	if name == nil {
		return NullPointer
	}
	ns, _, err := group("SignalName", design, g)
	if err != nil {
		return status(0, err)
	}
	if int64(i) >= int64(len(ns)) {
		return status(0, outOfRange("SignalName", design, int64(i)))
	}
	*name = ns[i]
	return OK
}

// SignalWidth returns the bit width of entry i of group g. Rules have no
// width.
//
func SignalWidth(design string, g int, i uint32, w *uint32) int {
	if w == nil {
		return NullPointer
	}
	_, ws, err := group("SignalWidth", design, g)
	if err != nil {
		return status(0, err)
	}
	if ws == nil {
		return status(0, outOfRange("SignalWidth", design, int64(g)))
	}
	if int64(i) >= int64(len(ws)) {
		return status(0, outOfRange("SignalWidth", design, int64(i)))
	}
	*w = ws[i]
	return OK
}

// ArrayDepth returns the depth of array i of a design.
//
func ArrayDepth(design string, i uint32, d *uint32) int {
	if d == nil {
		return NullPointer
	}
	c, err := companion(design)
	if err != nil {
		return status(0, err)
	}
	if i >= c.NumInternalArrays {
		return status(0, outOfRange("ArrayDepth", design, int64(i)))
	}
	*d = c.InternalArrayDepths[i]
	return OK
}

// DesignMetadata returns the JSON metadata of a design.
//
func DesignMetadata(design string, s *string) int {
	if s == nil {
		return NullPointer
	}
	c, err := companion(design)
	if err != nil {
		return status(0, err)
	}
	*s = c.Metadata
	return OK
}
