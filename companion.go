// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// Companion is the flat, index-aligned view of a Table exported alongside the
// C surface for host side reflection: Names[i] corresponds to Widths[i] and
// every group carries an explicit count.
//
type Companion struct {
	Module string

	NumInputs    uint32
	Inputs       []string
	InputWidths  []uint32
	NumOutputs   uint32
	Outputs      []string
	OutputWidths []uint32

	NumInternalSignals   uint32
	InternalSignals      []string
	InternalSignalWidths []uint32

	NumInternalArrays   uint32
	InternalArrays      []string
	InternalArrayWidths []uint32
	InternalArrayDepths []uint32

	NumRules uint32
	Rules    []string

	Metadata string
}

// Companion returns the companion descriptor table of t.
//
func (t *Table) Companion() *Companion {
	c := &Companion{Module: t.module, Metadata: t.meta}
	for _, s := range t.signals {
		switch s.Role {
		case Input:
			c.Inputs = append(c.Inputs, s.Name)
			c.InputWidths = append(c.InputWidths, s.Width)
		case Output:
			c.Outputs = append(c.Outputs, s.Name)
			c.OutputWidths = append(c.OutputWidths, s.Width)
		case Internal:
			c.InternalSignals = append(c.InternalSignals, s.Name)
			c.InternalSignalWidths = append(c.InternalSignalWidths, s.Width)
		}
	}
	for _, a := range t.arrays {
		c.InternalArrays = append(c.InternalArrays, a.Name)
		c.InternalArrayWidths = append(c.InternalArrayWidths, a.Width)
		c.InternalArrayDepths = append(c.InternalArrayDepths, a.Depth)
	}
	for _, r := range t.rules {
		c.Rules = append(c.Rules, r.Name)
	}
	c.NumInputs = uint32(len(c.Inputs))
	c.NumOutputs = uint32(len(c.Outputs))
	c.NumInternalSignals = uint32(len(c.InternalSignals))
	c.NumInternalArrays = uint32(len(c.InternalArrays))
	c.NumRules = uint32(len(c.Rules))
	return c
}
