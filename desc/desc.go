// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package desc reads and writes model descriptor tables as HCL files.
//
// A descriptor file holds a single module block:
//
//	module "mkGCD" {
//	  input "CLK" { width = 1 }
//	  output "result" { width = 32 }
//	  internal "x" { width = 32 }
//	  array "mem" {
//	    width = 80
//	    depth = 4
//	  }
//	  rules    = ["swap", "subtract", "finish"]
//	  metadata = { author = "me" }
//	}
//
// Signals are listed in declaration order within each role: inputs first,
// then outputs and internals. The metadata attribute takes any value and is
// stored in the table as JSON.
//
package desc

import (
	"path/filepath"

	"github.com/db47h/hwbind"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

type file struct {
	Module module `hcl:"module,block"`
}

type module struct {
	Name      string    `hcl:"name,label"`
	Inputs    []signal  `hcl:"input,block"`
	Outputs   []signal  `hcl:"output,block"`
	Internals []signal  `hcl:"internal,block"`
	Arrays    []array   `hcl:"array,block"`
	Rules     []string  `hcl:"rules,optional"`
	Metadata  cty.Value `hcl:"metadata,optional"`
}

type signal struct {
	Name  string `hcl:"name,label"`
	Width uint32 `hcl:"width"`
}

type array struct {
	Name  string `hcl:"name,label"`
	Width uint32 `hcl:"width"`
	Depth uint32 `hcl:"depth"`
}

func decode(f *hcl.File, diags hcl.Diagnostics) (*hwbind.Table, error) {
	if diags.HasErrors() {
		return nil, errors.WithStack(diags)
	}
	var root file
	if diags = gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, errors.WithStack(diags)
	}
	m := &root.Module
	d := hwbind.Descriptor{Module: m.Name, Rules: m.Rules}
	for _, g := range [...]struct {
		r  hwbind.Role
		ss []signal
	}{{hwbind.Input, m.Inputs}, {hwbind.Output, m.Outputs}, {hwbind.Internal, m.Internals}} {
		for _, s := range g.ss {
			d.Signals = append(d.Signals, hwbind.Signal{Name: s.Name, Width: s.Width, Role: g.r})
		}
	}
	for _, a := range m.Arrays {
		d.Arrays = append(d.Arrays, hwbind.Array(a))
	}
	if !m.Metadata.IsNull() {
		if !m.Metadata.IsWhollyKnown() {
			return nil, errors.Errorf("module %s: metadata is not a constant value", m.Name)
		}
		js, err := ctyjson.Marshal(m.Metadata, m.Metadata.Type())
		if err != nil {
			return nil, errors.Wrapf(err, "module %s: metadata", m.Name)
		}
		d.Metadata = string(js)
	}
	t, err := hwbind.NewTable(d)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", m.Name)
	}
	return t, nil
}

// Parse parses an HCL descriptor. The filename is only used in error
// messages.
//
func Parse(src []byte, filename string) (*hwbind.Table, error) {
	return decode(hclparse.NewParser().ParseHCL(src, filename))
}

// Load reads a descriptor file. Files with a .json extension are read as
// HCL's JSON syntax.
//
func Load(path string) (*hwbind.Table, error) {
	p := hclparse.NewParser()
	if filepath.Ext(path) == ".json" {
		return decode(p.ParseJSONFile(path))
	}
	return decode(p.ParseHCLFile(path))
}

// Encode returns t in HCL syntax. Parse(Encode(t)) returns a table equal to
// t, except for the ordering of signals of different roles.
//
func Encode(t *hwbind.Table) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("module", []string{t.Module()}).Body()
	for _, r := range [...]hwbind.Role{hwbind.Input, hwbind.Output, hwbind.Internal} {
		for _, s := range t.Role(r) {
			b := body.AppendNewBlock(r.String(), []string{s.Name}).Body()
			b.SetAttributeValue("width", cty.NumberUIntVal(uint64(s.Width)))
		}
	}
	for _, a := range t.Arrays() {
		b := body.AppendNewBlock("array", []string{a.Name}).Body()
		b.SetAttributeValue("width", cty.NumberUIntVal(uint64(a.Width)))
		b.SetAttributeValue("depth", cty.NumberUIntVal(uint64(a.Depth)))
	}
	if rs := t.Rules(); len(rs) > 0 {
		body.AppendNewline()
		vs := make([]cty.Value, len(rs))
		for i, r := range rs {
			vs[i] = cty.StringVal(r.Name)
		}
		body.SetAttributeValue("rules", cty.ListVal(vs))
	}
	if js := []byte(t.Metadata()); string(js) != "null" {
		ty, err := ctyjson.ImpliedType(js)
		if err != nil {
			return nil, errors.Wrap(err, "metadata")
		}
		v, err := ctyjson.Unmarshal(js, ty)
		if err != nil {
			return nil, errors.Wrap(err, "metadata")
		}
		body.SetAttributeValue("metadata", v)
	}
	return hclwrite.Format(f.Bytes()), nil
}
