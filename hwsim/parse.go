// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"

	"github.com/db47h/hwbind/internal/hdl"
)

// ParseIO parses a port specification string and returns the corresponding
// ports. Port widths are given in brackets and default to 1. For example:
//
//	ParseIO("CLK, a[32], wide[80]")
//	// returns Ports{{"CLK", 1}, {"a", 32}, {"wide", 80}}
//
func ParseIO(spec string) (Ports, error) {
	var out Ports

	l := hdl.NewLexer(spec)
	i, err := l.Lex()
	if err != nil {
		return nil, err
	}
	if i.Type == hdl.EOF {
		return nil, nil
	}
	for {
		if i.Type != hdl.Ident {
			return nil, l.Errorf(i.Pos, "expected port name, got %v", i.Type)
		}
		p := Port{Name: i.Value, Width: 1}
		if i, err = l.Lex(); err != nil {
			return nil, err
		}
		if i.Type == hdl.BracketOpen {
			if i, err = l.Lex(); err != nil {
				return nil, err
			}
			if i.Type != hdl.Int {
				return nil, l.Errorf(i.Pos, "missing port width")
			}
			w, err := strconv.ParseUint(i.Value, 10, 32)
			if err != nil || w == 0 {
				return nil, l.Errorf(i.Pos, "invalid port width %s", i.Value)
			}
			p.Width = uint32(w)
			if i, err = l.Lex(); err != nil {
				return nil, err
			}
			if i.Type != hdl.BracketClose {
				return nil, l.Errorf(i.Pos, "missing close bracket")
			}
			if i, err = l.Lex(); err != nil {
				return nil, err
			}
		}
		if _, ok := out.Find(p.Name); ok {
			return nil, l.Errorf(i.Pos, "duplicate port name %q", p.Name)
		}
		out = append(out, p)
		switch i.Type {
		case hdl.EOF:
			return out, nil
		case hdl.Comma:
			if i, err = l.Lex(); err != nil {
				return nil, err
			}
		default:
			return nil, l.Errorf(i.Pos, "expected width specification or comma")
		}
	}
}

// A Connection connects the port Port of a part to the net Net of its host chip.
//
type Connection struct {
	Port string
	Net  string
}

// ParseConnections parses a connection configuration like "partPort=chipNet, ..."
// into a []Connection{{Port: "partPort", Net: "chipNet"}, ...}. Net may also
// be one of the constants True or False.
//
func ParseConnections(c string) (conns []Connection, err error) {
	l := hdl.NewLexer(c)
	i, err := l.Lex()
	if err != nil {
		return nil, err
	}
	if i.Type == hdl.EOF {
		return nil, nil
	}
	seen := make(map[string]bool)
	for {
		if i.Type != hdl.Ident {
			return nil, l.Errorf(i.Pos, "expected port name, got %v", i.Type)
		}
		port := i.Value
		if seen[port] {
			return nil, l.Errorf(i.Pos, "port %q connected more than once", port)
		}
		seen[port] = true
		if i, err = l.Lex(); err != nil {
			return nil, err
		}
		if i.Type != hdl.Equal {
			return nil, l.Errorf(i.Pos, "expected '=' after port name")
		}
		if i, err = l.Lex(); err != nil {
			return nil, err
		}
		if i.Type != hdl.Ident {
			return nil, l.Errorf(i.Pos, "expected net name, got %v", i.Type)
		}
		conns = append(conns, Connection{Port: port, Net: i.Value})
		if i, err = l.Lex(); err != nil {
			return nil, err
		}
		switch i.Type {
		case hdl.EOF:
			return conns, nil
		case hdl.Comma:
			if i, err = l.Lex(); err != nil {
				return nil, err
			}
		default:
			return nil, l.Errorf(i.Pos, "expected comma or end of input")
		}
	}
}
