// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"bufio"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Signal is a variable declared in a dump.
//
type Signal struct {
	Scope string // dot separated scope path
	Name  string
	Width uint32
	ID    string
}

type change struct {
	t uint64
	v *big.Int // nil for unknown or high impedance values
}

// Dump is a parsed value change dump.
//
type Dump struct {
	Timescale string
	signals   []Signal
	byName    map[string]int
	byID      map[string][]int
	changes   [][]change
	time      uint64
}

// Signals returns the declared signals in declaration order.
//
func (d *Dump) Signals() []Signal { return d.signals }

// Time returns the last timestamp in the dump.
//
func (d *Dump) Time() uint64 { return d.time }

// Value returns the last value of the named signal. It returns nil if the
// signal does not exist, was never dumped or has an unknown value.
//
func (d *Dump) Value(name string) *big.Int {
	return d.ValueAt(name, d.time)
}

// ValueAt returns the value of the named signal at time t.
//
func (d *Dump) ValueAt(name string, t uint64) *big.Int {
	i, ok := d.byName[name]
	if !ok {
		return nil
	}
	cs := d.changes[i]
	n := sort.Search(len(cs), func(i int) bool { return cs[i].t > t })
	if n == 0 {
		return nil
	}
	return cs[n-1].v
}

// Times returns the timestamps at which the named signal changed.
//
func (d *Dump) Times(name string) []uint64 {
	i, ok := d.byName[name]
	if !ok {
		return nil
	}
	ts := make([]uint64, len(d.changes[i]))
	for n, c := range d.changes[i] {
		ts[n] = c.t
	}
	return ts
}

type parser struct {
	s     *bufio.Scanner
	d     *Dump
	scope []string
}

func (p *parser) next() (string, bool) {
	if !p.s.Scan() {
		return "", false
	}
	return p.s.Text(), true
}

// skip consumes tokens up to the next $end and returns them.
func (p *parser) skip() ([]string, error) {
	var ts []string
	for {
		t, ok := p.next()
		if !ok {
			return nil, errors.New("missing $end")
		}
		if t == "$end" {
			return ts, nil
		}
		ts = append(ts, t)
	}
}

// Parse reads a value change dump.
//
func Parse(r io.Reader) (*Dump, error) {
	s := bufio.NewScanner(r)
	s.Buffer(nil, 1<<20)
	s.Split(bufio.ScanWords)
	p := &parser{s: s, d: &Dump{byName: make(map[string]int), byID: make(map[string][]int)}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read vcd")
	}
	return p.d, nil
}

func (p *parser) parse() error {
	d := p.d
	for {
		t, ok := p.next()
		if !ok {
			return nil
		}
		switch {
		case t == "$timescale":
			ts, err := p.skip()
			if err != nil {
				return err
			}
			d.Timescale = strings.Join(ts, "")
		case t == "$scope":
			ts, err := p.skip()
			if err != nil {
				return err
			}
			if len(ts) != 2 {
				return errors.Errorf("invalid scope declaration %q", ts)
			}
			p.scope = append(p.scope, ts[1])
		case t == "$upscope":
			if _, err := p.skip(); err != nil {
				return err
			}
			if len(p.scope) == 0 {
				return errors.New("unbalanced $upscope")
			}
			p.scope = p.scope[:len(p.scope)-1]
		case t == "$var":
			if err := p.variable(); err != nil {
				return err
			}
		case t == "$dumpvars", t == "$dumpon", t == "$dumpoff", t == "$dumpall", t == "$end":
			// value changes follow.
		case strings.HasPrefix(t, "$"):
			if _, err := p.skip(); err != nil {
				return err
			}
		case t[0] == '#':
			ts, err := strconv.ParseUint(t[1:], 10, 64)
			if err != nil {
				return errors.Errorf("invalid timestamp %q", t)
			}
			if ts < d.time {
				return errors.Errorf("time going backwards at %q", t)
			}
			d.time = ts
		case t[0] == 'b' || t[0] == 'B':
			id, ok := p.next()
			if !ok {
				return errors.Errorf("missing identifier after %q", t)
			}
			p.set(id, parseBinary(t[1:]))
		case t[0] == 'r' || t[0] == 'R':
			// real values are not supported.
			if _, ok := p.next(); !ok {
				return errors.Errorf("missing identifier after %q", t)
			}
		case strings.ContainsRune("01xXzZ", rune(t[0])):
			p.set(t[1:], parseBinary(t[:1]))
		default:
			return errors.Errorf("unexpected token %q", t)
		}
	}
}

func (p *parser) variable() error {
	ts, err := p.skip()
	if err != nil {
		return err
	}
	if len(ts) < 4 {
		return errors.Errorf("invalid variable declaration %q", ts)
	}
	w, err := strconv.ParseUint(ts[1], 10, 32)
	if err != nil {
		return errors.Errorf("invalid variable width %q", ts[1])
	}
	sig := Signal{Scope: strings.Join(p.scope, "."), Width: uint32(w), ID: ts[2], Name: ts[3]}
	d := p.d
	i := len(d.signals)
	d.signals = append(d.signals, sig)
	d.changes = append(d.changes, nil)
	if _, ok := d.byName[sig.Name]; !ok {
		d.byName[sig.Name] = i
	}
	d.byID[sig.ID] = append(d.byID[sig.ID], i)
	return nil
}

func (p *parser) set(id string, v *big.Int) {
	d := p.d
	for _, i := range d.byID[id] {
		cs := d.changes[i]
		if n := len(cs); n > 0 && cs[n-1].t == d.time {
			cs[n-1].v = v
			continue
		}
		d.changes[i] = append(cs, change{d.time, v})
	}
}

func parseBinary(s string) *big.Int {
	if strings.ContainsAny(s, "xXzZ") {
		return nil
	}
	v, ok := new(big.Int).SetString(s, 2)
	if !ok {
		return nil
	}
	return v
}
