// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Var is a traced variable.
//
type Var struct {
	Name  string
	Width uint32
}

// Writer writes value change dumps.
//
type Writer struct {
	w      *bufio.Writer
	c      io.Closer
	vars   []Var
	ids    []string
	last   [][]uint32
	time   uint64
	dumped bool
	err    error
}

// NewWriter writes the VCD header for the given variables, declared in a
// single module scope, and returns a Writer ready to dump values. If w is an
// io.Closer, it will be closed by Writer.Close.
//
func NewWriter(w io.Writer, scope string, timescale string, vars []Var) (*Writer, error) {
	if timescale == "" {
		timescale = "1ns"
	}
	vw := &Writer{
		w:    bufio.NewWriter(w),
		vars: vars,
		ids:  make([]string, len(vars)),
		last: make([][]uint32, len(vars)),
	}
	vw.c, _ = w.(io.Closer)
	vw.printf("$version\n\thwbind\n$end\n")
	vw.printf("$timescale %s $end\n", timescale)
	vw.printf("$scope module %s $end\n", scope)
	for i, v := range vars {
		if v.Width == 0 {
			return nil, errors.Errorf("zero width variable %q", v.Name)
		}
		vw.ids[i] = ID(i)
		vw.printf("$var wire %d %s %s $end\n", v.Width, vw.ids[i], v.Name)
	}
	vw.printf("$upscope $end\n$enddefinitions $end\n")
	if vw.err != nil {
		return nil, vw.err
	}
	return vw, nil
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// ID returns the identifier code of the i-th variable.
//
func ID(i int) string {
	var b []byte
	for {
		b = append(b, byte('!'+i%94))
		i /= 94
		if i == 0 {
			return string(b)
		}
	}
}

// Dump writes the values of all variables at time t. values[i] holds the
// words of variable i, least significant word first. The first dump writes
// all values; later dumps only write changed values.
//
func (w *Writer) Dump(t uint64, values [][]uint32) error {
	if w.err != nil {
		return w.err
	}
	if len(values) != len(w.vars) {
		return errors.Errorf("got %d values for %d variables", len(values), len(w.vars))
	}
	if w.dumped && t < w.time {
		return errors.Errorf("time going backwards: %d < %d", t, w.time)
	}
	if !w.dumped {
		w.printf("#%d\n$dumpvars\n", t)
		for i := range w.vars {
			w.value(i, values[i])
		}
		w.printf("$end\n")
		w.dumped, w.time = true, t
		return w.err
	}
	stamped := t == w.time
	for i := range w.vars {
		if slices.Equal(w.last[i], values[i]) {
			continue
		}
		if !stamped {
			w.printf("#%d\n", t)
			stamped = true
		}
		w.value(i, values[i])
	}
	w.time = t
	return w.err
}

func (w *Writer) value(i int, ws []uint32) {
	w.last[i] = append(w.last[i][:0], ws...)
	if w.vars[i].Width == 1 {
		var b uint32
		if len(ws) > 0 {
			b = ws[0] & 1
		}
		w.printf("%d%s\n", b, w.ids[i])
		return
	}
	w.printf("b%s %s\n", Binary(ws), w.ids[i])
}

// Binary formats words, least significant first, as a binary string without
// leading zeros.
//
func Binary(ws []uint32) string {
	var sb strings.Builder
	for i := len(ws) - 1; i >= 0; i-- {
		s := strconv.FormatUint(uint64(ws[i]), 2)
		if sb.Len() > 0 {
			sb.WriteString(strings.Repeat("0", 32-len(s)))
			sb.WriteString(s)
		} else if ws[i] != 0 {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

// Flush writes any buffered data to the underlying writer.
//
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Close flushes the writer and closes the underlying writer if it is an
// io.Closer.
//
func (w *Writer) Close() error {
	err := w.Flush()
	if w.c != nil {
		if cerr := w.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
