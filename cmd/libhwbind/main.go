// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command libhwbind builds the hwbind C library:
//
//	go build -buildmode=c-shared -o libhwbind.so ./cmd/libhwbind
//
// All functions return 0 on success or a negative status code, see package
// internal/capi. Strings returned by the library must be released with
// hwbind_free.
//
// Descriptor tables are read per design with hwbind_num_signals,
// hwbind_signal_name, hwbind_signal_width and hwbind_array_depth. Groups are
// 0 inputs, 1 outputs, 2 internal signals, 3 arrays and 4 rules.
//
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/db47h/hwbind/internal/capi"
)

func main() {}

func nullPtr() C.int { return C.int(capi.NullPointer) }

//export hwbind_construct
func hwbind_construct(design *C.char, h *C.uint64_t) C.int {
	if design == nil || h == nil {
		return nullPtr()
	}
	var v uint64
	st := capi.Construct(C.GoString(design), &v)
	if st == capi.OK {
		*h = C.uint64_t(v)
	}
	return C.int(st)
}

//export hwbind_destruct
func hwbind_destruct(h C.uint64_t) C.int {
	return C.int(capi.Destruct(uint64(h)))
}

//export hwbind_eval
func hwbind_eval(h C.uint64_t) C.int {
	return C.int(capi.Eval(uint64(h)))
}

//export hwbind_time
func hwbind_time(h C.uint64_t, t *C.uint64_t) C.int {
	if t == nil {
		return nullPtr()
	}
	var v uint64
	st := capi.Time(uint64(h), &v)
	if st == capi.OK {
		*t = C.uint64_t(v)
	}
	return C.int(st)
}

//export hwbind_get32
func hwbind_get32(h C.uint64_t, name *C.char, v *C.uint32_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.Get32(uint64(h), C.GoString(name), &x)
	if st == capi.OK {
		*v = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_get64
func hwbind_get64(h C.uint64_t, name *C.char, v *C.uint64_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint64
	st := capi.Get64(uint64(h), C.GoString(name), &x)
	if st == capi.OK {
		*v = C.uint64_t(x)
	}
	return C.int(st)
}

//export hwbind_set32
func hwbind_set32(h C.uint64_t, name *C.char, v C.uint32_t) C.int {
	if name == nil {
		return nullPtr()
	}
	return C.int(capi.Set32(uint64(h), C.GoString(name), uint32(v)))
}

//export hwbind_set64
func hwbind_set64(h C.uint64_t, name *C.char, v C.uint64_t) C.int {
	if name == nil {
		return nullPtr()
	}
	return C.int(capi.Set64(uint64(h), C.GoString(name), uint64(v)))
}

//export hwbind_get_word
func hwbind_get_word(h C.uint64_t, name *C.char, w C.uint32_t, v *C.uint32_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.GetWord(uint64(h), C.GoString(name), uint32(w), &x)
	if st == capi.OK {
		*v = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_set_word
func hwbind_set_word(h C.uint64_t, name *C.char, w, v C.uint32_t) C.int {
	if name == nil {
		return nullPtr()
	}
	return C.int(capi.SetWord(uint64(h), C.GoString(name), uint32(w), uint32(v)))
}

//export hwbind_get_elem32
func hwbind_get_elem32(h C.uint64_t, name *C.char, index C.uint32_t, v *C.uint32_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.GetElem32(uint64(h), C.GoString(name), uint32(index), &x)
	if st == capi.OK {
		*v = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_get_elem64
func hwbind_get_elem64(h C.uint64_t, name *C.char, index C.uint32_t, v *C.uint64_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint64
	st := capi.GetElem64(uint64(h), C.GoString(name), uint32(index), &x)
	if st == capi.OK {
		*v = C.uint64_t(x)
	}
	return C.int(st)
}

//export hwbind_get_elem_word
func hwbind_get_elem_word(h C.uint64_t, name *C.char, w, index C.uint32_t, v *C.uint32_t) C.int {
	if name == nil || v == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.GetElemWord(uint64(h), C.GoString(name), uint32(w), uint32(index), &x)
	if st == capi.OK {
		*v = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_get_bit
func hwbind_get_bit(h C.uint64_t, vector *C.char, rule C.uint32_t, v *C.int) C.int {
	if vector == nil || v == nil {
		return nullPtr()
	}
	var x bool
	st := capi.GetBit(uint64(h), C.GoString(vector), uint32(rule), &x)
	if st == capi.OK {
		*v = 0
		if x {
			*v = 1
		}
	}
	return C.int(st)
}

//export hwbind_set_bit
func hwbind_set_bit(h C.uint64_t, vector *C.char, rule C.uint32_t, v C.int) C.int {
	if vector == nil {
		return nullPtr()
	}
	return C.int(capi.SetBit(uint64(h), C.GoString(vector), uint32(rule), v != 0))
}

//export hwbind_start_trace
func hwbind_start_trace(h C.uint64_t, path *C.char, th *C.uint64_t) C.int {
	if path == nil || th == nil {
		return nullPtr()
	}
	var x uint64
	st := capi.StartTrace(uint64(h), C.GoString(path), &x)
	if st == capi.OK {
		*th = C.uint64_t(x)
	}
	return C.int(st)
}

//export hwbind_append_trace
func hwbind_append_trace(th, ts C.uint64_t) C.int {
	return C.int(capi.AppendTrace(uint64(th), uint64(ts)))
}

//export hwbind_flush_trace
func hwbind_flush_trace(th C.uint64_t) C.int {
	return C.int(capi.FlushTrace(uint64(th)))
}

//export hwbind_stop_trace
func hwbind_stop_trace(th C.uint64_t) C.int {
	return C.int(capi.StopTrace(uint64(th)))
}

//export hwbind_metadata
func hwbind_metadata(h C.uint64_t, s **C.char) C.int {
	if s == nil {
		return nullPtr()
	}
	var x string
	st := capi.Metadata(uint64(h), &x)
	if st == capi.OK {
		*s = C.CString(x)
	}
	return C.int(st)
}

//export hwbind_design_metadata
func hwbind_design_metadata(design *C.char, s **C.char) C.int {
	if design == nil || s == nil {
		return nullPtr()
	}
	var x string
	st := capi.DesignMetadata(C.GoString(design), &x)
	if st == capi.OK {
		*s = C.CString(x)
	}
	return C.int(st)
}

//export hwbind_num_signals
func hwbind_num_signals(design *C.char, group C.int, n *C.uint32_t) C.int {
	if design == nil || n == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.NumSignals(C.GoString(design), int(group), &x)
	if st == capi.OK {
		*n = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_signal_name
func hwbind_signal_name(design *C.char, group C.int, i C.uint32_t, s **C.char) C.int {
	if design == nil || s == nil {
		return nullPtr()
	}
	var x string
	st := capi.SignalName(C.GoString(design), int(group), uint32(i), &x)
	if st == capi.OK {
		*s = C.CString(x)
	}
	return C.int(st)
}

//export hwbind_signal_width
func hwbind_signal_width(design *C.char, group C.int, i C.uint32_t, w *C.uint32_t) C.int {
	if design == nil || w == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.SignalWidth(C.GoString(design), int(group), uint32(i), &x)
	if st == capi.OK {
		*w = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_array_depth
func hwbind_array_depth(design *C.char, i C.uint32_t, d *C.uint32_t) C.int {
	if design == nil || d == nil {
		return nullPtr()
	}
	var x uint32
	st := capi.ArrayDepth(C.GoString(design), uint32(i), &x)
	if st == capi.OK {
		*d = C.uint32_t(x)
	}
	return C.int(st)
}

//export hwbind_handle_error
func hwbind_handle_error(h C.uint64_t) *C.char {
	return C.CString(capi.HandleError(uint64(h)))
}

//export hwbind_last_error
func hwbind_last_error() *C.char {
	return C.CString(capi.LastError())
}

//export hwbind_free
func hwbind_free(p unsafe.Pointer) {
	C.free(p)
}
