// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package capi

func get[T any](op string, h uint64, out *T, fn func(m model) (T, error)) int {
	if out == nil {
		return NullPointer
	}
	m, err := lookup(op, h)
	if err != nil {
		return status(h, err)
	}
	v, err := fn(m)
	if err != nil {
		return status(h, err)
	}
	*out = v
	return OK
}

func set(op string, h uint64, fn func(m model) error) int {
	m, err := lookup(op, h)
	if err != nil {
		return status(h, err)
	}
	return status(h, fn(m))
}

// Get32 reads a Narrow signal.
func Get32(h uint64, name string, v *uint32) int {
	return get("Get32", h, v, func(m model) (uint32, error) { return m.b.Get32(m.h, name) })
}

// Get64 reads a Wide signal.
func Get64(h uint64, name string, v *uint64) int {
	return get("Get64", h, v, func(m model) (uint64, error) { return m.b.Get64(m.h, name) })
}

// Set32 writes a Narrow input.
func Set32(h uint64, name string, v uint32) int {
	return set("Set32", h, func(m model) error { return m.b.Set32(m.h, name, v) })
}

// Set64 writes a Wide input.
func Set64(h uint64, name string, v uint64) int {
	return set("Set64", h, func(m model) error { return m.b.Set64(m.h, name, v) })
}

// GetWord reads word w of an Extended signal.
func GetWord(h uint64, name string, w uint32, v *uint32) int {
	return get("GetWord", h, v, func(m model) (uint32, error) { return m.b.GetWord(m.h, name, w) })
}

// SetWord writes word w of an Extended input.
func SetWord(h uint64, name string, w, v uint32) int {
	return set("SetWord", h, func(m model) error { return m.b.SetWord(m.h, name, w, v) })
}

// GetElem32 reads an element of a Narrow array.
func GetElem32(h uint64, name string, index uint32, v *uint32) int {
	return get("GetElem32", h, v, func(m model) (uint32, error) { return m.b.GetElem32(m.h, name, index) })
}

// GetElem64 reads an element of a Wide array.
func GetElem64(h uint64, name string, index uint32, v *uint64) int {
	return get("GetElem64", h, v, func(m model) (uint64, error) { return m.b.GetElem64(m.h, name, index) })
}

// GetElemWord reads word w of an element of an Extended array.
func GetElemWord(h uint64, name string, w, index uint32, v *uint32) int {
	return get("GetElemWord", h, v, func(m model) (uint32, error) { return m.b.GetElemWord(m.h, name, w, index) })
}

// GetBit reads the flag of a rule in a rule vector.
func GetBit(h uint64, vector string, rule uint32, v *bool) int {
	return get("GetBit", h, v, func(m model) (bool, error) { return m.b.GetBit(m.h, vector, rule) })
}

// SetBit sets or clears the flag of a rule in an input rule vector.
func SetBit(h uint64, vector string, rule uint32, v bool) int {
	return set("SetBit", h, func(m model) error { return m.b.SetBit(m.h, vector, rule, v) })
}
