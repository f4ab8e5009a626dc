// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// WordBits is the size in bits of a storage word.
//
const WordBits = 32

// A Class is the host representation of a signal, derived from its bit width.
//
type Class uint8

// Representation classes.
//
const (
	// Narrow signals (width <= 32) are accessed as a single uint32.
	Narrow Class = iota
	// Wide signals (32 < width <= 64) are accessed as a single uint64.
	Wide
	// Extended signals (width > 64) are accessed one 32 bits word at a time.
	Extended
)

func (c Class) String() string {
	switch c {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	case Extended:
		return "extended"
	}
	return "invalid"
}

// Classify returns the representation class for the given bit width.
//
func Classify(width uint32) Class {
	switch {
	case width <= 32:
		return Narrow
	case width <= 64:
		return Wide
	default:
		return Extended
	}
}

// WordCount returns the number of 32 bits storage words needed to hold width
// bits. Word 0 holds the least significant bits.
//
func WordCount(width uint32) int {
	return int((width + WordBits - 1) / WordBits)
}
