// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/db47h/hwbind"
	"github.com/pkg/errors"
)

// Constant input net names. A constant net has the width of the port it is
// connected to. True sets all its bits.
//
const (
	True  = "true"
	False = "false"
)

const cstPrefix = "__"

func cstName(name string, width uint32) string {
	return cstPrefix + name + strconv.FormatUint(uint64(width), 10)
}

func isTrue(name string) bool {
	return strings.HasPrefix(name, cstPrefix+True)
}

// IsConstant returns true if name is one of the constant input net names.
//
func IsConstant(name string) bool { return name == True || name == False }

// A Socket maps a part's port names to net numbers in a circuit.
//
type Socket struct {
	m      map[string]int
	c      *Circuit
	prefix string // name prefix for nets internal to the part
	scope  string // name prefix of the host chip
}

func newSocket(c *Circuit, prefix, scope string) *Socket {
	return &Socket{
		m:      make(map[string]int),
		c:      c,
		prefix: prefix,
		scope:  scope,
	}
}

// Circuit returns the circuit the socket belongs to.
//
func (s *Socket) Circuit() *Circuit { return s.c }

// Net returns the net number allocated to the given port name.
// This function panics if the net does not exist.
//
func (s *Socket) Net(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic(errors.Errorf("net %q does not exist", s.prefix+name))
	}
	return n
}

// NetOrNew returns the net number allocated to the given name. If no such net
// exists a new one of the given width is allocated. True and False return a
// constant net of the requested width.
//
func (s *Socket) NetOrNew(name string, width uint32) int {
	if IsConstant(name) {
		return s.constant(name, width)
	}
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocNet(s.prefix+name, width)
		s.m[name] = n
	} else if w := s.c.Width(n); w != width {
		panic(errors.Errorf("net %q: width mismatch %d != %d", s.prefix+name, w, width))
	}
	return n
}

func (s *Socket) constant(name string, width uint32) int {
	cn := cstName(name, width)
	if n, ok := s.c.names[cn]; ok {
		return n
	}
	return s.c.allocNet(cn, width)
}

// Memory allocates a memory array of depth elements of width bits. The memory
// name is scoped to the chip hosting the part, so that a memory mounted by a
// part of the top-level chip is visible by name in a Model.
//
func (s *Socket) Memory(name string, width uint32, depth int) *Memory {
	fn := s.scope + name
	if _, ok := s.c.mems[fn]; ok {
		panic(errors.Errorf("duplicate memory %q", fn))
	}
	if width == 0 || depth <= 0 {
		panic(errors.Errorf("memory %q: invalid geometry %dx%d", fn, width, depth))
	}
	m := newMemory(fn, width, depth)
	s.c.mems[fn] = m
	s.c.mlist = append(s.c.mlist, m)
	return m
}

// sub returns a socket for the n-th sub-part of the part mounted in s.
//
func (s *Socket) sub(p *PartSpec, n int) *Socket {
	return newSocket(s.c, s.prefix+p.Name+"["+strconv.Itoa(n)+"].", s.prefix)
}

// Memory is a memory array. Elements are stored as 32 bits words, least
// significant word first.
//
type Memory struct {
	Name  string
	Width uint32
	Depth int
	words int
	mask  uint32
	data  []uint32
}

func newMemory(name string, width uint32, depth int) *Memory {
	w := hwbind.WordCount(width)
	return &Memory{
		Name:  name,
		Width: width,
		Depth: depth,
		words: w,
		mask:  topMask(width),
		data:  make([]uint32, w*depth),
	}
}

// Words returns the number of words per element.
//
func (m *Memory) Words() int { return m.words }

// Load returns word w of element i. Out of range accesses return 0.
//
func (m *Memory) Load(i, w int) uint32 {
	if i < 0 || i >= m.Depth || w < 0 || w >= m.words {
		return 0
	}
	return m.data[i*m.words+w]
}

// Elem returns element i. The returned slice must not be modified.
//
func (m *Memory) Elem(i int) []uint32 {
	return m.data[i*m.words : (i+1)*m.words]
}

// Store sets element i to ws, truncated to the element width.
// Out of range accesses are ignored.
//
func (m *Memory) Store(i int, ws []uint32) {
	if i < 0 || i >= m.Depth {
		return
	}
	e := m.data[i*m.words : (i+1)*m.words]
	clear(e[copy(e, ws):])
	e[m.words-1] &= m.mask
}
