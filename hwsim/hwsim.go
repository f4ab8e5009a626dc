// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"slices"
	"sync"

	"github.com/db47h/hwbind"
	"github.com/pkg/errors"
)

// A Component is a component in a circuit. On every simulation step, it reads
// the current state of its input nets and writes the next state of all its
// output nets.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned net numbers and return closures around
// these net numbers.
//
// For example, a 32 bits Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name:    "Not",
//		Inputs:  In("in[32]"),
//		Outputs: Out("out[32]"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Net("in"), s.Net("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, ^c.Get(in)) },
//			}
//		}}
//
// Components must write every output net on every step.
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec, then getting a
// NewPartFn for it:
//
//	var notGate = notSpec.NewPart
//
// or:
//
//	func Not(c string) Part { return notSpec.NewPart(c) }
//
// Which can then be used when building other chips:
//
//	c, _ := Chip("dummy", In("a[8], b[8]"), Out("c[8], d[8]"), Parts{
//		notGate("in=a, out=c"),
//		Not("in=b, out=d"),
//	})
//
type PartSpec struct {
	// Part name.
	Name string
	// Input ports. Names must be distinct.
	// Use the In() function to parse an input description like
	// "CLK, a[32], wide[80]".
	Inputs Ports
	// Output ports. Names must be distinct.
	Outputs Ports

	// Mount function (see MountFn).
	Mount MountFn
}

// Port returns the input or output port with the given name.
//
func (p *PartSpec) Port(name string) (Port, bool) {
	if pt, ok := p.Inputs.Find(name); ok {
		return pt, true
	}
	return p.Outputs.Find(name)
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, conns}
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

type net struct {
	name  string
	width uint32
	off   int
	words int
	mask  uint32
}

// Circuit is a runnable circuit simulation.
//
// Net states are stored as 32 bits words, least significant word first, in
// two frames: components read the current frame and write the next one.
//
type Circuit struct {
	s0    []uint32 // net states frame #0
	s1    []uint32 // net states frame #1
	size  int
	nets  []net
	names map[string]int
	mems  map[string]*Memory
	mlist []*Memory
	cs    []Component
	top   *PartSpec
	steps uint64

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit for the given top-level part. The inputs and
// outputs of top become nets of the same name in the circuit.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, top *PartSpec) (c *Circuit, err error) {
	if top == nil || top.Mount == nil {
		return nil, errors.New("nil top part")
	}
	cc := &Circuit{
		names: make(map[string]int),
		mems:  make(map[string]*Memory),
		top:   top,
	}
	s := newSocket(cc, "", "")
	for _, ps := range [...]Ports{top.Inputs, top.Outputs} {
		for _, p := range ps {
			if _, ok := cc.names[p.Name]; ok {
				return nil, errors.Errorf("duplicate port %q in %s", p.Name, top.Name)
			}
			s.m[p.Name] = cc.allocNet(p.Name, p.Width)
		}
	}

	// part mount functions panic on wiring errors.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "mount "+top.Name)
				return
			}
			err = errors.Errorf("mount %s: %v", top.Name, r)
		}
	}()
	ups := top.Mount(s)
	cc.cs = ups
	cc.s0 = make([]uint32, cc.size)
	cc.s1 = make([]uint32, cc.size)
	// init constant nets
	for _, n := range cc.nets {
		if isTrue(n.name) {
			cc.fill(cc.s0, n, ^uint32(0))
			cc.fill(cc.s1, n, ^uint32(0))
		}
	}

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocNet allocates a net of the given width and returns its number.
//
func (c *Circuit) allocNet(name string, width uint32) int {
	if width == 0 {
		panic(errors.Errorf("zero width net %q", name))
	}
	if _, ok := c.names[name]; ok {
		panic(errors.Errorf("duplicate net %q", name))
	}
	w := hwbind.WordCount(width)
	n := net{name: name, width: width, off: c.size, words: w, mask: topMask(width)}
	c.size += w
	c.nets = append(c.nets, n)
	c.names[name] = len(c.nets) - 1
	return len(c.nets) - 1
}

func topMask(width uint32) uint32 {
	if r := width % hwbind.WordBits; r != 0 {
		return 1<<r - 1
	}
	return ^uint32(0)
}

func (c *Circuit) fill(f []uint32, n net, v uint32) {
	for i := 0; i < n.words; i++ {
		f[n.off+i] = v
	}
	f[n.off+n.words-1] &= n.mask
}

// Lookup returns the number of the net with the given name.
// Names of nets internal to sub-parts are prefixed with the part's path.
//
func (c *Circuit) Lookup(name string) (int, bool) {
	n, ok := c.names[name]
	return n, ok
}

// Width returns the width in bits of net n.
//
func (c *Circuit) Width(n int) uint32 { return c.nets[n].width }

// Name returns the name of net n.
//
func (c *Circuit) Name(n int) string { return c.nets[n].name }

// WordCount returns the number of words used to store net n.
//
func (c *Circuit) WordCount(n int) int { return c.nets[n].words }

// Get returns the least significant word of net n. The value of n should be
// obtained in a MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) uint32 {
	return c.s0[c.nets[n].off]
}

// Get64 returns the two least significant words of net n.
//
func (c *Circuit) Get64(n int) uint64 {
	nt := &c.nets[n]
	v := uint64(c.s0[nt.off])
	if nt.words > 1 {
		v |= uint64(c.s0[nt.off+1]) << 32
	}
	return v
}

// Bit returns the state of bit i of net n.
//
func (c *Circuit) Bit(n int, i uint32) bool {
	nt := &c.nets[n]
	if i >= nt.width {
		return false
	}
	return c.s0[nt.off+int(i/32)]&(1<<(i%32)) != 0
}

// Words returns the current state of net n. The returned slice must not be
// modified.
//
func (c *Circuit) Words(n int) []uint32 {
	nt := &c.nets[n]
	return c.s0[nt.off : nt.off+nt.words]
}

// Set sets the next state of net n to v, zero extended to the net width and
// truncated to it.
//
func (c *Circuit) Set(n int, v uint32) {
	nt := &c.nets[n]
	f := c.s1[nt.off : nt.off+nt.words]
	f[0] = v
	clear(f[1:])
	f[nt.words-1] &= nt.mask
}

// Set64 is like Set for 64 bits values.
//
func (c *Circuit) Set64(n int, v uint64) {
	nt := &c.nets[n]
	f := c.s1[nt.off : nt.off+nt.words]
	f[0] = uint32(v)
	if nt.words > 1 {
		f[1] = uint32(v >> 32)
		clear(f[2:])
	}
	f[nt.words-1] &= nt.mask
}

// SetBit sets the next state of net n to its current state with bit i set to b.
//
func (c *Circuit) SetBit(n int, i uint32, b bool) {
	c.SetWords(n, c.Words(n))
	nt := &c.nets[n]
	if i >= nt.width {
		return
	}
	w := &c.s1[nt.off+int(i/32)]
	if b {
		*w |= 1 << (i % 32)
	} else {
		*w &^= 1 << (i % 32)
	}
}

// SetWords sets the next state of net n. Missing words are set to 0, extra
// words are ignored.
//
func (c *Circuit) SetWords(n int, ws []uint32) {
	nt := &c.nets[n]
	f := c.s1[nt.off : nt.off+nt.words]
	clear(f[copy(f, ws):])
	f[nt.words-1] &= nt.mask
}

// Poke sets both the current and next state of word w of net n. It is meant
// to drive circuit inputs from outside the simulation, between steps.
//
func (c *Circuit) Poke(n int, w int, v uint32) {
	nt := &c.nets[n]
	if w < 0 || w >= nt.words {
		return
	}
	if w == nt.words-1 {
		v &= nt.mask
	}
	c.s0[nt.off+w] = v
	c.s1[nt.off+w] = v
}

// Memory returns the memory array with the given name.
//
func (c *Circuit) Memory(name string) (*Memory, bool) {
	m, ok := c.mems[name]
	return m, ok
}

// Memories returns all memory arrays in the circuit, in allocation order.
//
func (c *Circuit) Memories() []*Memory { return c.mlist }

// Nets returns the names of all nets in the circuit, in allocation order.
//
func (c *Circuit) Nets() []string {
	ns := make([]string, len(c.nets))
	for i := range c.nets {
		ns[i] = c.nets[i].name
	}
	return ns
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint64 {
	return c.steps
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}

// Settle runs the simulation until net states are stable, for at most max
// steps. At least one step is always run. It returns the number of steps run
// and whether the circuit did settle.
//
func (c *Circuit) Settle(max int) (int, bool) {
	for i := 1; ; i++ {
		c.Step()
		if slices.Equal(c.s0, c.s1) {
			return i, true
		}
		if i >= max {
			return i, false
		}
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
