// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

// A Port is a named input or output of a part.
//
type Port struct {
	Name  string
	Width uint32
}

// Ports is a list of ports.
//
type Ports []Port

// Find returns the port with the given name.
//
func (ps Ports) Find(name string) (Port, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// In parses an input port specification. It panics if the specification
// cannot be parsed. See ParseIO.
//
func In(spec string) Ports {
	ps, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return ps
}

// Out parses an output port specification. It panics if the specification
// cannot be parsed. See ParseIO.
//
func Out(spec string) Ports {
	return In(spec)
}
