// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

type field struct {
	index int
	port  Port
	in    bool
}

// MakePart wraps an Updater into a custom component.
// Input/output ports are identified by field tags on fields of type int, which
// receive the net number of the port when the part is mounted.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// ports. By default, the port name is the field name in lowercase and its
// width is 1. A specific name and width can be forced by adding them in the
// tag: `hw:"in,port_name,32"`.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	var fs []field
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		fd := field{index: i, port: Port{Name: strings.ToLower(f.Name), Width: 1}}
		tv := strings.Split(tag, ",")
		switch tv[0] {
		case "in":
			fd.in = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		if len(tv) > 1 && tv[1] != "" {
			fd.port.Name = tv[1]
		}
		if len(tv) > 2 {
			w, err := strconv.ParseUint(tv[2], 10, 32)
			if err != nil || w == 0 || len(tv) > 3 {
				panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
			}
			fd.port.Width = uint32(w)
		}
		if k := f.Type.Kind(); k != reflect.Int {
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		if fd.in {
			sp.Inputs = append(sp.Inputs, fd.port)
		} else {
			sp.Outputs = append(sp.Outputs, fd.port)
		}
		fs = append(fs, fd)
	}
	sp.Mount = mountPart(typ, fs)
	return sp
}

func mountPart(typ reflect.Type, fs []field) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for _, f := range fs {
			e.Field(f.index).SetInt(int64(s.Net(f.port.Name)))
		}
		u := v.Interface().(Updater)
		return []Component{u.Update}
	}
}
