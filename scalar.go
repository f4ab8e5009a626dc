// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// Get32 returns the value of a Narrow signal.
//
func (b *Binding) Get32(h Handle, name string) (uint32, error) {
	in, s, err := b.scalar("Get32", h, name, false, Narrow)
	if err != nil {
		return 0, err
	}
	return in.m.Load(s.Name, 0, 0), nil
}

// Get64 returns the value of a Wide signal.
//
func (b *Binding) Get64(h Handle, name string) (uint64, error) {
	in, s, err := b.scalar("Get64", h, name, false, Wide)
	if err != nil {
		return 0, err
	}
	return uint64(in.m.Load(s.Name, 0, 0)) | uint64(in.m.Load(s.Name, 0, 1))<<32, nil
}

// Set32 sets the value of a Narrow input. Bits of v above the signal width
// are dropped by the model.
//
func (b *Binding) Set32(h Handle, name string, v uint32) error {
	in, s, err := b.scalar("Set32", h, name, true, Narrow)
	if err != nil {
		return err
	}
	in.m.Store(s.Name, 0, v)
	return nil
}

// Set64 sets the value of a Wide input. Bits of v above the signal width
// are dropped by the model.
//
func (b *Binding) Set64(h Handle, name string, v uint64) error {
	in, s, err := b.scalar("Set64", h, name, true, Wide)
	if err != nil {
		return err
	}
	in.m.Store(s.Name, 0, uint32(v))
	in.m.Store(s.Name, 1, uint32(v>>32))
	return nil
}
