// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

import (
	"math/big"

	"github.com/pkg/errors"
)

// GetBig returns the value of a signal of any width, dispatching on its
// representation class. Extended values are assembled from their words.
//
func (b *Binding) GetBig(h Handle, name string) (*big.Int, error) {
	in, s, err := b.scalar("GetBig", h, name, false, anyClass)
	if err != nil {
		return nil, err
	}
	v := new(big.Int)
	var w big.Int
	for i := s.Words() - 1; i >= 0; i-- {
		v.Lsh(v, WordBits)
		v.Or(v, w.SetUint64(uint64(in.m.Load(s.Name, 0, i))))
	}
	return v, nil
}

// SetBig sets the value of an input of any width. Extended inputs are written
// one word at a time; the value is never partially written since all checks
// are done beforehand.
//
func (b *Binding) SetBig(h Handle, name string, v *big.Int) error {
	if v == nil {
		return errors.Errorf("SetBig %q: nil value", name)
	}
	if v.Sign() < 0 {
		return errors.Errorf("SetBig %q: negative value %v", name, v)
	}
	in, s, err := b.scalar("SetBig", h, name, true, anyClass)
	if err != nil {
		return err
	}
	var t big.Int
	mask := new(big.Int).SetUint64(0xffffffff)
	for i := 0; i < s.Words(); i++ {
		t.Rsh(v, uint(i*WordBits))
		t.And(&t, mask)
		in.m.Store(s.Name, i, uint32(t.Uint64()))
	}
	return nil
}
