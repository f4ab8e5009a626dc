// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// GetWord returns word w of an Extended signal. Word 0 holds the least
// significant bits.
//
// There is no atomic read of a whole Extended value: reading all words
// without an intervening Eval yields a consistent snapshot.
//
func (b *Binding) GetWord(h Handle, name string, w uint32) (uint32, error) {
	in, s, err := b.scalar("GetWord", h, name, false, Extended)
	if err != nil {
		return 0, err
	}
	if int64(w) >= int64(s.Words()) {
		return 0, outOfContract(InvalidIndex, "GetWord", name, int64(w))
	}
	return in.m.Load(s.Name, 0, int(w)), nil
}

// SetWord sets word w of an Extended input.
//
func (b *Binding) SetWord(h Handle, name string, w uint32, v uint32) error {
	in, s, err := b.scalar("SetWord", h, name, true, Extended)
	if err != nil {
		return err
	}
	if int64(w) >= int64(s.Words()) {
		return outOfContract(InvalidIndex, "SetWord", name, int64(w))
	}
	in.m.Store(s.Name, int(w), v)
	return nil
}
