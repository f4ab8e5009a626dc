// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// GetElem32 returns element index of an array of Narrow elements.
//
func (b *Binding) GetElem32(h Handle, name string, index uint32) (uint32, error) {
	in, a, err := b.array("GetElem32", h, name, Narrow, index)
	if err != nil {
		return 0, err
	}
	return in.m.Load(a.Name, int(index), 0), nil
}

// GetElem64 returns element index of an array of Wide elements.
//
func (b *Binding) GetElem64(h Handle, name string, index uint32) (uint64, error) {
	in, a, err := b.array("GetElem64", h, name, Wide, index)
	if err != nil {
		return 0, err
	}
	i := int(index)
	return uint64(in.m.Load(a.Name, i, 0)) | uint64(in.m.Load(a.Name, i, 1))<<32, nil
}

// GetElemWord returns word w of element index of an array of Extended
// elements. The word index comes first: it selects a word within the
// element selected by index.
//
func (b *Binding) GetElemWord(h Handle, name string, w, index uint32) (uint32, error) {
	in, a, err := b.array("GetElemWord", h, name, Extended, index)
	if err != nil {
		return 0, err
	}
	if int64(w) >= int64(a.Words()) {
		return 0, outOfContract(InvalidIndex, "GetElemWord", name, int64(w))
	}
	return in.m.Load(a.Name, int(index), int(w)), nil
}
