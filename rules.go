// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// Rule vectors hold one bit per rule, bit i being the flag of the rule with
// index i. Vectors of more than 32 rules span several storage words: bit i
// lives in word i/32 at position i%32.

func (b *Binding) checkRule(op string, s *Signal, rule uint32) error {
	if int64(rule) >= int64(len(b.t.rules)) || rule >= s.Width {
		return outOfContract(InvalidIndex, op, s.Name, int64(rule))
	}
	return nil
}

// GetBit returns the flag of the given rule in a rule vector.
//
func (b *Binding) GetBit(h Handle, vector string, rule uint32) (bool, error) {
	in, s, err := b.scalar("GetBit", h, vector, false, anyClass)
	if err != nil {
		return false, err
	}
	if err = b.checkRule("GetBit", s, rule); err != nil {
		return false, err
	}
	w := in.m.Load(s.Name, 0, int(rule/WordBits))
	return (w>>(rule%WordBits))&1 != 0, nil
}

// SetBit sets or clears the flag of the given rule in a writable rule vector.
// Other flags are left untouched.
//
// SetBit is a read-modify-write of one storage word. It must not race with an
// Eval or another SetBit on the same model.
//
func (b *Binding) SetBit(h Handle, vector string, rule uint32, v bool) error {
	in, s, err := b.scalar("SetBit", h, vector, true, anyClass)
	if err != nil {
		return err
	}
	if err = b.checkRule("SetBit", s, rule); err != nil {
		return err
	}
	wi := int(rule / WordBits)
	w := in.m.Load(s.Name, 0, wi)
	if v {
		w |= 1 << (rule % WordBits)
	} else {
		w &^= 1 << (rule % WordBits)
	}
	in.m.Store(s.Name, wi, w)
	return nil
}

// ListBits returns the rules whose flag is set in a rule vector.
//
func (b *Binding) ListBits(h Handle, vector string) ([]Rule, error) {
	in, s, err := b.scalar("ListBits", h, vector, false, anyClass)
	if err != nil {
		return nil, err
	}
	var out []Rule
	for _, r := range b.t.rules {
		if r.Index >= s.Width {
			break
		}
		if in.m.Load(s.Name, 0, int(r.Index/WordBits))>>(r.Index%WordBits)&1 != 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

// FireOnly sets every flag of a writable rule vector except those of the
// named rules, which are cleared. Used on a block-fire vector, it lets only
// the named rules fire.
//
func (b *Binding) FireOnly(h Handle, vector string, rules ...string) error {
	in, s, err := b.scalar("FireOnly", h, vector, true, anyClass)
	if err != nil {
		return err
	}
	words := make([]uint32, s.Words())
	for i := range words {
		words[i] = ^uint32(0)
	}
	for _, n := range rules {
		r, ok := b.t.Rule(n)
		if !ok {
			return outOfContract(UnknownName, "FireOnly", n, -1)
		}
		if err = b.checkRule("FireOnly", s, r.Index); err != nil {
			return err
		}
		words[r.Index/WordBits] &^= 1 << (r.Index % WordBits)
	}
	for i, w := range words {
		in.m.Store(s.Name, i, w)
	}
	return nil
}
