// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package node

// vnode is a radix trie node. Internal nodes use children, leaves use
// values; both are always width long.
type vnode[V comparable] struct {
	edit     *Edit
	children []*vnode[V]
	values   []V
}

func newInternal[V comparable](edit *Edit) *vnode[V] {
	return &vnode[V]{
		edit:     edit,
		children: make([]*vnode[V], width),
	}
}

func (n *vnode[V]) editable(edit *Edit) *vnode[V] {
	if n == nil {
		return newInternal[V](edit)
	}
	if edit.owns(n.edit) {
		return n
	}
	out := &vnode[V]{edit: edit}
	if n.children != nil {
		out.children = make([]*vnode[V], width)
		copy(out.children, n.children)
	}
	if n.values != nil {
		out.values = make([]V, width)
		copy(out.values, n.values)
	}
	return out
}

func newPath[V comparable](edit *Edit, level uint, leaf *vnode[V]) *vnode[V] {
	if level == 0 {
		return leaf
	}
	n := newInternal[V](edit)
	n.children[0] = newPath(edit, level-shiftBits, leaf)
	return n
}

// pushTailAt installs a full leaf below parent. count is the length of
// the sequence before the append that forced the tail into the trie.
func pushTailAt[V comparable](
	edit *Edit, count int, level uint,
	parent, leaf *vnode[V],
) *vnode[V] {
	out := parent.editable(edit)
	sub := ((count - 1) >> level) & mask
	switch child := out.children[sub]; {
	case level == shiftBits:
		out.children[sub] = leaf
	case child != nil:
		out.children[sub] = pushTailAt(edit, count, level-shiftBits, child, leaf)
	default:
		out.children[sub] = newPath(edit, level-shiftBits, leaf)
	}
	return out
}

func assocAt[V comparable](edit *Edit, level uint, n *vnode[V], i int, val V) *vnode[V] {
	out := n.editable(edit)
	if level == 0 {
		out.values[i&mask] = val
		return out
	}
	sub := (i >> level) & mask
	out.children[sub] = assocAt(edit, level-shiftBits, n.children[sub], i, val)
	return out
}

// popTailAt removes the rightmost leaf below n, returning nil when n is
// left empty. count is the length before the pop.
func popTailAt[V comparable](edit *Edit, count int, level uint, n *vnode[V]) *vnode[V] {
	sub := ((count - 2) >> level) & mask
	if level > shiftBits {
		child := popTailAt(edit, count, level-shiftBits, n.children[sub])
		if child == nil && sub == 0 {
			return nil
		}
		out := n.editable(edit)
		out.children[sub] = child
		return out
	}
	if sub == 0 {
		return nil
	}
	out := n.editable(edit)
	out.children[sub] = nil
	return out
}

// Seq is a persistent sequence of V. The zero Seq is empty and ready to
// use.
type Seq[V comparable] struct {
	count int
	shift uint
	root  *vnode[V]
	tail  []V
}

// EmptySeq returns the empty sequence. All empty sequences share the nil
// root.
func EmptySeq[V comparable]() Seq[V] {
	return Seq[V]{shift: shiftBits}
}

func (s Seq[V]) init() Seq[V] {
	if s.shift == 0 {
		s.shift = shiftBits
	}
	return s
}

func (s Seq[V]) tailoff() int {
	if s.count < width {
		return 0
	}
	return ((s.count - 1) >> shiftBits) << shiftBits
}

func (s Seq[V]) leafFor(i int) []V {
	if i >= s.tailoff() {
		return s.tail
	}
	n := s.root
	for level := s.shift; level > 0; level -= shiftBits {
		n = n.children[(i>>level)&mask]
	}
	return n.values
}

// pushTail moves a full tail into the trie, growing the root when it is
// already full.
func (s Seq[V]) pushTail(edit *Edit, leaf *vnode[V]) (*vnode[V], uint) {
	if (s.count >> shiftBits) > (1 << s.shift) {
		root := newInternal[V](edit)
		root.children[0] = s.root
		root.children[1] = newPath(edit, s.shift, leaf)
		return root, s.shift + shiftBits
	}
	return pushTailAt(edit, s.count, s.shift, s.root, leaf), s.shift
}

// popTail pulls the rightmost leaf of the trie out to become the tail.
func (s Seq[V]) popTail(edit *Edit) (*vnode[V], uint, []V) {
	tail := s.leafFor(s.count - 2)
	root := popTailAt(edit, s.count, s.shift, s.root)
	shift := s.shift
	if root != nil && shift > shiftBits && root.children[1] == nil {
		root = root.children[0]
		shift -= shiftBits
	}
	return root, shift, tail
}

// Length returns the number of elements.
func (s Seq[V]) Length() int {
	return s.count
}

// At returns the element at i and whether i is in range.
func (s Seq[V]) At(i int) (V, bool) {
	if i < 0 || i >= s.count {
		var zero V
		return zero, false
	}
	return s.init().leafFor(i)[i&mask], true
}

// Assoc returns a sequence with the element at i replaced by val. i must
// be less than the length of the sequence.
func (s Seq[V]) Assoc(i int, val V) (Seq[V], error) {
	if i < 0 || i >= s.count {
		return s, ErrIndexOutOfRange
	}
	s = s.init()
	leaf := s.leafFor(i)
	if leaf[i&mask] == val {
		return s, nil
	}
	if i >= s.tailoff() {
		tail := make([]V, len(s.tail))
		copy(tail, s.tail)
		tail[i&mask] = val
		s.tail = tail
		return s, nil
	}
	s.root = assocAt(nil, s.shift, s.root, i, val)
	return s, nil
}

// Append returns a sequence with val added to the end.
func (s Seq[V]) Append(val V) Seq[V] {
	s = s.init()
	if s.count-s.tailoff() < width {
		tail := make([]V, len(s.tail)+1)
		copy(tail, s.tail)
		tail[len(s.tail)] = val
		return Seq[V]{count: s.count + 1, shift: s.shift, root: s.root, tail: tail}
	}
	root, shift := s.pushTail(nil, &vnode[V]{values: s.tail})
	return Seq[V]{count: s.count + 1, shift: shift, root: root, tail: []V{val}}
}

// Pop returns a sequence without its last element. Popping an empty
// sequence returns it unchanged.
func (s Seq[V]) Pop() Seq[V] {
	s = s.init()
	switch {
	case s.count == 0:
		return s
	case s.count == 1:
		return EmptySeq[V]()
	case s.count-s.tailoff() > 1:
		tail := make([]V, len(s.tail)-1)
		copy(tail, s.tail)
		return Seq[V]{count: s.count - 1, shift: s.shift, root: s.root, tail: tail}
	}
	root, shift, tail := s.popTail(nil)
	return Seq[V]{count: s.count - 1, shift: shift, root: root, tail: tail}
}

// Delete returns a sequence without the element at i. Removing anything
// but the last element rebuilds the sequence.
func (s Seq[V]) Delete(i int) (Seq[V], error) {
	if i < 0 || i >= s.count {
		return s, ErrIndexOutOfRange
	}
	if i == s.count-1 {
		return s.Pop(), nil
	}
	out := EmptySeq[V]().AsTransient()
	s.Range(func(j int, v V) bool {
		if j != i {
			out.Append(v)
		}
		return true
	})
	return out.AsPersistent(), nil
}

// Range calls fn for each element in index order until fn returns false.
func (s Seq[V]) Range(fn func(i int, val V) bool) {
	s = s.init()
	for base := 0; base < s.count; base += width {
		leaf := s.leafFor(base)
		for j := 0; j < width && base+j < s.count; j++ {
			if !fn(base+j, leaf[j]) {
				return
			}
		}
	}
}

// Same reports whether both sequences share the same trie and tail.
func (s Seq[V]) Same(other Seq[V]) bool {
	if s.count != other.count || s.root != other.root {
		return false
	}
	return len(s.tail) == 0 || &s.tail[0] == &other.tail[0]
}

// Frozen reports the frozen marker of the root node.
func (s Seq[V]) Frozen() bool {
	return s.root == nil || frozen(s.root.edit)
}

// AsTransient returns a transient copy of the sequence.
func (s Seq[V]) AsTransient() *TSeq[V] {
	s = s.init()
	tail := make([]V, len(s.tail), width)
	copy(tail, s.tail)
	s.tail = tail
	return &TSeq[V]{edit: newEdit(), s: s}
}

// TSeq is a transient sequence. It mutates the nodes it owns in place and
// must not be shared between goroutines.
type TSeq[V comparable] struct {
	edit *Edit
	s    Seq[V]
}

// Length returns the number of elements.
func (t *TSeq[V]) Length() int {
	return t.s.count
}

// At returns the element at i and whether i is in range.
func (t *TSeq[V]) At(i int) (V, bool) {
	t.edit.ensureOpen()
	return t.s.At(i)
}

// Assoc replaces the element at i. i must be less than the length.
func (t *TSeq[V]) Assoc(i int, val V) error {
	t.edit.ensureOpen()
	if i < 0 || i >= t.s.count {
		return ErrIndexOutOfRange
	}
	if i >= t.s.tailoff() {
		t.s.tail[i&mask] = val
		return nil
	}
	t.s.root = assocAt(t.edit, t.s.shift, t.s.root, i, val)
	return nil
}

// Append adds val to the end.
func (t *TSeq[V]) Append(val V) *TSeq[V] {
	t.edit.ensureOpen()
	if t.s.count-t.s.tailoff() < width {
		t.s.tail = append(t.s.tail, val)
		t.s.count++
		return t
	}
	leaf := &vnode[V]{edit: t.edit, values: t.s.tail}
	t.s.root, t.s.shift = t.s.pushTail(t.edit, leaf)
	t.s.tail = make([]V, 1, width)
	t.s.tail[0] = val
	t.s.count++
	return t
}

// Pop removes the last element, if any.
func (t *TSeq[V]) Pop() *TSeq[V] {
	t.edit.ensureOpen()
	var zero V
	switch {
	case t.s.count == 0:
		return t
	case t.s.count == 1 || t.s.count-t.s.tailoff() > 1:
		last := len(t.s.tail) - 1
		t.s.tail[last] = zero
		t.s.tail = t.s.tail[:last]
		t.s.count--
		return t
	}
	root, shift, leaf := t.s.popTail(t.edit)
	t.s.root, t.s.shift = root, shift
	t.s.tail = append(make([]V, 0, width), leaf...)
	t.s.count--
	return t
}

// Range calls fn for each element in index order until fn returns false.
func (t *TSeq[V]) Range(fn func(i int, val V) bool) {
	t.edit.ensureOpen()
	t.s.Range(fn)
}

// AsPersistent freezes every node owned by the transient and returns
// the resulting sequence. The transient cannot be used afterwards.
func (t *TSeq[V]) AsPersistent() Seq[V] {
	t.edit.ensureOpen()
	t.edit.close()
	return t.s
}
