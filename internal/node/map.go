// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package node

import (
	"math/bits"

	"github.com/spaolacci/murmur3"
)

func hashKey(key string) uint32 {
	return murmur3.Sum32([]byte(key))
}

func bitpos(hash uint32, shift uint) uint32 {
	return 1 << ((hash >> shift) & mask)
}

// hentry is a slot of a trie node. It holds either a leaf binding or,
// when sub is set, a child node.
type hentry[V comparable] struct {
	key  string
	hash uint32
	val  V
	sub  *hnode[V]
}

// hnode is a bitmap indexed trie node. Collision nodes hold leaves whose
// keys share the full 32 bit hash and are searched linearly.
type hnode[V comparable] struct {
	edit      *Edit
	bitmap    uint32
	collision bool
	hash      uint32
	entries   []hentry[V]
}

func (n *hnode[V]) index(bit uint32) int {
	return bits.OnesCount32(n.bitmap & (bit - 1))
}

func (n *hnode[V]) editable(edit *Edit) *hnode[V] {
	if edit.owns(n.edit) {
		return n
	}
	out := &hnode[V]{
		edit:      edit,
		bitmap:    n.bitmap,
		collision: n.collision,
		hash:      n.hash,
		entries:   make([]hentry[V], len(n.entries), len(n.entries)+1),
	}
	copy(out.entries, n.entries)
	return out
}

func (n *hnode[V]) find(shift uint, hash uint32, key string) (V, bool) {
	for n != nil {
		if n.collision {
			for i := range n.entries {
				if n.entries[i].key == key {
					return n.entries[i].val, true
				}
			}
			break
		}
		bit := bitpos(hash, shift)
		if n.bitmap&bit == 0 {
			break
		}
		e := &n.entries[n.index(bit)]
		if e.sub == nil {
			if e.key == key {
				return e.val, true
			}
			break
		}
		n, shift = e.sub, shift+shiftBits
	}
	var zero V
	return zero, false
}

func (n *hnode[V]) assoc(
	edit *Edit, shift uint, hash uint32,
	key string, val V, added *bool,
) *hnode[V] {
	if n == nil {
		*added = true
		return &hnode[V]{
			edit:    edit,
			bitmap:  bitpos(hash, shift),
			entries: []hentry[V]{{key: key, hash: hash, val: val}},
		}
	}
	if n.collision {
		return n.assocCollision(edit, shift, hash, key, val, added)
	}
	bit := bitpos(hash, shift)
	idx := n.index(bit)
	if n.bitmap&bit == 0 {
		*added = true
		out := n.editable(edit)
		out.entries = append(out.entries, hentry[V]{})
		copy(out.entries[idx+1:], out.entries[idx:])
		out.entries[idx] = hentry[V]{key: key, hash: hash, val: val}
		out.bitmap |= bit
		return out
	}
	e := n.entries[idx]
	switch {
	case e.sub != nil:
		sub := e.sub.assoc(edit, shift+shiftBits, hash, key, val, added)
		if sub == e.sub {
			return n
		}
		out := n.editable(edit)
		out.entries[idx].sub = sub
		return out
	case e.key == key:
		if e.val == val {
			return n
		}
		out := n.editable(edit)
		out.entries[idx].val = val
		return out
	default:
		*added = true
		sub := mergeLeaves(edit, shift+shiftBits,
			e, hentry[V]{key: key, hash: hash, val: val})
		out := n.editable(edit)
		out.entries[idx] = hentry[V]{sub: sub}
		return out
	}
}

func (n *hnode[V]) assocCollision(
	edit *Edit, shift uint, hash uint32,
	key string, val V, added *bool,
) *hnode[V] {
	if hash != n.hash {
		// Push the collision node one level down so the new key can
		// be placed beside it.
		wrap := &hnode[V]{
			edit:    edit,
			bitmap:  bitpos(n.hash, shift),
			entries: []hentry[V]{{sub: n}},
		}
		return wrap.assoc(edit, shift, hash, key, val, added)
	}
	for i := range n.entries {
		if n.entries[i].key != key {
			continue
		}
		if n.entries[i].val == val {
			return n
		}
		out := n.editable(edit)
		out.entries[i].val = val
		return out
	}
	*added = true
	out := n.editable(edit)
	out.entries = append(out.entries, hentry[V]{key: key, hash: hash, val: val})
	return out
}

// mergeLeaves builds the smallest subtree holding two leaves that
// collided in a slot at the previous level.
func mergeLeaves[V comparable](edit *Edit, shift uint, e1, e2 hentry[V]) *hnode[V] {
	if e1.hash == e2.hash {
		return &hnode[V]{
			edit:      edit,
			collision: true,
			hash:      e1.hash,
			entries:   []hentry[V]{e1, e2},
		}
	}
	b1, b2 := bitpos(e1.hash, shift), bitpos(e2.hash, shift)
	if b1 == b2 {
		return &hnode[V]{
			edit:   edit,
			bitmap: b1,
			entries: []hentry[V]{
				{sub: mergeLeaves(edit, shift+shiftBits, e1, e2)},
			},
		}
	}
	if b1 > b2 {
		e1, e2 = e2, e1
	}
	return &hnode[V]{
		edit:    edit,
		bitmap:  b1 | b2,
		entries: []hentry[V]{e1, e2},
	}
}

func (n *hnode[V]) without(
	edit *Edit, shift uint, hash uint32,
	key string, removed *bool,
) *hnode[V] {
	if n == nil {
		return nil
	}
	if n.collision {
		for i := range n.entries {
			if n.entries[i].key != key {
				continue
			}
			*removed = true
			if len(n.entries) == 1 {
				return nil
			}
			out := n.editable(edit)
			out.entries = append(out.entries[:i], out.entries[i+1:]...)
			return out
		}
		return n
	}
	bit := bitpos(hash, shift)
	if n.bitmap&bit == 0 {
		return n
	}
	idx := n.index(bit)
	e := n.entries[idx]
	if e.sub == nil {
		if e.key != key {
			return n
		}
		*removed = true
		return n.removeSlot(edit, bit, idx)
	}
	sub := e.sub.without(edit, shift+shiftBits, hash, key, removed)
	switch {
	case sub == e.sub:
		return n
	case sub == nil:
		return n.removeSlot(edit, bit, idx)
	}
	out := n.editable(edit)
	if leaf, ok := sub.single(); ok {
		out.entries[idx] = leaf
	} else {
		out.entries[idx].sub = sub
	}
	return out
}

func (n *hnode[V]) removeSlot(edit *Edit, bit uint32, idx int) *hnode[V] {
	if n.bitmap == bit {
		return nil
	}
	out := n.editable(edit)
	out.entries = append(out.entries[:idx], out.entries[idx+1:]...)
	out.bitmap &^= bit
	return out
}

// single returns the leaf of a node that holds exactly one leaf so it
// can be pulled up into its parent's slot.
func (n *hnode[V]) single() (hentry[V], bool) {
	if len(n.entries) == 1 && n.entries[0].sub == nil {
		return n.entries[0], true
	}
	return hentry[V]{}, false
}

func (n *hnode[V]) each(fn func(string, V) bool) bool {
	if n == nil {
		return true
	}
	for i := range n.entries {
		e := &n.entries[i]
		if e.sub != nil {
			if !e.sub.each(fn) {
				return false
			}
			continue
		}
		if !fn(e.key, e.val) {
			return false
		}
	}
	return true
}

// Map is a persistent map from strings to V. The zero Map is empty and
// ready to use.
type Map[V comparable] struct {
	root  *hnode[V]
	count int
}

// EmptyMap returns the empty map. All empty maps share the nil root.
func EmptyMap[V comparable]() Map[V] {
	return Map[V]{}
}

// Length returns the number of bindings in the map.
func (m Map[V]) Length() int {
	return m.count
}

// Find returns the value bound to key and whether the key is present.
func (m Map[V]) Find(key string) (V, bool) {
	return m.root.find(0, hashKey(key), key)
}

// Contains reports whether key is bound in the map.
func (m Map[V]) Contains(key string) bool {
	_, ok := m.Find(key)
	return ok
}

// Assoc returns a map with key bound to val. If key is already bound to
// val the receiver is returned unchanged.
func (m Map[V]) Assoc(key string, val V) Map[V] {
	var added bool
	root := m.root.assoc(nil, 0, hashKey(key), key, val, &added)
	if root == m.root {
		return m
	}
	out := Map[V]{root: root, count: m.count}
	if added {
		out.count++
	}
	return out
}

// Delete returns a map without key. Deleting an absent key returns the
// receiver unchanged.
func (m Map[V]) Delete(key string) Map[V] {
	var removed bool
	root := m.root.without(nil, 0, hashKey(key), key, &removed)
	if !removed {
		return m
	}
	return Map[V]{root: root, count: m.count - 1}
}

// Range calls fn for each binding in trie order until fn returns false.
func (m Map[V]) Range(fn func(key string, val V) bool) {
	m.root.each(fn)
}

// Same reports whether both maps share the same root node.
func (m Map[V]) Same(other Map[V]) bool {
	return m.root == other.root
}

// Frozen reports the frozen marker of the root node.
func (m Map[V]) Frozen() bool {
	return m.root == nil || frozen(m.root.edit)
}

// AsTransient returns a transient copy of the map. The map itself is not
// affected by edits made through the transient.
func (m Map[V]) AsTransient() *TMap[V] {
	return &TMap[V]{
		edit:  newEdit(),
		root:  m.root,
		count: m.count,
	}
}

// TMap is a transient map. It mutates the nodes it owns in place and
// must not be shared between goroutines.
type TMap[V comparable] struct {
	edit  *Edit
	root  *hnode[V]
	count int
}

// Length returns the number of bindings in the transient.
func (t *TMap[V]) Length() int {
	return t.count
}

// Find returns the value bound to key and whether the key is present.
func (t *TMap[V]) Find(key string) (V, bool) {
	t.edit.ensureOpen()
	return t.root.find(0, hashKey(key), key)
}

// Contains reports whether key is bound in the transient.
func (t *TMap[V]) Contains(key string) bool {
	_, ok := t.Find(key)
	return ok
}

// Assoc binds key to val.
func (t *TMap[V]) Assoc(key string, val V) *TMap[V] {
	t.edit.ensureOpen()
	var added bool
	t.root = t.root.assoc(t.edit, 0, hashKey(key), key, val, &added)
	if added {
		t.count++
	}
	return t
}

// Delete removes key.
func (t *TMap[V]) Delete(key string) *TMap[V] {
	t.edit.ensureOpen()
	var removed bool
	t.root = t.root.without(t.edit, 0, hashKey(key), key, &removed)
	if removed {
		t.count--
	}
	return t
}

// Range calls fn for each binding until fn returns false.
func (t *TMap[V]) Range(fn func(key string, val V) bool) {
	t.edit.ensureOpen()
	t.root.each(fn)
}

// AsPersistent freezes every node owned by the transient and returns
// the resulting map. The transient cannot be used afterwards.
func (t *TMap[V]) AsPersistent() Map[V] {
	t.edit.ensureOpen()
	t.edit.close()
	return Map[V]{root: t.root, count: t.count}
}
