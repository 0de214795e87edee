// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/danos/immutable/internal/node"
)

var _emptyObject = &Object{}

// ObjectNew returns the empty object. All empty objects built by this
// package share the same instance.
func ObjectNew() *Object {
	return _emptyObject
}

// ObjectWith creates a new object and then populates it with the supplied pairs
func ObjectWith(pairs ...Pair) *Object {
	return ObjectNew().Transform(func(t *TObject) {
		for _, pair := range pairs {
			t.Assoc(pair.Key(), pair.Value())
		}
	})
}

// ObjectFrom creates a new object from the data in the supplied map.
// Nested data is converted with DeepFreeze and any error it reports is
// returned.
func ObjectFrom(in map[string]interface{}) (*Object, error) {
	v, err := DeepFreeze(in)
	if err != nil {
		return nil, err
	}
	return v.AsObject(), nil
}

// PairNew creates a new pair
func PairNew(key string, value interface{}) Pair {
	return Pair{key: key, value: ValueNew(value)}
}

// Pair is a key/value pair, a member of an Object.
type Pair struct {
	key   string
	value *Value
}

// Key returns the key.
func (p Pair) Key() string { return p.key }

// Value returns the value.
func (p Pair) Value() *Value { return p.value }

// String returns a string representation of the Pair.
func (p Pair) String() string { return fmt.Sprintf("[%v %v]", p.key, p.value) }

// Equal implements equality between Pairs.
func (p Pair) Equal(other interface{}) bool {
	op, isPair := other.(Pair)
	if !isPair {
		return false
	}
	return op.key == p.key && equal(op.value, p.value)
}

// Object is a persistent map from strings to Values. Objects are
// immutable, the mutation methods return a structurally shared copy of
// the object with the required changes. This provides cheap copies of
// the object and preserves the original allowing it to be easily shared
// between goroutines.
type Object struct {
	store node.Map[*Value]
	fp    fingerprintMemo
}

func objectFromStore(store node.Map[*Value]) *Object {
	if store.Length() == 0 {
		return _emptyObject
	}
	return &Object{store: store}
}

// wrap returns orig if it already holds obj and a new frozen Value
// otherwise.
func (obj *Object) wrap(orig *Value) *Value {
	if orig != nil && orig.data == interface{}(obj) {
		return orig
	}
	return newValue(obj)
}

// sorted returns the members of the object in ascending key order.
func (obj *Object) sorted() []Pair {
	out := make([]Pair, 0, obj.store.Length())
	obj.store.Range(func(k string, v *Value) bool {
		out = append(out, Pair{key: k, value: v})
		return true
	})
	slices.SortFunc(out, func(a, b Pair) int {
		return cmp.Compare(a.key, b.key)
	})
	return out
}

// Range iterates over the object's members in ascending key
// order. Range can take a set of functions matched by type. If the
// function returns a bool this is treated as a loop terminataion
// variable if false the loop will terminate.
//
//	func(Pair) iterates over Pairs
//	func(Pair) bool, called with a Pair, terminates the loop on false.
//	func(string, *Value) iterates over keys and values.
//	func(string, *Value) bool
//	func(string) iterates over only the keys
//	func(string) bool
//	func(*Value) iterates over only the values
//	func(*Value) bool
func (obj *Object) Range(fn interface{}) *Object {
	var do func(Pair) bool
	switch f := fn.(type) {
	case func(Pair):
		do = func(p Pair) bool {
			f(p)
			return true
		}
	case func(Pair) bool:
		do = f
	case func(string, *Value):
		do = func(p Pair) bool {
			f(p.key, p.value)
			return true
		}
	case func(string, *Value) bool:
		do = func(p Pair) bool {
			return f(p.key, p.value)
		}
	case func(*Value):
		do = func(p Pair) bool {
			f(p.value)
			return true
		}
	case func(*Value) bool:
		do = func(p Pair) bool {
			return f(p.value)
		}
	case func(string):
		do = func(p Pair) bool {
			f(p.key)
			return true
		}
	case func(string) bool:
		do = func(p Pair) bool {
			return f(p.key)
		}
	default:
		panic("invalid range function")
	}
	for _, p := range obj.sorted() {
		if !do(p) {
			break
		}
	}
	return obj
}

// Keys returns the keys of the object in ascending order.
func (obj *Object) Keys() []string {
	out := make([]string, 0, obj.Length())
	obj.Range(func(k string) {
		out = append(out, k)
	})
	return out
}

// At returns the Value at the key's location or nil if it doesn't exist.
func (obj *Object) At(key string) *Value {
	out, _ := obj.store.Find(key)
	return out
}

// Contains returns true if the key exists in the object.
func (obj *Object) Contains(key string) bool {
	return obj.store.Contains(key)
}

// Find returns the value at the key or nil if it doesn't exist and
// whether the key was in the object.
func (obj *Object) Find(key string) (*Value, bool) {
	return obj.store.Find(key)
}

// Assoc associates a new value with the key. The value is converted
// with ValueNew. If the key is already bound to the same *Value the
// object itself is returned.
func (obj *Object) Assoc(key string, value interface{}) *Object {
	return obj.assoc(key, ValueNew(value))
}

func (obj *Object) assoc(key string, v *Value) *Object {
	new := obj.store.Assoc(key, v)
	if new.Same(obj.store) {
		return obj
	}
	return objectFromStore(new)
}

// Length returns the number of elements in the object.
func (obj *Object) Length() int {
	return obj.store.Length()
}

// Delete removes a key from the object. Deleting a key that is not
// present returns the object itself.
func (obj *Object) Delete(key string) *Object {
	new := obj.store.Delete(key)
	if new.Same(obj.store) {
		return obj
	}
	return objectFromStore(new)
}

// Merge returns the object with every binding of other added, the
// bindings of other taking precedence. Nested values are not merged.
func (obj *Object) Merge(other *Object) *Object {
	return obj.merge(other, false)
}

// MergeDeep returns the object with every binding of other added. Where
// both objects bind a key the two values are merged with MergeDeep.
func (obj *Object) MergeDeep(other *Object) *Object {
	return obj.merge(other, true)
}

// merge is accretive only and will not remove keys missing from new.
func (obj *Object) merge(new *Object, deep bool) *Object {
	switch {
	case new == nil || new.Length() == 0 || obj == new:
		return obj
	case obj.Length() == 0:
		return new
	}
	return obj.Transform(func(t *TObject) {
		new.store.Range(func(k string, v *Value) bool {
			if deep {
				if old, ok := obj.store.Find(k); ok {
					v = old.MergeDeep(v)
				}
			}
			t.Assoc(k, v)
			return true
		})
	})
}

// Transform allows one to apply a set of updates to an object through
// a transient. The transient is only valid for the duration of fn and
// the resulting object is frozen when Transform returns. If fn made no
// change the object itself is returned.
func (obj *Object) Transform(fn func(*TObject)) *Object {
	t := &TObject{store: obj.store.AsTransient()}
	fn(t)
	new := t.store.AsPersistent()
	if new.Same(obj.store) {
		return obj
	}
	return objectFromStore(new)
}

// toNative produces a go native map[string]interface{} from the object.
func (obj *Object) toNative() interface{} {
	out := make(map[string]interface{}, obj.Length())
	obj.store.Range(func(k string, v *Value) bool {
		out[k] = v.ToNative()
		return true
	})
	return out
}

// Equal implements equality for objects. An object is equal to another
// object if all their keys contains equal values. Equality checks are linear
// with respect to the number of keys.
func (obj *Object) Equal(other interface{}) bool {
	oo, isObject := other.(*Object)
	return isObject && obj.equal(oo)
}

func (obj *Object) equal(other *Object) bool {
	if obj == other || obj.store.Same(other.store) {
		return true
	}
	if obj.Length() != other.Length() {
		return false
	}
	eq := true
	obj.store.Range(func(k string, v *Value) bool {
		ov, ok := other.store.Find(k)
		eq = ok && equal(v, ov)
		return eq
	})
	return eq
}

func (obj *Object) compare(other *Object) int {
	if r := cmp.Compare(obj.Length(), other.Length()); r != 0 {
		return r
	}
	mine, theirs := obj.sorted(), other.sorted()
	for i := range mine {
		if r := cmp.Compare(mine[i].key, theirs[i].key); r != 0 {
			return r
		}
	}
	for i := range mine {
		if r := mine[i].value.Compare(theirs[i].value); r != 0 {
			return r
		}
	}
	return 0
}

// String returns a string representation of the Object.
func (obj *Object) String() string {
	var buf bytes.Buffer
	obj.writeTo(&buf)
	return buf.String()
}

func (obj *Object) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, pair := range obj.sorted() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(pair.key))
		buf.WriteByte(':')
		pair.value.writeTo(buf)
	}
	buf.WriteByte('}')
}

func (obj *Object) diff(new *Object, path Path) []EditEntry {
	var out []EditEntry
	for _, pair := range obj.sorted() {
		nv, ok := new.store.Find(pair.key)
		if !ok {
			out = append(out, EditEntry{
				Action: EditDelete,
				Path:   path.Push(Key(pair.key)),
			})
			continue
		}
		out = append(out, pair.value.diff(nv, path.Push(Key(pair.key)))...)
	}
	for _, pair := range new.sorted() {
		if obj.store.Contains(pair.key) {
			continue
		}
		out = append(out, EditEntry{
			Action: EditAssoc,
			Path:   path.Push(Key(pair.key)),
			Value:  pair.value,
		})
	}
	return out
}

// TObject is a transient Object. It is handed to the function given to
// Object.Transform and may only be used until that function returns.
type TObject struct {
	store *node.TMap[*Value]
}

// At returns the Value at the key's location or nil if it doesn't exist.
func (t *TObject) At(key string) *Value {
	out, _ := t.store.Find(key)
	return out
}

// Find returns the value at the key and whether the key was present.
func (t *TObject) Find(key string) (*Value, bool) {
	return t.store.Find(key)
}

// Contains returns true if the key exists in the transient.
func (t *TObject) Contains(key string) bool {
	return t.store.Contains(key)
}

// Assoc associates a new value with the key. The value is converted with
// ValueNew.
func (t *TObject) Assoc(key string, value interface{}) *TObject {
	t.store.Assoc(key, ValueNew(value))
	return t
}

// Delete removes the key.
func (t *TObject) Delete(key string) *TObject {
	t.store.Delete(key)
	return t
}

// Length returns the number of elements in the transient.
func (t *TObject) Length() int {
	return t.store.Length()
}

// Range calls fn for every member of the transient, in no particular
// order, until fn returns false.
func (t *TObject) Range(fn func(string, *Value) bool) {
	t.store.Range(fn)
}
