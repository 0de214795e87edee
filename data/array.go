// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"bytes"
	"cmp"
	"fmt"
	"sort"

	"github.com/danos/immutable/internal/node"
)

var _emptyArray = &Array{}

// ArrayNew returns the empty array. All empty arrays built by this
// package share the same instance.
func ArrayNew() *Array {
	return _emptyArray
}

// ArrayWith creates an array and initializes it with the provided
// elements. It panics if an element cannot be converted with ValueNew.
func ArrayWith(elements ...interface{}) *Array {
	return ArrayNew().Transform(func(t *TArray) {
		for _, elem := range elements {
			t.Append(elem)
		}
	})
}

// ArrayFrom creates an array and initializes it with the elements from
// the provided slice or go array. Nested data is converted with
// DeepFreeze and any error it reports is returned.
func ArrayFrom(in interface{}) (*Array, error) {
	v, err := DeepFreeze(in)
	if err != nil {
		return nil, err
	}
	arr, isArray := v.data.(*Array)
	if !isArray {
		return nil, fmt.Errorf("%w: %s is not a sequence",
			ErrUnsupportedType, v.Kind())
	}
	return arr, nil
}

// Array is a persistent sequence of Values. The arrays are immutable,
// the mutation methods return new structurally shared copies of the
// original array with the changes. This provides cheap copies of the
// array and preserves the original allowing it to be easily shared.
type Array struct {
	store node.Seq[*Value]
	fp    fingerprintMemo
}

func arrayFromStore(store node.Seq[*Value]) *Array {
	if store.Length() == 0 {
		return _emptyArray
	}
	return &Array{store: store}
}

func (arr *Array) wrap(orig *Value) *Value {
	if orig != nil && orig.data == interface{}(arr) {
		return orig
	}
	return newValue(arr)
}

// At returns the value at the index of the array, if the index is out
// of bounds, nil is returned.
func (arr *Array) At(index int) *Value {
	v, _ := arr.store.At(index)
	return v
}

// Contains returns whether the index is in the bounds of the array.
func (arr *Array) Contains(index int) bool {
	return index < arr.store.Length() && index >= 0
}

// Find returns the value at the index or nil if it doesn't exist and
// whether the index was in the array.
func (arr *Array) Find(index int) (*Value, bool) {
	return arr.store.At(index)
}

// Assoc associates the value with the index in the array. The index
// must be within the array; an *IndexError is returned otherwise. Use
// Append to grow the array.
func (arr *Array) Assoc(index int, value interface{}) (*Array, error) {
	v, err := DeepFreeze(value)
	if err != nil {
		return arr, err
	}
	return arr.assoc(index, v)
}

func (arr *Array) assoc(index int, v *Value) (*Array, error) {
	new, err := arr.store.Assoc(index, v)
	if err != nil {
		return arr, &IndexError{Index: index, Length: arr.Length()}
	}
	if new.Same(arr.store) {
		return arr, nil
	}
	return arrayFromStore(new), nil
}

// Length returns the number of elements in the array.
func (arr *Array) Length() int {
	return arr.store.Length()
}

// Append adds a new value to the end of the array.
func (arr *Array) Append(value interface{}) *Array {
	return arr.append(ValueNew(value))
}

func (arr *Array) append(v *Value) *Array {
	return arrayFromStore(arr.store.Append(v))
}

// Pop removes the last element of the array. Popping an empty array
// returns it unchanged.
func (arr *Array) Pop() *Array {
	if arr.Length() == 0 {
		return arr
	}
	return arrayFromStore(arr.store.Pop())
}

// Delete removes an element at the supplied index from the array,
// shifting the elements after it down by one.
func (arr *Array) Delete(index int) (*Array, error) {
	new, err := arr.store.Delete(index)
	if err != nil {
		return arr, &IndexError{Index: index, Length: arr.Length()}
	}
	return arrayFromStore(new), nil
}

// Detect returns the first element for which fn returns true and its
// index, or nil and -1 if there is none.
func (arr *Array) Detect(fn func(*Value) bool) (*Value, int) {
	return arr.detectAndIfNone(fn, func() (*Value, int) { return nil, -1 })
}

func (arr *Array) detectAndIfNone(
	fn func(*Value) bool,
	ifNone func() (*Value, int),
) (*Value, int) {
	var out *Value
	idx := -1
	arr.store.Range(func(i int, v *Value) bool {
		if fn(v) {
			out, idx = v, i
			return false
		}
		return true
	})
	if idx >= 0 {
		return out, idx
	}
	return ifNone()
}

// Range iterates over the array's members. Range can take a set of functions
// matched by type. If the function returns a bool this is treated as a
// loop terminataion variable if false the loop will terminate.
//
//	func(int, *Value) iterates over indicies and values.
//	func(int, *Value) bool
//	func(int) iterates over only the indicies
//	func(int) bool
//	func(*Value) iterates over only the values
//	func(*Value) bool
func (arr *Array) Range(fn interface{}) *Array {
	arr.store.Range(rangeFunc(fn))
	return arr
}

func rangeFunc(fn interface{}) func(int, *Value) bool {
	switch f := fn.(type) {
	case func(int, *Value):
		return func(idx int, val *Value) bool {
			f(idx, val)
			return true
		}
	case func(int, *Value) bool:
		return f
	case func(*Value):
		return func(idx int, val *Value) bool {
			f(val)
			return true
		}
	case func(*Value) bool:
		return func(idx int, val *Value) bool {
			return f(val)
		}
	case func(int):
		return func(idx int, val *Value) bool {
			f(idx)
			return true
		}
	case func(int) bool:
		return func(idx int, val *Value) bool {
			return f(idx)
		}
	default:
		panic("invalid range function")
	}
}

// toNative returns a go native []interface{} from the array.
func (arr *Array) toNative() interface{} {
	out := make([]interface{}, arr.Length())
	arr.Range(func(idx int, value *Value) {
		out[idx] = value.ToNative()
	})
	return out
}

// Merge returns the array with every index of other replacing the
// element at the same index; elements beyond the end of the array are
// appended. Merge is accretive only and will not remove elements.
func (arr *Array) Merge(other *Array) *Array {
	return arr.merge(other, false)
}

// MergeDeep is Merge with elements present in both arrays combined by
// MergeDeep.
func (arr *Array) MergeDeep(other *Array) *Array {
	return arr.merge(other, true)
}

func (arr *Array) merge(new *Array, deep bool) *Array {
	if new == nil || new.Length() == 0 || arr == new {
		return arr
	}
	return arr.Transform(func(out *TArray) {
		new.Range(func(i int, v *Value) {
			if !arr.Contains(i) {
				out.append(v)
				return
			}
			if deep {
				v = arr.At(i).MergeDeep(v)
			}
			out.assoc(i, v)
		})
	})
}

// Equal implements equality for arrays. An array is equal to another
// array if all their values at each index is equal. Equality checks are linear
// with respect to the number of elements.
func (arr *Array) Equal(other interface{}) bool {
	oa, isArray := other.(*Array)
	return isArray && arr.equal(oa)
}

func (arr *Array) equal(other *Array) bool {
	if arr == other || arr.store.Same(other.store) {
		return true
	}
	if arr.Length() != other.Length() {
		return false
	}
	eq := true
	arr.store.Range(func(i int, v *Value) bool {
		eq = equal(v, other.At(i))
		return eq
	})
	return eq
}

func (arr *Array) compare(other *Array) int {
	n := min(arr.Length(), other.Length())
	for i := 0; i < n; i++ {
		if r := arr.At(i).Compare(other.At(i)); r != 0 {
			return r
		}
	}
	return cmp.Compare(arr.Length(), other.Length())
}

// String returns a string representation of the Array.
func (arr *Array) String() string {
	var buf bytes.Buffer
	arr.writeTo(&buf)
	return buf.String()
}

func (arr *Array) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('[')
	arr.Range(func(i int, v *Value) {
		if i > 0 {
			buf.WriteByte(',')
		}
		v.writeTo(buf)
	})
	buf.WriteByte(']')
}

func (arr *Array) diff(new *Array, path Path) []EditEntry {
	var out []EditEntry
	arr.Range(func(i int, v *Value) {
		if other, ok := new.Find(i); ok {
			out = append(out, v.diff(other, path.Push(Index(i)))...)
		}
	})
	new.Range(func(i int, v *Value) {
		if arr.Contains(i) {
			return
		}
		out = append(out, EditEntry{
			Action: EditAssoc,
			Path:   path.Push(Index(i)),
			Value:  v,
		})
	})
	// Trailing elements are removed from the end so that every
	// recorded index is still valid when the entry is applied.
	for i := arr.Length() - 1; i >= new.Length(); i-- {
		out = append(out, EditEntry{
			Action: EditDelete,
			Path:   path.Push(Index(i)),
		})
	}
	return out
}

// Transform executes the provided function against a mutable
// transient array to provide a faster, less memory intensive, array
// editing mechanism. The transient may not be used after fn returns.
func (arr *Array) Transform(fn func(*TArray)) *Array {
	tarr := &TArray{
		store: arr.store.AsTransient(),
	}
	fn(tarr)
	new := tarr.store.AsPersistent()
	if new.Same(arr.store) {
		return arr
	}
	return arrayFromStore(new)
}

// Sort sorts an array returning a new array that is sorted. By default
// sort will use (*Value).Compare as the comparison operator this may be
// overridden using the Compare option. The sort is stable.
func (arr *Array) Sort(options ...SortOption) *Array {
	var opts sortOpts
	opts.compare = func(v1, v2 *Value) int {
		return v1.Compare(v2)
	}
	for _, opt := range options {
		opt(&opts)
	}
	return arr.Transform(func(t *TArray) {
		sort.Stable(&arraySorter{array: t, opts: &opts})
	})
}

type arraySorter struct {
	array *TArray
	opts  *sortOpts
}

func (s *arraySorter) Len() int {
	return s.array.Length()
}

func (s *arraySorter) Less(i, j int) bool {
	return s.opts.compare(s.array.At(i), s.array.At(j)) < 0
}

func (s *arraySorter) Swap(i, j int) {
	a, b := s.array.At(i), s.array.At(j)
	s.array.assoc(i, b)
	s.array.assoc(j, a)
}

type sortOpts struct {
	compare func(v1, v2 *Value) int
}

// SortOption is an option to the Array.Sort function
type SortOption func(*sortOpts)

// Compare takes a comparison function and returns a sort option
// A compare function takes two values and returns a trinary state as
// an integer. Less than zero indicates the first was less than the last,
// zero indicates the two values were equal, and greater than zero
// indicates that the first was greater than the last.
func Compare(fn func(a, b *Value) int) SortOption {
	return func(opts *sortOpts) {
		opts.compare = fn
	}
}

// TArray is a transient array that may be used to perform
// transformations on an array in a fast mutable fashion. This can
// only be accessed via the (*Array).Transform method. Care should be
// taken not to share this among threads as its values are mutable.
type TArray struct {
	store *node.TSeq[*Value]
}

// Assoc associates the value with the index in the array. The index
// must be within the array.
func (arr *TArray) Assoc(i int, v interface{}) error {
	val, err := DeepFreeze(v)
	if err != nil {
		return err
	}
	return arr.assoc(i, val)
}

func (arr *TArray) assoc(i int, v *Value) error {
	if err := arr.store.Assoc(i, v); err != nil {
		return &IndexError{Index: i, Length: arr.Length()}
	}
	return nil
}

// Append adds a new value to the end of the array.
func (arr *TArray) Append(value interface{}) *TArray {
	return arr.append(ValueNew(value))
}

func (arr *TArray) append(v *Value) *TArray {
	arr.store.Append(v)
	return arr
}

// Pop removes the last element of the array.
func (arr *TArray) Pop() *TArray {
	arr.store.Pop()
	return arr
}

// At returns the value at the index of the array, if the index is out
// of bounds, nil is returned.
func (arr *TArray) At(index int) *Value {
	v, _ := arr.store.At(index)
	return v
}

// Contains returns whether the index is in the bounds of the array.
func (arr *TArray) Contains(index int) bool {
	return index < arr.store.Length() && index >= 0
}

// Delete removes an element at the supplied index from the array,
// shifting the elements after it down by one.
func (arr *TArray) Delete(index int) error {
	n := arr.Length()
	if index < 0 || index >= n {
		return &IndexError{Index: index, Length: n}
	}
	for i := index; i < n-1; i++ {
		arr.assoc(i, arr.At(i+1))
	}
	arr.store.Pop()
	return nil
}

// Find returns the value at the index or nil if it doesn't exist and
// whether the index was in the array.
func (arr *TArray) Find(index int) (*Value, bool) {
	return arr.store.At(index)
}

// Length returns the number of elements in the array.
func (arr *TArray) Length() int {
	return arr.store.Length()
}

// Range iterates over the transient's members. It accepts the same
// functions as (*Array).Range.
func (arr *TArray) Range(fn interface{}) {
	arr.store.Range(rangeFunc(fn))
}
