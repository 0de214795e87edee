// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"fmt"
	"math"
	"reflect"
)

// DeepFreeze converts x into a frozen Value. x may be a *Value, *Object
// or *Array, a scalar (nil, bool, any integer or float type, string, or
// a type derived from one), or a map with string keys, a slice, a go
// array, a pointer or an interface holding any of these.
//
// Conversion is bottom up: every child is frozen before its parent, and
// a parent is only frozen once all of its children are. If x refers back
// to itself a *CycleError is returned; if x holds something that has no
// Value representation, such as a struct, a channel or an integer map
// key, the error matches ErrUnsupportedType. On error no part of x is
// returned.
//
// Containers reached more than once through different parents are
// converted once and shared in the result. Freezing a frozen Value
// returns it as it is.
func DeepFreeze(x interface{}) (*Value, error) {
	if v, isValue := x.(*Value); isValue && v.IsFrozen() {
		return v, nil
	}
	f := freezerNew()
	return f.freeze(x, Path{})
}

// IsFrozen reports whether the value and everything reachable from it
// is frozen. A nil *Value and the zero Value are not frozen.
func (val *Value) IsFrozen() bool {
	if val == nil || !val.frozen {
		return false
	}
	switch d := val.data.(type) {
	case *Object:
		return d.store.Frozen()
	case *Array:
		return d.store.Frozen()
	default:
		return true
	}
}

// identity names a container in the input by the address of its
// storage. Slices also carry their length since two slices may share
// the same first element.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type freezer struct {
	strs   *interner[string, string]
	vals   *valueInterner
	done   map[identity]*Value
	active map[identity]struct{}
}

func freezerNew() *freezer {
	return &freezer{
		strs:   stringInternerNew(),
		vals:   valueInternerNew(),
		done:   make(map[identity]*Value),
		active: make(map[identity]struct{}),
	}
}

func (f *freezer) freeze(x interface{}, path Path) (*Value, error) {
	switch d := x.(type) {
	case nil:
		return _null, nil
	case *Value:
		switch {
		case d == nil, !d.frozen:
			// Only the zero Value can be unfrozen, it holds nil.
			return _null, nil
		default:
			return d, nil
		}
	case *Object:
		if d == nil {
			return _null, nil
		}
		return newValue(d), nil
	case *Array:
		if d == nil {
			return _null, nil
		}
		return newValue(d), nil
	case bool:
		return f.vals.Intern(d), nil
	case string:
		return f.vals.Intern(f.strs.Intern(d)), nil
	case int:
		return f.vals.Intern(int64(d)), nil
	case int64:
		return f.vals.Intern(d), nil
	case float64:
		return f.vals.Intern(d), nil
	case map[string]interface{}:
		if d == nil {
			return newValue(ObjectNew()), nil
		}
	case []interface{}:
		if d == nil {
			return newValue(ArrayNew()), nil
		}
	}
	return f.freezeReflect(reflect.ValueOf(x), path)
}

func (f *freezer) freezeReflect(rv reflect.Value, path Path) (*Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return f.vals.Intern(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.vals.Intern(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64 at %q",
				ErrUnsupportedType, u, path.String())
		}
		return f.vals.Intern(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return f.vals.Intern(rv.Float()), nil
	case reflect.String:
		return f.vals.Intern(f.strs.Intern(rv.String())), nil
	case reflect.Interface:
		if rv.IsNil() {
			return _null, nil
		}
		return f.freeze(rv.Elem().Interface(), path)
	case reflect.Pointer:
		if rv.IsNil() {
			return _null, nil
		}
		switch x := rv.Interface().(type) {
		case *Value, *Object, *Array:
			return f.freeze(x, path)
		}
		return f.container(rv, path, func() (*Value, error) {
			return f.freezeReflect(rv.Elem(), path)
		})
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return newValue(ObjectNew()), nil
		}
		return f.container(rv, path, func() (*Value, error) {
			return f.freezeMap(rv, path)
		})
	case reflect.Slice:
		if rv.IsNil() {
			return newValue(ArrayNew()), nil
		}
		return f.container(rv, path, func() (*Value, error) {
			return f.freezeSeq(rv, path)
		})
	case reflect.Array:
		return f.freezeSeq(rv, path)
	}
	return nil, fmt.Errorf("%w %s at %q",
		ErrUnsupportedType, rv.Type(), path.String())
}

// container converts a value that has an identity. Each identity is
// converted once; meeting one again while it is still being converted
// means the input is cyclic.
func (f *freezer) container(
	rv reflect.Value,
	path Path,
	convert func() (*Value, error),
) (*Value, error) {
	id := identity{typ: rv.Type(), ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		id.len = rv.Len()
	}
	if v, ok := f.done[id]; ok {
		return v, nil
	}
	if _, ok := f.active[id]; ok {
		return nil, &CycleError{Path: path}
	}
	f.active[id] = struct{}{}
	defer delete(f.active, id)
	v, err := convert()
	if err != nil {
		return nil, err
	}
	f.done[id] = v
	return v, nil
}

func (f *freezer) freezeMap(rv reflect.Value, path Path) (*Value, error) {
	store := ObjectNew().store.AsTransient()
	iter := rv.MapRange()
	for iter.Next() {
		k := f.strs.Intern(iter.Key().String())
		v, err := f.freezeReflect(iter.Value(), path.Push(Key(k)))
		if err != nil {
			return nil, err
		}
		store.Assoc(k, v)
	}
	return newValue(objectFromStore(store.AsPersistent())), nil
}

func (f *freezer) freezeSeq(rv reflect.Value, path Path) (*Value, error) {
	store := ArrayNew().store.AsTransient()
	for i := 0; i < rv.Len(); i++ {
		v, err := f.freezeReflect(rv.Index(i), path.Push(Index(i)))
		if err != nil {
			return nil, err
		}
		store.Append(v)
	}
	return newValue(arrayFromStore(store.AsPersistent())), nil
}
