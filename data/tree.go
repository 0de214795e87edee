// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

type pathOpts struct {
	create bool
}

// PathOption is an option to SetIn and UpdateIn.
type PathOption func(*pathOpts)

// CreateMissing makes SetIn create the containers a path passes
// through when they are absent. Key segments create empty Objects and
// index segments create empty Arrays; an index equal to the length of
// an Array appends to it. Without this option an absent intermediate
// container is an error.
func CreateMissing() PathOption {
	return func(opts *pathOpts) {
		opts.create = true
	}
}

func pathOptsNew(options []PathOption) *pathOpts {
	var opts pathOpts
	for _, opt := range options {
		opt(&opts)
	}
	return &opts
}

// child returns the value selected by seg. A segment that does not
// match the kind of container, or any segment applied to a scalar,
// selects nothing.
func (val *Value) child(seg Segment) (*Value, bool) {
	if val == nil {
		return nil, false
	}
	switch d := val.data.(type) {
	case *Object:
		if seg.isIndex {
			return nil, false
		}
		return d.Find(seg.key)
	case *Array:
		if !seg.isIndex {
			return nil, false
		}
		return d.Find(seg.index)
	default:
		return nil, false
	}
}

// GetIn returns the value at path or nil if there is none. The empty
// path returns the receiver.
func (val *Value) GetIn(path Path) *Value {
	v, _ := val.FindIn(path)
	return v
}

// FindIn returns the value at path and whether it was present.
func (val *Value) FindIn(path Path) (*Value, bool) {
	cur := val
	for _, seg := range path {
		next, ok := cur.child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// SetIn returns a copy of the value with v placed at path. Only the
// containers along path are copied; everything else is shared with the
// receiver. Setting a value identical to the one already present
// returns the receiver.
//
// If a segment before the last one does not resolve to a container of
// the right kind a *PathError is returned. If the last segment is an
// index at or beyond the end of its Array an *IndexError is
// returned. The receiver is never modified.
func (val *Value) SetIn(
	path Path,
	v interface{},
	options ...PathOption,
) (*Value, error) {
	nv, err := DeepFreeze(v)
	if err != nil {
		return val, err
	}
	return val.setIn(path, 0, nv, pathOptsNew(options))
}

func (val *Value) setIn(path Path, depth int, nv *Value, opts *pathOpts) (*Value, error) {
	if depth == len(path) {
		return nv, nil
	}
	seg := path[depth]
	last := depth == len(path)-1
	if val == nil {
		if !opts.create {
			return nil, &PathError{Path: path, Depth: depth,
				Reason: "no value"}
		}
		val = emptyContainerFor(seg)
	}
	switch d := val.data.(type) {
	case *Object:
		if seg.isIndex {
			return val, &PathError{Path: path, Depth: depth,
				Reason: "index into object"}
		}
		child, ok := d.Find(seg.key)
		if !ok && !last && !opts.create {
			return val, &PathError{Path: path, Depth: depth,
				Reason: "no such member"}
		}
		nc, err := child.setIn(path, depth+1, nv, opts)
		if err != nil {
			return val, err
		}
		return d.assoc(seg.key, nc).wrap(val), nil
	case *Array:
		if !seg.isIndex {
			return val, &PathError{Path: path, Depth: depth,
				Reason: "key into array"}
		}
		i, n := seg.index, d.Length()
		switch {
		case i >= 0 && i < n:
			nc, err := d.At(i).setIn(path, depth+1, nv, opts)
			if err != nil {
				return val, err
			}
			out, _ := d.assoc(i, nc)
			return out.wrap(val), nil
		case i == n && opts.create:
			nc, err := (*Value)(nil).setIn(path, depth+1, nv, opts)
			if err != nil {
				return val, err
			}
			return d.append(nc).wrap(val), nil
		case last:
			return val, &IndexError{Index: i, Length: n}
		default:
			return val, &PathError{Path: path, Depth: depth,
				Reason: "no such element"}
		}
	default:
		return val, &PathError{Path: path, Depth: depth,
			Reason: "not a container"}
	}
}

func emptyContainerFor(seg Segment) *Value {
	if seg.isIndex {
		return newValue(ArrayNew())
	}
	return newValue(ObjectNew())
}

// DeleteIn returns a copy of the value without the member at path.
// Removing an Array element shifts the elements after it down. A path
// that does not resolve returns the receiver unchanged; the empty path
// cannot be deleted and returns a *PathError.
func (val *Value) DeleteIn(path Path) (*Value, error) {
	if len(path) == 0 {
		return val, &PathError{Path: path, Reason: "cannot delete the root"}
	}
	return val.deleteIn(path, 0), nil
}

func (val *Value) deleteIn(path Path, depth int) *Value {
	seg := path[depth]
	child, ok := val.child(seg)
	if !ok {
		return val
	}
	if depth < len(path)-1 {
		nc := child.deleteIn(path, depth+1)
		if nc == child {
			return val
		}
		switch d := val.data.(type) {
		case *Object:
			return d.assoc(seg.key, nc).wrap(val)
		default:
			out, _ := val.AsArray().assoc(seg.index, nc)
			return out.wrap(val)
		}
	}
	switch d := val.data.(type) {
	case *Object:
		return d.Delete(seg.key).wrap(val)
	default:
		out, _ := val.AsArray().Delete(seg.index)
		return out.wrap(val)
	}
}

// UpdateIn replaces the value at path with the result of fn. fn is
// called with the current value, or nil if there is none, and the
// result is placed with SetIn.
func (val *Value) UpdateIn(
	path Path,
	fn func(*Value) (*Value, error),
	options ...PathOption,
) (*Value, error) {
	nv, err := fn(val.GetIn(path))
	if err != nil {
		return val, err
	}
	return val.SetIn(path, nv, options...)
}

// Walk calls fn for the value and every value nested inside it, parents
// before children. Object members are visited in ascending key order.
// If fn returns false the children of that value are skipped.
func (val *Value) Walk(fn func(Path, *Value) bool) {
	val.walk(Path{}, fn)
}

func (val *Value) walk(path Path, fn func(Path, *Value) bool) {
	if !fn(path, val) {
		return
	}
	switch d := val.data.(type) {
	case *Object:
		d.Range(func(k string, v *Value) {
			v.walk(path.Push(Key(k)), fn)
		})
	case *Array:
		d.Range(func(i int, v *Value) {
			v.walk(path.Push(Index(i)), fn)
		})
	}
}
