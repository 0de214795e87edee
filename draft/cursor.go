// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import (
	"fmt"

	"github.com/danos/immutable/data"
)

// Cursor addresses a location in a draft. Moving a cursor with Key,
// Index or In never fails; whether the location exists is only checked
// by the operation performed there.
//
// A cursor is detached, and its operations return ErrDetached, once the
// location it addresses or one above it is given a new value or removed
// by some other cursor. Removing an Array element detaches the cursors
// at that index and at every index after it.
type Cursor struct {
	draft *Draft
	path  data.Path
	born  uint64
	err   error
}

// Path returns the location of the cursor.
func (c *Cursor) Path() data.Path {
	return c.path
}

// Key returns a cursor at the member key of the object at c.
func (c *Cursor) Key(key string) *Cursor {
	return c.derive(c.path.Push(data.Key(key)))
}

// Index returns a cursor at element i of the array at c.
func (c *Cursor) Index(i int) *Cursor {
	return c.derive(c.path.Push(data.Index(i)))
}

// In returns a cursor at path relative to c.
func (c *Cursor) In(path data.Path) *Cursor {
	p := make(data.Path, 0, len(c.path)+len(path))
	p = append(append(p, c.path...), path...)
	return c.derive(p)
}

func (c *Cursor) derive(path data.Path) *Cursor {
	return &Cursor{
		draft: c.draft,
		path:  path,
		born:  c.draft.seq,
		err:   c.check(),
	}
}

func (c *Cursor) check() error {
	switch {
	case c.draft.revoked:
		return ErrRevoked
	case c.err != nil:
		return c.err
	case c.draft.detached(c.path, c.born):
		return fmt.Errorf("%w at %q", ErrDetached, c.path.String())
	default:
		return nil
	}
}

// Get returns the current value at c, or nil if there is none.
func (c *Cursor) Get() (*data.Value, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	v, _ := c.draft.resolve(c.path)
	return v, nil
}

// Original returns the value at c in the base, ignoring every write
// made to the draft. It returns nil once the draft is revoked.
func (c *Cursor) Original() *data.Value {
	if c.draft.revoked {
		return nil
	}
	return c.draft.base.GetIn(c.path)
}

// Len returns the number of members or elements of the container at c.
func (c *Cursor) Len() (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	v, ok := c.draft.resolve(c.path)
	if !ok {
		return 0, c.notFound("no value")
	}
	switch v.Kind() {
	case data.KindObject:
		return v.AsObject().Length(), nil
	case data.KindArray:
		return v.AsArray().Length(), nil
	default:
		return 0, c.notFound("not a container")
	}
}

// Find returns a cursor at the first element of the array at c for which
// pred returns true, or nil if there is none.
func (c *Cursor) Find(pred func(*data.Value) bool) (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	v, ok := c.draft.resolve(c.path)
	if !ok || !v.IsArray() {
		return nil, c.notFound("not an array")
	}
	if _, i := v.AsArray().Detect(pred); i >= 0 {
		return c.Index(i), nil
	}
	return nil, nil
}

// Set gives the member key of the object at c the value v, converted
// with data.DeepFreeze.
func (c *Cursor) Set(key string, v interface{}) error {
	s, nv, err := c.prepare(v)
	if err != nil {
		return err
	}
	return c.draft.setKey(s, c.path.Push(data.Key(key)), nv)
}

// SetIndex gives element i of the array at c the value v, converted
// with data.DeepFreeze. i must be an existing index.
func (c *Cursor) SetIndex(i int, v interface{}) error {
	s, nv, err := c.prepare(v)
	if err != nil {
		return err
	}
	return c.draft.setIndex(s, c.path.Push(data.Index(i)), nv)
}

// Delete removes the member key from the object at c. Deleting an
// absent member does nothing.
func (c *Cursor) Delete(key string) error {
	s, err := c.shadow()
	if err != nil {
		return err
	}
	path := c.path.Push(data.Key(key))
	if !s.value.IsObject() {
		return notA(path, "object")
	}
	if !s.value.AsObject().Contains(key) {
		return nil
	}
	s.value, err = s.value.DeleteIn(data.Path{data.Key(key)})
	if err != nil {
		return err
	}
	s.child(data.Key(key), &shadow{gone: true, replaced: c.draft.write()})
	return nil
}

// Push appends v, converted with data.DeepFreeze, to the array at c.
func (c *Cursor) Push(v interface{}) error {
	s, nv, err := c.prepare(v)
	if err != nil {
		return err
	}
	if !s.value.IsArray() {
		return notA(c.path, "array")
	}
	n := s.value.AsArray().Length()
	s.value, err = s.value.SetIn(data.Path{data.Index(n)}, nv,
		data.CreateMissing())
	if err != nil {
		return err
	}
	c.draft.write()
	return nil
}

// Pop removes the last element of the array at c and returns it.
func (c *Cursor) Pop() (*data.Value, error) {
	s, err := c.shadow()
	if err != nil {
		return nil, err
	}
	if !s.value.IsArray() {
		return nil, notA(c.path, "array")
	}
	return c.draft.removeAt(s, s.value.AsArray().Length()-1)
}

// RemoveAt removes element i of the array at c and returns it. The
// elements after it move down one index.
func (c *Cursor) RemoveAt(i int) (*data.Value, error) {
	s, err := c.shadow()
	if err != nil {
		return nil, err
	}
	if !s.value.IsArray() {
		return nil, notA(c.path, "array")
	}
	return c.draft.removeAt(s, i)
}

// Replace gives the location at c the value v, converted with
// data.DeepFreeze. c stays attached; cursors below it are detached.
func (c *Cursor) Replace(v interface{}) error {
	if err := c.check(); err != nil {
		return err
	}
	nv, err := data.DeepFreeze(v)
	if err != nil {
		return err
	}
	d := c.draft
	seg, ok := c.path.Last()
	if !ok {
		d.root = &shadow{value: nv, replaced: d.write()}
		c.born = d.seq
		return nil
	}
	s, err := d.ensure(c.path.Parent())
	if err != nil {
		return err
	}
	if seg.IsIndex() {
		err = d.setIndex(s, c.path, nv)
	} else {
		err = d.setKey(s, c.path, nv)
	}
	if err != nil {
		return err
	}
	c.born = d.seq
	return nil
}

func (c *Cursor) shadow() (*shadow, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.draft.ensure(c.path)
}

func (c *Cursor) prepare(v interface{}) (*shadow, *data.Value, error) {
	s, err := c.shadow()
	if err != nil {
		return nil, nil, err
	}
	nv, err := data.DeepFreeze(v)
	if err != nil {
		return nil, nil, err
	}
	return s, nv, nil
}

func (c *Cursor) notFound(reason string) error {
	return &data.PathError{Path: c.path, Depth: len(c.path) - 1,
		Reason: reason}
}

func notA(path data.Path, kind string) error {
	return &data.PathError{Path: path, Depth: len(path) - 1,
		Reason: "not an " + kind}
}

// setKey writes nv to the member named by the last segment of path in
// the object held by s.
func (d *Draft) setKey(s *shadow, path data.Path, nv *data.Value) error {
	if !s.value.IsObject() {
		return notA(path, "object")
	}
	seg, _ := path.Last()
	out, err := s.value.SetIn(data.Path{seg}, nv)
	if err != nil {
		return err
	}
	s.value = out
	s.child(seg, &shadow{value: nv, replaced: d.write()})
	return nil
}

// setIndex writes nv to the element named by the last segment of path in
// the array held by s.
func (d *Draft) setIndex(s *shadow, path data.Path, nv *data.Value) error {
	if !s.value.IsArray() {
		return notA(path, "array")
	}
	seg, _ := path.Last()
	out, err := s.value.SetIn(data.Path{seg}, nv)
	if err != nil {
		return err
	}
	s.value = out
	s.child(seg, &shadow{value: nv, replaced: d.write()})
	return nil
}

func (d *Draft) removeAt(s *shadow, i int) (*data.Value, error) {
	n := s.value.AsArray().Length()
	if i < 0 || i >= n {
		return nil, &data.IndexError{Index: i, Length: n}
	}
	removed, _ := s.current(data.Index(i))
	s.fold(i)
	out, err := s.value.DeleteIn(data.Path{data.Index(i)})
	if err != nil {
		return nil, err
	}
	s.value = out
	s.shifts = append(s.shifts, shift{from: i, seq: d.write()})
	return removed, nil
}
