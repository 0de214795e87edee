// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import (
	"log/slog"

	"github.com/danos/immutable/data"
)

// Draft is the mutable view of a base value handed to the edit function
// of Produce.
type Draft struct {
	base    *data.Value
	root    *shadow
	seq     uint64
	writes  int
	revoked bool
	log     *slog.Logger
}

func draftNew(base *data.Value, opts *options) *Draft {
	return &Draft{
		base: base,
		root: &shadow{value: base},
		log:  opts.logger,
	}
}

// Base returns the value the draft was made from.
func (d *Draft) Base() *data.Value {
	return d.base
}

// Root returns a cursor at the root of the draft.
func (d *Draft) Root() *Cursor {
	return &Cursor{draft: d, path: data.Path{}, born: d.seq}
}

// At returns a cursor at path. It is the same as d.Root().In(path).
func (d *Draft) At(path data.Path) *Cursor {
	return d.Root().In(path)
}

// Produce calls edit with a draft of base and returns the value it
// describes. base must be frozen, see data.DeepFreeze.
//
// If edit returns a non-nil value that value is the result, whatever was
// written to the draft. Otherwise the result is base with every written
// location replaced; all other subtrees are shared with base, and if
// nothing was written the result is base itself.
//
// If edit returns an error it is returned and no value is produced; if
// it panics the panic is passed on. In both cases the recorded writes are
// discarded. The draft and its cursors are revoked when Produce returns.
func Produce(
	base *data.Value,
	edit func(*Draft) (*data.Value, error),
	opts ...Option,
) (*data.Value, error) {
	o := optionsNew(opts)
	if !base.IsFrozen() {
		return nil, ErrNotFrozenBase
	}
	d := draftNew(base, o)
	defer d.revoke()
	defer func() {
		if r := recover(); r != nil {
			d.discard()
			d.log.Debug("draft aborted", slog.Any("panic", r))
			panic(r)
		}
	}()

	repl, err := edit(d)
	if err != nil {
		d.discard()
		d.log.Debug("draft aborted", slog.Any("err", err))
		return nil, err
	}
	if repl != nil {
		writes := d.writes
		d.discard()
		out, err := data.DeepFreeze(repl)
		if err != nil {
			return nil, err
		}
		d.log.Debug("draft replaced",
			slog.Bool("replaced", true),
			slog.Int("writes", writes))
		return out, nil
	}
	out := d.commit()
	d.log.Debug("draft committed",
		slog.Int("writes", d.writes),
		slog.Bool("changed", out != base))
	return out, nil
}

// Producer returns a function that calls Produce with edit, passing args
// on to it.
func Producer(
	edit func(*Draft, ...interface{}) (*data.Value, error),
	opts ...Option,
) func(*data.Value, ...interface{}) (*data.Value, error) {
	return func(base *data.Value, args ...interface{}) (*data.Value, error) {
		return Produce(base, func(d *Draft) (*data.Value, error) {
			return edit(d, args...)
		}, opts...)
	}
}

// ProduceWithPatches is Produce that also returns the edit operation
// turning base into the result and the one turning the result back into
// base.
func ProduceWithPatches(
	base *data.Value,
	edit func(*Draft) (*data.Value, error),
	opts ...Option,
) (result *data.Value, forward, inverse *data.EditOperation, err error) {
	result, err = Produce(base, edit, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return result, data.Diff(base, result), data.Diff(result, base), nil
}

func (d *Draft) commit() *data.Value {
	return d.root.materialize()
}

func (d *Draft) discard() {
	d.root = &shadow{value: d.base}
}

func (d *Draft) revoke() {
	d.revoked = true
	d.root = nil
}

// write starts a new write and returns its sequence number.
func (d *Draft) write() uint64 {
	d.seq++
	d.writes++
	return d.seq
}

// detached reports whether a location written since born lies on path.
func (d *Draft) detached(path data.Path, born uint64) bool {
	s := d.root
	if s.replaced > born {
		return true
	}
	for _, seg := range path {
		if s.shifted(seg, born) {
			return true
		}
		kid, ok := s.kids[seg]
		if !ok {
			return false
		}
		if kid.replaced > born {
			return true
		}
		s = kid
	}
	return false
}

// resolve returns the current value at path.
func (d *Draft) resolve(path data.Path) (*data.Value, bool) {
	s := d.root
	for i, seg := range path {
		kid, ok := s.kids[seg]
		if !ok {
			return s.value.FindIn(path[i:])
		}
		if kid.gone {
			return nil, false
		}
		s = kid
	}
	return s.materialize(), true
}

// ensure returns the shadow of the location at path, making shadows for
// it and the locations above it as needed.
func (d *Draft) ensure(path data.Path) (*shadow, error) {
	s := d.root
	for i, seg := range path {
		kid, ok := s.kids[seg]
		if !ok {
			v, found := s.value.FindIn(data.Path{seg})
			if !found {
				return nil, pathError(path, i, s.value)
			}
			kid = &shadow{value: v}
			s.child(seg, kid)
		}
		if kid.gone {
			return nil, pathError(path, i, nil)
		}
		s = kid
	}
	return s, nil
}

func pathError(path data.Path, depth int, parent *data.Value) error {
	reason := "no value"
	switch parent.Kind() {
	case data.KindObject, data.KindArray:
	default:
		if parent != nil {
			reason = "not a container"
		}
	}
	return &data.PathError{Path: path, Depth: depth, Reason: reason}
}
