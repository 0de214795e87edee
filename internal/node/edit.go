// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package node

import (
	"errors"
	"sync/atomic"
)

const (
	shiftBits = 5
	width     = 1 << shiftBits
	mask      = width - 1
)

var (
	// ErrIndexOutOfRange is returned when a sequence write addresses an
	// index at or beyond the end of the sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTransientClosed is the panic value raised when a transient is
	// used after AsPersistent was called on it.
	ErrTransientClosed = errors.New("transient used after it was made persistent")
)

// Edit is the ownership token of a transient. It doubles as the frozen
// marker of every node it stamped: closing it freezes them all and a closed
// token is never reopened.
type Edit struct {
	open atomic.Bool
}

func newEdit() *Edit {
	e := &Edit{}
	e.open.Store(true)
	return e
}

// owns reports whether a node stamped with stamp may be written in place
// by the holder of e.
func (e *Edit) owns(stamp *Edit) bool {
	return e != nil && stamp == e && e.open.Load()
}

func (e *Edit) close() {
	e.open.Store(false)
}

func (e *Edit) ensureOpen() {
	if !e.open.Load() {
		panic(ErrTransientClosed)
	}
}

func frozen(stamp *Edit) bool {
	return stamp == nil || !stamp.open.Load()
}
