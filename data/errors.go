// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"fmt"

	"github.com/danos/immutable/internal/node"
)

var (
	// ErrIndexOutOfRange is matched by errors from writes to an Array
	// index at or beyond its length.
	ErrIndexOutOfRange = node.ErrIndexOutOfRange

	// ErrPath is matched by errors from path writes whose intermediate
	// segments do not resolve to a container.
	ErrPath = errors.New("path does not resolve to a container")

	// ErrCyclicStructure is matched by errors from DeepFreeze when the
	// input refers back to itself.
	ErrCyclicStructure = errors.New("cyclic structure")

	// ErrUnsupportedType is matched by errors from DeepFreeze when the
	// input holds a type that cannot be represented as a Value.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidPath is matched by errors from ParsePath.
	ErrInvalidPath = errors.New("invalid path")
)

// IndexError reports a write to an index outside of an Array.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0:%d]", e.Index, e.Length)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// PathError reports a path write that could not be carried out. Depth is
// the position in Path of the segment that failed.
type PathError struct {
	Path   Path
	Depth  int
	Reason string
}

func (e *PathError) Error() string {
	at := e.Path
	if e.Depth >= 0 && e.Depth < len(at) {
		at = at[:e.Depth+1]
	}
	return fmt.Sprintf("%v at %q: %s", ErrPath, at.String(), e.Reason)
}

// Unwrap returns ErrPath.
func (e *PathError) Unwrap() error {
	return ErrPath
}

// CycleError reports the location at which DeepFreeze found its input
// referring back to one of its own ancestors.
type CycleError struct {
	Path Path
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v at %s", ErrCyclicStructure, e.Path)
}

// Unwrap returns ErrCyclicStructure.
func (e *CycleError) Unwrap() error {
	return ErrCyclicStructure
}
