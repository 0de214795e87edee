// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import "errors"

var (
	// ErrNotFrozenBase is returned by Produce when the base is not a
	// frozen value.
	ErrNotFrozenBase = errors.New("base value is not frozen")

	// ErrRevoked is returned by cursor operations once Produce has
	// returned.
	ErrRevoked = errors.New("draft has been revoked")

	// ErrDetached is returned by cursor operations on a location whose
	// value was replaced or removed after the cursor was made.
	ErrDetached = errors.New("cursor is detached")
)
