// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

/*
Package draft records updates to a frozen data.Value as ordinary method
calls and turns them into a new value.

Produce hands the edit function a Draft. Cursors obtained from the draft
address locations in the value by path; reads through a cursor see the
base until a location has been written, and writes copy only the nodes
on the way to the written location. When the edit function returns, the
written locations are spliced into the base and every untouched subtree
of the result is the same *data.Value as in the base:

	next, err := draft.Produce(base, func(d *draft.Draft) (*data.Value, error) {
		return nil, d.Root().Key("b").Set("c", 3)
	})

If the edit function returns a value, that value is the result and the
recorded writes are dropped. If it returns an error or panics, nothing is
produced and the base is left as it was.

A Draft and its cursors are only valid while the edit function runs and
must not be shared between goroutines. The base and the result are
immutable and may be.
*/
package draft
