// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

func assert(expr bool, ifFalse func()) {
	if !expr {
		ifFalse()
	}
}

type equaler interface {
	Equal(other interface{}) bool
}

// equiv compares any two things that implement Equal.
func equiv(a, b interface{}) bool {
	ea, ok := a.(equaler)
	if !ok {
		return a == b
	}
	return ea.Equal(b)
}

func didPanic(fn func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	fn()
	return false
}
