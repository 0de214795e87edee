// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package data implements persistent, structurally shared values. The
// Objects and Arrays in this library are immutable. This means that
// updating the structure will yield a new copy with the changes made,
// this is made efficient by sharing every untouched part of the structure
// of the new value with the old one. The library is based on the central
// Value type that holds an Object, an Array, an int64, a float64, a
// string, a bool, or nil. This may be thought of as a restricted form of
// the go interface{} type.
//
// Plain go data (maps, slices, pointers and scalars) enters the library
// through DeepFreeze, which converts it bottom up into frozen Values and
// rejects cyclic input. Nested data can be read and updated with Paths,
// and the differences between two Values can be captured as an
// EditOperation and replayed later.
package data
