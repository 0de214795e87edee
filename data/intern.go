// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

// interner hands out one shared instance per distinct key for the
// duration of a single DeepFreeze.
type interner[K comparable, V any] struct {
	vals  map[K]V
	build func(K) V
}

func (i *interner[K, V]) Intern(key K) V {
	if out, ok := i.vals[key]; ok {
		return out
	}
	out := i.build(key)
	i.vals[key] = out
	return out
}

func stringInternerNew() *interner[string, string] {
	return &interner[string, string]{
		vals:  make(map[string]string),
		build: func(s string) string { return s },
	}
}

// valueInternerNew returns an interner sharing one *Value between equal
// scalars. Containers are shared by identity instead and must not be
// interned here.
func valueInternerNew() *valueInterner {
	return &valueInterner{
		interner: interner[interface{}, *Value]{
			vals:  map[interface{}]*Value{nil: _null},
			build: newValue,
		},
	}
}

type valueInterner struct {
	interner[interface{}, *Value]
}

func (i *valueInterner) Intern(data interface{}) *Value {
	if f, isFloat := data.(float64); isFloat && f == 0 {
		// 0 and -0 are the same map key.
		return newValue(data)
	}
	return i.interner.Intern(data)
}
