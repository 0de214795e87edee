// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ValueNew turns a native go value into a frozen Value. Nested maps,
// slices and pointers are converted with DeepFreeze. ValueNew will panic
// if the value holds a type that cannot be represented or if it is
// cyclic; use DeepFreeze to receive the error instead.
func ValueNew(data interface{}) *Value {
	v, err := DeepFreeze(data)
	if err != nil {
		panic(err)
	}
	return v
}

// newValue wraps already normalised data. Every child of data must
// already be frozen.
func newValue(data interface{}) *Value {
	return &Value{data: data, frozen: true}
}

var _null = newValue(nil)

// Null returns the shared null value.
func Null() *Value {
	return _null
}

// Value is an immutable value. Values may be *Object, *Array, int64,
// float64, string, bool or nil. All integer types are converted to int64
// and float32 is converted to float64 when creating a value.
//
// The zero Value holds nil but is not frozen; only values produced by
// this package are.
type Value struct {
	data   interface{}
	frozen bool
}

// Kind identifies the type of data held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Kind returns the kind of data held by the value. A nil *Value is
// reported as KindNull.
func (val *Value) Kind() Kind {
	if val == nil {
		return KindNull
	}
	switch val.data.(type) {
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case *Array:
		return KindArray
	case *Object:
		return KindObject
	default:
		return KindNull
	}
}

// rank orders kinds for Compare. Both numeric kinds share a rank.
func (k Kind) rank() int {
	switch k {
	case KindFloat:
		return int(KindInt)
	default:
		return int(k)
	}
}

var valType = reflect.TypeOf((*Value)(nil))
var interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()

// Perform allows one to match the type of the Value with a behavior
// to perform on that type without resulting to the assertion
// operations. Think of this as the switch v.(type) { ... } analogue for
// Values. It takes a list of func(v vT) oT functions and applies
// the first match to the value, returning its result.
//
// If vT above is *Value or interface{} it matches all value types.
// A null value is only matched by those two.
func (val *Value) Perform(fns ...interface{}) interface{} {
	if val == nil {
		return nil
	}
	vty := reflect.TypeOf(val.data)
	for _, fn := range fns {
		fnv := reflect.ValueOf(fn)
		fnty := fnv.Type()
		if fnty.Kind() != reflect.Func || fnty.NumIn() != 1 {
			continue
		}
		var arg reflect.Value
		switch inputType := fnty.In(0); {
		case inputType == valType:
			arg = reflect.ValueOf(val)
		case inputType == interfaceType:
			arg = reflect.New(interfaceType).Elem()
			if val.data != nil {
				arg.Set(reflect.ValueOf(val.data))
			}
		case vty != nil && vty.AssignableTo(inputType):
			arg = reflect.ValueOf(val.data)
		default:
			continue
		}
		out := fnv.Call([]reflect.Value{arg})
		if len(out) == 0 {
			return nil
		}
		return out[0].Interface()
	}
	return nil
}

// AsObject returns an *Object if the value is an Object and panics otherwise.
func (val *Value) AsObject() *Object {
	return val.data.(*Object)
}

// IsObject returns if the data stored in the value is an Object.
func (val *Value) IsObject() bool {
	_, isObject := val.data.(*Object)
	return isObject
}

// ToObject returns an *Object and allows the user to define a
// default. The value (*Object)(nil) is returned if no default is defined
// and the value is not an *Object.
func (val *Value) ToObject(defaultVal ...*Object) *Object {
	o, isObject := val.data.(*Object)
	if isObject {
		return o
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return nil
}

// AsArray returns an *Array if the value is an Array and panics otherwise.
func (val *Value) AsArray() *Array {
	return val.data.(*Array)
}

// IsArray returns if the data stored in the value is an Array.
func (val *Value) IsArray() bool {
	_, isArray := val.data.(*Array)
	return isArray
}

// ToArray returns an *Array and allows the user to define a
// default. The value (*Array)(nil) is returned if no default is defined
// and the value is not an *Array.
func (val *Value) ToArray(defaultVal ...*Array) *Array {
	arr, isArray := val.data.(*Array)
	if isArray {
		return arr
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return nil
}

// AsString returns an string if the value is an String and panics otherwise.
func (val *Value) AsString() string {
	return val.data.(string)
}

// IsString returns if the data stored in the value is an String.
func (val *Value) IsString() bool {
	_, isString := val.data.(string)
	return isString
}

// ToString returns an string and allows the user to define a
// default. The value "" is returned if no default is defined
// and the value is not an string.
func (val *Value) ToString(defaultVal ...string) string {
	s, isString := val.data.(string)
	if isString {
		return s
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return ""
}

// AsInt returns an int64 if the value is an integer and panics otherwise.
func (val *Value) AsInt() int64 {
	return val.data.(int64)
}

// IsInt returns if the value is an integer.
func (val *Value) IsInt() bool {
	_, isInt := val.data.(int64)
	return isInt
}

// ToInt returns an int64 if the value is an integer and returns the user
// supplied default or 0 otherwise.
func (val *Value) ToInt(defaultVal ...int64) int64 {
	i, isInt := val.data.(int64)
	if isInt {
		return i
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return 0
}

// AsFloat returns a float64 if the value is numeric and panics otherwise.
// Integers are converted.
func (val *Value) AsFloat() float64 {
	if i, isInt := val.data.(int64); isInt {
		return float64(i)
	}
	return val.data.(float64)
}

// IsFloat returns if the value is a float.
func (val *Value) IsFloat() bool {
	_, isFloat := val.data.(float64)
	return isFloat
}

// ToFloat returns a float64 if the value is numeric and returns the user
// supplied default or 0 otherwise.
func (val *Value) ToFloat(defaultVal ...float64) float64 {
	switch d := val.data.(type) {
	case float64:
		return d
	case int64:
		return float64(d)
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return 0
}

// AsBoolean returns a bool if the value is a bool and panics otherwise.
func (val *Value) AsBoolean() bool {
	return val.data.(bool)
}

// IsBoolean returns if the value is an bool
func (val *Value) IsBoolean() bool {
	_, isBoolean := val.data.(bool)
	return isBoolean
}

// ToBoolean returns an bool if the value is a bool and returns the user
// supplied default or false otherwise.
func (val *Value) ToBoolean(defaultVal ...bool) bool {
	b, isBool := val.data.(bool)
	if isBool {
		return b
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return false
}

// IsNull returns whether the values data is nil.
func (val *Value) IsNull() bool {
	return val.data == nil
}

// ToInterface returns the held data directly as a native interface.
func (val *Value) ToInterface() interface{} {
	return val.data
}

// ToNative converts a value to go native types: Objects become
// map[string]interface{} and Arrays become []interface{}.
func (val *Value) ToNative() interface{} {
	switch d := val.data.(type) {
	case interface {
		toNative() interface{}
	}:
		return d.toNative()
	default:
		return d
	}
}

// Merge will combine the old value with the new value and return the
// result. Two Objects are merged one level deep, the bindings of new
// taking precedence; two Arrays are merged index by index. In every
// other case new is returned.
func (val *Value) Merge(new *Value) *Value {
	return val.merge(new, false)
}

// MergeDeep is Merge applied recursively to every pair of nested
// containers found at the same position in both values.
func (val *Value) MergeDeep(new *Value) *Value {
	return val.merge(new, true)
}

func (val *Value) merge(new *Value, deep bool) *Value {
	switch {
	case new == nil:
		return val
	case val == nil || val == new:
		return new
	}
	switch v := val.data.(type) {
	case *Object:
		if no, ok := new.data.(*Object); ok {
			return v.merge(no, deep).wrap(val)
		}
	case *Array:
		if na, ok := new.data.(*Array); ok {
			return v.merge(na, deep).wrap(val)
		}
	}
	return new
}

// Equal provides an implementation of Equality for Value types. Values
// of different kinds are never equal, so int64(1) and float64(1) differ.
// Floats compare with ==, so NaN is only equal to the identical *Value.
func (val *Value) Equal(other interface{}) bool {
	if other == nil {
		return val == nil
	}
	ov, isValue := other.(*Value)
	if !isValue {
		return false
	}
	return equal(val, ov)
}

func equal(v1, v2 *Value) bool {
	if v1 == v2 {
		return true
	}
	if v1 == nil || v2 == nil {
		return false
	}
	switch d := v1.data.(type) {
	case *Object:
		o, ok := v2.data.(*Object)
		return ok && d.equal(o)
	case *Array:
		a, ok := v2.data.(*Array)
		return ok && d.equal(a)
	default:
		return v1.data == v2.data
	}
}

// Compare provides a total order over Values. Kinds are ordered null,
// bool, number, string, array, object; integers and floats are compared
// numerically with each other. Arrays compare element by element and
// Objects compare by length, then by their sorted keys, then by value.
func (val *Value) Compare(other *Value) int {
	k1, k2 := val.Kind(), other.Kind()
	if r := cmp.Compare(k1.rank(), k2.rank()); r != 0 {
		return r
	}
	switch k1 {
	case KindNull:
		return 0
	case KindBool:
		return compareBool(val.AsBoolean(), other.AsBoolean())
	case KindInt, KindFloat:
		return compareNumber(val, other)
	case KindString:
		return cmp.Compare(val.AsString(), other.AsString())
	case KindArray:
		return val.AsArray().compare(other.AsArray())
	default:
		return val.AsObject().compare(other.AsObject())
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareNumber(a, b *Value) int {
	if a.IsInt() && b.IsInt() {
		return cmp.Compare(a.AsInt(), b.AsInt())
	}
	return cmp.Compare(a.AsFloat(), b.AsFloat())
}

// String returns a go string representation of the Value. Scalars are
// printed as by fmt; containers are printed in a JSON like form with
// Object keys in ascending order.
func (val *Value) String() string {
	switch val.data.(type) {
	case *Object, *Array:
		var buf bytes.Buffer
		val.writeTo(&buf)
		return buf.String()
	default:
		return fmt.Sprintf("%v", val.data)
	}
}

func (val *Value) writeTo(buf *bytes.Buffer) {
	switch d := val.data.(type) {
	case interface{ writeTo(*bytes.Buffer) }:
		d.writeTo(buf)
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteString(strconv.Quote(d))
	case float64:
		switch {
		case math.IsNaN(d), math.IsInf(d, 0):
			buf.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
		default:
			buf.WriteString(strconv.FormatFloat(d, 'f', -1, 64))
		}
	default:
		fmt.Fprintf(buf, "%v", d)
	}
}
