// Copyright (c) 2019-2020, AT&T Intellectual Property.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"fmt"
	"strings"
)

const (
	// EditAssoc is the edit action association with the SetIn operation.
	EditAssoc EditAction = "assoc"
	// EditDelete is the edit action association with the DeleteIn operation.
	EditDelete EditAction = "delete"
	// EditMerge is the edit action association with the MergeDeep operation.
	EditMerge EditAction = "merge"
)

// EditAction is an action that can be performed by the edit engine.
type EditAction string

// String returns the EditAction as a string.
func (e EditAction) String() string {
	return string(e)
}

// EditEntry contains the actions to perform as well as the
// path to perform it at and the value if any to be used.
type EditEntry struct {
	Action EditAction
	Path   Path
	Value  *Value
}

// String returns a string representation of the EditEntry.
func (e EditEntry) String() string {
	if e.Value == nil {
		return fmt.Sprintf("%s %q", e.Action, e.Path.String())
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %q ", e.Action, e.Path.String())
	buf.WriteString(e.Value.String())
	return buf.String()
}

// Equal implements equality between EditEntries.
func (e EditEntry) Equal(other interface{}) bool {
	oe, isEntry := other.(EditEntry)
	return isEntry &&
		oe.Action == e.Action &&
		oe.Path.Equal(e.Path) &&
		equal(oe.Value, e.Value)
}

func (e *EditEntry) evalAssoc() func(*Value) (*Value, error) {
	path, value := e.Path, e.value()
	return func(v *Value) (*Value, error) {
		return v.setIn(path, 0, value, &pathOpts{create: true})
	}
}

func (e *EditEntry) evalDelete() func(*Value) (*Value, error) {
	path := e.Path
	return func(v *Value) (*Value, error) {
		return v.DeleteIn(path)
	}
}

func (e *EditEntry) evalMerge() func(*Value) (*Value, error) {
	path, value := e.Path, e.value()
	return func(v *Value) (*Value, error) {
		return v.setIn(path, 0, v.GetIn(path).MergeDeep(value),
			&pathOpts{create: true})
	}
}

func (e *EditEntry) value() *Value {
	if e.Value == nil {
		return Null()
	}
	return e.Value
}

func (e *EditEntry) eval() (func(*Value) (*Value, error), error) {
	switch e.Action {
	case EditAssoc:
		return e.evalAssoc(), nil
	case EditDelete:
		return e.evalDelete(), nil
	case EditMerge:
		return e.evalMerge(), nil
	default:
		return nil, fmt.Errorf("unknown edit-action %v", e.Action)
	}
}

// EditOperation holds an ordered list of edit actions.
type EditOperation struct {
	Actions []EditEntry
}

// String returns a string representation of the EditOperation, one
// entry per line.
func (e *EditOperation) String() string {
	var buf strings.Builder
	for i, entry := range e.Actions {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(entry.String())
	}
	return buf.String()
}

// Length returns the number of entries in the operation.
func (e *EditOperation) Length() int {
	if e == nil {
		return 0
	}
	return len(e.Actions)
}

func (e *EditOperation) eval() (func(*Value) (*Value, error), error) {
	actions := make([]func(*Value) (*Value, error), len(e.Actions))
	for i := range e.Actions {
		action, err := e.Actions[i].eval()
		if err != nil {
			return nil, err
		}
		actions[i] = action
	}
	return func(v *Value) (*Value, error) {
		for i, action := range actions {
			out, err := action(v)
			if err != nil {
				return nil, fmt.Errorf("edit %d (%s): %w",
					i, e.Actions[i].Action, err)
			}
			v = out
		}
		return v, nil
	}, nil
}

// Edit applies the entries of op to the value in order and returns the
// result. Assoc entries create any containers missing along their path.
// If an entry fails the error is returned and no result is produced.
func (val *Value) Edit(op *EditOperation) (*Value, error) {
	if op == nil {
		return val, nil
	}
	fn, err := op.eval()
	if err != nil {
		return nil, err
	}
	return fn(val)
}

// Diff returns the edit operation that turns a into b. Subtrees that are
// the same *Value in both are skipped without being inspected, so the
// cost is proportional to the parts that differ.
func Diff(a, b *Value) *EditOperation {
	return EditOperationNew(a.diff(b, Path{})...)
}

func (val *Value) diff(new *Value, path Path) []EditEntry {
	if val == new {
		return nil
	}
	if val != nil && new != nil {
		switch v := val.data.(type) {
		case *Object:
			if no, ok := new.data.(*Object); ok {
				return v.diff(no, path)
			}
		case *Array:
			if na, ok := new.data.(*Array); ok {
				return v.diff(na, path)
			}
		}
	}
	if equal(val, new) {
		return nil
	}
	if new == nil {
		if len(path) == 0 {
			return []EditEntry{{Action: EditAssoc, Path: path, Value: Null()}}
		}
		return []EditEntry{{Action: EditDelete, Path: path}}
	}
	return []EditEntry{{Action: EditAssoc, Path: path, Value: new}}
}

// EditOperationNew produces a new EditOperation from the
// provided entries. This allows one to declaratively build an
// EditOperation.
func EditOperationNew(entries ...EditEntry) *EditOperation {
	return &EditOperation{
		Actions: entries,
	}
}

type editEntryOptions struct {
	value *Value
}

// EditEntryOption is a constructor for the optional parts of an EditEntry.
type EditEntryOption func(*editEntryOptions)

// EditEntryValue produce an EditEntryOption that populates the value field
// of an EditEntry.
func EditEntryValue(val interface{}) EditEntryOption {
	return func(o *editEntryOptions) {
		o.value = ValueNew(val)
	}
}

// EditEntryNew constructs a new EditEntry from the provided parameters.
// The path is parsed with PathNew. The last option in wins if they write
// the same option.
func EditEntryNew(action EditAction, path string, options ...EditEntryOption) EditEntry {
	var opts editEntryOptions
	for _, option := range options {
		option(&opts)
	}
	return EditEntry{
		Action: action,
		Path:   PathNew(path),
		Value:  opts.value,
	}
}
