// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import (
	"github.com/danos/immutable/data"
)

// shadow is the draft's copy of one location. value is the location's
// value apart from its shadowed children, whose own values take
// precedence over the ones held in value.
type shadow struct {
	value *data.Value
	kids  map[data.Segment]*shadow

	// replaced is the write that last gave this location a new value.
	// Cursors made before it are detached.
	replaced uint64
	// gone marks a member removed from its object.
	gone bool
	// shifts records removals from an array; each one detaches the
	// cursors made before it at or after the removed index.
	shifts []shift
}

type shift struct {
	from int
	seq  uint64
}

func (s *shadow) child(seg data.Segment, kid *shadow) {
	if s.kids == nil {
		s.kids = make(map[data.Segment]*shadow)
	}
	s.kids[seg] = kid
}

// materialize returns the current value of the location. Children that
// were not written to splice back in as the identical value, so an
// untouched shadow yields the value it was made from.
func (s *shadow) materialize() *data.Value {
	v := s.value
	for seg, kid := range s.kids {
		if kid.gone {
			continue
		}
		out, err := v.SetIn(data.Path{seg}, kid.materialize())
		if err != nil {
			// kids are always members of value
			panic(err)
		}
		v = out
	}
	return v
}

// current returns the value of the child at seg.
func (s *shadow) current(seg data.Segment) (*data.Value, bool) {
	if kid, ok := s.kids[seg]; ok {
		if kid.gone {
			return nil, false
		}
		return kid.materialize(), true
	}
	return s.value.FindIn(data.Path{seg})
}

func (s *shadow) shifted(seg data.Segment, born uint64) bool {
	if !seg.IsIndex() {
		return false
	}
	for _, sh := range s.shifts {
		if seg.Index() >= sh.from && sh.seq > born {
			return true
		}
	}
	return false
}

// fold writes the shadowed elements at indices above i into the array
// and drops the shadows at i and above.
func (s *shadow) fold(i int) {
	for seg, kid := range s.kids {
		if !seg.IsIndex() || seg.Index() < i {
			continue
		}
		if seg.Index() > i {
			s.value, _ = s.value.SetIn(data.Path{seg}, kid.materialize())
		}
		delete(s.kids, seg)
	}
}
