// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	sp   = " "
	htab = "	"
	wsp  = sp + htab
)

// Segment is one step of a Path: either an Object key or an Array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment selecting the member k of an Object.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns a segment selecting element i of an Array.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex returns whether the segment selects an Array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the key of the segment or "" for index segments.
func (s Segment) Key() string { return s.key }

// Index returns the index of the segment or -1 for key segments.
func (s Segment) Index() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String returns the segment as it appears in a path string.
func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return escaper.Replace(s.key)
}

// Path addresses a location inside nested Values. The empty path
// addresses the root.
//
// Paths have a string form matching the following grammar:
//
//	path       = "" / 1*("/" segment)
//	segment    = key *position / 1*position
//	key        = *(CHAR / escape)
//	position   = "[" *WSP non-negative-integer *WSP "]"
//	escape     = "~0" / "~1" / "~2"
//	             ; "~", "/" and "[" respectively
//	CHAR       = any character except "~", "/" and "["
//	WSP        = SP / HTAB
//
// so that /todos[0]/done is the path Key("todos"), Index(0), Key("done").
type Path []Segment

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1", "[", "~2")
	unescaper = strings.NewReplacer("~0", "~", "~1", "/", "~2", "[")
)

// PathOf builds a path from its elements. Strings become keys, ints
// become indices and Segments are used as they are. Any other element
// causes PathOf to panic.
func PathOf(elems ...interface{}) Path {
	out := make(Path, 0, len(elems))
	for _, elem := range elems {
		switch e := elem.(type) {
		case string:
			out = append(out, Key(e))
		case int:
			out = append(out, Index(e))
		case Segment:
			out = append(out, e)
		default:
			panic(fmt.Errorf("invalid path element %v of type %T", e, e))
		}
	}
	return out
}

// PathNew parses a path string and panics if it is invalid.
func PathNew(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePath parses the string form of a path.
func ParsePath(s string) (p Path, err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		switch v := v.(type) {
		case string:
			err = fmt.Errorf("%w %q: %s", ErrInvalidPath, s, v)
		case error:
			err = fmt.Errorf("%w %q: %w", ErrInvalidPath, s, v)
		default:
			panic(v)
		}
	}()
	return parsePath(s), nil
}

// parsePath is a straight forward parser for the path grammar; it
// panics on invalid input and ParsePath turns that into an error.
func parsePath(input string) Path {
	if input == "" {
		return Path{}
	}
	if input[0] != '/' {
		panic("must start with a \"/\"")
	}
	var out Path
	for _, seg := range strings.Split(input[1:], "/") {
		out = append(out, parseSegment(seg)...)
	}
	return out
}

func parseSegment(input string) []Segment {
	// segment = key *position / 1*position
	start := strings.IndexByte(input, '[')
	if start < 0 {
		return []Segment{Key(parseKey(input))}
	}
	var out []Segment
	if key := input[:start]; key != "" {
		out = append(out, Key(parseKey(key)))
	}
	for rest := input[start:]; rest != ""; {
		if rest[0] != '[' {
			panic("unexpected " + strconv.Quote(rest) + " after position")
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			panic("unterminated position")
		}
		out = append(out, Index(parsePosition(rest[1:end])))
		rest = rest[end+1:]
	}
	return out
}

func parseKey(input string) string {
	for i := 0; i < len(input); i++ {
		if input[i] != '~' {
			continue
		}
		if i+1 >= len(input) || input[i+1] < '0' || input[i+1] > '2' {
			panic("invalid escape in " + strconv.Quote(input))
		}
		i++
	}
	return unescaper.Replace(input)
}

func parsePosition(input string) int {
	// position = "[" *WSP non-negative-integer *WSP "]"
	input = strings.Trim(input, wsp)
	if input == "" || input[0] == '+' || input[0] == '-' {
		panic(errors.New("invalid position [" + input + "]"))
	}
	pos, err := strconv.Atoi(input)
	if err != nil {
		panic(err)
	}
	return pos
}

// String returns the string form of the path. Index segments are
// written as positions of the segment before them.
func (p Path) String() string {
	var buf strings.Builder
	for i, seg := range p {
		if !seg.isIndex || i == 0 {
			buf.WriteByte('/')
		}
		buf.WriteString(seg.String())
	}
	return buf.String()
}

// Push returns a new path with seg appended. The receiver is not
// modified and the result does not share its backing array.
func (p Path) Push(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment. The parent of the
// empty path is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment of the path and whether there is one.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal determines if two paths are the same. It implements a common
// equality interface so other must be interface{}.
func (p Path) Equal(other interface{}) bool {
	op, isPath := other.(Path)
	if !isPath || len(op) != len(p) {
		return false
	}
	for i := range p {
		if p[i] != op[i] {
			return false
		}
	}
	return true
}
