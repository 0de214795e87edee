// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"testing"
)

func TestPathParsing(t *testing.T) {
	runTest := func(test string, expected Path, str string) {
		t.Run(test, func(t *testing.T) {
			got := PathNew(test)
			if !got.Equal(expected) {
				t.Fatalf("expected %v, got %v\n", expected, got)
			}
			if got.String() != str {
				t.Fatalf("expected %s, got %s\n", str, got)
			}
		})
	}
	runTest("", Path{}, "")
	runTest("/", PathOf(""), "/")
	runTest("/todos[0]/done", PathOf("todos", 0, "done"), "/todos[0]/done")
	runTest("/todos[ 0	]/done", PathOf("todos", 0, "done"), "/todos[0]/done")
	runTest("/m[1][2]", PathOf("m", 1, 2), "/m[1][2]")
	runTest("/[3]", PathOf(3), "/[3]")
	runTest("/[3]/a", PathOf(3, "a"), "/[3]/a")
	runTest("/a~1b/c~0d/e~2f", PathOf("a/b", "c~d", "e[f"), "/a~1b/c~0d/e~2f")
	runTest("/a]b", PathOf("a]b"), "/a]b")
	runTest("/a//b", PathOf("a", "", "b"), "/a//b")
}

func TestPathRoundTrip(t *testing.T) {
	paths := []Path{
		{},
		PathOf("", ""),
		PathOf(0, 1, "x"),
		PathOf("~", "/", "[", "]", "~1"),
		PathOf("list", 10, "name"),
	}
	for _, path := range paths {
		t.Run(path.String(), func(t *testing.T) {
			got, err := ParsePath(path.String())
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(path) {
				t.Fatalf("expected %v, got %v\n", path, got)
			}
		})
	}
}

func TestPathParsingFailures(t *testing.T) {
	tFunc := func(test string) {
		t.Run(test, func(t *testing.T) {
			_, err := ParsePath(test)
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("expected ErrInvalidPath, got %v", err)
			}
			if !didPanic(func() { PathNew(test) }) {
				t.Fatal("PathNew should panic")
			}
		})
	}
	tFunc("foo")
	tFunc("/foo[0")
	tFunc("/foo[]")
	tFunc("/foo[-1]")
	tFunc("/foo[+1]")
	tFunc("/foo[a]")
	tFunc("/foo[0]bar")
	tFunc("/foo~")
	tFunc("/foo~3")
	tFunc("/foo[99999999999999999999999]")
}

func TestPathOf(t *testing.T) {
	p := PathOf("a", 1, Key("b"), Index(2))
	if len(p) != 4 || p[1].Index() != 1 || p[2].Key() != "b" ||
		!p[3].IsIndex() {
		t.Fatal("unexpected path", p)
	}
	if Key("a").Index() != -1 {
		t.Fatal("key segments have no index")
	}
	if !didPanic(func() { PathOf(1.5) }) {
		t.Fatal("PathOf should panic on a float")
	}
}

func TestPathOperations(t *testing.T) {
	p := PathOf("a", 0)
	t.Run("Push does not alias", func(t *testing.T) {
		base := make(Path, 1, 4)
		base[0] = Key("a")
		x, y := base.Push(Key("x")), base.Push(Key("y"))
		if x[1].Key() != "x" || y[1].Key() != "y" {
			t.Fatal("pushes share storage", x, y)
		}
	})
	t.Run("Parent", func(t *testing.T) {
		if !p.Parent().Equal(PathOf("a")) {
			t.Fatal("unexpected parent", p.Parent())
		}
		if len(Path{}.Parent()) != 0 {
			t.Fatal("parent of the root is the root")
		}
		q := p.Parent().Push(Key("b"))
		if !p.Equal(PathOf("a", 0)) || !q.Equal(PathOf("a", "b")) {
			t.Fatal("Parent shares storage with its result", p, q)
		}
	})
	t.Run("Last", func(t *testing.T) {
		seg, ok := p.Last()
		if !ok || seg.Index() != 0 {
			t.Fatal("unexpected last segment", seg)
		}
		if _, ok := (Path{}).Last(); ok {
			t.Fatal("empty path has no last segment")
		}
	})
	t.Run("Equal", func(t *testing.T) {
		if PathOf("0").Equal(PathOf(0)) {
			t.Fatal("keys and indices must differ")
		}
		if p.Equal("/a[0]") {
			t.Fatal("a path is not equal to a string")
		}
	})
}
