// Copyright (c) 2018-2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"testing"
)

func testTree() *Value {
	return ValueNew(map[string]interface{}{
		"leaf": "foo",
		"container": map[string]interface{}{
			"leaf-list": []interface{}{1, 2, 3},
			"list": []interface{}{
				map[string]interface{}{"name": "a", "enabled": true},
				map[string]interface{}{"name": "b", "enabled": false},
			},
		},
		"other": map[string]interface{}{"x": 1},
	})
}

func TestTreeGetIn(t *testing.T) {
	tree := testTree()
	cases := []struct {
		name  string
		path  Path
		exp   *Value
		found bool
	}{
		{"root", Path{}, tree, true},
		{"leaf", PathOf("leaf"), ValueNew("foo"), true},
		{"leaf-list", PathOf("container", "leaf-list", 1), ValueNew(2), true},
		{"list", PathOf("container", "list", 1, "name"), ValueNew("b"), true},
		{"missing", PathOf("nope"), nil, false},
		{"out of range", PathOf("container", "leaf-list", 3), nil, false},
		{"index into object", PathOf(0), nil, false},
		{"key into array", PathOf("container", "leaf-list", "x"), nil, false},
		{"into scalar", PathOf("leaf", "x"), nil, false},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, found := tree.FindIn(test.path)
			if found != test.found || !equal(got, test.exp) {
				t.Fatalf("expected %v %v, got %v %v",
					test.exp, test.found, got, found)
			}
			if !equal(tree.GetIn(test.path), test.exp) {
				t.Fatal("GetIn disagrees with FindIn")
			}
		})
	}
	t.Run("nil", func(t *testing.T) {
		if (*Value)(nil).GetIn(PathOf("a")) != nil {
			t.Fatal("nil value has no children")
		}
	})
}

func TestTreeSetIn(t *testing.T) {
	tree := testTree()
	t.Run("replace leaf", func(t *testing.T) {
		got, err := tree.SetIn(PathOf("leaf"), "bar")
		if err != nil {
			t.Fatal(err)
		}
		if got.GetIn(PathOf("leaf")).AsString() != "bar" ||
			tree.GetIn(PathOf("leaf")).AsString() != "foo" {
			t.Fatal("unexpected result", got, tree)
		}
	})
	t.Run("structural sharing", func(t *testing.T) {
		got, err := tree.SetIn(PathOf("container", "list", 0, "enabled"), false)
		if err != nil {
			t.Fatal(err)
		}
		if got.GetIn(PathOf("other")) != tree.GetIn(PathOf("other")) {
			t.Fatal("untouched member was copied")
		}
		if got.GetIn(PathOf("container", "leaf-list")) !=
			tree.GetIn(PathOf("container", "leaf-list")) {
			t.Fatal("untouched sibling was copied")
		}
		if got.GetIn(PathOf("container", "list", 1)) !=
			tree.GetIn(PathOf("container", "list", 1)) {
			t.Fatal("untouched element was copied")
		}
		if got.GetIn(PathOf("container", "list", 0)) ==
			tree.GetIn(PathOf("container", "list", 0)) {
			t.Fatal("changed element was not copied")
		}
	})
	t.Run("identical value", func(t *testing.T) {
		leaf := tree.GetIn(PathOf("container", "leaf-list", 0))
		got, err := tree.SetIn(PathOf("container", "leaf-list", 0), leaf)
		if err != nil || got != tree {
			t.Fatal("setting the same value should return the receiver")
		}
	})
	t.Run("new member", func(t *testing.T) {
		got, err := tree.SetIn(PathOf("container", "new"), 1)
		if err != nil || got.GetIn(PathOf("container", "new")).AsInt() != 1 {
			t.Fatal("unexpected result", got, err)
		}
	})
	t.Run("root", func(t *testing.T) {
		got, err := tree.SetIn(Path{}, "x")
		if err != nil || got.AsString() != "x" {
			t.Fatal("unexpected result", got, err)
		}
	})
	t.Run("converts native values", func(t *testing.T) {
		got, err := tree.SetIn(PathOf("leaf"), []string{"a"})
		if err != nil || !got.GetIn(PathOf("leaf")).IsFrozen() {
			t.Fatal("unexpected result", got, err)
		}
	})
	t.Run("unsupported", func(t *testing.T) {
		got, err := tree.SetIn(PathOf("leaf"), make(chan int))
		if !errors.Is(err, ErrUnsupportedType) || got != tree {
			t.Fatal("unexpected result", got, err)
		}
	})
}

func TestTreeSetInErrors(t *testing.T) {
	tree := testTree()
	cases := []struct {
		name  string
		path  Path
		err   error
		depth int
	}{
		{"missing intermediate", PathOf("x", "y"), ErrPath, 0},
		{"index into object", PathOf("container", 0), ErrPath, 1},
		{"key into array", PathOf("container", "list", "x"), ErrPath, 2},
		{"through scalar", PathOf("leaf", "x"), ErrPath, 1},
		{"index past end", PathOf("container", "leaf-list", 4), ErrIndexOutOfRange, -1},
		{"index at end", PathOf("container", "leaf-list", 3), ErrIndexOutOfRange, -1},
		{"intermediate past end", PathOf("container", "list", 2, "name"), ErrPath, 2},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := tree.SetIn(test.path, 1)
			if !errors.Is(err, test.err) {
				t.Fatalf("expected %v, got %v", test.err, err)
			}
			if got != tree {
				t.Fatal("failed write should return the receiver")
			}
			var perr *PathError
			if errors.As(err, &perr) && perr.Depth != test.depth {
				t.Fatalf("expected depth %d, got %d", test.depth, perr.Depth)
			}
		})
	}
	t.Run("empty object", func(t *testing.T) {
		_, err := ValueNew(ObjectNew()).SetIn(PathOf("x", "y"), 1)
		if !errors.Is(err, ErrPath) {
			t.Fatal("expected ErrPath, got", err)
		}
	})
	t.Run("nil receiver", func(t *testing.T) {
		_, err := (*Value)(nil).SetIn(PathOf("x"), 1)
		if !errors.Is(err, ErrPath) {
			t.Fatal("expected ErrPath, got", err)
		}
	})
	t.Run("error text", func(t *testing.T) {
		_, err := tree.SetIn(PathOf("container", "list", "x", "y"), 1)
		exp := `path does not resolve to a container at "/container/list/x": key into array`
		if err == nil || err.Error() != exp {
			t.Fatalf("expected %q, got %v", exp, err)
		}
	})
}

func TestTreeSetInCreateMissing(t *testing.T) {
	got, err := ValueNew(ObjectNew()).SetIn(PathOf("x", "y", 0, "z"), 1,
		CreateMissing())
	if err != nil {
		t.Fatal(err)
	}
	exp := ValueNew(map[string]interface{}{
		"x": map[string]interface{}{
			"y": []interface{}{map[string]interface{}{"z": 1}},
		},
	})
	if !equal(got, exp) {
		t.Fatalf("expected %s, got %s", exp, got)
	}
	t.Run("append", func(t *testing.T) {
		tree := testTree()
		got, err := tree.SetIn(PathOf("container", "leaf-list", 3), 4,
			CreateMissing())
		if err != nil {
			t.Fatal(err)
		}
		if got.GetIn(PathOf("container", "leaf-list")).AsArray().Length() != 4 {
			t.Fatal("value was not appended", got)
		}
	})
	t.Run("still rejects gaps", func(t *testing.T) {
		_, err := testTree().SetIn(PathOf("container", "leaf-list", 5), 4,
			CreateMissing())
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatal("expected ErrIndexOutOfRange, got", err)
		}
	})
	t.Run("still rejects scalars", func(t *testing.T) {
		_, err := testTree().SetIn(PathOf("leaf", "x"), 4, CreateMissing())
		if !errors.Is(err, ErrPath) {
			t.Fatal("expected ErrPath, got", err)
		}
	})
}

func TestTreeDeleteIn(t *testing.T) {
	tree := testTree()
	t.Run("member", func(t *testing.T) {
		got, err := tree.DeleteIn(PathOf("container", "list"))
		if err != nil {
			t.Fatal(err)
		}
		if got.GetIn(PathOf("container")).AsObject().Contains("list") {
			t.Fatal("member was not removed", got)
		}
		if got.GetIn(PathOf("other")) != tree.GetIn(PathOf("other")) {
			t.Fatal("untouched member was copied")
		}
	})
	t.Run("element shifts", func(t *testing.T) {
		got, err := tree.DeleteIn(PathOf("container", "leaf-list", 0))
		if err != nil {
			t.Fatal(err)
		}
		exp := ValueNew([]int{2, 3})
		if !equal(got.GetIn(PathOf("container", "leaf-list")), exp) {
			t.Fatal("unexpected result", got)
		}
	})
	t.Run("nested", func(t *testing.T) {
		got, err := tree.DeleteIn(PathOf("container", "list", 1, "enabled"))
		if err != nil {
			t.Fatal(err)
		}
		if got.GetIn(PathOf("container", "list", 1)).AsObject().Length() != 1 {
			t.Fatal("unexpected result", got)
		}
	})
	t.Run("absent", func(t *testing.T) {
		for _, path := range []Path{
			PathOf("nope"),
			PathOf("nope", "deeper"),
			PathOf("container", "leaf-list", 7),
			PathOf("leaf", "x"),
		} {
			got, err := tree.DeleteIn(path)
			if err != nil || got != tree {
				t.Fatal("deleting an absent path should return the receiver",
					path)
			}
		}
	})
	t.Run("root", func(t *testing.T) {
		got, err := tree.DeleteIn(Path{})
		if !errors.Is(err, ErrPath) || got != tree {
			t.Fatal("unexpected result", got, err)
		}
	})
}

func TestTreeUpdateIn(t *testing.T) {
	tree := testTree()
	got, err := tree.UpdateIn(PathOf("container", "leaf-list", 2),
		func(v *Value) (*Value, error) {
			return ValueNew(v.AsInt() * 10), nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if got.GetIn(PathOf("container", "leaf-list", 2)).AsInt() != 30 {
		t.Fatal("unexpected result", got)
	}
	t.Run("absent", func(t *testing.T) {
		got, err := tree.UpdateIn(PathOf("counter"),
			func(v *Value) (*Value, error) {
				if v != nil {
					t.Fatal("expected nil for an absent value")
				}
				return ValueNew(1), nil
			})
		if err != nil || got.GetIn(PathOf("counter")).AsInt() != 1 {
			t.Fatal("unexpected result", got, err)
		}
	})
	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		got, err := tree.UpdateIn(PathOf("leaf"),
			func(v *Value) (*Value, error) {
				return nil, boom
			})
		if !errors.Is(err, boom) || got != tree {
			t.Fatal("unexpected result", got, err)
		}
	})
}

func TestTreeWalk(t *testing.T) {
	tree := ValueNew(map[string]interface{}{
		"b": []interface{}{1, map[string]interface{}{"c": 2}},
		"a": "x",
	})
	var paths []string
	tree.Walk(func(path Path, v *Value) bool {
		paths = append(paths, path.String())
		return true
	})
	exp := []string{"", "/a", "/b", "/b[0]", "/b[1]", "/b[1]/c"}
	if len(paths) != len(exp) {
		t.Fatalf("expected %v, got %v", exp, paths)
	}
	for i := range exp {
		if paths[i] != exp[i] {
			t.Fatalf("expected %v, got %v", exp, paths)
		}
	}
	t.Run("prune", func(t *testing.T) {
		count := 0
		tree.Walk(func(path Path, v *Value) bool {
			count++
			return !v.IsArray()
		})
		if count != 3 {
			t.Fatal("expected the array's children to be skipped", count)
		}
	})
}
