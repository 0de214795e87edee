// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"math"
	"strings"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/sync/errgroup"
)

func TestFingerprintEqualValues(t *testing.T) {
	cases := map[string][2]*Value{
		"null":   {Null(), ValueNew(nil)},
		"int":    {ValueNew(1), ValueNew(int8(1))},
		"string": {ValueNew("a"), ValueNew("a")},
		"zero":   {ValueNew(0.0), ValueNew(math.Copysign(0, -1))},
		"tree":   {testTree(), testTree()},
		"order": {
			ValueNew(ObjectWith(PairNew("a", 1), PairNew("b", 2))),
			ValueNew(ObjectWith(PairNew("b", 2), PairNew("a", 1))),
		},
	}
	for name, pair := range cases {
		t.Run(name, func(t *testing.T) {
			if !pair[0].Fingerprint().Equals(pair[1].Fingerprint()) {
				t.Fatal("equal values have different fingerprints",
					pair[0], pair[1])
			}
		})
	}
}

func TestFingerprintDistinct(t *testing.T) {
	values := []*Value{
		Null(),
		ValueNew(false),
		ValueNew(true),
		ValueNew(0),
		ValueNew(1),
		ValueNew(-1),
		ValueNew(1.0),
		ValueNew(""),
		ValueNew("1"),
		ValueNew(ArrayNew()),
		ValueNew(ObjectNew()),
		ValueNew(ArrayWith("a", "b")),
		ValueNew(ArrayWith("ab")),
		ValueNew(ArrayWith(ArrayWith("a"), "b")),
		ValueNew(ObjectWith(PairNew("a", "b"))),
		ValueNew(ObjectWith(PairNew("ab", ""))),
		ValueNew(ObjectWith(PairNew("a", ArrayWith("b")))),
	}
	seen := make(map[cid.Cid]*Value)
	for _, v := range values {
		fp := v.Fingerprint()
		if prev, ok := seen[fp]; ok {
			t.Fatalf("%s and %s have the same fingerprint", prev, v)
		}
		seen[fp] = v
	}
}

func TestFingerprintFormat(t *testing.T) {
	fp := testTree().Fingerprint()
	if fp.Version() != 1 || fp.Type() != cid.Raw {
		t.Fatal("unexpected cid prefix", fp.Prefix())
	}
	if fp.Prefix().MhType != multihash.SHA2_256 {
		t.Fatal("unexpected multihash", fp.Prefix().MhType)
	}
	s := testTree().FingerprintString()
	if !strings.HasPrefix(s, "b") {
		t.Fatal("expected base32 multibase prefix", s)
	}
	parsed, err := cid.Decode(s)
	if err != nil || !parsed.Equals(fp) {
		t.Fatal("fingerprint string does not decode", s, err)
	}
}

func TestFingerprintChanges(t *testing.T) {
	tree := testTree()
	before := tree.Fingerprint()
	other := tree.GetIn(PathOf("other")).Fingerprint()
	new, err := tree.SetIn(PathOf("container", "leaf-list", 0), 10)
	if err != nil {
		t.Fatal(err)
	}
	if new.Fingerprint().Equals(before) {
		t.Fatal("fingerprint did not change")
	}
	if !new.GetIn(PathOf("other")).Fingerprint().Equals(other) {
		t.Fatal("fingerprint of an untouched subtree changed")
	}
	if !tree.Fingerprint().Equals(before) {
		t.Fatal("fingerprint of the original changed")
	}
}

func TestConcurrentReaders(t *testing.T) {
	tree := ValueNew(map[string]interface{}{
		"list": make([]interface{}, 100),
	})
	var g errgroup.Group
	fps := make([]cid.Cid, 8)
	for i := range fps {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			v, err := tree.SetIn(PathOf("list", i), i)
			if err != nil {
				return err
			}
			if !tree.GetIn(PathOf("list", i)).IsNull() {
				t.Error("shared value was modified")
			}
			v.Walk(func(Path, *Value) bool { return true })
			fps[i] = tree.Fingerprint()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	for _, fp := range fps {
		if !fp.Equals(fps[0]) {
			t.Fatal("concurrent fingerprints differ")
		}
	}
}
