// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/multiformats/go-varint"
)

// Tags of the canonical encoding.
const (
	tagNull   = 'n'
	tagFalse  = 'f'
	tagTrue   = 't'
	tagInt    = 'i'
	tagFloat  = 'd'
	tagString = 's'
	tagArray  = 'a'
	tagObject = 'o'
)

// fingerprintMemo caches the fingerprint of a container. Containers are
// immutable so it is computed at most once.
type fingerprintMemo struct {
	once sync.Once
	id   cid.Cid
}

func (m *fingerprintMemo) get(compute func() cid.Cid) cid.Cid {
	m.once.Do(func() {
		m.id = compute()
	})
	return m.id
}

// Fingerprint returns a content identifier for the value. It is a CIDv1
// with the raw codec over a sha2-256 digest of a canonical encoding of
// the value, in which each container is encoded by the fingerprints of
// its children. Equal values have equal fingerprints, and the
// fingerprint of a container is computed once and then reused by every
// version of the structure that shares it.
func (val *Value) Fingerprint() cid.Cid {
	switch d := val.data.(type) {
	case *Object:
		return d.fp.get(d.fingerprint)
	case *Array:
		return d.fp.get(d.fingerprint)
	}
	var buf bytes.Buffer
	val.encodeScalar(&buf)
	return sum(buf.Bytes())
}

// FingerprintString returns the fingerprint in base32 multibase form.
func (val *Value) FingerprintString() string {
	s, err := val.Fingerprint().StringOfBase(multibase.Base32)
	if err != nil {
		// Only CIDv0 restricts the base.
		panic(err)
	}
	return s
}

func sum(data []byte) cid.Cid {
	digest, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		panic(err)
	}
	return cid.NewCidV1(cid.Raw, digest)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	buf.Write(varint.ToUvarint(uint64(len(b))))
	buf.Write(b)
}

func (val *Value) encodeScalar(buf *bytes.Buffer) {
	switch d := val.data.(type) {
	case nil:
		buf.WriteByte(tagNull)
	case bool:
		if d {
			buf.WriteByte(tagTrue)
		} else {
			buf.WriteByte(tagFalse)
		}
	case int64:
		buf.WriteByte(tagInt)
		// zig-zag so small negative numbers stay short
		buf.Write(varint.ToUvarint(uint64(d<<1) ^ uint64(d>>63)))
	case float64:
		if d == 0 {
			// -0 == 0
			d = 0
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(d))
		buf.WriteByte(tagFloat)
		buf.Write(b[:])
	case string:
		buf.WriteByte(tagString)
		writeBytes(buf, []byte(d))
	}
}

func (obj *Object) fingerprint() cid.Cid {
	var buf bytes.Buffer
	buf.WriteByte(tagObject)
	buf.Write(varint.ToUvarint(uint64(obj.Length())))
	for _, pair := range obj.sorted() {
		writeBytes(&buf, []byte(pair.key))
		writeBytes(&buf, pair.value.Fingerprint().Bytes())
	}
	return sum(buf.Bytes())
}

func (arr *Array) fingerprint() cid.Cid {
	var buf bytes.Buffer
	buf.WriteByte(tagArray)
	buf.Write(varint.ToUvarint(uint64(arr.Length())))
	arr.Range(func(v *Value) {
		writeBytes(&buf, v.Fingerprint().Bytes())
	})
	return sum(buf.Bytes())
}
