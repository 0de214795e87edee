// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package draft

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/danos/immutable/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func valueOf(t *testing.T, x interface{}) *data.Value {
	t.Helper()
	v, err := data.DeepFreeze(x)
	require.NoError(t, err)
	return v
}

func assertValue(t *testing.T, exp interface{}, got *data.Value) {
	t.Helper()
	want := valueOf(t, exp)
	assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
}

func testBase(t *testing.T) *data.Value {
	return valueOf(t, map[string]interface{}{
		"a": 1,
		"b": map[string]interface{}{"c": 2},
		"d": map[string]interface{}{"e": []interface{}{1, 2}},
	})
}

func TestProduceNestedWrite(t *testing.T) {
	base := testBase(t)
	snapshot := testBase(t)

	got, err := Produce(base, func(d *Draft) (*data.Value, error) {
		return nil, d.Root().Key("b").Set("c", 3)
	})
	require.NoError(t, err)

	assertValue(t, map[string]interface{}{
		"a": 1,
		"b": map[string]interface{}{"c": 3},
		"d": map[string]interface{}{"e": []interface{}{1, 2}},
	}, got)
	assert.True(t, snapshot.Equal(base), "base was modified")
	assert.Equal(t, int64(2), base.GetIn(data.PathOf("b", "c")).AsInt())
	assert.Same(t, base.GetIn(data.PathOf("a")), got.GetIn(data.PathOf("a")))
	assert.Same(t, base.GetIn(data.PathOf("d")), got.GetIn(data.PathOf("d")))
	assert.True(t, got.IsFrozen())
}

func TestProduceNoWrites(t *testing.T) {
	base := testBase(t)
	got, err := Produce(base, func(d *Draft) (*data.Value, error) {
		v, err := d.At(data.PathOf("d", "e", 1)).Get()
		if err != nil {
			return nil, err
		}
		assert.Equal(t, int64(2), v.AsInt())
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, base, got)

	t.Run("identical write", func(t *testing.T) {
		got, err := Produce(base, func(d *Draft) (*data.Value, error) {
			return nil, d.Root().Key("b").Set("c", base.GetIn(data.PathOf("b", "c")))
		})
		require.NoError(t, err)
		assert.Same(t, base, got)
	})
}

func TestProduceNotFrozenBase(t *testing.T) {
	edit := func(d *Draft) (*data.Value, error) {
		t.Fatal("edit should not be called")
		return nil, nil
	}
	for name, base := range map[string]*data.Value{
		"nil":  nil,
		"zero": {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Produce(base, edit)
			assert.ErrorIs(t, err, ErrNotFrozenBase)
		})
	}
}

func TestProduceReplacement(t *testing.T) {
	base := testBase(t)
	repl := valueOf(t, []interface{}{"x"})
	got, err := Produce(base, func(d *Draft) (*data.Value, error) {
		require.NoError(t, d.Root().Set("a", 10))
		require.NoError(t, d.Root().Key("b").Delete("c"))
		return repl, nil
	})
	require.NoError(t, err)
	assert.Same(t, repl, got)

	t.Run("zero value", func(t *testing.T) {
		got, err := Produce(base, func(d *Draft) (*data.Value, error) {
			return &data.Value{}, nil
		})
		require.NoError(t, err)
		assert.True(t, got.IsNull())
	})
}

func TestProduceError(t *testing.T) {
	base := testBase(t)
	snapshot := testBase(t)
	boom := errors.New("boom")
	var leaked *Cursor
	got, err := Produce(base, func(d *Draft) (*data.Value, error) {
		leaked = d.Root().Key("b")
		require.NoError(t, leaked.Set("c", 3))
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.True(t, snapshot.Equal(base))

	_, err = leaked.Get()
	assert.ErrorIs(t, err, ErrRevoked)
	assert.ErrorIs(t, leaked.Set("c", 4), ErrRevoked)
	assert.Nil(t, leaked.Original())
}

func TestProducePanic(t *testing.T) {
	base := testBase(t)
	snapshot := testBase(t)
	var leaked *Cursor
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = Produce(base, func(d *Draft) (*data.Value, error) {
			leaked = d.Root()
			_ = leaked.Set("a", 5)
			panic("boom")
		})
	})
	assert.True(t, snapshot.Equal(base))
	assert.ErrorIs(t, leaked.Push(1), ErrRevoked)
}

func TestProducer(t *testing.T) {
	increment := Producer(func(d *Draft, args ...interface{}) (*data.Value, error) {
		cur, err := d.Root().Key("a").Get()
		if err != nil {
			return nil, err
		}
		return nil, d.Root().Set("a", cur.AsInt()+int64(args[0].(int)))
	})
	base := testBase(t)
	got, err := increment(base, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.GetIn(data.PathOf("a")).AsInt())
	got, err = increment(got, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.GetIn(data.PathOf("a")).AsInt())
	assert.Equal(t, int64(1), base.GetIn(data.PathOf("a")).AsInt())
}

func TestProduceWithPatches(t *testing.T) {
	base := testBase(t)
	got, forward, inverse, err := ProduceWithPatches(base,
		func(d *Draft) (*data.Value, error) {
			e := d.At(data.PathOf("d", "e"))
			if err := e.Push(3); err != nil {
				return nil, err
			}
			if _, err := e.RemoveAt(0); err != nil {
				return nil, err
			}
			return nil, d.Root().Delete("a")
		})
	require.NoError(t, err)

	applied, err := base.Edit(forward)
	require.NoError(t, err)
	assert.True(t, got.Equal(applied), "forward: %s", forward)

	undone, err := got.Edit(inverse)
	require.NoError(t, err)
	assert.True(t, base.Equal(undone), "inverse: %s", inverse)

	t.Run("error", func(t *testing.T) {
		_, forward, inverse, err := ProduceWithPatches(base,
			func(d *Draft) (*data.Value, error) {
				return nil, d.Root().SetIndex(0, 1)
			})
		assert.ErrorIs(t, err, data.ErrPath)
		assert.Nil(t, forward)
		assert.Nil(t, inverse)
	})
}

func TestProduceLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf,
		&slog.HandlerOptions{Level: slog.LevelDebug}))
	base := testBase(t)

	_, err := Produce(base, func(d *Draft) (*data.Value, error) {
		return nil, d.Root().Set("a", 2)
	}, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "draft committed")
	assert.Contains(t, buf.String(), "writes=1")

	buf.Reset()
	_, err = Produce(base, func(d *Draft) (*data.Value, error) {
		return nil, errors.New("boom")
	}, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "draft aborted")
	assert.Contains(t, buf.String(), "err=boom")
}

func TestProduceConcurrentBases(t *testing.T) {
	base := testBase(t)
	results := make([]*data.Value, 16)
	var g errgroup.Group
	for i := range results {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			out, err := Produce(base, func(d *Draft) (*data.Value, error) {
				return nil, d.At(data.PathOf("d", "e")).Push(i)
			})
			results[i] = out
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i, out := range results {
		e := out.GetIn(data.PathOf("d", "e")).AsArray()
		require.Equal(t, 3, e.Length())
		assert.Equal(t, int64(i), e.At(2).AsInt())
		assert.Same(t, base.GetIn(data.PathOf("b")), out.GetIn(data.PathOf("b")))
	}
	assert.Equal(t, 2, base.GetIn(data.PathOf("d", "e")).AsArray().Length())
}
