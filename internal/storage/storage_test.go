package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_RoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "sess_1", "cropcura_user")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, kv.Put(ctx, "sess_1", "cropcura_user", []byte(`{"a":1}`)))
	got, err := kv.Get(ctx, "sess_1", "cropcura_user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	_, err = kv.Get(ctx, "sess_2", "cropcura_user")
	assert.ErrorIs(t, err, ErrNotFound, "scopes are isolated")

	require.NoError(t, kv.Delete(ctx, "sess_1", "cropcura_user"))
	_, err = kv.Get(ctx, "sess_1", "cropcura_user")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, kv.Delete(ctx, "sess_1", "cropcura_user"))
	assert.Zero(t, kv.Len())
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	v := []byte("abc")
	require.NoError(t, kv.Put(ctx, "s", "k", v))
	v[0] = 'x'

	got, err := kv.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := kv.Get(ctx, "s", "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryKV_CanceledContext(t *testing.T) {
	kv := NewMemoryKV()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, kv.Put(ctx, "s", "k", nil), context.Canceled)
	_, err := kv.Get(ctx, "s", "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, kv.Delete(ctx, "s", "k"), context.Canceled)
}
