package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meu-bolso/internal/common"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var out sample
	found, err := GetJSON(ctx, store, "sample", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, PutJSON(ctx, store, "sample", sample{Name: "x", Count: 2}))
	found, err = GetJSON(ctx, store, "sample", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "x", Count: 2}, out)

	require.NoError(t, store.Set(ctx, "sample", []byte("{broken")))
	found, err = GetJSON(ctx, store, "sample", &out)
	assert.True(t, found)
	assert.ErrorIs(t, err, common.ErrMalformedData)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
