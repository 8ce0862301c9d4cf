package memcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "campaign:slug:spring", []byte("v1"), time.Minute))

	got, ok, err := s.Get(ctx, "campaign:slug:spring")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	now = now.Add(2 * time.Minute)
	_, ok, err = s.Get(ctx, "campaign:slug:spring")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, s.Delete(ctx, "b"))

	now = now.Add(time.Minute)
	assert.Equal(t, 1, s.Sweep())
	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type form struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, s, "k", form{Name: "Spring"}, time.Minute))

	var got form
	ok, err := GetJSON(ctx, s, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Spring", got.Name)

	require.NoError(t, s.Set(ctx, "bad", []byte("{"), time.Minute))
	ok, err = GetJSON(ctx, s, "bad", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
