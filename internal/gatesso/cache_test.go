package gatesso

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*NameCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewNameCache(client, time.Minute), mr
}

func TestNameCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	id := uuid.New()

	_, ok := cache.EmployeeName(ctx, id)
	assert.False(t, ok)

	cache.SetEmployeeName(ctx, id, "Andi Wijaya")
	name, ok := cache.EmployeeName(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "Andi Wijaya", name)
}

func TestNameCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	id := uuid.New()

	cache.SetEmployeeName(ctx, id, "Budi Santoso")
	mr.FastForward(2 * time.Minute)

	_, ok := cache.EmployeeName(ctx, id)
	assert.False(t, ok)
}

func TestNameCacheNilClientIsNoop(t *testing.T) {
	cache := NewNameCache(nil, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	cache.SetCompanyName(ctx, id, "PT Contoh")
	_, ok := cache.CompanyName(ctx, id)
	assert.False(t, ok)
}

func TestEmployeeNameServedFromCacheWithoutLink(t *testing.T) {
	cache, _ := newTestCache(t)
	link := &stubLink{err: ErrRemoteUnavailable}
	dir := NewDirectory(link, cache, nil)
	ctx := context.Background()
	id := uuid.New()

	cache.SetEmployeeName(ctx, id, "Citra Dewi")

	name, err := dir.EmployeeName(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "Citra Dewi", *name)
	assert.Empty(t, link.queries)
}
