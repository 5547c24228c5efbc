package iocache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/helenomaffra/maikedb/internal/iocache"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) maike.ProcessCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processes.db")
	c, err := iocache.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	di := "25/1234567-0"
	rec := &maike.ProcessRecord{
		Reference: "DMD.0090/25",
		DINumber:  &di,
		Status:    "em andamento",
		Source:    maike.SourcePrimary,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Put(ctx, rec))

	got, err := c.Get(ctx, "DMD.0090/25")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DMD.0090/25", got.Reference)
	require.NotNil(t, got.DINumber)
	assert.Equal(t, di, *got.DINumber)
	assert.Equal(t, "em andamento", got.Status)
}

func TestGetMiss(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	got, err := c.Get(ctx, "BND.0114/24")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Keys are case-insensitive: any casing of the reference reaches the
// same entry.
func TestKeyNormalization(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	rec := &maike.ProcessRecord{Reference: "dmd.0090/25"}
	require.NoError(t, c.Put(ctx, rec))

	for _, key := range []string{"DMD.0090/25", "dmd.0090/25", " Dmd.0090/25 "} {
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, got, "key %q should hit", key)
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	rec := &maike.ProcessRecord{Reference: "DMD.0090/25", Status: "old"}
	require.NoError(t, c.Put(ctx, rec))

	rec.Status = "new"
	require.NoError(t, c.Put(ctx, rec))

	got, err := c.Get(ctx, "DMD.0090/25")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Status)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	rec := &maike.ProcessRecord{Reference: "DMD.0090/25"}
	require.NoError(t, c.Put(ctx, rec))
	require.NoError(t, c.Delete(ctx, "dmd.0090/25"))

	got, err := c.Get(ctx, "DMD.0090/25")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing key is not an error.
	assert.NoError(t, c.Delete(ctx, "DMD.0090/25"))
}

func TestPutRejectsEmptyReference(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	err := c.Put(ctx, &maike.ProcessRecord{})
	assert.Error(t, err)
}
