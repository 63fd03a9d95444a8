package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqtree-core/align"
	"seqtree-core/seq"

	"seqtree/internal/pipeline"
)

var (
	_ pipeline.DistanceCache = (*SQLite)(nil)
	_ pipeline.DistanceCache = (*Memory)(nil)
)

func TestSQLite_GetPut(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", 7))
	require.NoError(t, c.Put(ctx, "k", 8))
	d, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8, d)
	require.NoError(t, c.Close())

	// survives reopen
	c, err = OpenSQLite(path)
	require.NoError(t, err)
	defer c.Close()
	d, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8, d)
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_BuildUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	in := []seq.Record{{Name: "a", Seq: "ACGT"}, {Name: "b", Seq: "AGGT"}, {Name: "c", Seq: "AC"}}
	cold, err := pipeline.Build(ctx, pipeline.Config{Threads: 3}, in, align.Default(), c)
	require.NoError(t, err)
	warm, err := pipeline.Build(ctx, pipeline.Config{Threads: 3}, in, align.Default(), c)
	require.NoError(t, err)

	assert.Equal(t, 3, cold.Alignments)
	assert.Equal(t, 3, warm.CacheHits)
	assert.True(t, cold.Matrix.Equal(warm.Matrix))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(1)
	require.NoError(t, c.Put(ctx, "a", 1))
	require.NoError(t, c.Put(ctx, "b", 2))
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	d, ok, _ := c.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, d)
}
