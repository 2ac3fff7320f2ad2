package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifex-data/heimr/internal/blob"
)

// writeSnapshot lays out root/<prefix>/<date>/<name> with a {"n": n} body.
func writeSnapshot(t *testing.T, root, key string, n int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`{"n": %d}`, n)), 0o644))
}

func docNums(docs []map[string]any) []int {
	out := make([]int, 0, len(docs))
	for _, d := range docs {
		out = append(out, int(d["n"].(float64)))
	}
	return out
}

func TestFetchRawSortsAndFilters(t *testing.T) {
	root := t.TempDir()
	writeSnapshot(t, root, "snap/2026-08-03/b.json", 3)
	writeSnapshot(t, root, "snap/2026-08-01/a.json", 1)
	writeSnapshot(t, root, "snap/2026-08-02/a.json", 2)
	writeSnapshot(t, root, "snap/2026-08-02/readme.txt", 99)

	docs, err := fetchRaw(context.Background(), blob.NewDirStore(root), Options{
		Prefix: "snap/", ParallelThreshold: 2000, FetchChunkSize: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, docNums(docs))
}

func TestFetchRawWatermark(t *testing.T) {
	root := t.TempDir()
	writeSnapshot(t, root, "snap/2026-08-01/a.json", 1)
	writeSnapshot(t, root, "snap/2026-08-02/a.json", 2)
	writeSnapshot(t, root, "snap/2026-08-03/a.json", 3)

	docs, err := fetchRaw(context.Background(), blob.NewDirStore(root), Options{
		Prefix: "snap/", After: "2026-08-01", ParallelThreshold: 2000, FetchChunkSize: 1000,
	})
	require.NoError(t, err)

	// Strictly later than the watermark date.
	assert.Equal(t, []int{2, 3}, docNums(docs))
}

func TestFetchRawOffsetLimit(t *testing.T) {
	root := t.TempDir()
	for i := 1; i <= 5; i++ {
		writeSnapshot(t, root, fmt.Sprintf("snap/2026-08-0%d/a.json", i), i)
	}
	store := blob.NewDirStore(root)

	docs, err := fetchRaw(context.Background(), store, Options{
		Prefix: "snap/", Offset: 1, Limit: 2, ParallelThreshold: 2000, FetchChunkSize: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, docNums(docs))

	docs, err = fetchRaw(context.Background(), store, Options{
		Prefix: "snap/", Offset: 10, ParallelThreshold: 2000, FetchChunkSize: 1000,
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFetchRawParallelKeepsOrder(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 9; i++ {
		writeSnapshot(t, root, fmt.Sprintf("snap/2026-08-01/doc-%d.json", i), i)
	}

	// Threshold forces the worker-pool path; chunks stay contiguous slices
	// of the sorted key list and join in chunk order.
	docs, err := fetchRaw(context.Background(), blob.NewDirStore(root), Options{
		Prefix: "snap/", ParallelThreshold: 4, FetchChunkSize: 2, Workers: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, docNums(docs))
}

func TestFetchRawBadBody(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "snap", "2026-08-01", "bad.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := fetchRaw(context.Background(), blob.NewDirStore(root), Options{
		Prefix: "snap/", ParallelThreshold: 2000, FetchChunkSize: 1000,
	})
	assert.Error(t, err)
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "check.json")
	docs := []map[string]any{{"n": float64(1)}, {"n": float64(2)}}

	require.NoError(t, SaveCheckpoint(path, docs))
	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, docs, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}
