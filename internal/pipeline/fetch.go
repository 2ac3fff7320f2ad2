package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/artifex-data/heimr/internal/blob"
)

// ErrStoreUnavailable marks total blob-store failure during Loading. It is
// the only error class that aborts a run; later stages have not started
// and no partial state is committed.
var ErrStoreUnavailable = errors.New("blob store unavailable")

// fetchRaw enumerates snapshot objects, orders them chronologically (keys
// are date-partitioned, so lexicographic order is chronological), applies
// the watermark and offset/limit window, and fetches bodies. Large sets
// fetch in parallel chunks; chunk results are concatenated in chunk order,
// so ordering inside a chunk is not guaranteed across the whole set.
func fetchRaw(ctx context.Context, store blob.Store, opts Options) ([]map[string]any, error) {
	keys, err := store.List(ctx, opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: listing objects: %v", ErrStoreUnavailable, err)
	}

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasSuffix(k, ".json") {
			paths = append(paths, k)
		}
	}
	sort.Strings(paths)

	if opts.After != "" {
		filtered := paths[:0]
		for _, p := range paths {
			if dateSegment(p) > opts.After {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(paths) {
			paths = nil
		} else {
			paths = paths[opts.Offset:]
		}
	}
	if opts.Limit > 0 && len(paths) > opts.Limit {
		paths = paths[:opts.Limit]
	}

	log.Printf("[fetch] loading %d objects from prefix %q", len(paths), opts.Prefix)
	start := time.Now()
	defer func() {
		log.Printf("[fetch] loaded %d objects in %dms", len(paths), time.Since(start).Milliseconds())
	}()

	if len(paths) > opts.ParallelThreshold {
		return fetchParallel(ctx, store, paths, opts)
	}
	return fetchChunk(ctx, store, paths, nil)
}

// dateSegment extracts the second-to-last path segment, which holds the
// snapshot timestamp in partitioned keys (.../<timestamp>/<file>.json).
func dateSegment(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// fetchParallel runs a bounded worker pool over fixed-size chunks of
// paths. Workers own disjoint chunks and return their own result slices;
// the join barrier concatenates them in chunk order.
func fetchParallel(ctx context.Context, store blob.Store, paths []string, opts Options) ([]map[string]any, error) {
	chunks := chunkSlice(paths, opts.FetchChunkSize)
	results := make([][]map[string]any, len(chunks))

	var limiter *rate.Limiter
	if opts.FetchRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.FetchRPS), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			docs, err := fetchChunk(gctx, store, chunk, limiter)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []map[string]any
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func fetchChunk(ctx context.Context, store blob.Store, paths []string, limiter *rate.Limiter) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		body, err := store.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching %s: %v", ErrStoreUnavailable, path, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func chunkSlice[T any](items []T, size int) [][]T {
	if size <= 0 {
		return [][]T{items}
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
