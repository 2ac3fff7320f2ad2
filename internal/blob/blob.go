// Package blob abstracts the object store the pipelines read raw snapshot
// documents from. Keys are expected to embed date partitions
// (.../YYYY/MM/DD/...) so lexicographic order is chronological.
package blob

import "context"

// Store is the narrow blob-store surface the pipeline consumes.
type Store interface {
	// List enumerates object keys under a prefix. An empty prefix lists
	// the whole bucket.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get fetches one object body.
	Get(ctx context.Context, key string) ([]byte, error)
}
