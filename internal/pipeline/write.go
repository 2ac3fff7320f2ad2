package pipeline

import (
	"context"
	"log"
)

// RowWriter is the storage surface the write stage needs. Implemented by
// records.Store. BulkInsert receives a pointer to a row slice so the
// store can write generated keys back.
type RowWriter interface {
	BulkInsert(ctx context.Context, rows any) error
	Upsert(ctx context.Context, row any, conflictCols ...string) error
}

// WriteStats accumulates write-stage counters per table.
type WriteStats struct {
	Inserted     int
	FailedChunks int
	Merged       int
	FailedMerges int
}

func (w *WriteStats) add(other WriteStats) {
	w.Inserted += other.Inserted
	w.FailedChunks += other.FailedChunks
	w.Merged += other.Merged
	w.FailedMerges += other.FailedMerges
}

// writeRows persists rows in two passes. The bulk pass inserts fixed-size
// chunks, each in its own transaction, so one bad chunk rolls back alone
// and the rest still commit. The merge pass then upserts every row
// individually, which both retries rows from failed chunks and refreshes
// rows that already existed.
func writeRows[T any](ctx context.Context, w RowWriter, table string, rows []T, chunkSize int, conflictCols ...string) WriteStats {
	stats := bulkInsert(ctx, w, table, rows, chunkSize)
	for i := range rows {
		if err := w.Upsert(ctx, &rows[i], conflictCols...); err != nil {
			log.Printf("[write] %s merge failed: %v", table, err)
			stats.FailedMerges++
			continue
		}
		stats.Merged++
	}
	return stats
}

// bulkInsert is the chunked first pass on its own. Append-only tables with
// generated keys use only this pass; re-upserting their rows would mint
// duplicates instead of merging.
func bulkInsert[T any](ctx context.Context, w RowWriter, table string, rows []T, chunkSize int) WriteStats {
	var stats WriteStats
	for _, chunk := range chunkSlice(rows, chunkSize) {
		if len(chunk) == 0 {
			continue
		}
		chunk := chunk
		if err := w.BulkInsert(ctx, &chunk); err != nil {
			log.Printf("[write] %s chunk of %d failed, rolled back: %v", table, len(chunk), err)
			stats.FailedChunks++
			continue
		}
		stats.Inserted += len(chunk)
	}
	return stats
}
