// Package pipeline orchestrates one ingestion run end to end: load raw
// snapshots from blob storage, parse them into canonical records, resolve
// addresses against the store, and write rows in fault-isolated chunks.
// A run aborts only while loading; every later stage logs and skips its
// failures so one bad document or chunk never sinks the batch.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/artifex-data/heimr/internal/address"
	"github.com/artifex-data/heimr/internal/blob"
	"github.com/artifex-data/heimr/internal/parse"
	"github.com/artifex-data/heimr/internal/reconcile"
)

// State names the stage a run is in. Failed is reachable from Loading
// only.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateParsing     State = "parsing"
	StateReconciling State = "reconciling"
	StateWriting     State = "writing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Store is the full storage surface a run needs. records.Store satisfies
// it.
type Store interface {
	reconcile.AddressStore
	reconcile.PropertyOwners
	RowWriter
}

// Options selects which snapshots a run covers and how hard it pushes the
// blob store.
type Options struct {
	Prefix string

	// After keeps only snapshots whose date segment sorts strictly later
	// (ISO date string, e.g. "2026-08-01").
	After  string
	Offset int
	Limit  int

	// CheckpointPath, when set, saves the fetched documents after Loading.
	// ReplayPath skips the blob store entirely and loads a prior
	// checkpoint instead.
	CheckpointPath string
	ReplayPath     string

	Workers           int
	ParallelThreshold int
	FetchChunkSize    int
	WriteChunkSize    int
	FetchRPS          float64
}

func (o *Options) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = 10
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = 2000
	}
	if o.FetchChunkSize <= 0 {
		o.FetchChunkSize = 1000
	}
	if o.WriteChunkSize <= 0 {
		o.WriteChunkSize = 1000
	}
}

// Summary reports what one run did.
type Summary struct {
	RunID  string
	Entity string
	State  State

	Fetched     int
	Parsed      int
	ParseFailed int
	Orphaned    int

	Reconciled reconcile.Summary

	Written map[string]WriteStats

	Started  time.Time
	Finished time.Time
}

func newSummary(entity string) *Summary {
	return &Summary{
		RunID:   uuid.NewString(),
		Entity:  entity,
		State:   StateIdle,
		Written: make(map[string]WriteStats),
		Started: time.Now(),
	}
}

func (s *Summary) setState(next State) {
	s.State = next
	log.Printf("[pipeline:%s run=%s] state=%s", s.Entity, s.RunID, next)
}

// PropertyPipeline ingests property detail snapshots.
type PropertyPipeline struct {
	Blob   blob.Store
	Store  Store
	Suffix address.SuffixDict
	Opts   Options
}

// Run executes the full property ingestion. The returned summary is valid
// even when err is non-nil; err is set only for loading failures.
func (p *PropertyPipeline) Run(ctx context.Context) (*Summary, error) {
	p.Opts.setDefaults()
	sum := newSummary("property")

	docs, err := loadStage(ctx, sum, p.Blob, p.Opts)
	if err != nil {
		return sum, err
	}

	sum.setState(StateParsing)
	props := make([]*parse.Property, 0, len(docs))
	for _, doc := range docs {
		prop, ps, err := parse.ParseProperty(doc, p.Suffix)
		sum.Orphaned += ps.Orphaned
		if err != nil {
			log.Printf("[pipeline:property run=%s] document skipped: %v", sum.RunID, err)
			sum.ParseFailed++
			continue
		}
		sum.Parsed++
		props = append(props, prop)
	}

	sum.setState(StateReconciling)
	rsum, err := reconcile.ResolveProperties(ctx, p.Store, props)
	if err != nil {
		log.Printf("[pipeline:property run=%s] reconciliation degraded: %v", sum.RunID, err)
	}
	sum.Reconciled = rsum

	sum.setState(StateWriting)
	properties, listings, events, taxes := propertyRows(props)
	cs := p.Opts.WriteChunkSize
	sum.Written["property"] = writeRows(ctx, p.Store, "property", properties, cs)
	sum.Written["listing"] = writeRows(ctx, p.Store, "listing", listings, cs)
	sum.Written["listing_event"] = bulkInsert(ctx, p.Store, "listing_event", events, cs)
	sum.Written["tax"] = writeRows(ctx, p.Store, "tax", taxes, cs, "property_id", "year")

	finish(sum)
	return sum, nil
}

// PermitPipeline ingests building permit batch snapshots.
type PermitPipeline struct {
	Blob   blob.Store
	Store  Store
	Suffix address.SuffixDict
	Opts   Options
}

func (p *PermitPipeline) Run(ctx context.Context) (*Summary, error) {
	p.Opts.setDefaults()
	sum := newSummary("permit")

	docs, err := loadStage(ctx, sum, p.Blob, p.Opts)
	if err != nil {
		return sum, err
	}

	sum.setState(StateParsing)
	var permits []*parse.Permit
	for _, doc := range docs {
		batch, ps, err := parse.ParsePermitBatch(doc, p.Suffix)
		sum.ParseFailed += ps.Skipped
		if err != nil {
			log.Printf("[pipeline:permit run=%s] document skipped: %v", sum.RunID, err)
			sum.ParseFailed++
			continue
		}
		sum.Parsed += len(batch)
		for i := range batch {
			permits = append(permits, &batch[i])
		}
	}

	sum.setState(StateReconciling)
	rsum, err := reconcile.ResolvePermits(ctx, p.Store, p.Store, permits)
	if err != nil {
		log.Printf("[pipeline:permit run=%s] reconciliation degraded: %v", sum.RunID, err)
	}
	sum.Reconciled = rsum

	sum.setState(StateWriting)
	rows := permitRows(permits)
	sum.Written["permit"] = writeRows(ctx, p.Store, "permit", rows, p.Opts.WriteChunkSize)

	finish(sum)
	return sum, nil
}

// loadStage fetches raw documents, or replays a checkpoint when asked.
// Any error here fails the run; nothing downstream has started.
func loadStage(ctx context.Context, sum *Summary, store blob.Store, opts Options) ([]map[string]any, error) {
	sum.setState(StateLoading)

	var docs []map[string]any
	var err error
	if opts.ReplayPath != "" {
		docs, err = LoadCheckpoint(opts.ReplayPath)
	} else {
		docs, err = fetchRaw(ctx, store, opts)
	}
	if err != nil {
		sum.setState(StateFailed)
		return nil, err
	}
	sum.Fetched = len(docs)

	if opts.CheckpointPath != "" && opts.ReplayPath == "" {
		if err := SaveCheckpoint(opts.CheckpointPath, docs); err != nil {
			log.Printf("[pipeline:%s run=%s] checkpoint not saved: %v", sum.Entity, sum.RunID, err)
		}
	}
	return docs, nil
}

func finish(sum *Summary) {
	sum.setState(StateDone)
	sum.Finished = time.Now()
	log.Printf("[pipeline:%s run=%s] fetched=%d parsed=%d parse_failed=%d orphaned=%d resolved=%d inserted=%d unresolved=%d in %dms",
		sum.Entity, sum.RunID, sum.Fetched, sum.Parsed, sum.ParseFailed, sum.Orphaned,
		sum.Reconciled.Resolved, sum.Reconciled.Inserted, sum.Reconciled.Unresolved,
		sum.Finished.Sub(sum.Started).Milliseconds())
}
