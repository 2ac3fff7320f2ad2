package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artifex-data/heimr/internal/address"
	"github.com/artifex-data/heimr/internal/blob"
	"github.com/artifex-data/heimr/internal/db"
	"github.com/artifex-data/heimr/internal/pipeline"
	"github.com/artifex-data/heimr/internal/records"
)

type ingestFlags struct {
	limit      int
	offset     int
	after      string
	checkpoint string
	replay     string
}

func (f *ingestFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "max snapshots to ingest (0 = all)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "snapshots to skip from the start")
	cmd.Flags().StringVar(&f.after, "after", "", "only snapshots dated strictly after this ISO date")
	cmd.Flags().StringVar(&f.checkpoint, "checkpoint", "", "save fetched documents to this file")
	cmd.Flags().StringVar(&f.replay, "replay", "", "replay a saved checkpoint instead of fetching")
}

func newIngestCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run an ingestion pipeline",
	}

	var propFlags ingestFlags
	properties := &cobra.Command{
		Use:   "properties",
		Short: "Ingest property detail snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd.Context(), *cfgPath, "property", propFlags)
		},
	}
	propFlags.register(properties)

	var permitFlags ingestFlags
	permits := &cobra.Command{
		Use:   "permits",
		Short: "Ingest building permit snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd.Context(), *cfgPath, "permit", permitFlags)
		},
	}
	permitFlags.register(permits)

	cmd.AddCommand(properties, permits)
	return cmd
}

func runIngest(ctx context.Context, cfgPath, entity string, flags ingestFlags) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	store := records.NewStore(gdb)

	dict, err := address.LoadSuffixDict(cfg.SuffixDictPath)
	if err != nil {
		return fmt.Errorf("loading suffix dictionary: %w", err)
	}

	var blobStore blob.Store
	if flags.replay == "" {
		blobStore, err = blob.NewS3Store(ctx, cfg.Bucket, cfg.Region, cfg.S3Endpoint)
		if err != nil {
			return err
		}
	}

	opts := pipeline.Options{
		After:          flags.after,
		Offset:         flags.offset,
		Limit:          flags.limit,
		CheckpointPath: flags.checkpoint,
		ReplayPath:     flags.replay,
		Workers:        cfg.Workers,
		FetchRPS:       cfg.FetchRPS,
	}
	if opts.CheckpointPath == "" && cfg.CheckpointDir != "" && flags.replay == "" {
		opts.CheckpointPath = filepath.Join(cfg.CheckpointDir,
			fmt.Sprintf("%s-%s.json", entity, uuid.NewString()))
	}

	var sum *pipeline.Summary
	switch entity {
	case "property":
		opts.Prefix = cfg.PropertyPrefix
		p := &pipeline.PropertyPipeline{Blob: blobStore, Store: store, Suffix: dict, Opts: opts}
		sum, err = p.Run(ctx)
	case "permit":
		opts.Prefix = cfg.PermitPrefix
		p := &pipeline.PermitPipeline{Blob: blobStore, Store: store, Suffix: dict, Opts: opts}
		sum, err = p.Run(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
