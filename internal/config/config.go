// Package config loads ingestion configuration from an optional YAML file
// with environment-variable overrides on top. Environment always wins, so
// deployments can ship one file and tune per-instance via the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")
	ErrMissingBucket      = errors.New("config: SNAPSHOT_BUCKET is required")
)

// Config holds everything the ingestion binary needs.
type Config struct {
	// Postgres DSN for the record store.
	DatabaseURL string `yaml:"database_url"`

	// Blob storage holding raw snapshots.
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	S3Endpoint string `yaml:"s3_endpoint"`

	// Key prefixes per entity.
	PropertyPrefix string `yaml:"property_prefix"`
	PermitPrefix   string `yaml:"permit_prefix"`

	// Street suffix dictionary (JSON or YAML by extension).
	SuffixDictPath string `yaml:"suffix_dict_path"`

	// Local FTS index file.
	SearchIndexPath string `yaml:"search_index_path"`

	// Directory for run checkpoints; empty disables checkpointing.
	CheckpointDir string `yaml:"checkpoint_dir"`

	Workers  int     `yaml:"workers"`
	FetchRPS float64 `yaml:"fetch_rps"`
}

// Defaults that hold when neither file nor environment sets a value.
func defaults() Config {
	return Config{
		Region:          "us-east-1",
		PropertyPrefix:  "properties/",
		PermitPrefix:    "permits/",
		SuffixDictPath:  "data/street_suffix_lookup.json",
		SearchIndexPath: "heimr-search.db",
		Workers:         10,
	}
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Environment variables:
//   - DATABASE_URL: Postgres DSN (required)
//   - SNAPSHOT_BUCKET: S3 bucket with raw snapshots (required)
//   - AWS_REGION, S3_ENDPOINT: blob store location; endpoint override is
//     for local S3-compatible stores
//   - PROPERTY_PREFIX, PERMIT_PREFIX: key prefixes per entity
//   - SUFFIX_DICT_PATH, SEARCH_INDEX_PATH, CHECKPOINT_DIR
//   - INGEST_WORKERS, FETCH_RPS
func (c *Config) applyEnv() {
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Bucket, "SNAPSHOT_BUCKET")
	setString(&c.Region, "AWS_REGION")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.PropertyPrefix, "PROPERTY_PREFIX")
	setString(&c.PermitPrefix, "PERMIT_PREFIX")
	setString(&c.SuffixDictPath, "SUFFIX_DICT_PATH")
	setString(&c.SearchIndexPath, "SEARCH_INDEX_PATH")
	setString(&c.CheckpointDir, "CHECKPOINT_DIR")

	if v := strings.TrimSpace(os.Getenv("INGEST_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FETCH_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.FetchRPS = f
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}
