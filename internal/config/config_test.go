package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Region != "us-east-1" {
		t.Errorf("region = %q", cfg.Region)
	}
	if cfg.PropertyPrefix != "properties/" || cfg.PermitPrefix != "permits/" {
		t.Errorf("prefixes = %q %q", cfg.PropertyPrefix, cfg.PermitPrefix)
	}
	if cfg.Workers != 10 {
		t.Errorf("workers = %d", cfg.Workers)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heimr.yaml")
	body := "database_url: postgres://file/db\nbucket: file-bucket\nworkers: 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SNAPSHOT_BUCKET", "env-bucket")
	t.Setenv("INGEST_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "postgres://file/db" {
		t.Errorf("database_url = %q", cfg.DatabaseURL)
	}
	if cfg.Bucket != "env-bucket" {
		t.Errorf("bucket = %q, env should win", cfg.Bucket)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, env should win", cfg.Workers)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("err = %v", err)
	}
	cfg.DatabaseURL = "postgres://x"
	if err := cfg.Validate(); !errors.Is(err, ErrMissingBucket) {
		t.Errorf("err = %v", err)
	}
	cfg.Bucket = "b"
	if err := cfg.Validate(); err != nil {
		t.Errorf("err = %v", err)
	}
}
