package address

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSuffixDictJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suffixes.json")
	content := `{"Dr": "drive", "drv": "drive", "rd": "road"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadSuffixDict(path)
	if err != nil {
		t.Fatal(err)
	}
	if !dict.Has("DR") {
		t.Error("keys should match case-insensitively")
	}
	if got := dict.Canonical("drv"); got != "Drive" {
		t.Errorf("Canonical(drv) = %q, want Drive", got)
	}
	if got := dict.Canonical("blvd"); got != "" {
		t.Errorf("unknown suffix should canonicalize to empty, got %q", got)
	}
}

func TestLoadSuffixDictYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suffixes.yaml")
	content := "dr: drive\nroad: road\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadSuffixDict(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := dict.Canonical("dr"); got != "Drive" {
		t.Errorf("Canonical(dr) = %q, want Drive", got)
	}
}

func TestLoadSuffixDictMissingFile(t *testing.T) {
	if _, err := LoadSuffixDict(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
