package address

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// SuffixDict maps lowercase street-suffix spellings ("dr", "drive", "drv")
// to a canonical suffix ("Drive"). Loaded once per pipeline instance.
type SuffixDict map[string]string

// Has reports whether the token is a known suffix spelling.
func (d SuffixDict) Has(token string) bool {
	_, ok := d[strings.ToLower(token)]
	return ok
}

// Canonical returns the title-cased canonical form of a suffix spelling,
// or "" when the spelling is not in the dictionary.
func (d SuffixDict) Canonical(token string) string {
	v, ok := d[strings.ToLower(token)]
	if !ok {
		return ""
	}
	return titleCase(v)
}

// LoadSuffixDict reads a suffix dictionary from a JSON or YAML file
// (chosen by extension). Keys are lowercased on load.
func LoadSuffixDict(path string) (SuffixDict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suffix dictionary: %w", err)
	}

	var m map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &m)
	default:
		err = json.Unmarshal(raw, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding suffix dictionary %s: %w", path, err)
	}

	dict := make(SuffixDict, len(m))
	for k, v := range m {
		dict[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return dict, nil
}
