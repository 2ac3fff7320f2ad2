package address

import (
	"fmt"
	"strings"

	"github.com/artifex-data/heimr/internal/rawdoc"
)

// FormatDisplay renders a raw address fragment as a human-readable line:
//
//	54, Jalapeño Road, Hyannis, Massachusetts 02601
//
// Display keeps accents and the state exactly as given; only the lookup
// string strips them.
func FormatDisplay(m map[string]any, dict SuffixDict) (string, error) {
	a, err := FromRaw(m, dict)
	if err != nil {
		return "", err
	}

	state, _ := rawdoc.Dig(m, "state").String()
	state = strings.TrimSpace(state)
	if state == "" {
		state = a.State
	}

	street := a.StreetName
	if a.StreetSuffix != "" {
		street += " " + a.StreetSuffix
	}
	return fmt.Sprintf("%s, %s, %s, %s %s",
		a.StreetNumber, street, a.City, state, FormatZip(a.ZipCode)), nil
}
