package address

import "testing"

func TestFormatDisplayKeepsAccentsAndState(t *testing.T) {
	raw := map[string]any{
		"street_name":   "Jalapeño",
		"street_suffix": "road",
		"zip_code":      float64(2601),
		"street_number": "54",
		"city":          "Hyannis",
		"state":         "Massachusetts",
	}
	got, err := FormatDisplay(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	want := "54, Jalapeño Road, Hyannis, Massachusetts 02601"
	if got != want {
		t.Errorf("FormatDisplay = %q, want %q", got, want)
	}
}

func TestFormatDisplayWithoutAccents(t *testing.T) {
	raw := map[string]any{
		"street_name":   "STRUDLEY",
		"street_suffix": "road",
		"zip_code":      "2601",
		"street_number": "54",
		"city":          "Hyannis",
		"state":         "Massachusetts",
	}
	got, err := FormatDisplay(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	want := "54, Strudley Road, Hyannis, Massachusetts 02601"
	if got != want {
		t.Errorf("FormatDisplay = %q, want %q", got, want)
	}
}

func TestFormatDisplaySuffixEmbeddedInName(t *testing.T) {
	raw := map[string]any{
		"street_name":   "Herring RUN.",
		"street_number": "6",
		"street_suffix": "dr",
		"zip_code":      "02563",
		"state":         "Massachusetts",
		"city":          "Sandwich",
	}
	got, err := FormatDisplay(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	want := "6, Herring Run Drive, Sandwich, Massachusetts 02563"
	if got != want {
		t.Errorf("FormatDisplay = %q, want %q", got, want)
	}
}
