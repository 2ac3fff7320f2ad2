package address

import (
	"errors"
	"testing"
)

var testDict = SuffixDict{
	"dr":    "drive",
	"drive": "drive",
	"drv":   "drive",
	"rd":    "road",
	"road":  "road",
	"st":    "street",
	"street": "street",
	"ln":    "lane",
	"lane":  "lane",
}

func baseRaw() map[string]any {
	return map[string]any{
		"state":         "Massachusetts",
		"city":          "Sandwich",
		"street_name":   "pond view drv",
		"street_number": "6",
		"street_suffix": "dr",
		"zip_code":      "02563",
	}
}

func TestSuffixEquivalence(t *testing.T) {
	cases := []map[string]any{
		{"street_name": "Pond View Drive"},
		{"street_name": "POND VIEW DR."},
		{"street_name": "Pond VIEW", "street_suffix": "dr"},
		{"street_name": "Pond View Drv", "street_suffix": "dr"},
		{"street_name": "pond view", "street_suffix": "Drive"},
	}
	for i, c := range cases {
		raw := baseRaw()
		delete(raw, "street_suffix")
		for k, v := range c {
			raw[k] = v
		}
		a, err := FromRaw(raw, testDict)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if a.StreetName != "Pond View" {
			t.Errorf("case %d: street_name = %q, want Pond View", i, a.StreetName)
		}
		if a.StreetSuffix != "Drive" {
			t.Errorf("case %d: street_suffix = %q, want Drive", i, a.StreetSuffix)
		}
		if a.LookupString != "6 pond view drive, 02563" {
			t.Errorf("case %d: lookup = %q", i, a.LookupString)
		}
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	a, err := FromRaw(baseRaw(), testDict)
	if err != nil {
		t.Fatal(err)
	}
	again, err := FromRaw(a.AsRaw(), testDict)
	if err != nil {
		t.Fatal(err)
	}
	if again.LookupString != a.LookupString {
		t.Errorf("lookup changed on re-canonicalization: %q vs %q", again.LookupString, a.LookupString)
	}
	if again.StreetName != a.StreetName || again.StreetSuffix != a.StreetSuffix {
		t.Errorf("components changed on re-canonicalization: %+v vs %+v", again, a)
	}
}

func TestLookupStringDedupesNoisyVariants(t *testing.T) {
	first, err := FromRaw(baseRaw(), testDict)
	if err != nil {
		t.Fatal(err)
	}
	noisy := baseRaw()
	noisy["street_name"] = "  POND   VIEW  DRIVE "
	delete(noisy, "street_suffix")
	second, err := FromRaw(noisy, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if first.LookupString != second.LookupString {
		t.Errorf("variants produced different lookups: %q vs %q", first.LookupString, second.LookupString)
	}
}

func TestNoSuffixYieldsEmptyNotError(t *testing.T) {
	raw := baseRaw()
	raw["street_name"] = "Broadway"
	delete(raw, "street_suffix")
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.StreetSuffix != "" {
		t.Errorf("expected empty suffix, got %q", a.StreetSuffix)
	}
	// no suffix segment: number, name, then zip
	if a.LookupString != "6 broadway 02563" {
		t.Errorf("lookup = %q", a.LookupString)
	}
}

func TestSingleTokenNameKeepsSuffixLikeName(t *testing.T) {
	// "Lane" alone is the street name, not a suffix of an empty name.
	raw := baseRaw()
	raw["street_name"] = "Lane"
	delete(raw, "street_suffix")
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.StreetName != "Lane" || a.StreetSuffix != "" {
		t.Errorf("got name=%q suffix=%q", a.StreetName, a.StreetSuffix)
	}
}

func TestStreetNumberTruncatesFloats(t *testing.T) {
	raw := baseRaw()
	raw["street_number"] = float64(6.0)
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.StreetNumber != "6" {
		t.Errorf("street_number = %q, want 6", a.StreetNumber)
	}
}

func TestNumericUnitStringified(t *testing.T) {
	raw := baseRaw()
	raw["unit"] = float64(2.0)
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.Unit != "2" {
		t.Errorf("unit = %q, want 2", a.Unit)
	}
	if a.LookupString != "6 pond view drive, 2, 02563" {
		t.Errorf("lookup = %q", a.LookupString)
	}
}

func TestZipCoercion(t *testing.T) {
	raw := baseRaw()
	raw["zip_code"] = float64(2563)
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.ZipCode != 2563 {
		t.Errorf("zip = %d", a.ZipCode)
	}
	if got := FormatZip(a.ZipCode); got != "02563" {
		t.Errorf("FormatZip = %q", got)
	}

	raw["zip_code"] = "not-a-zip"
	if _, err := FromRaw(raw, testDict); !errors.Is(err, ErrBadZip) {
		t.Errorf("expected ErrBadZip, got %v", err)
	}
}

func TestStateNameMapping(t *testing.T) {
	a, err := FromRaw(baseRaw(), testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.State != "MA" {
		t.Errorf("state = %q, want MA", a.State)
	}
	if got := CanonicalState("New Hampshire"); got != "NH" {
		t.Errorf("CanonicalState(New Hampshire) = %q", got)
	}
	if got := CanonicalState("TX"); got != "TX" {
		t.Errorf("codes should pass through, got %q", got)
	}
}

func TestAccentsStrippedInLookupKeptInName(t *testing.T) {
	raw := map[string]any{
		"state":         "Massachusetts",
		"city":          "Hyannis",
		"street_name":   "Jalapeño",
		"street_suffix": "road",
		"street_number": "54",
		"zip_code":      float64(2601),
	}
	a, err := FromRaw(raw, testDict)
	if err != nil {
		t.Fatal(err)
	}
	if a.StreetName != "Jalapeño" {
		t.Errorf("display name should keep accents, got %q", a.StreetName)
	}
	if a.LookupString != "54 jalapeno road, 02601" {
		t.Errorf("lookup = %q", a.LookupString)
	}
}

func TestMissingRequiredFields(t *testing.T) {
	raw := baseRaw()
	delete(raw, "street_name")
	if _, err := FromRaw(raw, testDict); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}
