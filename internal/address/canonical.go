// Package address canonicalizes raw US street-address fragments into a
// fixed structural form plus a derived lookup string. The lookup string is
// the sole deduplication and join key for addresses: two fragments that
// normalize to the same components produce byte-identical lookup strings,
// and no fuzzy matching happens anywhere downstream.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/artifex-data/heimr/internal/rawdoc"
)

var (
	// ErrMissingField marks a required address field that is absent or empty.
	ErrMissingField = errors.New("missing required address field")
	// ErrBadZip marks a zip code that cannot be coerced to an integer.
	ErrBadZip = errors.New("zip code is not coercible to an integer")
)

// Address is a canonical, deduplicated address. Built transiently during
// parsing; persisted once per distinct LookupString.
type Address struct {
	State        string
	City         string
	StreetName   string // title-cased, suffix stripped, accents kept
	StreetNumber string
	StreetSuffix string // canonical form, "" when none detected
	Unit         string
	ZipCode      int
	LookupString string
	Lat          *float64
	Lon          *float64

	// Back-reference to the owning property, set during reconciliation.
	PropertyID *int64
}

// keep letters, digits, whitespace, and accented Latin letters
var specialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\x{00C0}-\x{017F}]`)

// FromRaw canonicalizes a loosely-typed address fragment. Accepted keys
// follow the source feeds: street_number/street_no, street_name,
// street_suffix, unit, city, state, postal_code/zip_code, lat/lon either
// flat or under a coordinates object.
//
// Canonicalization is idempotent: a fragment that already carries a
// st_lookup_str is taken as canonical and not re-derived.
func FromRaw(m map[string]any, dict SuffixDict) (Address, error) {
	if s, ok := rawdoc.Dig(m, "st_lookup_str").String(); ok && s != "" {
		return fromCanonical(m, s)
	}

	number := coerceString(firstOf(m, "street_number", "street_no"))
	if number == "" {
		return Address{}, fmt.Errorf("street_number: %w", ErrMissingField)
	}

	rawName, _ := rawdoc.Dig(m, "street_name").String()
	if strings.TrimSpace(rawName) == "" {
		return Address{}, fmt.Errorf("street_name: %w", ErrMissingField)
	}
	name := titleCase(specialChars.ReplaceAllString(rawName, ""))

	rawCity, _ := rawdoc.Dig(m, "city").String()
	if strings.TrimSpace(rawCity) == "" {
		return Address{}, fmt.Errorf("city: %w", ErrMissingField)
	}
	rawState, _ := rawdoc.Dig(m, "state").String()
	if strings.TrimSpace(rawState) == "" {
		return Address{}, fmt.Errorf("state: %w", ErrMissingField)
	}

	name, suffix := resolveSuffix(name, rawSuffix(m), dict)

	zip, err := coerceZip(firstOf(m, "postal_code", "zip_code"))
	if err != nil {
		return Address{}, err
	}

	unit := coerceString(rawdoc.Dig(m, "unit").Raw())
	lat, lon := coordinates(m)

	a := Address{
		State:        CanonicalState(rawState),
		City:         titleCase(rawCity),
		StreetName:   name,
		StreetNumber: number,
		StreetSuffix: suffix,
		Unit:         unit,
		ZipCode:      zip,
		Lat:          lat,
		Lon:          lon,
	}
	a.LookupString = buildLookup(a)
	return a, nil
}

// resolveSuffix applies the two suffix paths: an explicit suffix is
// canonicalized and any duplicate of it embedded as the street name's last
// token is stripped; with no explicit suffix, a dictionary-known last token
// of the street name is promoted to the suffix.
func resolveSuffix(name, explicit string, dict SuffixDict) (string, string) {
	if explicit != "" {
		canonical := dict.Canonical(explicit)
		if last, rest, ok := splitLastToken(name); ok {
			if c := dict.Canonical(last); c != "" && c == canonical {
				name = rest
			}
		}
		return name, canonical
	}

	if last, rest, ok := splitLastToken(name); ok && dict.Has(last) {
		return rest, dict.Canonical(last)
	}
	return name, ""
}

// splitLastToken splits off the last whitespace-delimited token. A
// single-token name has no splittable suffix and reports ok == false.
func splitLastToken(name string) (last, rest string, ok bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", name, false
	}
	return fields[len(fields)-1], strings.Join(fields[:len(fields)-1], " "), true
}

// buildLookup derives the canonical dedup/join key: lowercase
// street number, accent-stripped street name, optional suffix and unit,
// then the zero-padded 5-digit zip.
func buildLookup(a Address) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(a.StreetNumber))
	b.WriteString(" ")
	b.WriteString(strings.ToLower(StripAccents(a.StreetName)))
	b.WriteString(" ")
	if a.StreetSuffix != "" {
		b.WriteString(strings.ToLower(a.StreetSuffix))
		b.WriteString(", ")
	}
	if a.Unit != "" {
		b.WriteString(strings.ToLower(strings.TrimSpace(a.Unit)))
		b.WriteString(", ")
	}
	b.WriteString(FormatZip(a.ZipCode))
	return b.String()
}

// fromCanonical rebuilds an Address from already-canonical fields without
// re-deriving anything.
func fromCanonical(m map[string]any, lookup string) (Address, error) {
	zip, err := coerceZip(firstOf(m, "postal_code", "zip_code"))
	if err != nil {
		return Address{}, err
	}
	state, _ := rawdoc.Dig(m, "state").String()
	city, _ := rawdoc.Dig(m, "city").String()
	name, _ := rawdoc.Dig(m, "street_name").String()
	suffix, _ := rawdoc.Dig(m, "street_suffix").String()
	lat, lon := coordinates(m)
	return Address{
		State:        state,
		City:         city,
		StreetName:   name,
		StreetNumber: coerceString(firstOf(m, "street_number", "street_no")),
		StreetSuffix: suffix,
		Unit:         coerceString(rawdoc.Dig(m, "unit").Raw()),
		ZipCode:      zip,
		LookupString: lookup,
		Lat:          lat,
		Lon:          lon,
	}, nil
}

// AsRaw renders the address back into fragment form. Round-tripping
// through FromRaw is a no-op because st_lookup_str is set.
func (a Address) AsRaw() map[string]any {
	m := map[string]any{
		"state":         a.State,
		"city":          a.City,
		"street_name":   a.StreetName,
		"street_number": a.StreetNumber,
		"zip_code":      a.ZipCode,
		"st_lookup_str": a.LookupString,
	}
	if a.StreetSuffix != "" {
		m["street_suffix"] = a.StreetSuffix
	}
	if a.Unit != "" {
		m["unit"] = a.Unit
	}
	if a.Lat != nil {
		m["lat"] = *a.Lat
	}
	if a.Lon != nil {
		m["lon"] = *a.Lon
	}
	return m
}

// FormatZip zero-pads a zip code to 5 digits.
func FormatZip(zip int) string {
	return fmt.Sprintf("%05d", zip)
}

// StripAccents folds accented Latin letters to their ASCII base form.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// coerceString stringifies numbers by truncation (floats lose the decimal
// part, never round) and passes strings through trimmed.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

func coerceZip(v any) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case int:
		return val, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadZip, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrBadZip, v)
	}
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := rawdoc.Dig(m, k); v.Ok() {
			return v.Raw()
		}
	}
	return nil
}

func coordinates(m map[string]any) (lat, lon *float64) {
	if coords, ok := rawdoc.Dig(m, "coordinates").Map(); ok {
		lat = floatPtr(rawdoc.Dig(coords, "lat"))
		lon = floatPtr(rawdoc.Dig(coords, "lon"))
		return lat, lon
	}
	lat = floatPtr(rawdoc.Dig(m, "lat"), rawdoc.Dig(m, "latitude"))
	lon = floatPtr(rawdoc.Dig(m, "lon"), rawdoc.Dig(m, "longitude"))
	return lat, lon
}

func floatPtr(vals ...rawdoc.Value) *float64 {
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			return &f
		}
	}
	return nil
}

func rawSuffix(m map[string]any) string {
	s, _ := rawdoc.Dig(m, "street_suffix").String()
	return strings.TrimSpace(s)
}
