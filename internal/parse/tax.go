package parse

import "github.com/artifex-data/heimr/internal/rawdoc"

// ParseTaxes transforms a raw tax-history array. A nested assessment
// object (building/land/total) is flattened into flat fields. Records with
// a zero or absent tax amount are dropped: a filtering policy, not an
// error. A structurally broken record (no year) does fail the owning
// property document, since the history is part of it.
func ParseTaxes(items []any, propertyID int64, realtorID string) ([]Tax, error) {
	var out []Tax
	for _, item := range items {
		m, ok := rawdoc.Of(item).Map()
		if !ok {
			return nil, missing("tax", "record")
		}

		taxAmount, ok := rawdoc.Dig(m, "tax").Int()
		if !ok || taxAmount == 0 {
			continue
		}

		year, ok := rawdoc.Dig(m, "year").Int()
		if !ok {
			return nil, &Error{Entity: "tax", Field: "year", Err: ErrMissingField}
		}

		t := Tax{
			PropertyID: propertyID,
			RealtorID:  realtorID,
			Year:       int(year),
			Tax:        taxAmount,
		}

		if assessment, ok := rawdoc.Dig(m, "assessment").Map(); ok {
			t.Building = int64Ptr(rawdoc.Dig(assessment, "building"))
			t.Land = int64Ptr(rawdoc.Dig(assessment, "land"))
			t.Assessment = int64Ptr(rawdoc.Dig(assessment, "total"))
		} else {
			t.Building = int64Ptr(rawdoc.Dig(m, "building"))
			t.Land = int64Ptr(rawdoc.Dig(m, "land"))
			if flat, ok := rawdoc.Dig(m, "assessment").Int(); ok {
				t.Assessment = &flat
			}
		}

		out = append(out, t)
	}
	return out, nil
}

func int64Ptr(v rawdoc.Value) *int64 {
	n, ok := v.Int()
	if !ok {
		return nil
	}
	return &n
}
