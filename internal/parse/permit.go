package parse

import (
	"log"

	"github.com/artifex-data/heimr/internal/address"
	"github.com/artifex-data/heimr/internal/rawdoc"
)

// ParsePermitBatch transforms one raw permit batch document. Permits
// arrive batched per location; each permit carries free-text address
// fields that go through the canonicalizer. One bad permit never fails
// the batch: it is logged, counted, and excluded.
func ParsePermitBatch(doc map[string]any, dict address.SuffixDict) ([]Permit, Summary, error) {
	var sum Summary

	locationID, ok := rawdoc.Dig(doc, "location_id").Int()
	if !ok {
		return nil, sum, missing("permit batch", "location_id")
	}
	items, ok := rawdoc.Dig(doc, "permits").Slice()
	if !ok {
		return nil, sum, missing("permit batch", "permits")
	}

	var out []Permit
	for i, item := range items {
		m, ok := rawdoc.Of(item).Map()
		if !ok {
			log.Printf("[parse] permit %d in location %d is not an object, skipping", i, locationID)
			sum.Skipped++
			continue
		}

		p, err := parsePermit(m, locationID, dict)
		if err != nil {
			log.Printf("[parse] failed to parse permit %d in location %d: %v", i, locationID, err)
			sum.Skipped++
			continue
		}
		out = append(out, p)
		sum.Parsed++
	}

	return out, sum, nil
}

func parsePermit(m map[string]any, locationID int64, dict address.SuffixDict) (Permit, error) {
	permitID, ok := rawdoc.Dig(m, "record_id").Int()
	if !ok {
		return Permit{}, missing("permit", "record_id")
	}
	typeName, ok := rawdoc.Dig(m, "record_type_name").String()
	if !ok || typeName == "" {
		return Permit{}, missing("permit", "record_type_name")
	}
	occupancy, ok := rawdoc.Dig(m, "occupancy_type").String()
	if !ok || occupancy == "" {
		return Permit{}, missing("permit", "occupancy_type")
	}
	created := CoerceDate(rawdoc.Dig(m, "date_created").Raw())
	if created == nil {
		return Permit{}, missing("permit", "date_created")
	}
	submitted := CoerceDate(rawdoc.Dig(m, "date_submitted").Raw())
	if submitted == nil {
		return Permit{}, missing("permit", "date_submitted")
	}

	// The permit payload carries its address fields inline
	// (street_no/street_name/postal_code/latitude/longitude), which is
	// exactly the fragment shape the canonicalizer accepts.
	addr, err := address.FromRaw(m, dict)
	if err != nil {
		return Permit{}, &Error{Entity: "permit", Field: "address", Err: err}
	}

	p := Permit{
		PermitID:       permitID,
		LocationID:     locationID,
		PermitTypeName: typeName,
		OccupancyType:  occupancy,
		DateCreated:    *created,
		DateSubmitted:  *submitted,
		Address:        addr,
	}
	p.ApplicantFullName, _ = rawdoc.Dig(m, "applicant_full_name").String()
	return p, nil
}
