package parse

import (
	"log"

	"github.com/artifex-data/heimr/internal/rawdoc"
)

// ParseListings transforms a raw property-history array into listing
// events plus deduplicated canonical listings.
//
// Every history item becomes a ListingEvent, except orphans: items whose
// embedded listing payload carries no listing id. Orphans are counted and
// dropped; they only ever arrive joined to a listing upstream, so an
// unlinked event has nothing to attach to.
//
// Items with a listing id also become Listing candidates. Candidates are
// grouped by listing id and ranked by effective date (listing_date,
// falling back to last_updated; candidates with neither are dropped); the
// most recent snapshot wins and the rest survive only as events. Winners
// get every event whose source listing id matches, including events from
// losing candidates.
func ParseListings(items []any, propertyID int64, realtorID string) ([]Listing, Summary) {
	var sum Summary
	var events []ListingEvent
	var candidates []Listing

	for i, item := range items {
		m, ok := rawdoc.Of(item).Map()
		if !ok {
			log.Printf("[parse] listing history item %d for property %d is not an object, skipping", i, propertyID)
			sum.Skipped++
			continue
		}

		rec, _ := rawdoc.Dig(m, "listing").Map()
		sourceListingID, hasListing := rawdoc.Dig(rec, "listing_id").Int()
		if !hasListing {
			sum.Orphaned++
			continue
		}

		eventDate := CoerceDate(rawdoc.Dig(m, "date").Raw())
		if eventDate == nil {
			log.Printf("[parse] listing event %d for property %d has no parseable date, skipping", i, propertyID)
			sum.Skipped++
			continue
		}

		eventType, _ := rawdoc.Dig(m, "event_name").String()
		price, _ := rawdoc.Dig(m, "price").Int()
		sourceName, _ := rawdoc.Dig(m, "source_name").String()

		listingID := sourceListingID
		events = append(events, ListingEvent{
			SourceListingID: sourceListingID,
			ListingID:       &listingID,
			PropertyID:      propertyID,
			RealtorID:       realtorID,
			Price:           price,
			EventDate:       *eventDate,
			EventType:       eventType,
			SourceName:      sourceName,
		})

		candidate, err := parseListingCandidate(rec, sourceListingID, propertyID, realtorID)
		if err != nil {
			log.Printf("[parse] malformed listing %d for property %d: %v", sourceListingID, propertyID, err)
			sum.Skipped++
			continue
		}
		candidates = append(candidates, candidate)
	}

	if sum.Orphaned > 0 {
		log.Printf("[parse] dropped %d orphaned listing events (no listing payload) for property %d", sum.Orphaned, propertyID)
	}

	listings := dedupeMostRecent(candidates)
	for i := range listings {
		for _, e := range events {
			if e.SourceListingID == listings[i].ListingID {
				listings[i].Events = append(listings[i].Events, e)
			}
		}
	}
	sum.Parsed += len(listings)

	return listings, sum
}

func parseListingCandidate(rec map[string]any, listingID, propertyID int64, realtorID string) (Listing, error) {
	price, ok := rawdoc.Dig(rec, "list_price").Int()
	if !ok {
		return Listing{}, missing("listing", "list_price")
	}
	status, ok := rawdoc.Dig(rec, "status").String()
	if !ok || status == "" {
		return Listing{}, missing("listing", "status")
	}

	li := Listing{
		ListingID:  listingID,
		PropertyID: propertyID,
		RealtorID:  realtorID,
		Price:      price,
		Status:     status,
	}

	li.ListingDate = CoerceDate(rawdoc.Dig(rec, "list_date").Raw())
	lastUpdated := CoerceDate(rawdoc.Dig(rec, "last_update_date").Raw())
	lastStatusChange := CoerceDate(rawdoc.Dig(rec, "last_status_change_date").Raw())
	// each backfills the other when only one is present
	if lastUpdated == nil {
		lastUpdated = lastStatusChange
	}
	if lastStatusChange == nil {
		lastStatusChange = lastUpdated
	}
	li.LastUpdated = lastUpdated
	li.LastStatusChange = lastStatusChange

	li.Description, _ = rawdoc.Dig(rec, "description", "text").String()

	if photos, ok := rawdoc.Dig(rec, "photos").Slice(); ok {
		for _, p := range photos {
			pm, ok := rawdoc.Of(p).Map()
			if !ok {
				continue
			}
			if href, ok := rawdoc.Dig(pm, "href").String(); ok && href != "" {
				li.Photos = append(li.Photos, href)
			}
		}
	}

	return li, nil
}

// dedupeMostRecent keeps, per listing id, the snapshot with the most
// recent effective date. The winner's ListingDate is normalized to its
// effective date so downstream ranking stays stable.
func dedupeMostRecent(candidates []Listing) []Listing {
	byID := make(map[int64][]Listing)
	var order []int64
	for _, c := range candidates {
		if _, seen := byID[c.ListingID]; !seen {
			order = append(order, c.ListingID)
		}
		byID[c.ListingID] = append(byID[c.ListingID], c)
	}

	var out []Listing
	for _, id := range order {
		var winner *Listing
		for i := range byID[id] {
			c := byID[id][i]
			effective := c.ListingDate
			if effective == nil {
				effective = c.LastUpdated
			}
			if effective == nil {
				continue
			}
			c.ListingDate = effective
			if winner == nil || effective.After(*winner.ListingDate) {
				tmp := c
				winner = &tmp
			}
		}
		if winner != nil {
			out = append(out, *winner)
		}
	}
	return out
}
