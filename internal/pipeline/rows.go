package pipeline

import (
	"log"

	"github.com/artifex-data/heimr/internal/parse"
	"github.com/artifex-data/heimr/internal/records"
)

// propertyRows flattens parsed property documents into relational row
// sets. Properties whose address did not resolve to an id are dropped
// here, together with their child rows; address_id is not nullable on the
// property table.
func propertyRows(props []*parse.Property) (properties []records.Property, listings []records.Listing, events []records.ListingEvent, taxes []records.Tax) {
	for _, p := range props {
		if p.AddressID == nil {
			log.Printf("[rows] property %d (%s) skipped: address unresolved", p.PropertyID, p.RealtorID)
			continue
		}
		properties = append(properties, records.Property{
			PropertyID: p.PropertyID,
			RealtorID:  p.RealtorID,
			URL:        p.URL,
			Image:      p.Image,
			StreetView: p.StreetView,
			Baths:      p.Baths,
			Beds:       p.Beds,
			Sqft:       p.Sqft,
			LotSqft:    p.LotSqft,
			AddressID:  *p.AddressID,
		})
		for _, li := range p.Listings {
			listings = append(listings, records.Listing{
				ListingID:        li.ListingID,
				PropertyID:       li.PropertyID,
				RealtorID:        li.RealtorID,
				Description:      li.Description,
				Price:            li.Price,
				Status:           li.Status,
				Photos:           li.Photos,
				ListingDate:      li.ListingDate,
				LastUpdated:      li.LastUpdated,
				LastStatusChange: li.LastStatusChange,
			})
			for _, ev := range li.Events {
				events = append(events, records.ListingEvent{
					ListingID:       ev.ListingID,
					PropertyID:      ev.PropertyID,
					RealtorID:       ev.RealtorID,
					SourceListingID: ev.SourceListingID,
					EventDate:       ev.EventDate,
					EventType:       ev.EventType,
					Price:           ev.Price,
					SourceName:      ev.SourceName,
				})
			}
		}
		for _, t := range p.Taxes {
			taxes = append(taxes, records.Tax{
				PropertyID: t.PropertyID,
				RealtorID:  t.RealtorID,
				Year:       t.Year,
				Tax:        t.Tax,
				Building:   t.Building,
				Land:       t.Land,
				Assessment: t.Assessment,
			})
		}
	}
	return properties, listings, events, taxes
}

// permitRows converts parsed permits. Unresolved address or property ids
// stay null; permits are kept either way.
func permitRows(permits []*parse.Permit) []records.Permit {
	rows := make([]records.Permit, 0, len(permits))
	for _, p := range permits {
		rows = append(rows, records.Permit{
			PermitID:          p.PermitID,
			LocationID:        p.LocationID,
			PermitTypeName:    p.PermitTypeName,
			OccupancyType:     p.OccupancyType,
			DateCreated:       p.DateCreated,
			DateSubmitted:     p.DateSubmitted,
			ApplicantFullName: p.ApplicantFullName,
			AddressID:         p.AddressID,
			PropertyID:        p.PropertyID,
		})
	}
	return rows
}
