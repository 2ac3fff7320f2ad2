// Package parse transforms raw heterogeneous payloads into validated
// canonical records. Each entity type has one parsing routine; a malformed
// record is isolated, logged with identifying context, and excluded from
// the output set without aborting the batch.
package parse

import (
	"time"

	"github.com/artifex-data/heimr/internal/address"
)

// Property is the canonical record for one property detail document.
type Property struct {
	PropertyID int64
	RealtorID  string
	Address    address.Address

	URL        string
	Image      string
	StreetView string

	Baths   *float64
	Beds    *int
	Sqft    *int
	LotSqft *int

	// Assigned during reconciliation.
	AddressID *int64

	Listings []Listing
	Taxes    []Tax
}

// Listing is the canonical snapshot kept for one listing id after
// most-recent-wins deduplication.
type Listing struct {
	ListingID  int64
	PropertyID int64
	RealtorID  string

	Price       int64
	Status      string
	Description string
	Photos      []string

	ListingDate      *time.Time
	LastUpdated      *time.Time
	LastStatusChange *time.Time

	Events []ListingEvent
}

// ListingEvent is one immutable price/status event from a listing history.
type ListingEvent struct {
	SourceListingID int64
	ListingID       *int64
	PropertyID      int64
	RealtorID       string

	Price      int64
	EventDate  time.Time
	EventType  string
	SourceName string
}

// Permit is the canonical record for one building permit.
type Permit struct {
	PermitID       int64
	LocationID     int64
	PermitTypeName string
	OccupancyType  string

	ApplicantFullName string

	DateCreated   time.Time
	DateSubmitted time.Time

	Address address.Address

	// Assigned during reconciliation; both stay nil when unresolvable.
	AddressID  *int64
	PropertyID *int64
}

// Tax is one year of a property's assessment history.
type Tax struct {
	PropertyID int64
	RealtorID  string

	Year       int
	Tax        int64
	Building   *int64
	Land       *int64
	Assessment *int64
}
