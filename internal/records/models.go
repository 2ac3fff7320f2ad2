// Package records holds the relational row models and the narrow
// record-store access layer the pipeline writes through. All rows live in
// the "prod" schema.
package records

import (
	"time"

	"github.com/lib/pq"
)

// Address is the reconciliation root. StLookupStr is the sole dedup/join
// key; the unique index makes concurrent insert races surface as conflicts
// instead of duplicates.
type Address struct {
	AddressID    int64    `gorm:"primaryKey;autoIncrement;column:address_id"`
	PropertyID   *int64   `gorm:"column:property_id"`
	StreetName   string   `gorm:"column:street_name;size:50;index"`
	StreetNumber string   `gorm:"column:street_number;size:30;index"`
	City         string   `gorm:"column:city;size:20;index;not null"`
	State        string   `gorm:"column:state;size:30;index;not null"`
	ZipCode      int      `gorm:"column:zip_code;index;not null"`
	StreetSuffix string   `gorm:"column:street_suffix;size:30"`
	StLookupStr  string   `gorm:"column:st_lookup_str;size:100;uniqueIndex;not null"`
	Unit         string   `gorm:"column:unit;size:30"`
	Lat          *float64 `gorm:"column:lat"`
	Lon          *float64 `gorm:"column:lon"`
}

func (Address) TableName() string { return "prod.address" }

type Property struct {
	PropertyID int64  `gorm:"primaryKey;column:property_id"`
	RealtorID  string `gorm:"column:realtor_id;size:50;index;not null"`

	URL        string `gorm:"column:url;size:500"`
	Image      string `gorm:"column:image;size:500"`
	StreetView string `gorm:"column:street_view;size:500"`

	Baths   *float64 `gorm:"column:baths"`
	Beds    *int     `gorm:"column:beds"`
	Sqft    *int     `gorm:"column:sqft"`
	LotSqft *int     `gorm:"column:lot_sqft"`

	AddressID int64 `gorm:"column:address_id;not null"`
}

func (Property) TableName() string { return "prod.property" }

type Listing struct {
	ListingID  int64  `gorm:"primaryKey;column:listing_id"`
	PropertyID int64  `gorm:"column:property_id"`
	RealtorID  string `gorm:"column:realtor_id;size:50"`

	Description      string         `gorm:"column:description;size:3000"`
	Price            int64          `gorm:"column:price"`
	Status           string         `gorm:"column:status;size:100"`
	Photos           pq.StringArray `gorm:"column:photos;type:text[]"`
	ListingDate      *time.Time     `gorm:"column:listing_date;type:date"`
	LastUpdated      *time.Time     `gorm:"column:last_updated;type:date"`
	LastStatusChange *time.Time     `gorm:"column:last_status_change;type:date"`
}

func (Listing) TableName() string { return "prod.listing" }

// ListingEvent rows are immutable once created. ListingID is nullable:
// events referencing an unseen listing id stay unlinked.
type ListingEvent struct {
	ListingEventID  int64  `gorm:"primaryKey;autoIncrement;column:listing_event_id"`
	ListingID       *int64 `gorm:"column:listing_id"`
	PropertyID      int64  `gorm:"column:property_id"`
	RealtorID       string `gorm:"column:realtor_id;size:50"`
	SourceListingID int64  `gorm:"column:source_listing_id;index"`

	EventDate  time.Time `gorm:"column:event_date;type:date"`
	EventType  string    `gorm:"column:event_type;size:100"`
	Price      int64     `gorm:"column:price"`
	SourceName string    `gorm:"column:source_name;size:100"`
}

func (ListingEvent) TableName() string { return "prod.listing_event" }

type Permit struct {
	PermitID       int64     `gorm:"primaryKey;column:permit_id"`
	LocationID     int64     `gorm:"column:location_id"`
	PermitTypeName string    `gorm:"column:permit_type_name;size:100"`
	OccupancyType  string    `gorm:"column:occupancy_type;size:100"`
	DateCreated    time.Time `gorm:"column:date_created;type:date"`
	DateSubmitted  time.Time `gorm:"column:date_submitted;type:date"`

	ApplicantFullName string `gorm:"column:applicant_full_name;size:100"`

	// Resolved during reconciliation; both stay null when the address or
	// its owning property is unknown.
	AddressID  *int64 `gorm:"column:address_id"`
	PropertyID *int64 `gorm:"column:property_id"`
}

func (Permit) TableName() string { return "prod.permit" }

// Tax rows are unique per (property, year); a property's full assessment
// history is the set of its rows.
type Tax struct {
	TaxID      int64  `gorm:"primaryKey;autoIncrement;column:tax_id"`
	PropertyID int64  `gorm:"column:property_id;uniqueIndex:uq_tax_property_year"`
	RealtorID  string `gorm:"column:realtor_id;size:50"`

	Year       int    `gorm:"column:year;not null;index;uniqueIndex:uq_tax_property_year"`
	Tax        int64  `gorm:"column:tax"`
	Building   *int64 `gorm:"column:building"`
	Land       *int64 `gorm:"column:land"`
	Assessment *int64 `gorm:"column:assessment"`
}

func (Tax) TableName() string { return "prod.tax" }
