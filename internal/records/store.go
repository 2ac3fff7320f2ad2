package records

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artifex-data/heimr/internal/address"
)

// Store is the record-store access layer. Every method scopes its own
// short-lived transaction; nothing here spans pipeline stages.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AddressesByLookup fetches the address ids for a set of lookup strings as
// a lookup-string → id map. Lookups with no row are simply absent.
func (s *Store) AddressesByLookup(ctx context.Context, lookups []string) (map[string]int64, error) {
	if len(lookups) == 0 {
		return map[string]int64{}, nil
	}

	var rows []Address
	err := s.db.WithContext(ctx).
		Select("address_id", "st_lookup_str").
		Where("st_lookup_str IN ?", lookups).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying addresses by lookup: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.StLookupStr] = r.AddressID
	}
	return out, nil
}

// InsertAddresses bulk-inserts new address rows. Conflicts on
// st_lookup_str are ignored so that a concurrent run inserting the same
// address falls through to the caller's re-lookup instead of failing.
func (s *Store) InsertAddresses(ctx context.Context, rows []Address) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "st_lookup_str"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("inserting addresses: %w", err)
	}
	return nil
}

// PropertyIDsByAddress maps address ids to the property that owns each
// address. Addresses with no owning property are absent from the result.
func (s *Store) PropertyIDsByAddress(ctx context.Context, addressIDs []int64) (map[int64]int64, error) {
	if len(addressIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []Address
	err := s.db.WithContext(ctx).
		Select("address_id", "property_id").
		Where("address_id IN ? AND property_id IS NOT NULL", addressIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying property ids by address: %w", err)
	}

	out := make(map[int64]int64, len(rows))
	for _, r := range rows {
		if r.PropertyID != nil {
			out[r.AddressID] = *r.PropertyID
		}
	}
	return out, nil
}

// BulkInsert writes a chunk of rows inside its own transaction. The
// caller treats an error as "chunk failed, rolled back" and moves on;
// the merge pass picks the rows up individually.
func (s *Store) BulkInsert(ctx context.Context, rows any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rows).Error
	})
}

// Upsert merges a single row by primary key (insert-or-update). Optional
// conflict columns override the primary-key target for tables whose
// logical identity is not the surrogate key, e.g. tax (property_id, year).
func (s *Store) Upsert(ctx context.Context, row any, conflictCols ...string) error {
	oc := clause.OnConflict{UpdateAll: true}
	for _, col := range conflictCols {
		oc.Columns = append(oc.Columns, clause.Column{Name: col})
	}
	return s.db.WithContext(ctx).Clauses(oc).Create(row).Error
}

// IndexEntry is one row of the address search index.
type IndexEntry struct {
	AddressID int64
	Text      string
}

// SearchIndexRows renders every address into its indexable text form:
// the lookup string plus city and state.
func (s *Store) SearchIndexRows(ctx context.Context) ([]IndexEntry, error) {
	var rows []Address
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading addresses for index: %w", err)
	}

	out := make([]IndexEntry, 0, len(rows))
	for _, r := range rows {
		text := fmt.Sprintf("%s %s %s %s", r.StLookupStr, r.City, r.State, address.FormatZip(r.ZipCode))
		out = append(out, IndexEntry{AddressID: r.AddressID, Text: text})
	}
	return out, nil
}
