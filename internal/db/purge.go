package db

import (
	"context"
	"database/sql"
	"fmt"
)

// PurgeProperty deletes a property and everything hanging off it: tax
// history, listing events, listings, permit links, and the address
// back-reference. Cascades are explicit here rather than declared on the
// schema, so the deletion order is visible and auditable.
//
// Runs over database/sql (pgx stdlib driver) in a single transaction.
func PurgeProperty(ctx context.Context, sqlDB *sql.DB, propertyID int64) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning purge transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"listing events", `DELETE FROM prod.listing_event WHERE property_id = $1`},
		{"listings", `DELETE FROM prod.listing WHERE property_id = $1`},
		{"tax history", `DELETE FROM prod.tax WHERE property_id = $1`},
		{"permit links", `UPDATE prod.permit SET property_id = NULL WHERE property_id = $1`},
		{"address back-reference", `UPDATE prod.address SET property_id = NULL WHERE property_id = $1`},
		{"property", `DELETE FROM prod.property WHERE property_id = $1`},
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, propertyID); err != nil {
			return fmt.Errorf("purging %s for property %d: %w", step.desc, propertyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purge: %w", err)
	}
	return nil
}
