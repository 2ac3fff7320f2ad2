package db

import (
	"gorm.io/gorm"

	"github.com/artifex-data/heimr/internal/records"
)

func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

// Migrate creates the prod schema and all record tables.
func Migrate(d *gorm.DB) error {
	if err := EnsureSchema(d, "prod"); err != nil {
		return err
	}
	return d.AutoMigrate(
		&records.Address{},
		&records.Property{},
		&records.Listing{},
		&records.ListingEvent{},
		&records.Permit{},
		&records.Tax{},
	)
}
