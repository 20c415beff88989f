// Package repository stores property records. The calculation code never sees
// which backend is in use: memory, a SQL database through GORM, or DynamoDB.
package repository

import (
	"context"
	"sort"
	"time"

	"auctiontracker/internal/models"
)

// PropertyRepository is the property record store. Identifiers and creation
// timestamps are generated by the store and never change afterwards. Lookups
// and updates against an unknown id return apperrors.ErrPropertyNotFound.
type PropertyRepository interface {
	// Create stores a new property owned by ownerID.
	Create(ctx context.Context, in models.PropertyInput, ownerID string) (*models.Property, error)
	// Update merges patch into the stored property field by field. A supplied
	// cost bucket replaces the stored one whole.
	Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error)
	FindByID(ctx context.Context, id string) (*models.Property, error)
	// ListByOwner returns the owner's properties in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
	// CountByOwner returns the number of properties held by each owner.
	CountByOwner(ctx context.Context) (map[string]int64, error)
}

// now returns the creation timestamp for a new record, truncated to the
// microsecond precision of a PostgreSQL timestamptz column.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// sortByInsertion orders properties by creation time. UUIDv7 ids break ties
// since they grow monotonically within a process.
func sortByInsertion(properties []models.Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		a, b := properties[i], properties[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
