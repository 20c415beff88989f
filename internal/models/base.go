package models

import (
	"time"

	"auctiontracker/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the identity columns shared by every table. Records are never
// deleted, so there is no soft-delete column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
