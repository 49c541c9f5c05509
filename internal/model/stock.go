package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock location kinds.
const (
	LocationWarehouse = "warehouse"
	LocationBranch    = "branch"
)

// Stock associates a product with a warehouse or branch plus a quantity.
// One row per (location, product); quantity never goes negative.
type Stock struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationType string    `gorm:"type:varchar(10);uniqueIndex:idx_location_product;not null"`
	LocationID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_location_product;not null"`
	ProductID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_location_product;index;not null"`
	Quantity     int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Stock) TableName() string { return "stocks" }
