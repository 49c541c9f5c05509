package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement types.
const (
	MovementOrder       = "order"
	MovementAdjustment  = "manual_adjustment"
	MovementAssignment  = "assignment"
	MovementTransferIn  = "transfer_in"
	MovementTransferOut = "transfer_out"
	MovementRestore     = "restore_cancellation"
)

// StockMovement records each quantity change on a product.
// Rows are immutable — cancellations create inverse entries, nothing is
// ever updated or deleted.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	// LocationType "catalog" means the company-level on-hand count; otherwise
	// warehouse|branch with LocationID set.
	LocationType   string     `gorm:"type:varchar(10);not null"`
	LocationID     *uuid.UUID `gorm:"type:uuid"`
	Type           string     `gorm:"not null"`
	Quantity       int        `gorm:"not null"` // positive = in, negative = out
	QuantityBefore int        `gorm:"not null"`
	QuantityAfter  int        `gorm:"not null"`
	Reason         string
	// ReferenceID links to the originating transaction or stock request
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// LocationCatalog marks movements against the company-level on-hand count.
const LocationCatalog = "catalog"

func (StockMovement) TableName() string { return "stock_movements" }
