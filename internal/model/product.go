package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a company.
// Quantity is the company-level on-hand count; location-level counts live in
// Stock rows. Quantity never goes negative — all decrements are conditional.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU       string    `gorm:"column:sku;uniqueIndex;not null"`
	Name      string    `gorm:"index;not null"`
	Category  string    `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit      string          `gorm:"not null;default:'unit'"`
	Quantity  int             `gorm:"not null;default:0"`
	// MinQuantity is the low-stock alert threshold
	MinQuantity int    `gorm:"not null;default:5"`
	Status      string `gorm:"type:varchar(20);not null;default:'active'"` // active | inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}
