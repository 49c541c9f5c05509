package model

import (
	"time"

	"github.com/google/uuid"
)

// StockRequest statuses. pending → approved | rejected, terminal after either.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// StockRequest is a pending transfer of quantity between two stock locations
// requiring explicit approval or rejection. No quantity moves until approval.
type StockRequest struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceType      string    `gorm:"type:varchar(10);not null"`
	SourceID        uuid.UUID `gorm:"type:uuid;not null"`
	DestinationType string    `gorm:"type:varchar(10);not null"`
	DestinationID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity        int       `gorm:"not null"`
	Status          string    `gorm:"type:varchar(10);not null;default:'pending';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
