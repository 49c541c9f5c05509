package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction statuses.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
	TransactionRefunded  = "refunded"
)

// Transaction is a sales order: line items, total, payment method, status.
// Line items are never mutated after creation; "delete" is a status
// transition to cancelled.
type Transaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       string    `gorm:"uniqueIndex;not null"`
	CustomerID    string    `gorm:"index;not null"`
	CustomerEmail *string
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"` // cash | credit_card | debit_card | online
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	Items  []TransactionItem `gorm:"foreignKey:TransactionID"`
	Branch *Branch           `gorm:"foreignKey:BranchID"`
}

// TransactionItem is one ordered line with a price snapshot taken at order time.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      int             `gorm:"not null"` // >= 1
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
