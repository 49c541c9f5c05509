package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt tracks the async PDF receipt generated for a completed transaction.
// Status: "pending" | "generated" | "error"
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to RECEIPT_STORAGE_PATH
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields — used by the retry cron to re-attempt failed generations
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
