package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores platform users with role-based access.
// Role: "admin" (company admin) | "manager" (warehouse manager) | "staff" (branch/sales staff)
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	// CompanyID scopes the user to one tenant; nil = platform-level account
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
