package model

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a retail location that sells to end customers,
// sourced from one or more warehouses.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Location  string    `gorm:"not null"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Manager *User `gorm:"foreignKey:ManagerID"`
}

func (Branch) TableName() string { return "branches" }
