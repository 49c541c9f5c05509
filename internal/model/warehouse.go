package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a storage location holding company inventory that supplies branches.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Location  string    `gorm:"not null"`
	ManagerID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Manager  *User              `gorm:"foreignKey:ManagerID"`
	Products []WarehouseProduct `gorm:"foreignKey:WarehouseID"`
}

// WarehouseProduct links a product to a warehouse it is assigned to.
// Quantities are tracked in Stock rows, not here.
type WarehouseProduct struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_warehouse_product;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_warehouse_product;not null"`
	CreatedAt   time.Time

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
}
