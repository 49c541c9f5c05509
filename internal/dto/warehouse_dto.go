package dto

// ─── Warehouses ──────────────────────────────────────────────────────────────

type CreateWarehouseRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Name      string `json:"name"       validate:"required,min=2,max=120"`
	Location  string `json:"location"   validate:"required"`
	ManagerID string `json:"manager_id" validate:"required,uuid"`
}

type UpdateWarehouseRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=2,max=120"`
	Location  *string `json:"location"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}

// AssignProductRequest links a product to a warehouse; InitialQuantity > 0
// seeds the warehouse stock row from the product's on-hand count.
type AssignProductRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	InitialQuantity int    `json:"initial_quantity" validate:"min=0"`
}

type WarehouseResponse struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	ManagerID   string   `json:"manager_id"`
	ManagerName string   `json:"manager_name,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty"`
}

// WarehouseSnapshotResponse is the dashboard payload: the warehouse, its
// manager, and current stock in one response.
type WarehouseSnapshotResponse struct {
	Warehouse WarehouseResponse `json:"warehouse"`
	Stock     []StockResponse   `json:"stock"`
}

// ─── Branches ────────────────────────────────────────────────────────────────

type CreateBranchRequest struct {
	CompanyID string  `json:"company_id" validate:"required,uuid"`
	Name      string  `json:"name"       validate:"required,min=2,max=120"`
	Location  string  `json:"location"   validate:"required"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}

type UpdateBranchRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=2,max=120"`
	Location  *string `json:"location"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}

type BranchResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	ManagerID *string `json:"manager_id,omitempty"`
}
