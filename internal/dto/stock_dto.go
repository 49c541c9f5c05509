package dto

// ─── Stock CRUD ──────────────────────────────────────────────────────────────

type CreateStockRequest struct {
	LocationType string `json:"location_type" validate:"required,oneof=warehouse branch"`
	LocationID   string `json:"location_id"   validate:"required,uuid"`
	ProductID    string `json:"product_id"    validate:"required,uuid"`
	Quantity     int    `json:"quantity"      validate:"min=0"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type StockResponse struct {
	ID           string `json:"id"`
	LocationType string `json:"location_type"`
	LocationID   string `json:"location_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	Quantity     int    `json:"quantity"`
}

// ─── Direct assignment ───────────────────────────────────────────────────────

// AssignStockRequest moves quantity into the destination named by the URL.
// When SourceWarehouseID is nil the quantity is drawn from the product's
// company-level on-hand count instead of another stock row.
type AssignStockRequest struct {
	Quantity          int     `json:"quantity" validate:"required,min=1"`
	SourceWarehouseID *string `json:"source_warehouse_id" validate:"omitempty,uuid"`
}

// ─── Transfer requests ───────────────────────────────────────────────────────

type CreateStockTransferRequest struct {
	SourceType      string `json:"source_type"      validate:"required,oneof=warehouse branch"`
	SourceID        string `json:"source_id"        validate:"required,uuid"`
	DestinationType string `json:"destination_type" validate:"required,oneof=warehouse branch"`
	DestinationID   string `json:"destination_id"   validate:"required,uuid"`
	ProductID       string `json:"product_id"       validate:"required,uuid"`
	Quantity        int    `json:"quantity"         validate:"required,min=1"`
}

type StockRequestFilter struct {
	Status string `form:"status"` // pending | approved | rejected | all
}

type StockRequestResponse struct {
	ID              string `json:"id"`
	SourceType      string `json:"source_type"`
	SourceID        string `json:"source_id"`
	DestinationType string `json:"destination_type"`
	DestinationID   string `json:"destination_id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name,omitempty"`
	Quantity        int    `json:"quantity"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// ─── Movements ───────────────────────────────────────────────────────────────

type StockMovementResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	LocationType   string  `json:"location_type"`
	LocationID     *string `json:"location_id,omitempty"`
	Type           string  `json:"type"`
	Quantity       int     `json:"quantity"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
