package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	CompanyID   string          `json:"company_id"   validate:"required,uuid"`
	SKU         string          `json:"sku"          validate:"required,min=3,max=40"`
	Name        string          `json:"name"         validate:"required,min=2,max=120"`
	Category    string          `json:"category"     validate:"required"`
	Price       decimal.Decimal `json:"price"        validate:"required,gte=0"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"required,gte=0"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"     validate:"min=0"`
	MinQuantity int             `json:"min_quantity" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2,max=120"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"        validate:"omitempty,gte=0"`
	CostPrice   *decimal.Decimal `json:"cost_price"   validate:"omitempty,gte=0"`
	Unit        *string          `json:"unit"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,min=0"`
}

// DecrementQuantityRequest adjusts on-hand quantity downward.
// QuantityChange must be strictly positive.
type DecrementQuantityRequest struct {
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
}

// AdjustQuantityRequest applies a signed manual correction.
type AdjustQuantityRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU       string `form:"sku"`
	Name      string `form:"name"`
	Category  string `form:"category"`
	CompanyID string `form:"company_id"`
	Status    string `form:"status"` // active (default) | inactive | all
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Status      string          `json:"status"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
