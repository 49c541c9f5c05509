package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// CreateTransactionRequest places an order. Line item prices are snapshotted
// server-side from the catalog; the client never supplies amounts.
type CreateTransactionRequest struct {
	OrderID       string             `json:"order_id"       validate:"required,min=4,max=60"`
	CustomerID    string             `json:"customer_id"    validate:"required"`
	CustomerEmail *string            `json:"customer_email" validate:"omitempty,email"`
	BranchID      string             `json:"branch_id"      validate:"required,uuid"`
	Items         []OrderItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=cash credit_card debit_card online"`
	// Status defaults to completed — the branch flow has no separate
	// payment-confirmation step.
	Status string `json:"status" validate:"omitempty,oneof=pending completed"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled refunded"`
	Reason string `json:"reason"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type TransactionFilter struct {
	Date   string `form:"date"` // YYYY-MM-DD; empty = no date filter
	Status string `form:"status"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type StatisticsFilter struct {
	Start    string `form:"start"`
	End      string `form:"end"`
	BranchID string `form:"branchId"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type TransactionResponse struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"order_id"`
	CustomerID    string              `json:"customer_id"`
	BranchID      string              `json:"branch_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	CreatedAt     string              `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Statistics ──────────────────────────────────────────────────────────────

// StatisticsResponse field names follow the public API contract.
type StatisticsResponse struct {
	TotalSales              decimal.Decimal `json:"totalSales"`
	TotalTransactions       int             `json:"totalTransactions"`
	AverageTransactionValue decimal.Decimal `json:"averageTransactionValue"`
}

type DailySales struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	Total        decimal.Decimal `json:"total"`
	Transactions int             `json:"transactions"`
}

type ProductRanking struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}
