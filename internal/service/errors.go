package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes: not-found → 404, the rest → 400.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidQuantity      = errors.New("valid quantity change is required")
	ErrInsufficientQuantity = errors.New("insufficient product quantity")
	ErrNegativePrice        = errors.New("price and cost price must not be negative")

	ErrStockNotFound     = errors.New("stock record not found")
	ErrInsufficientStock = errors.New("insufficient stock at source")
	ErrRequestNotFound   = errors.New("stock request not found")
	ErrRequestFinalized  = errors.New("stock request already finalized")

	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrBranchNotFound    = errors.New("branch not found")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateOrder      = errors.New("order id already exists")
	ErrAlreadyCancelled    = errors.New("transaction is already cancelled")
	ErrInvalidDateRange    = errors.New("valid start and end dates are required")
)
