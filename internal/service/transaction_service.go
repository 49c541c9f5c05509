package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"
	"github.com/NivedanR/capstone-erp/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const topProductsLimit = 5

// TransactionService places orders and serves sales statistics.
type TransactionService interface {
	// CreateOrder records the sale and decrements catalog quantities in one
	// transaction. Either everything commits or nothing does.
	CreateOrder(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
	GetByOrderID(ctx context.Context, orderID string) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) (*dto.TransactionListResponse, error)
	ListByCustomer(ctx context.Context, customerID string, page, limit int) (*dto.TransactionListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*dto.TransactionResponse, error)
	// Cancel flips the transaction to cancelled and restores the ordered
	// quantities to the catalog.
	Cancel(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)

	Statistics(ctx context.Context, filter dto.StatisticsFilter) (*dto.StatisticsResponse, error)
	SalesByDate(ctx context.Context, filter dto.StatisticsFilter) ([]dto.DailySales, error)
	TopProducts(ctx context.Context, filter dto.StatisticsFilter) ([]dto.ProductRanking, error)
	CategoryDistribution(ctx context.Context, filter dto.StatisticsFilter) ([]dto.CategorySales, error)
}

type transactionService struct {
	repo         repository.TransactionRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewTransactionService(
	repo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) TransactionService {
	return &transactionService{
		repo:         repo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

func (s *transactionService) CreateOrder(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("invalid branch_id: %w", err)
	}
	if existing, err := s.repo.FindByOrderID(ctx, req.OrderID); err == nil && existing != nil {
		return nil, ErrDuplicateOrder
	}

	// Resolve products and snapshot prices before touching anything. The
	// availability check here is advisory; the conditional decrement inside
	// the transaction is what actually prevents overselling.
	products := make(map[uuid.UUID]*model.Product, len(req.Items))
	items := make([]model.TransactionItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		p, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		if p.Status != "active" {
			return nil, fmt.Errorf("product %s is not active", p.SKU)
		}
		if p.Quantity < item.Quantity {
			return nil, ErrInsufficientQuantity
		}
		products[productID] = p

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.TransactionItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     p.Price,
			Subtotal:  subtotal,
		})
	}

	status := req.Status
	if status == "" {
		status = model.TransactionCompleted
	}
	txn := &model.Transaction{
		OrderID:       req.OrderID,
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		BranchID:      branchID,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		Items:         items,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range txn.Items {
			ok, err := s.productRepo.DecrementQuantity(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientQuantity
			}
		}
		if err := s.repo.Create(ctx, tx, txn); err != nil {
			return err
		}
		for _, item := range txn.Items {
			p := products[item.ProductID]
			refID := txn.ID
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				ProductID:      item.ProductID,
				LocationType:   model.LocationCatalog,
				Type:           model.MovementOrder,
				Quantity:       -item.Quantity,
				QuantityBefore: p.Quantity,
				QuantityAfter:  p.Quantity - item.Quantity,
				Reason:         "order " + txn.OrderID,
				ReferenceID:    &refID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil && txn.Status == model.TransactionCompleted {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			TransactionID: txn.ID.String(),
		})
	}
	return transactionToResponse(txn), nil
}

func (s *transactionService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	return transactionToResponse(txn), nil
}

func (s *transactionService) GetByOrderID(ctx context.Context, orderID string) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	return transactionToResponse(txn), nil
}

func (s *transactionService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	txns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return listResponse(txns, total, filter.Page, filter.Limit), nil
}

func (s *transactionService) ListByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) (*dto.TransactionListResponse, error) {
	txns, total, err := s.repo.ListByBranch(ctx, branchID, page, limit)
	if err != nil {
		return nil, err
	}
	return listResponse(txns, total, page, limit), nil
}

func (s *transactionService) ListByCustomer(ctx context.Context, customerID string, page, limit int) (*dto.TransactionListResponse, error) {
	txns, total, err := s.repo.ListByCustomer(ctx, customerID, page, limit)
	if err != nil {
		return nil, err
	}
	return listResponse(txns, total, page, limit), nil
}

func (s *transactionService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*dto.TransactionResponse, error) {
	if req.Status == model.TransactionCancelled {
		return s.Cancel(ctx, id)
	}

	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	if txn.Status == model.TransactionCancelled {
		return nil, ErrAlreadyCancelled
	}
	if txn.Status == req.Status {
		return transactionToResponse(txn), nil
	}

	if err := s.repo.UpdateStatus(ctx, nil, id, req.Status); err != nil {
		return nil, err
	}
	if req.Status == model.TransactionCompleted && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{TransactionID: txn.ID.String()})
	}
	txn.Status = req.Status
	return transactionToResponse(txn), nil
}

// Cancel restores every ordered quantity to the catalog. Restores are
// recorded as restore_cancellation movements referencing this transaction,
// so the ledger nets out to zero for a cancelled order.
func (s *transactionService) Cancel(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	if txn.Status == model.TransactionCancelled {
		return nil, ErrAlreadyCancelled
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, id, model.TransactionCancelled); err != nil {
			return err
		}
		for _, item := range txn.Items {
			if err := s.productRepo.AdjustQuantity(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			refID := txn.ID
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				ProductID:    item.ProductID,
				LocationType: model.LocationCatalog,
				Type:         model.MovementRestore,
				Quantity:     item.Quantity,
				Reason:       "order " + txn.OrderID + " cancelled",
				ReferenceID:  &refID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	txn.Status = model.TransactionCancelled
	return transactionToResponse(txn), nil
}

func (s *transactionService) Statistics(ctx context.Context, filter dto.StatisticsFilter) (*dto.StatisticsResponse, error) {
	txns, err := s.completedInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range txns {
		total = total.Add(txns[i].TotalAmount)
	}
	count := len(txns)
	avg := decimal.Zero
	if count > 0 {
		avg = total.DivRound(decimal.NewFromInt(int64(count)), 2)
	}
	return &dto.StatisticsResponse{
		TotalSales:              total,
		TotalTransactions:       count,
		AverageTransactionValue: avg,
	}, nil
}

func (s *transactionService) SalesByDate(ctx context.Context, filter dto.StatisticsFilter) ([]dto.DailySales, error) {
	txns, err := s.completedInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Transactions arrive ordered by creation time, so dates come out sorted.
	byDate := make(map[string]int)
	out := make([]dto.DailySales, 0)
	for i := range txns {
		date := txns[i].CreatedAt.Format("2006-01-02")
		idx, seen := byDate[date]
		if !seen {
			byDate[date] = len(out)
			out = append(out, dto.DailySales{Date: date, Total: decimal.Zero})
			idx = len(out) - 1
		}
		out[idx].Total = out[idx].Total.Add(txns[i].TotalAmount)
		out[idx].Transactions++
	}
	return out, nil
}

func (s *transactionService) TopProducts(ctx context.Context, filter dto.StatisticsFilter) ([]dto.ProductRanking, error) {
	txns, err := s.completedInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Accumulate in first-encountered order, then stable sort by revenue so
	// ties keep that order.
	index := make(map[uuid.UUID]int)
	rankings := make([]dto.ProductRanking, 0)
	for i := range txns {
		for _, item := range txns[i].Items {
			idx, seen := index[item.ProductID]
			if !seen {
				index[item.ProductID] = len(rankings)
				name := ""
				if item.Product != nil {
					name = item.Product.Name
				}
				rankings = append(rankings, dto.ProductRanking{
					ProductID: item.ProductID.String(),
					Product:   name,
					Revenue:   decimal.Zero,
				})
				idx = len(rankings) - 1
			}
			rankings[idx].Quantity += item.Quantity
			rankings[idx].Revenue = rankings[idx].Revenue.Add(item.Subtotal)
		}
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Revenue.GreaterThan(rankings[j].Revenue)
	})
	if len(rankings) > topProductsLimit {
		rankings = rankings[:topProductsLimit]
	}
	return rankings, nil
}

func (s *transactionService) CategoryDistribution(ctx context.Context, filter dto.StatisticsFilter) ([]dto.CategorySales, error) {
	txns, err := s.completedInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	out := make([]dto.CategorySales, 0)
	for i := range txns {
		for _, item := range txns[i].Items {
			category := "uncategorized"
			if item.Product != nil && item.Product.Category != "" {
				category = item.Product.Category
			}
			idx, seen := index[category]
			if !seen {
				index[category] = len(out)
				out = append(out, dto.CategorySales{Category: category, Revenue: decimal.Zero})
				idx = len(out) - 1
			}
			out[idx].Revenue = out[idx].Revenue.Add(item.Subtotal)
		}
	}
	return out, nil
}

func (s *transactionService) completedInRange(ctx context.Context, filter dto.StatisticsFilter) ([]model.Transaction, error) {
	start, end, err := parseRange(filter.Start, filter.End)
	if err != nil {
		return nil, err
	}
	var branchID *uuid.UUID
	if filter.BranchID != "" {
		id, err := uuid.Parse(filter.BranchID)
		if err != nil {
			return nil, fmt.Errorf("invalid branchId: %w", err)
		}
		branchID = &id
	}
	return s.repo.ListCompletedInRange(ctx, start, end, branchID)
}

// parseRange accepts YYYY-MM-DD or RFC 3339 bounds. A date-only end is
// inclusive through the end of that day.
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	start, _, err := parseBound(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	end, endDateOnly, err := parseBound(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if endDateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

func listResponse(txns []model.Transaction, total int64, page, limit int) *dto.TransactionListResponse {
	data := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		data = append(data, *transactionToResponse(&txns[i]))
	}
	return &dto.TransactionListResponse{Data: data, Total: total, Page: page, Limit: limit}
}

func transactionToResponse(t *model.Transaction) *dto.TransactionResponse {
	items := make([]dto.OrderItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.TransactionResponse{
		ID:            t.ID.String(),
		OrderID:       t.OrderID,
		CustomerID:    t.CustomerID,
		BranchID:      t.BranchID.String(),
		Items:         items,
		TotalAmount:   t.TotalAmount,
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}
