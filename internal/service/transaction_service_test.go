package service

import (
	"context"
	"testing"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTxnSvc() (TransactionService, *stubTransactionRepo, *stubProductRepo, *stubMovementRepo) {
	txnRepo := newStubTransactionRepo()
	productRepo := newStubProductRepo()
	movements := &stubMovementRepo{}
	svc := NewTransactionService(txnRepo, productRepo, movements, nil)
	return svc, txnRepo, productRepo, movements
}

func orderRequest(orderID string, branchID uuid.UUID, items ...dto.OrderItemRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		OrderID:       orderID,
		CustomerID:    "cust-42",
		BranchID:      branchID.String(),
		Items:         items,
		PaymentMethod: "cash",
	}
}

func TestCreateOrder(t *testing.T) {
	svc, txnRepo, productRepo, movements := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	paper := productRepo.seed("Filter Paper", "SKU-002", 4.20, 30, 5)
	branchID := uuid.New()

	resp, err := svc.CreateOrder(ctx, orderRequest("ORD-1001", branchID,
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 2},
		dto.OrderItemRequest{ProductID: paper.ID.String(), Quantity: 5},
	))
	require.NoError(t, err)

	// 2×18.50 + 5×4.20 = 58.00, priced server-side.
	assert.True(t, decimal.NewFromFloat(58.00).Equal(resp.TotalAmount), "got %s", resp.TotalAmount)
	assert.Equal(t, model.TransactionCompleted, resp.Status, "status defaults to completed")
	require.Len(t, resp.Items, 2)

	// Each line decrements the catalog exactly once.
	assert.Equal(t, 8, productRepo.products[beans.ID].Quantity)
	assert.Equal(t, 25, productRepo.products[paper.ID].Quantity)

	require.Len(t, movements.movements, 2)
	assert.Equal(t, model.MovementOrder, movements.movements[0].Type)
	assert.Equal(t, -2, movements.movements[0].Quantity)
	require.NotNil(t, movements.movements[0].ReferenceID)

	stored, err := txnRepo.FindByOrderID(ctx, "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionCompleted, stored.Status)
}

func TestCreateOrderDuplicateOrderID(t *testing.T) {
	svc, _, productRepo, _ := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	branchID := uuid.New()

	_, err := svc.CreateOrder(ctx, orderRequest("ORD-1001", branchID,
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, orderRequest("ORD-1001", branchID,
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 1}))
	assert.ErrorIs(t, err, ErrDuplicateOrder)
	assert.Equal(t, 9, productRepo.products[beans.ID].Quantity, "the duplicate must not decrement")
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	svc, txnRepo, productRepo, movements := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	paper := productRepo.seed("Filter Paper", "SKU-002", 4.20, 3, 5)
	branchID := uuid.New()

	// Second line exceeds availability: the whole order is refused and the
	// first line's quantity is untouched.
	_, err := svc.CreateOrder(ctx, orderRequest("ORD-2001", branchID,
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 2},
		dto.OrderItemRequest{ProductID: paper.ID.String(), Quantity: 50},
	))
	require.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Equal(t, 10, productRepo.products[beans.ID].Quantity)
	assert.Equal(t, 3, productRepo.products[paper.ID].Quantity)
	assert.Empty(t, movements.movements)
	assert.Empty(t, txnRepo.txns)
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	svc, _, productRepo, _ := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	productRepo.products[beans.ID].Status = "inactive"

	_, err := svc.CreateOrder(ctx, orderRequest("ORD-3001", uuid.New(),
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 1}))
	assert.Error(t, err)
	assert.Equal(t, 10, productRepo.products[beans.ID].Quantity)
}

func TestCancelRestoresQuantities(t *testing.T) {
	svc, _, productRepo, movements := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	branchID := uuid.New()

	resp, err := svc.CreateOrder(ctx, orderRequest("ORD-4001", branchID,
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, 6, productRepo.products[beans.ID].Quantity)

	txnID := uuid.MustParse(resp.ID)
	cancelled, err := svc.Cancel(ctx, txnID)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionCancelled, cancelled.Status)
	assert.Equal(t, 10, productRepo.products[beans.ID].Quantity, "cancellation restores the catalog count")

	// The ledger nets to zero: an order movement plus its restore.
	require.Len(t, movements.movements, 2)
	restore := movements.movements[1]
	assert.Equal(t, model.MovementRestore, restore.Type)
	assert.Equal(t, 4, restore.Quantity)

	_, err = svc.Cancel(ctx, txnID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 10, productRepo.products[beans.ID].Quantity, "double cancel must not restore twice")
}

func TestUpdateStatusRoutesCancellation(t *testing.T) {
	svc, _, productRepo, _ := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	resp, err := svc.CreateOrder(ctx, orderRequest("ORD-5001", uuid.New(),
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 3}))
	require.NoError(t, err)
	txnID := uuid.MustParse(resp.ID)

	updated, err := svc.UpdateStatus(ctx, txnID, dto.UpdateStatusRequest{Status: model.TransactionCancelled})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionCancelled, updated.Status)
	assert.Equal(t, 10, productRepo.products[beans.ID].Quantity)
}

func TestUpdateStatusRefundIsStatusOnly(t *testing.T) {
	svc, _, productRepo, _ := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	resp, err := svc.CreateOrder(ctx, orderRequest("ORD-6001", uuid.New(),
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 3}))
	require.NoError(t, err)
	txnID := uuid.MustParse(resp.ID)

	updated, err := svc.UpdateStatus(ctx, txnID, dto.UpdateStatusRequest{Status: model.TransactionRefunded})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionRefunded, updated.Status)
	assert.Equal(t, 7, productRepo.products[beans.ID].Quantity, "refund does not restock")
}

// seedCompleted inserts a completed transaction directly, bypassing order
// placement, for statistics tests.
func seedCompleted(repo *stubTransactionRepo, createdAt time.Time, branchID uuid.UUID, total float64, items ...model.TransactionItem) {
	repo.Create(context.Background(), nil, &model.Transaction{
		OrderID:       uuid.NewString(),
		CustomerID:    "cust-42",
		BranchID:      branchID,
		TotalAmount:   decimal.NewFromFloat(total),
		PaymentMethod: "cash",
		Status:        model.TransactionCompleted,
		CreatedAt:     createdAt,
		Items:         items,
	})
}

func TestStatistics(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	ctx := context.Background()
	branchID := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedCompleted(txnRepo, day, branchID, 100)
	seedCompleted(txnRepo, day.Add(2*time.Hour), branchID, 200)

	stats, err := svc.Statistics(ctx, dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(stats.TotalSales), "got %s", stats.TotalSales)
	assert.Equal(t, 2, stats.TotalTransactions)
	assert.True(t, decimal.NewFromInt(150).Equal(stats.AverageTransactionValue), "got %s", stats.AverageTransactionValue)
}

func TestStatisticsEmptyRange(t *testing.T) {
	svc, _, _, _ := buildTxnSvc()

	stats, err := svc.Statistics(context.Background(), dto.StatisticsFilter{Start: "2026-01-01", End: "2026-01-31"})
	require.NoError(t, err)
	assert.True(t, stats.TotalSales.IsZero())
	assert.Equal(t, 0, stats.TotalTransactions)
	assert.True(t, stats.AverageTransactionValue.IsZero())
}

func TestStatisticsExcludesNonCompleted(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchID := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedCompleted(txnRepo, day, branchID, 100)
	txnRepo.Create(context.Background(), nil, &model.Transaction{
		OrderID:     uuid.NewString(),
		CustomerID:  "cust-42",
		BranchID:    branchID,
		TotalAmount: decimal.NewFromInt(999),
		Status:      model.TransactionCancelled,
		CreatedAt:   day,
	})

	stats, err := svc.Statistics(context.Background(), dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.TotalSales))
	assert.Equal(t, 1, stats.TotalTransactions)
}

func TestStatisticsFiltersByBranch(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchA := uuid.New()
	branchB := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedCompleted(txnRepo, day, branchA, 100)
	seedCompleted(txnRepo, day, branchB, 200)

	stats, err := svc.Statistics(context.Background(), dto.StatisticsFilter{
		Start: "2026-03-01", End: "2026-03-31", BranchID: branchA.String(),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.TotalSales))
}

func TestStatisticsInvalidRange(t *testing.T) {
	svc, _, _, _ := buildTxnSvc()
	ctx := context.Background()

	cases := []dto.StatisticsFilter{
		{},
		{Start: "2026-03-01"},
		{End: "2026-03-31"},
		{Start: "not-a-date", End: "2026-03-31"},
		{Start: "2026-03-31", End: "2026-03-01"},
	}
	for _, filter := range cases {
		_, err := svc.Statistics(ctx, filter)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	}
}

func TestSalesByDate(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchID := uuid.New()

	seedCompleted(txnRepo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), branchID, 100)
	seedCompleted(txnRepo, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), branchID, 50)
	seedCompleted(txnRepo, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), branchID, 200)

	daily, err := svc.SalesByDate(context.Background(), dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2026-03-10", daily[0].Date)
	assert.True(t, decimal.NewFromInt(150).Equal(daily[0].Total))
	assert.Equal(t, 2, daily[0].Transactions)
	assert.Equal(t, "2026-03-12", daily[1].Date)
	assert.Equal(t, 1, daily[1].Transactions)
}

func TestTopProducts(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchID := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	productA := &model.Product{ID: uuid.New(), Name: "A", Category: "coffee"}
	productB := &model.Product{ID: uuid.New(), Name: "B", Category: "coffee"}
	productC := &model.Product{ID: uuid.New(), Name: "C", Category: "tea"}

	item := func(p *model.Product, qty int, subtotal float64) model.TransactionItem {
		return model.TransactionItem{
			ProductID: p.ID,
			Product:   p,
			Quantity:  qty,
			Price:     decimal.NewFromFloat(subtotal / float64(qty)),
			Subtotal:  decimal.NewFromFloat(subtotal),
		}
	}

	seedCompleted(txnRepo, day, branchID, 110, item(productA, 2, 100), item(productC, 1, 10))
	seedCompleted(txnRepo, day.Add(time.Hour), branchID, 250, item(productB, 5, 250))

	top, err := svc.TopProducts(context.Background(), dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].Product)
	assert.True(t, decimal.NewFromInt(250).Equal(top[0].Revenue))
	assert.Equal(t, "A", top[1].Product)
	assert.Equal(t, "C", top[2].Product)
	assert.Equal(t, 5, top[0].Quantity)
}

func TestTopProductsLimitAndStableTies(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchID := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Seven products with equal revenue in one transaction: the ranking keeps
	// first-encountered order and truncates to five.
	items := make([]model.TransactionItem, 7)
	names := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	for i, name := range names {
		p := &model.Product{ID: uuid.New(), Name: name, Category: "misc"}
		items[i] = model.TransactionItem{
			ProductID: p.ID,
			Product:   p,
			Quantity:  1,
			Price:     decimal.NewFromInt(10),
			Subtotal:  decimal.NewFromInt(10),
		}
	}
	seedCompleted(txnRepo, day, branchID, 70, items...)

	top, err := svc.TopProducts(context.Background(), dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, top, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, names[i], top[i].Product)
	}
}

func TestCategoryDistribution(t *testing.T) {
	svc, txnRepo, _, _ := buildTxnSvc()
	branchID := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	coffee := &model.Product{ID: uuid.New(), Name: "Beans", Category: "coffee"}
	tea := &model.Product{ID: uuid.New(), Name: "Leaves", Category: "tea"}

	seedCompleted(txnRepo, day, branchID, 130,
		model.TransactionItem{ProductID: coffee.ID, Product: coffee, Quantity: 2, Subtotal: decimal.NewFromInt(100)},
		model.TransactionItem{ProductID: tea.ID, Product: tea, Quantity: 1, Subtotal: decimal.NewFromInt(30)},
		model.TransactionItem{ProductID: uuid.New(), Quantity: 1, Subtotal: decimal.NewFromInt(7)},
	)

	dist, err := svc.CategoryDistribution(context.Background(), dto.StatisticsFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, dist, 3)
	assert.Equal(t, "coffee", dist[0].Category)
	assert.True(t, decimal.NewFromInt(100).Equal(dist[0].Revenue))
	assert.Equal(t, "tea", dist[1].Category)
	assert.Equal(t, "uncategorized", dist[2].Category)
	assert.True(t, decimal.NewFromInt(7).Equal(dist[2].Revenue))
}

func TestGetByOrderID(t *testing.T) {
	svc, _, productRepo, _ := buildTxnSvc()
	ctx := context.Background()
	beans := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	_, err := svc.CreateOrder(ctx, orderRequest("ORD-7001", uuid.New(),
		dto.OrderItemRequest{ProductID: beans.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	found, err := svc.GetByOrderID(ctx, "ORD-7001")
	require.NoError(t, err)
	assert.Equal(t, "ORD-7001", found.OrderID)

	_, err = svc.GetByOrderID(ctx, "ORD-MISSING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
