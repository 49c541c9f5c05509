package service

import (
	"context"
	"errors"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── Product repo stub ─────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	bySKU    map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		bySKU:    make(map[string]*model.Product),
	}
}

func (r *stubProductRepo) seed(name, sku string, price float64, quantity, minQuantity int) *model.Product {
	p := &model.Product{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		SKU:         sku,
		Name:        name,
		Category:    "general",
		Price:       decimal.NewFromFloat(price),
		CostPrice:   decimal.NewFromFloat(price / 2),
		Unit:        "unit",
		Quantity:    quantity,
		MinQuantity: minQuantity,
		Status:      "active",
	}
	r.products[p.ID] = p
	r.bySKU[p.SKU] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.bySKU[p.SKU] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	p, ok := r.bySKU[sku]
	if !ok || p.Status != "active" {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) SKUExists(_ context.Context, sku string) (bool, error) {
	_, ok := r.bySKU[sku]
	return ok, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return errNotFound
	}
	*stored = *p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Status = "inactive"
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Status = "active"
	return nil
}

func (r *stubProductRepo) DecrementQuantity(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.products[id]
	if !ok {
		return false, errNotFound
	}
	if p.Quantity < delta {
		return false, nil
	}
	p.Quantity -= delta
	return true, nil
}

func (r *stubProductRepo) AdjustQuantity(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Movement repo stub ────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Stock repo stub ───────────────────────────────────────────────────────────

type stockKey struct {
	locationType string
	locationID   uuid.UUID
	productID    uuid.UUID
}

type stubStockRepo struct {
	stocks   map[stockKey]*model.Stock
	requests map[uuid.UUID]*model.StockRequest
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		stocks:   make(map[stockKey]*model.Stock),
		requests: make(map[uuid.UUID]*model.StockRequest),
	}
}

func (r *stubStockRepo) seed(locationType string, locationID, productID uuid.UUID, quantity int) *model.Stock {
	s := &model.Stock{
		ID:           uuid.New(),
		LocationType: locationType,
		LocationID:   locationID,
		ProductID:    productID,
		Quantity:     quantity,
	}
	r.stocks[stockKey{locationType, locationID, productID}] = s
	return s
}

func (r *stubStockRepo) Create(_ context.Context, s *model.Stock) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stocks[stockKey{s.LocationType, s.LocationID, s.ProductID}] = s
	return nil
}

func (r *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Stock, error) {
	for _, s := range r.stocks {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r *stubStockRepo) List(_ context.Context) ([]model.Stock, error) {
	var out []model.Stock
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStockRepo) Update(_ context.Context, s *model.Stock) error {
	r.stocks[stockKey{s.LocationType, s.LocationID, s.ProductID}] = s
	return nil
}

func (r *stubStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for k, s := range r.stocks {
		if s.ID == id {
			delete(r.stocks, k)
			return nil
		}
	}
	return errNotFound
}

func (r *stubStockRepo) ListByLocation(_ context.Context, locationType string, locationID uuid.UUID) ([]model.Stock, error) {
	var out []model.Stock
	for _, s := range r.stocks {
		if s.LocationType == locationType && s.LocationID == locationID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStockRepo) FindByLocationAndProduct(_ context.Context, locationType string, locationID, productID uuid.UUID) (*model.Stock, error) {
	s, ok := r.stocks[stockKey{locationType, locationID, productID}]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubStockRepo) DecrementTx(_ *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) (bool, error) {
	s, ok := r.stocks[stockKey{locationType, locationID, productID}]
	if !ok || s.Quantity < delta {
		return false, nil
	}
	s.Quantity -= delta
	return true, nil
}

func (r *stubStockRepo) UpsertAddTx(_ *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) error {
	k := stockKey{locationType, locationID, productID}
	if s, ok := r.stocks[k]; ok {
		s.Quantity += delta
		return nil
	}
	r.stocks[k] = &model.Stock{
		ID:           uuid.New(),
		LocationType: locationType,
		LocationID:   locationID,
		ProductID:    productID,
		Quantity:     delta,
	}
	return nil
}

func (r *stubStockRepo) CreateRequest(_ context.Context, req *model.StockRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	r.requests[req.ID] = req
	return nil
}

func (r *stubStockRepo) FindRequestByID(_ context.Context, id uuid.UUID) (*model.StockRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *stubStockRepo) ListRequests(_ context.Context, status string) ([]model.StockRequest, error) {
	var out []model.StockRequest
	for _, req := range r.requests {
		if status == "" || status == "all" || req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubStockRepo) FinalizeRequestTx(_ *gorm.DB, id uuid.UUID, status string) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != model.RequestPending {
		return false, nil
	}
	req.Status = status
	return true, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Transaction repo stub ─────────────────────────────────────────────────────

type stubTransactionRepo struct {
	txns    map[uuid.UUID]*model.Transaction
	byOrder map[string]*model.Transaction
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{
		txns:    make(map[uuid.UUID]*model.Transaction),
		byOrder: make(map[string]*model.Transaction),
	}
}

func (r *stubTransactionRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.txns[t.ID] = t
	r.byOrder[t.OrderID] = t
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTransactionRepo) FindByOrderID(_ context.Context, orderID string) (*model.Transaction, error) {
	t, ok := r.byOrder[orderID]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTransactionRepo) List(_ context.Context, _ dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListByBranch(_ context.Context, branchID uuid.UUID, _, _ int) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if t.BranchID == branchID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListByCustomer(_ context.Context, customerID string, _, _ int) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListCompletedInRange(_ context.Context, start, end time.Time, branchID *uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if t.Status != model.TransactionCompleted {
			continue
		}
		if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		if branchID != nil && t.BranchID != *branchID {
			continue
		}
		out = append(out, *t)
	}
	// Keep insertion-independent but deterministic ordering by CreatedAt.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status string) error {
	t, ok := r.txns[id]
	if !ok {
		return errNotFound
	}
	t.Status = status
	return nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

// ── Warehouse repo stub ───────────────────────────────────────────────────────

type stubWarehouseRepo struct {
	warehouses  map[uuid.UUID]*model.Warehouse
	assignments []model.WarehouseProduct
	findErrs    int // fail this many FindByID calls before succeeding
}

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{warehouses: make(map[uuid.UUID]*model.Warehouse)}
}

func (r *stubWarehouseRepo) seed(name string) *model.Warehouse {
	w := &model.Warehouse{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Name:      name,
		Location:  "somewhere",
		ManagerID: uuid.New(),
	}
	r.warehouses[w.ID] = w
	return w
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	if r.findErrs > 0 {
		r.findErrs--
		return nil, errors.New("connection refused")
	}
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWarehouseRepo) List(_ context.Context, _ string) ([]model.Warehouse, error) {
	var out []model.Warehouse
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

func (r *stubWarehouseRepo) Update(_ context.Context, w *model.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.warehouses, id)
	return nil
}

func (r *stubWarehouseRepo) AssignProduct(_ context.Context, warehouseID, productID uuid.UUID) error {
	r.assignments = append(r.assignments, model.WarehouseProduct{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		ProductID:   productID,
	})
	return nil
}

func (r *stubWarehouseRepo) FindAssignment(_ context.Context, warehouseID, productID uuid.UUID) (*model.WarehouseProduct, error) {
	for i := range r.assignments {
		if r.assignments[i].WarehouseID == warehouseID && r.assignments[i].ProductID == productID {
			return &r.assignments[i], nil
		}
	}
	return nil, errNotFound
}

func (r *stubWarehouseRepo) ListAssignments(_ context.Context, warehouseID uuid.UUID) ([]model.WarehouseProduct, error) {
	var out []model.WarehouseProduct
	for _, a := range r.assignments {
		if a.WarehouseID == warehouseID {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ repository.WarehouseRepository = (*stubWarehouseRepo)(nil)
