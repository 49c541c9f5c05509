package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"
	"github.com/NivedanR/capstone-erp/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshChannel is the Redis pub/sub channel clients subscribe to for
// catalog invalidation signals. Every product mutation publishes the product
// id here; clients refetch instead of trusting a local cache.
const RefreshChannel = "catalog:refresh"

const productCacheTTL = 4 * time.Hour

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// DecrementQuantity applies a conditional decrement to on-hand quantity.
	DecrementQuantity(ctx context.Context, id uuid.UUID, req dto.DecrementQuantityRequest) (*dto.ProductResponse, error)
	// AdjustQuantity applies a signed manual correction.
	AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ProductResponse, error)
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	rdb          *redis.Client
	dispatcher   *worker.Dispatcher
	alertEmail   string
}

func NewProductService(
	repo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) ProductService {
	return &productService{
		repo:         repo,
		movementRepo: movementRepo,
		rdb:          rdb,
		dispatcher:   dispatcher,
		alertEmail:   alertEmail,
	}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}
	if req.Price.IsNegative() || req.CostPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	// SKUs stay unique across active and deactivated products, so the check
	// runs without a status filter.
	if exists, err := s.repo.SKUExists(ctx, req.SKU); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("a product with SKU %s already exists", req.SKU)
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	minQty := req.MinQuantity
	if minQty == 0 {
		minQty = 5
	}

	p := &model.Product{
		CompanyID:   companyID,
		SKU:         req.SKU,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Unit:        unit,
		Quantity:    req.Quantity,
		MinQuantity: minQty,
		Status:      "active",
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

// GetBySKU serves reads through Redis so branch terminals polling the catalog
// do not hit the database on every lookup.
func (s *productService) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	cacheKey := "product:sku:" + sku

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ProductResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, ErrProductNotFound
	}
	resp := productToResponse(p)

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, cacheKey, b, productCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return data, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if (req.Price != nil && req.Price.IsNegative()) ||
		(req.CostPrice != nil && req.CostPrice.IsNegative()) {
		return nil, ErrNegativePrice
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.MinQuantity != nil {
		p.MinQuantity = *req.MinQuantity
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, p)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, p)
	return nil
}

// DecrementQuantity reduces on-hand quantity by a strictly positive delta.
// The update is conditional (quantity >= delta), so a concurrent decrement
// can never drive the count negative; the loser simply gets an
// insufficient-quantity error.
func (s *productService) DecrementQuantity(ctx context.Context, id uuid.UUID, req dto.DecrementQuantityRequest) (*dto.ProductResponse, error) {
	if req.QuantityChange <= 0 {
		return nil, ErrInvalidQuantity
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	ok, err := s.repo.DecrementQuantity(ctx, nil, id, req.QuantityChange)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientQuantity
	}

	reason := req.Reason
	if reason == "" {
		reason = "quantity decrement"
	}
	mov := &model.StockMovement{
		ProductID:      id,
		LocationType:   model.LocationCatalog,
		Type:           model.MovementAdjustment,
		Quantity:       -req.QuantityChange,
		QuantityBefore: before.Quantity,
		QuantityAfter:  before.Quantity - req.QuantityChange,
		Reason:         reason,
	}
	if err := s.movementRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, p)
	s.maybeAlertLowStock(ctx, p)
	return productToResponse(p), nil
}

func (s *productService) AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ProductResponse, error) {
	if req.Delta == 0 {
		return nil, ErrInvalidQuantity
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Delta < 0 {
		ok, err := s.repo.DecrementQuantity(ctx, nil, id, -req.Delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInsufficientQuantity
		}
	} else {
		if err := s.repo.AdjustQuantity(ctx, nil, id, req.Delta); err != nil {
			return nil, err
		}
	}

	mov := &model.StockMovement{
		ProductID:      id,
		LocationType:   model.LocationCatalog,
		Type:           model.MovementAdjustment,
		Quantity:       req.Delta,
		QuantityBefore: before.Quantity,
		QuantityAfter:  before.Quantity + req.Delta,
		Reason:         req.Reason,
	}
	if err := s.movementRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, p)
	s.maybeAlertLowStock(ctx, p)
	return productToResponse(p), nil
}

// invalidate drops the SKU cache entry and signals subscribed clients.
// Best effort on both counts — a miss just costs one DB read.
func (s *productService) invalidate(ctx context.Context, p *model.Product) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, "product:sku:"+p.SKU).Err()
	_ = s.rdb.Publish(ctx, RefreshChannel, p.ID.String()).Err()
}

func (s *productService) maybeAlertLowStock(ctx context.Context, p *model.Product) {
	if s.dispatcher == nil || s.alertEmail == "" || p.Quantity > p.MinQuantity {
		return
	}
	_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: s.alertEmail,
		Subject: fmt.Sprintf("Low stock: %s", p.Name),
		Body: fmt.Sprintf("Product %s (SKU %s) is down to %d %s (threshold %d).",
			p.Name, p.SKU, p.Quantity, p.Unit, p.MinQuantity),
	})
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		CompanyID:   p.CompanyID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		CostPrice:   p.CostPrice,
		Unit:        p.Unit,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Status:      p.Status,
	}
}
