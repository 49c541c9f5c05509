package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/infra"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot reads retry a few times so a dashboard load survives a blip on a
// freshly restarted database. Tests shrink the delay.
var (
	snapshotRetryAttempts = 3
	snapshotRetryDelay    = 2 * time.Second
)

type WarehouseService interface {
	Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error)
	List(ctx context.Context, companyID string) ([]dto.WarehouseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignProduct links a product to the warehouse. A positive
	// InitialQuantity also seeds the warehouse stock row from the product's
	// on-hand count.
	AssignProduct(ctx context.Context, warehouseID uuid.UUID, req dto.AssignProductRequest) (*dto.WarehouseResponse, error)

	// Snapshot returns the warehouse with its current stock in one payload.
	Snapshot(ctx context.Context, id uuid.UUID) (*dto.WarehouseSnapshotResponse, error)
}

type warehouseService struct {
	repo      repository.WarehouseRepository
	stockRepo repository.StockRepository
	stockSvc  StockService
}

func NewWarehouseService(
	repo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	stockSvc StockService,
) WarehouseService {
	return &warehouseService{repo: repo, stockRepo: stockRepo, stockSvc: stockSvc}
}

func (s *warehouseService) Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("invalid manager_id: %w", err)
	}

	w := &model.Warehouse{
		CompanyID: companyID,
		Name:      req.Name,
		Location:  req.Location,
		ManagerID: managerID,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) GetByID(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrWarehouseNotFound
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) List(ctx context.Context, companyID string) ([]dto.WarehouseResponse, error) {
	warehouses, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, *warehouseToResponse(&warehouses[i]))
	}
	return out, nil
}

func (s *warehouseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrWarehouseNotFound
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Location != nil {
		w.Location = *req.Location
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("invalid manager_id: %w", err)
		}
		w.ManagerID = managerID
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrWarehouseNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *warehouseService) AssignProduct(ctx context.Context, warehouseID uuid.UUID, req dto.AssignProductRequest) (*dto.WarehouseResponse, error) {
	if _, err := s.repo.FindByID(ctx, warehouseID); err != nil {
		return nil, ErrWarehouseNotFound
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}

	if existing, err := s.repo.FindAssignment(ctx, warehouseID, productID); err == nil && existing != nil {
		return nil, fmt.Errorf("product already assigned to this warehouse")
	}
	if err := s.repo.AssignProduct(ctx, warehouseID, productID); err != nil {
		return nil, err
	}

	if req.InitialQuantity > 0 {
		_, err := s.stockSvc.AssignQuantity(ctx, model.LocationWarehouse, warehouseID, productID, dto.AssignStockRequest{
			Quantity: req.InitialQuantity,
		})
		if err != nil {
			return nil, err
		}
	}

	w, err := s.repo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) Snapshot(ctx context.Context, id uuid.UUID) (*dto.WarehouseSnapshotResponse, error) {
	var (
		w      *model.Warehouse
		stocks []model.Stock
	)
	err := infra.Retry(ctx, snapshotRetryAttempts, snapshotRetryDelay, func() error {
		var err error
		w, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		stocks, err = s.stockRepo.ListByLocation(ctx, model.LocationWarehouse, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	return &dto.WarehouseSnapshotResponse{
		Warehouse: *warehouseToResponse(w),
		Stock:     stocksToResponses(stocks),
	}, nil
}

func warehouseToResponse(w *model.Warehouse) *dto.WarehouseResponse {
	resp := &dto.WarehouseResponse{
		ID:        w.ID.String(),
		CompanyID: w.CompanyID.String(),
		Name:      w.Name,
		Location:  w.Location,
		ManagerID: w.ManagerID.String(),
	}
	if w.Manager != nil {
		resp.ManagerName = w.Manager.Name
	}
	for _, wp := range w.Products {
		resp.ProductIDs = append(resp.ProductIDs, wp.ProductID.String())
	}
	return resp
}
