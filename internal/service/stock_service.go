package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService manages per-location stock rows and the transfer request
// workflow between warehouses and branches.
type StockService interface {
	Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error)
	List(ctx context.Context) ([]dto.StockResponse, error)
	ListByLocation(ctx context.Context, locationType string, locationID uuid.UUID) ([]dto.StockResponse, error)
	GetByLocationAndProduct(ctx context.Context, locationType string, locationID, productID uuid.UUID) (*dto.StockResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignQuantity moves quantity into (locationType, locationID). The
	// source is either another warehouse's stock row or, when
	// req.SourceWarehouseID is nil, the product's company-level on-hand count.
	AssignQuantity(ctx context.Context, locationType string, locationID, productID uuid.UUID, req dto.AssignStockRequest) (*dto.StockResponse, error)

	CreateTransferRequest(ctx context.Context, req dto.CreateStockTransferRequest) (*dto.StockRequestResponse, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error)
	ListRequests(ctx context.Context, filter dto.StockRequestFilter) ([]dto.StockRequestResponse, error)
	ApproveRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error)
	RejectRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error)

	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
}

type stockService struct {
	repo         repository.StockRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewStockService(
	repo repository.StockRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) StockService {
	return &stockService{repo: repo, productRepo: productRepo, movementRepo: movementRepo}
}

func (s *stockService) Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error) {
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("invalid location_id: %w", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}
	if existing, err := s.repo.FindByLocationAndProduct(ctx, req.LocationType, locationID, productID); err == nil && existing != nil {
		return nil, fmt.Errorf("stock row already exists for this location and product")
	}

	st := &model.Stock{
		LocationType: req.LocationType,
		LocationID:   locationID,
		ProductID:    productID,
		Quantity:     req.Quantity,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return stockToResponse(st), nil
}

func (s *stockService) GetByID(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrStockNotFound
	}
	return stockToResponse(st), nil
}

func (s *stockService) List(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return stocksToResponses(stocks), nil
}

func (s *stockService) ListByLocation(ctx context.Context, locationType string, locationID uuid.UUID) ([]dto.StockResponse, error) {
	stocks, err := s.repo.ListByLocation(ctx, locationType, locationID)
	if err != nil {
		return nil, err
	}
	return stocksToResponses(stocks), nil
}

func (s *stockService) GetByLocationAndProduct(ctx context.Context, locationType string, locationID, productID uuid.UUID) (*dto.StockResponse, error) {
	st, err := s.repo.FindByLocationAndProduct(ctx, locationType, locationID, productID)
	if err != nil {
		return nil, ErrStockNotFound
	}
	return stockToResponse(st), nil
}

func (s *stockService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrStockNotFound
	}
	before := st.Quantity
	st.Quantity = req.Quantity
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	if req.Quantity != before {
		locID := st.LocationID
		_ = s.movementRepo.Create(ctx, &model.StockMovement{
			ProductID:      st.ProductID,
			LocationType:   st.LocationType,
			LocationID:     &locID,
			Type:           model.MovementAdjustment,
			Quantity:       req.Quantity - before,
			QuantityBefore: before,
			QuantityAfter:  req.Quantity,
			Reason:         "stock row updated",
		})
	}
	return stockToResponse(st), nil
}

func (s *stockService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrStockNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *stockService) AssignQuantity(ctx context.Context, locationType string, locationID, productID uuid.UUID, req dto.AssignStockRequest) (*dto.StockResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var sourceWarehouseID *uuid.UUID
	if req.SourceWarehouseID != nil {
		id, err := uuid.Parse(*req.SourceWarehouseID)
		if err != nil {
			return nil, fmt.Errorf("invalid source_warehouse_id: %w", err)
		}
		sourceWarehouseID = &id
	}
	if sourceWarehouseID != nil && locationType == model.LocationWarehouse && *sourceWarehouseID == locationID {
		return nil, fmt.Errorf("source and destination must differ")
	}

	// Pre-flight availability check so stub-backed tests fail before any
	// mutation; the conditional update inside the transaction still guards
	// concurrent writers.
	if sourceWarehouseID != nil {
		src, err := s.repo.FindByLocationAndProduct(ctx, model.LocationWarehouse, *sourceWarehouseID, productID)
		if err != nil || src.Quantity < req.Quantity {
			return nil, ErrInsufficientStock
		}
	} else if product.Quantity < req.Quantity {
		return nil, ErrInsufficientQuantity
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if sourceWarehouseID != nil {
			ok, err := s.repo.DecrementTx(tx, model.LocationWarehouse, *sourceWarehouseID, productID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
			srcID := *sourceWarehouseID
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				ProductID:    productID,
				LocationType: model.LocationWarehouse,
				LocationID:   &srcID,
				Type:         model.MovementTransferOut,
				Quantity:     -req.Quantity,
				Reason:       "direct assignment",
			}); err != nil {
				return err
			}
		} else {
			ok, err := s.productRepo.DecrementQuantity(ctx, tx, productID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientQuantity
			}
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				ProductID:      productID,
				LocationType:   model.LocationCatalog,
				Type:           model.MovementAssignment,
				Quantity:       -req.Quantity,
				QuantityBefore: product.Quantity,
				QuantityAfter:  product.Quantity - req.Quantity,
				Reason:         "assigned to " + locationType,
			}); err != nil {
				return err
			}
		}

		if err := s.repo.UpsertAddTx(tx, locationType, locationID, productID, req.Quantity); err != nil {
			return err
		}
		destID := locationID
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:    productID,
			LocationType: locationType,
			LocationID:   &destID,
			Type:         model.MovementAssignment,
			Quantity:     req.Quantity,
			Reason:       "direct assignment",
		})
	})
	if err != nil {
		return nil, err
	}

	st, err := s.repo.FindByLocationAndProduct(ctx, locationType, locationID, productID)
	if err != nil {
		return nil, err
	}
	return stockToResponse(st), nil
}

func (s *stockService) CreateTransferRequest(ctx context.Context, req dto.CreateStockTransferRequest) (*dto.StockRequestResponse, error) {
	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		return nil, fmt.Errorf("invalid source_id: %w", err)
	}
	destinationID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("invalid destination_id: %w", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if req.SourceType == req.DestinationType && sourceID == destinationID {
		return nil, fmt.Errorf("source and destination must differ")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}

	r := &model.StockRequest{
		SourceType:      req.SourceType,
		SourceID:        sourceID,
		DestinationType: req.DestinationType,
		DestinationID:   destinationID,
		ProductID:       productID,
		Quantity:        req.Quantity,
		Status:          model.RequestPending,
	}
	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}
	return requestToResponse(r), nil
}

func (s *stockService) GetRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error) {
	r, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	return requestToResponse(r), nil
}

func (s *stockService) ListRequests(ctx context.Context, filter dto.StockRequestFilter) ([]dto.StockRequestResponse, error) {
	reqs, err := s.repo.ListRequests(ctx, filter.Status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, *requestToResponse(&reqs[i]))
	}
	return out, nil
}

// ApproveRequest finalizes a pending request and moves the quantity. The
// status flip is a guarded update, so two concurrent approvals (or an
// approve racing a reject) resolve to exactly one winner.
func (s *stockService) ApproveRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error) {
	r, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	if r.Status != model.RequestPending {
		return nil, ErrRequestFinalized
	}

	src, err := s.repo.FindByLocationAndProduct(ctx, r.SourceType, r.SourceID, r.ProductID)
	if err != nil || src.Quantity < r.Quantity {
		return nil, ErrInsufficientStock
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.FinalizeRequestTx(tx, id, model.RequestApproved)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestFinalized
		}

		ok, err = s.repo.DecrementTx(tx, r.SourceType, r.SourceID, r.ProductID, r.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}
		if err := s.repo.UpsertAddTx(tx, r.DestinationType, r.DestinationID, r.ProductID, r.Quantity); err != nil {
			return err
		}

		refID := r.ID
		srcID := r.SourceID
		destID := r.DestinationID
		if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:      r.ProductID,
			LocationType:   r.SourceType,
			LocationID:     &srcID,
			Type:           model.MovementTransferOut,
			Quantity:       -r.Quantity,
			QuantityBefore: src.Quantity,
			QuantityAfter:  src.Quantity - r.Quantity,
			Reason:         "transfer request approved",
			ReferenceID:    &refID,
		}); err != nil {
			return err
		}
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:    r.ProductID,
			LocationType: r.DestinationType,
			LocationID:   &destID,
			Type:         model.MovementTransferIn,
			Quantity:     r.Quantity,
			Reason:       "transfer request approved",
			ReferenceID:  &refID,
		})
	})
	if err != nil {
		return nil, err
	}

	r.Status = model.RequestApproved
	return requestToResponse(r), nil
}

func (s *stockService) RejectRequest(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error) {
	r, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	if r.Status != model.RequestPending {
		return nil, ErrRequestFinalized
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.FinalizeRequestTx(tx, id, model.RequestRejected)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestFinalized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Status = model.RequestRejected
	return requestToResponse(r), nil
}

func (s *stockService) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	movements, err := s.movementRepo.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *movementToResponse(&movements[i]))
	}
	return out, nil
}

func stockToResponse(st *model.Stock) *dto.StockResponse {
	resp := &dto.StockResponse{
		ID:           st.ID.String(),
		LocationType: st.LocationType,
		LocationID:   st.LocationID.String(),
		ProductID:    st.ProductID.String(),
		Quantity:     st.Quantity,
	}
	if st.Product != nil {
		resp.ProductName = st.Product.Name
	}
	return resp
}

func stocksToResponses(stocks []model.Stock) []dto.StockResponse {
	out := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, *stockToResponse(&stocks[i]))
	}
	return out
}

func requestToResponse(r *model.StockRequest) *dto.StockRequestResponse {
	resp := &dto.StockRequestResponse{
		ID:              r.ID.String(),
		SourceType:      r.SourceType,
		SourceID:        r.SourceID.String(),
		DestinationType: r.DestinationType,
		DestinationID:   r.DestinationID.String(),
		ProductID:       r.ProductID.String(),
		Quantity:        r.Quantity,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.Product != nil {
		resp.ProductName = r.Product.Name
	}
	return resp
}

func movementToResponse(m *model.StockMovement) *dto.StockMovementResponse {
	resp := &dto.StockMovementResponse{
		ID:             m.ID.String(),
		ProductID:      m.ProductID.String(),
		LocationType:   m.LocationType,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.LocationID != nil {
		id := m.LocationID.String()
		resp.LocationID = &id
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
