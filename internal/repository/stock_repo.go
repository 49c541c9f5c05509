package repository

import (
	"context"

	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository owns per-location stock rows and stock transfer requests.
type StockRepository interface {
	Create(ctx context.Context, s *model.Stock) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error)
	List(ctx context.Context) ([]model.Stock, error)
	Update(ctx context.Context, s *model.Stock) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByLocation(ctx context.Context, locationType string, locationID uuid.UUID) ([]model.Stock, error)
	FindByLocationAndProduct(ctx context.Context, locationType string, locationID, productID uuid.UUID) (*model.Stock, error)

	// DecrementTx conditionally decrements a stock row inside tx; the update
	// only applies when quantity >= delta, and reports whether a row changed.
	DecrementTx(tx *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) (bool, error)
	// UpsertAddTx increments the (location, product) row inside tx, creating
	// it when absent.
	UpsertAddTx(tx *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) error

	// Requests
	CreateRequest(ctx context.Context, req *model.StockRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*model.StockRequest, error)
	ListRequests(ctx context.Context, status string) ([]model.StockRequest, error)
	// FinalizeRequestTx moves a request from pending to status inside tx;
	// reports false when the request was not pending anymore.
	FinalizeRequestTx(tx *gorm.DB, id uuid.UUID, status string) (bool, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Create(ctx context.Context, s *model.Stock) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).Preload("Product").First(&s, id).Error
	return &s, err
}

func (r *stockRepo) List(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.WithContext(ctx).Preload("Product").Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) Update(ctx context.Context, s *model.Stock) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Stock{}, id).Error
}

func (r *stockRepo) ListByLocation(ctx context.Context, locationType string, locationID uuid.UUID) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.WithContext(ctx).Preload("Product").
		Where("location_type = ? AND location_id = ?", locationType, locationID).
		Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) FindByLocationAndProduct(ctx context.Context, locationType string, locationID, productID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).Preload("Product").
		Where("location_type = ? AND location_id = ? AND product_id = ?", locationType, locationID, productID).
		First(&s).Error
	return &s, err
}

func (r *stockRepo) DecrementTx(tx *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Stock{}).
		Where("location_type = ? AND location_id = ? AND product_id = ? AND quantity >= ?",
			locationType, locationID, productID, delta).
		Update("quantity", gorm.Expr("quantity - ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) UpsertAddTx(tx *gorm.DB, locationType string, locationID, productID uuid.UUID, delta int) error {
	res := tx.Model(&model.Stock{}).
		Where("location_type = ? AND location_id = ? AND product_id = ?", locationType, locationID, productID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&model.Stock{
		LocationType: locationType,
		LocationID:   locationID,
		ProductID:    productID,
		Quantity:     delta,
	}).Error
}

func (r *stockRepo) CreateRequest(ctx context.Context, req *model.StockRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *stockRepo) FindRequestByID(ctx context.Context, id uuid.UUID) (*model.StockRequest, error) {
	var req model.StockRequest
	err := r.db.WithContext(ctx).Preload("Product").First(&req, id).Error
	return &req, err
}

func (r *stockRepo) ListRequests(ctx context.Context, status string) ([]model.StockRequest, error) {
	var reqs []model.StockRequest
	q := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *stockRepo) FinalizeRequestTx(tx *gorm.DB, id uuid.UUID, status string) (bool, error) {
	// Guarded update: a request transitions out of pending exactly once.
	res := tx.Model(&model.StockRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
