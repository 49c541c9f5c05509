package repository

import (
	"context"

	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context, companyID string) ([]model.Warehouse, error)
	Update(ctx context.Context, w *model.Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error

	AssignProduct(ctx context.Context, warehouseID, productID uuid.UUID) error
	FindAssignment(ctx context.Context, warehouseID, productID uuid.UUID) (*model.WarehouseProduct, error)
	ListAssignments(ctx context.Context, warehouseID uuid.UUID) ([]model.WarehouseProduct, error)
}

type warehouseRepo struct{ db *gorm.DB }

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository { return &warehouseRepo{db: db} }

func (r *warehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).Preload("Manager").Preload("Products.Product").First(&w, id).Error
	return &w, err
}

func (r *warehouseRepo) List(ctx context.Context, companyID string) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	q := r.db.WithContext(ctx).Preload("Manager")
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	err := q.Order("name ASC").Find(&warehouses).Error
	return warehouses, err
}

func (r *warehouseRepo) Update(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *warehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Assignments go with the warehouse; stock rows are kept for audit.
	if err := r.db.WithContext(ctx).Where("warehouse_id = ?", id).Delete(&model.WarehouseProduct{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Warehouse{}, id).Error
}

func (r *warehouseRepo) AssignProduct(ctx context.Context, warehouseID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&model.WarehouseProduct{
		WarehouseID: warehouseID,
		ProductID:   productID,
	}).Error
}

func (r *warehouseRepo) FindAssignment(ctx context.Context, warehouseID, productID uuid.UUID) (*model.WarehouseProduct, error) {
	var wp model.WarehouseProduct
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&wp).Error
	return &wp, err
}

func (r *warehouseRepo) ListAssignments(ctx context.Context, warehouseID uuid.UUID) ([]model.WarehouseProduct, error) {
	var wps []model.WarehouseProduct
	err := r.db.WithContext(ctx).Preload("Product").
		Where("warehouse_id = ?", warehouseID).Find(&wps).Error
	return wps, err
}
