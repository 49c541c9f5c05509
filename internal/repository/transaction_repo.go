package repository

import (
	"context"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) ([]model.Transaction, int64, error)
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Transaction, int64, error)
	// ListCompletedInRange returns completed transactions in [start, end],
	// optionally filtered by branch, ordered by creation time. Statistics are
	// pure reductions over this set.
	ListCompletedInRange(ctx context.Context, start, end time.Time, branchID *uuid.UUID) ([]model.Transaction, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items.Product").Where("order_id = ?", orderID).First(&t).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txns []model.Transaction
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) ([]model.Transaction, int64, error) {
	return r.listWhere(ctx, "branch_id = ?", branchID, page, limit)
}

func (r *transactionRepo) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Transaction, int64, error) {
	return r.listWhere(ctx, "customer_id = ?", customerID, page, limit)
}

func (r *transactionRepo) listWhere(ctx context.Context, cond string, arg interface{}, page, limit int) ([]model.Transaction, int64, error) {
	var txns []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where(cond, arg)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&txns).Error
	return txns, total, err
}

func (r *transactionRepo) ListCompletedInRange(ctx context.Context, start, end time.Time, branchID *uuid.UUID) ([]model.Transaction, error) {
	var txns []model.Transaction
	q := r.db.WithContext(ctx).
		Where("status = ?", model.TransactionCompleted).
		Where("created_at BETWEEN ? AND ?", start, end)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	err := q.Preload("Items.Product").Order("created_at ASC").Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Update("status", status).Error
}
