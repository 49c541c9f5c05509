package repository

import (
	"context"

	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(ctx context.Context, b *model.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	List(ctx context.Context, companyID string) ([]model.Branch, error)
	Update(ctx context.Context, b *model.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) Create(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *branchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).Preload("Manager").First(&b, id).Error
	return &b, err
}

func (r *branchRepo) List(ctx context.Context, companyID string) ([]model.Branch, error) {
	var branches []model.Branch
	q := r.db.WithContext(ctx)
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	err := q.Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Update(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *branchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Branch{}, id).Error
}
