package service

import (
	"context"
	"fmt"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/google/uuid"
)

type BranchService interface {
	Create(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BranchResponse, error)
	List(ctx context.Context, companyID string) ([]dto.BranchResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateBranchRequest) (*dto.BranchResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type branchService struct {
	repo repository.BranchRepository
}

func NewBranchService(repo repository.BranchRepository) BranchService {
	return &branchService{repo: repo}
}

func (s *branchService) Create(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}
	b := &model.Branch{
		CompanyID: companyID,
		Name:      req.Name,
		Location:  req.Location,
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("invalid manager_id: %w", err)
		}
		b.ManagerID = &managerID
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return branchToResponse(b), nil
}

func (s *branchService) GetByID(ctx context.Context, id uuid.UUID) (*dto.BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	return branchToResponse(b), nil
}

func (s *branchService) List(ctx context.Context, companyID string) ([]dto.BranchResponse, error) {
	branches, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, *branchToResponse(&branches[i]))
	}
	return out, nil
}

func (s *branchService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Location != nil {
		b.Location = *req.Location
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("invalid manager_id: %w", err)
		}
		b.ManagerID = &managerID
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return branchToResponse(b), nil
}

func (s *branchService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrBranchNotFound
	}
	return s.repo.Delete(ctx, id)
}

func branchToResponse(b *model.Branch) *dto.BranchResponse {
	resp := &dto.BranchResponse{
		ID:        b.ID.String(),
		CompanyID: b.CompanyID.String(),
		Name:      b.Name,
		Location:  b.Location,
	}
	if b.ManagerID != nil {
		id := b.ManagerID.String()
		resp.ManagerID = &id
	}
	return resp
}
