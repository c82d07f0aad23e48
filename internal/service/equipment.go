package service

import (
	"context"
	"fmt"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// EquipmentService manages the equipment catalog.
type EquipmentService struct {
	repo core.EquipmentRepository
}

// NewEquipmentService constructs a new EquipmentService.
func NewEquipmentService(repo core.EquipmentRepository) *EquipmentService {
	if repo == nil {
		panic("EquipmentRepository is required")
	}
	return &EquipmentService{repo: repo}
}

func (s *EquipmentService) Create(
	ctx context.Context,
	caller domainauth.Principal,
	req *model.CreateEquipmentRequest,
) (*model.Equipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	eq, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return eq, nil
}

func (s *EquipmentService) GetByID(ctx context.Context, caller domainauth.Principal, id string) (*model.Equipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	eq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return eq, nil
}

func (s *EquipmentService) List(
	ctx context.Context,
	caller domainauth.Principal,
	opts model.EquipmentListOptions,
) ([]*model.Equipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

func (s *EquipmentService) Update(
	ctx context.Context,
	caller domainauth.Principal,
	id string,
	req model.UpdateEquipmentRequest,
) (*model.Equipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}
	eq, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return eq, nil
}

// Delete removes a catalog item. Items still referenced by a task requirement
// are rejected with a foreign_key error.
func (s *EquipmentService) Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error) {
	if err := requireJobManager(caller); err != nil {
		return false, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete equipment: %w", err)
	}
	return deleted, nil
}
