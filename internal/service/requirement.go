package service

import (
	"context"
	"fmt"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
)

// RequirementService manages the Task Equipment Ledger.
type RequirementService struct {
	repo core.RequirementRepository
}

// NewRequirementService constructs a new RequirementService.
func NewRequirementService(repo core.RequirementRepository) *RequirementService {
	if repo == nil {
		panic("RequirementRepository is required")
	}
	return &RequirementService{repo: repo}
}

// Set replaces every requirement of a task. The list is rejected as a whole when
// it names an equipment item twice or carries a negative quantity.
func (s *RequirementService) Set(
	ctx context.Context,
	caller domainauth.Principal,
	taskID string,
	in []model.RequirementInput,
) ([]model.TaskEquipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	reqs, err := lifecycle.NormalizeRequirements(in)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Set(ctx, taskID, reqs)
	if err != nil {
		return nil, fmt.Errorf("set requirements: %w", err)
	}
	return out, nil
}

// Add appends one requirement. An item already required by the task is rejected, never merged.
func (s *RequirementService) Add(
	ctx context.Context,
	caller domainauth.Principal,
	taskID string,
	in model.RequirementInput,
) (*model.TaskEquipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	req, err := lifecycle.NormalizeRequirement(in)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Add(ctx, taskID, req)
	if err != nil {
		return nil, fmt.Errorf("add requirement: %w", err)
	}
	return out, nil
}

// List returns the requirements of a task with equipment names and types.
func (s *RequirementService) List(
	ctx context.Context,
	caller domainauth.Principal,
	taskID string,
) ([]model.TaskEquipment, error) {
	if err := requireJobManager(caller); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return out, nil
}

// Remove deletes the requirement for one equipment item.
func (s *RequirementService) Remove(
	ctx context.Context,
	caller domainauth.Principal,
	taskID, equipmentID string,
) (bool, error) {
	if err := requireJobManager(caller); err != nil {
		return false, err
	}
	removed, err := s.repo.Remove(ctx, taskID, equipmentID)
	if err != nil {
		return false, fmt.Errorf("remove requirement: %w", err)
	}
	return removed, nil
}
