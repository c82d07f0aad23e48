package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/mocks"
	"go.uber.org/mock/gomock"
)

func TestRequirementService(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockRequirementRepository(gomock.NewController(t))
	svc := NewRequirementService(repo)

	repo.EXPECT().Set(ctx, "t-1", []model.RequirementInput{{EquipmentID: "eq-1", Quantity: model.QuantityOf(1)}}).
		Return([]model.TaskEquipment{{TaskID: "t-1", EquipmentID: "eq-1", Quantity: 1}}, nil)
	set, err := svc.Set(ctx, adminCaller, "t-1", []model.RequirementInput{{EquipmentID: "eq-1"}})
	require.NoError(t, err)
	assert.Len(t, set, 1)

	repo.EXPECT().Add(ctx, "t-1", model.RequirementInput{EquipmentID: "eq-2", Quantity: model.QuantityOf(4)}).
		Return(&model.TaskEquipment{EquipmentID: "eq-2", Quantity: 4}, nil)
	added, err := svc.Add(ctx, salesCaller, "t-1", model.RequirementInput{EquipmentID: "eq-2", Quantity: model.QuantityOf(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, added.Quantity)

	repo.EXPECT().Add(ctx, "t-1", gomock.Any()).
		Return(nil, apperrors.PreconditionFailed("equipment already required"))
	_, err = svc.Add(ctx, adminCaller, "t-1", model.RequirementInput{EquipmentID: "eq-2"})
	assert.True(t, apperrors.IsPreconditionFailed(err))

	repo.EXPECT().Remove(ctx, "t-1", "eq-2").Return(true, nil)
	removed, err := svc.Remove(ctx, adminCaller, "t-1", "eq-2")
	require.NoError(t, err)
	assert.True(t, removed)

	repo.EXPECT().List(ctx, "t-1").Return([]model.TaskEquipment{}, nil)
	list, err := svc.List(ctx, adminCaller, "t-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequirementService_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := NewRequirementService(mocks.NewMockRequirementRepository(gomock.NewController(t)))

	_, err := svc.List(ctx, techCaller, "t-1")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.Add(ctx, adminCaller, "t-1", model.RequirementInput{})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Set(ctx, adminCaller, "t-1", []model.RequirementInput{
		{EquipmentID: "eq-1"}, {EquipmentID: "eq-1", Quantity: model.QuantityOf(2)},
	})
	assert.True(t, apperrors.IsPreconditionFailed(err))
}
