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

func TestEquipmentService_Create(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockEquipmentRepository(gomock.NewController(t))
	svc := NewEquipmentService(repo)

	repo.EXPECT().Create(ctx, &model.CreateEquipmentRequest{Name: "Ladder", Type: "ACCESS", SerialNumber: "SN-1"}).
		Return(&model.Equipment{ID: "eq-1", Name: "Ladder", IsActive: true}, nil)

	eq, err := svc.Create(ctx, adminCaller, &model.CreateEquipmentRequest{Name: " Ladder ", Type: "ACCESS", SerialNumber: "SN-1"})
	require.NoError(t, err)
	assert.Equal(t, "eq-1", eq.ID)

	_, err = svc.Create(ctx, adminCaller, &model.CreateEquipmentRequest{Name: "Ladder"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, techCaller, &model.CreateEquipmentRequest{Name: "Ladder", Type: "ACCESS", SerialNumber: "SN-2"})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestEquipmentService_UpdateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockEquipmentRepository(gomock.NewController(t))
	svc := NewEquipmentService(repo)
	inactive := false

	repo.EXPECT().Update(ctx, "eq-1", model.UpdateEquipmentRequest{IsActive: &inactive}).
		Return(&model.Equipment{ID: "eq-1", IsActive: false}, nil)
	eq, err := svc.Update(ctx, salesCaller, "eq-1", model.UpdateEquipmentRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, eq.IsActive)

	_, err = svc.Update(ctx, salesCaller, "eq-1", model.UpdateEquipmentRequest{Name: strPtr("  ")})
	assert.True(t, apperrors.IsValidation(err))

	active := true
	repo.EXPECT().List(ctx, model.EquipmentListOptions{Active: &active}).Return([]*model.Equipment{{ID: "eq-2"}}, nil)
	items, err := svc.List(ctx, adminCaller, model.EquipmentListOptions{Active: &active})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	repo.EXPECT().Delete(ctx, "eq-2").Return(false, &apperrors.AppError{Code: apperrors.ErrCodeForeignKey, Message: "equipment is still required"})
	_, err = svc.Delete(ctx, adminCaller, "eq-2")
	assert.True(t, apperrors.IsForeignKey(err))
}
