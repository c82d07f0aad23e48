package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/testutil"
)

func TestUserRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		req := testutil.UserRequest(domainauth.RoleTechnician)
		u, err := repo.Create(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		assert.Equal(t, domainauth.RoleTechnician, u.Role)
		assert.True(t, u.IsActive)

		byName, err := repo.GetByUsername(ctx, req.Username)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		_, err = repo.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		role := domainauth.RoleTechnician
		list, err := repo.List(ctx, model.UserListOptions{Role: &role})
		require.NoError(t, err)
		require.Len(t, list, 1)

		updated, err := repo.Update(ctx, u.ID, model.UpdateUserRequest{IsActive: testutil.BoolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		deleted, err := repo.Delete(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, u.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_UpsertKeepsRole(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		req := testutil.UserRequest(domainauth.RoleSalesAgent)
		first, err := repo.UpsertByUsername(ctx, req)
		require.NoError(t, err)

		// a later login mapped to another role refreshes the profile only
		again := *req
		again.Role = domainauth.RoleAdmin
		again.FirstName = "Renamed"
		second, err := repo.UpsertByUsername(ctx, &again)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, domainauth.RoleSalesAgent, second.Role)
		assert.Equal(t, "Renamed", second.FirstName)
	})
}

func TestEquipmentRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEquipmentRepo(db)

		ladder, err := repo.Create(ctx, testutil.EquipmentRequest("Ladder", "ACCESS"))
		require.NoError(t, err)
		assert.True(t, ladder.IsActive)
		_, err = repo.Create(ctx, testutil.EquipmentRequest("Multimeter", "ELECTRICAL"))
		require.NoError(t, err)

		all, err := repo.List(ctx, model.EquipmentListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "ACCESS", all[0].Type)

		dup := testutil.EquipmentRequest("Ladder 2", "ACCESS")
		dup.SerialNumber = ladder.SerialNumber
		_, err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "serial_number", apperrors.GetField(err))

		inactive, err := repo.Update(ctx, ladder.ID, model.UpdateEquipmentRequest{IsActive: testutil.BoolPtr(false)})
		require.NoError(t, err)
		assert.False(t, inactive.IsActive)

		active, err := repo.List(ctx, model.EquipmentListOptions{Active: testutil.BoolPtr(true)})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Multimeter", active[0].Name)

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestEquipmentRepo_DeleteRestrictedByLedger(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		seed := testutil.NewSeeder(t, db)
		repo := NewEquipmentRepo(db)

		admin := seed.User(domainauth.RoleAdmin)
		job := seed.Job(testutil.NewJobRequest(admin).Build())
		task := seed.Task(job, 1, model.TaskStatusNotStarted)
		drill := seed.Equipment("Drill", "POWER_TOOL")
		seed.Requirement(task, drill, 1)

		_, err := repo.Delete(ctx, drill)
		require.Error(t, err)
		assert.True(t, apperrors.IsForeignKey(err))

		_, err = repo.GetByID(ctx, drill)
		require.NoError(t, err)
	})
}
