package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/store-ratings-backend/pkg/config"
	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

type stubOwnerStats struct {
	stats  *OwnerStats
	called bool
}

func (s *stubOwnerStats) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error) {
	s.called = true
	return s.stats, nil
}

func newTestService(t *testing.T, stats OwnerStatsSource) (*Service, *Repository) {
	t.Helper()
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	return NewService(repo, stats, config.PasswordConfig{BcryptCost: 4}), repo
}

func TestServiceCreate(t *testing.T) {
	svc, repo := newTestService(t, nil)

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Owner Olive",
		Email:    "Olive@Example.com",
		Password: "s3cret!",
		Role:     "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "olive@example.com", dto.Email)
	assert.Equal(t, enums.RoleOwner, dto.Role)

	stored, err := repo.FindByEmail(context.Background(), "olive@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
}

func TestServiceCreate_invalidRole(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Bad Role",
		Email:    "bad@example.com",
		Password: "s3cret!",
		Role:     "superuser",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestServiceCreate_shortPassword(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Shorty",
		Email:    "short@example.com",
		Password: "abc",
		Role:     "user",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestServiceCreate_duplicateEmailConflict(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name: "First", Email: "taken@example.com", Password: "s3cret!", Role: "user",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserInput{
		Name: "Second", Email: "Taken@Example.com", Password: "s3cret!", Role: "user",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code())
}

func TestServiceList_rejectsUnknownRoleFilter(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.List(context.Background(), ListFilter{Role: "wizard"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestServiceDetail_ownerStatsOnlyForOwners(t *testing.T) {
	stats := &stubOwnerStats{stats: &OwnerStats{AverageRating: 4.5, RatingsCount: 2}}
	svc, repo := newTestService(t, stats)

	owner, err := repo.Create(context.Background(), CreateUserDTO{
		Name: "Owner", Email: "owner@example.com", PasswordHash: "$2a$10$stub", Role: enums.RoleOwner,
	})
	require.NoError(t, err)
	plain, err := repo.Create(context.Background(), CreateUserDTO{
		Name: "Plain", Email: "plain@example.com", PasswordHash: "$2a$10$stub",
	})
	require.NoError(t, err)

	detail, err := svc.Detail(context.Background(), owner.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.OwnerStats)
	assert.Equal(t, 4.5, detail.OwnerStats.AverageRating)
	assert.True(t, stats.called)

	stats.called = false
	detail, err = svc.Detail(context.Background(), plain.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.OwnerStats)
	assert.False(t, stats.called)
}

func TestServiceDetail_notFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Detail(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestServiceRoleOf_missingUserUnauthorized(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.RoleOf(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
}
