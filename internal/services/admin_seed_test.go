package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/store/memory"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// MockAdminRepository is a mock implementation of store.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) Insert(ctx context.Context, admin *models.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	hasher := utils.NewPasswordHasher(bcrypt.MinCost)
	admins := memory.New().Repositories().Admins

	created, err := EnsureAdmin(ctx, admins, hasher, "@dm1n", zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, admins, hasher, "other", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := admins.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, hasher.CheckPasswordHash("@dm1n", admin.Password))
}

func TestEnsureAdminTreatsInsertRaceAsExisting(t *testing.T) {
	repo := new(MockAdminRepository)
	repo.On("FindByUsername", mock.Anything, "admin").Return(nil, apperrors.ErrNotFound)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Admin")).Return(apperrors.ErrConflict)

	created, err := EnsureAdmin(context.Background(), repo, utils.NewPasswordHasher(bcrypt.MinCost), "@dm1n", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)
	repo.AssertExpectations(t)
}

func TestEnsureAdminPropagatesStoreFailure(t *testing.T) {
	repo := new(MockAdminRepository)
	repo.On("FindByUsername", mock.Anything, "admin").Return(nil, errors.New("no reachable servers"))

	_, err := EnsureAdmin(context.Background(), repo, utils.NewPasswordHasher(bcrypt.MinCost), "@dm1n", zerolog.Nop())
	require.Error(t, err)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
