package auth_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, models.User) *models.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) InitLicenseStart(ctx context.Context, userUID string, start time.Time) (bool, error) {
	args := m.Called(ctx, userUID, start)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) UpdateLicense(ctx context.Context, userUID string, grant models.LicenseGrant) error {
	args := m.Called(ctx, userUID, grant)
	return args.Error(0)
}

func (m *UserRepoMock) BlockUser(ctx context.Context, userUID string, at time.Time) error {
	args := m.Called(ctx, userUID, at)
	return args.Error(0)
}

func (m *UserRepoMock) UnblockUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, userUID, hash string) error {
	args := m.Called(ctx, userUID, hash)
	return args.Error(0)
}

// Мок для AttemptCounter
type CounterMock struct {
	mock.Mock
}

func (m *CounterMock) IncrLoginAttempts(ctx context.Context, username string, window time.Duration) (int64, error) {
	args := m.Called(ctx, username, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CounterMock) ResetLoginAttempts(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// Мок для rabbitmq.Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}
