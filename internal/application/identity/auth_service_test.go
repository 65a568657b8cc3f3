package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/auth"
	"github.com/brickquote/backend/internal/infrastructure/config"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*identity.Profile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestAuthService(mockRepo *MockProfileRepository) *AuthService {
	logger, _ := zap.NewDevelopment()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-test-secret-test-1234",
		AccessTokenExpiration: 24 * time.Hour,
		Issuer:                "brickquote-test",
	})
	return NewAuthService(mockRepo, jwtService, logger)
}

func newTestProfile(t *testing.T, password string) *identity.Profile {
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)
	profile, err := identity.NewProfile("mason@example.com", hash, "Test Mason", "GB")
	assert.NoError(t, err)
	return profile
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, shared.ErrNotFound)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

	resp, err := service.Register(ctx, RegisterRequest{
		Email:       "new@example.com",
		Password:    "s3cret-password",
		FullName:    "New Mason",
		CountryCode: "IE",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.Profile.Email)
	assert.Equal(t, "IE", resp.Profile.CountryCode)
	assert.Equal(t, "EUR", resp.Profile.Currency)
	assert.True(t, resp.Profile.EmailNotifications)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	existing := newTestProfile(t, "whatever-123")
	mockRepo.On("FindByEmail", ctx, "mason@example.com").Return(existing, nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "mason@example.com",
		Password: "s3cret-password",
		FullName: "Other Mason",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	profile := newTestProfile(t, "s3cret-password")
	mockRepo.On("FindByEmail", ctx, "mason@example.com").Return(profile, nil)

	resp, err := service.Login(ctx, LoginRequest{
		Email:    "mason@example.com",
		Password: "s3cret-password",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, profile.ID, resp.Profile.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	profile := newTestProfile(t, "s3cret-password")
	mockRepo.On("FindByEmail", ctx, "mason@example.com").Return(profile, nil)

	_, err := service.Login(ctx, LoginRequest{
		Email:    "mason@example.com",
		Password: "wrong-password",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(ctx, LoginRequest{
		Email:    "ghost@example.com",
		Password: "s3cret-password",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	// Unknown email and wrong password are indistinguishable to the caller
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := newTestAuthService(mockRepo)
	ctx := context.Background()

	profile := newTestProfile(t, "old-password-1")
	mockRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

	err := service.ChangePassword(ctx, profile.ID, ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-1",
	})

	assert.NoError(t, err)
	assert.True(t, auth.CheckPassword(profile.PasswordHash, "new-password-1"))
	mockRepo.AssertExpectations(t)
}
