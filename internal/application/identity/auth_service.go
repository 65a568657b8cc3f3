package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/auth"
)

// AuthService handles registration and authentication
type AuthService struct {
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(profileRepo identity.ProfileRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a contractor account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.profileRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	profile, err := identity.NewProfile(req.Email, hash, req.FullName, req.CountryCode)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Contractor registered",
		zap.String("contractor_id", profile.ID.String()),
		zap.String("country", profile.CountryCode))

	return s.issueToken(profile)
}

// Login authenticates a contractor and returns a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("Login attempt for unknown email")
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		s.logger.Warn("Invalid password attempt",
			zap.String("contractor_id", profile.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	return s.issueToken(profile)
}

// ChangePassword rotates the password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, contractorID uuid.UUID, req ChangePasswordRequest) error {
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(profile.PasswordHash, req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	return s.profileRepo.Update(ctx, profile)
}

func (s *AuthService) issueToken(profile *identity.Profile) (*AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   ToProfileResponse(profile),
	}, nil
}
