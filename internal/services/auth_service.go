package services

import (
	"context"
	"errors"

	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// ErrInvalidCredentials is returned on any login failure. The cause (unknown
// email or wrong password) is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid email or password")

// tokenIssuer signs a JWT for an authenticated admin user
type tokenIssuer func(userID, email, role string, cfg *config.Config) (string, error)

// AuthServiceImpl handles back-office admin authentication
type AuthServiceImpl struct {
	adminUserRepo repositories.AdminUserRepository
	cfg           *config.Config
	issueToken    tokenIssuer
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminUserRepo repositories.AdminUserRepository, cfg *config.Config, issueToken tokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminUserRepo: adminUserRepo,
		cfg:           cfg,
		issueToken:    issueToken,
	}
}

// Login verifies admin credentials and returns a signed JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	adminUser, err := s.adminUserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Warn("Login attempt with unknown email", "email", req.Email)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.Password), []byte(req.Password)); err != nil {
		slog.Warn("Login attempt with wrong password", "email", req.Email)
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(adminUser.ID.Hex(), adminUser.Email, adminUser.Role, s.cfg)
	if err != nil {
		return "", err
	}

	slog.Info("Admin logged in", "email", adminUser.Email)
	return token, nil
}
