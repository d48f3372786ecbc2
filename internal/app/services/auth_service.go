package services

import (
	"context"
	"errors"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/auth"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// adminStore is the admin account lookup surface the service needs.
type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	adminRepo  adminStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo adminStore, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		adminRepo:  adminRepo,
		jwtService: jwtService,
	}
}

// Login authenticates an admin and issues an access token. Unknown
// emails and wrong passwords both map to ErrInvalidCredentials so the
// response does not reveal which one failed.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		logger.Warn().Str("email", req.Email).Msg("Failed admin login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("adminID", admin.ID).Msg("Admin logged in")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Admin: dto.AdminResponse{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
		},
	}, nil
}
