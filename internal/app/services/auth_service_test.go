package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/auth"
)

type fakeAdminStore struct {
	admins map[string]*models.Admin
}

func (s *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin, ok := s.admins[email]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return admin, nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "spesuez.recruitment.test",
	})
}

func testAdminStore(t *testing.T) *fakeAdminStore {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &fakeAdminStore{admins: map[string]*models.Admin{
		"admin@spesuez.com": {ID: 1, Name: "SPE Suez Admin", Email: "admin@spesuez.com", PasswordHash: hash},
	}}
}

func TestLoginSuccess(t *testing.T) {
	jwtService := testJWTService()
	svc := NewAuthService(testAdminStore(t), jwtService)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@spesuez.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.ExpiresIn != int64(time.Hour.Seconds()) {
		t.Errorf("expiresIn = %d, want %d", resp.ExpiresIn, int64(time.Hour.Seconds()))
	}
	if resp.Admin.ID != 1 || resp.Admin.Email != "admin@spesuez.com" {
		t.Errorf("admin = %+v", resp.Admin)
	}

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token)
	if err != nil {
		t.Fatalf("validating issued token: %v", err)
	}
	if claims.AdminID != 1 || claims.Email != "admin@spesuez.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewAuthService(testAdminStore(t), testJWTService())

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"unknown email", dto.LoginRequest{Email: "nobody@spesuez.com", Password: "correct-horse"}},
		{"wrong password", dto.LoginRequest{Email: "admin@spesuez.com", Password: "wrong"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
