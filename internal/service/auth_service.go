package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/techincepto/portal-backend/internal/model"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrAdminNotFound      = errors.New("admin not found")
)

// dummyHash is compared against when no admin matches so that unknown
// identifiers cost the same as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("portal-dummy-password"), bcrypt.DefaultCost)
	return h
})

// AuthService handles admin authentication.
type AuthService struct {
	admins  AdminStore
	limiter *LoginLimiter
	log     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(admins AdminStore, limiter *LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{
		admins:  admins,
		limiter: limiter,
		log:     log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the given bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// Login authenticates an admin by username or email. Failures for unknown
// identifiers and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, clientAddr string, req *model.AdminLoginRequest) (*model.Admin, error) {
	key := LimiterKey(clientAddr, req.UsernameOrEmail)

	blocked, err := s.limiter.IsBlocked(ctx, key)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrTooManyAttempts
	}

	admin, err := s.lookup(ctx, req.UsernameOrEmail)
	if err != nil {
		return nil, err
	}

	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if err := s.limiter.Clear(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("admin_id", admin.AdminID).Msg("Failed to clear login attempts")
	}
	return admin, nil
}

// CurrentAdmin re-reads the admin named in a verified session principal.
func (s *AuthService) CurrentAdmin(ctx context.Context, p *model.AdminPrincipal) (*model.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*model.Admin, error) {
	var (
		admin *model.Admin
		err   error
	)
	if strings.Contains(identifier, "@") {
		admin, err = s.admins.GetByEmail(ctx, identifier)
	} else {
		admin, err = s.admins.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve admin: %w", err)
	}
	return admin, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.log.Error().Err(err).Msg("Failed to record login failure")
	}
}
