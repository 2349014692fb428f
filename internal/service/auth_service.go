package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	gosimpleslug "github.com/gosimple/slug"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
	"github.com/sanjaykumarkhadka/gym/pkg/hash"
	"github.com/sanjaykumarkhadka/gym/pkg/jwt"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var ErrInvalidSlug = errors.New("slug may only contain lowercase letters, digits and hyphens")

// TokenRevoker is the blacklist surface the auth service depends on.
type TokenRevoker interface {
	AddUntil(ctx context.Context, token string, expiresAt time.Time) error
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

type AuthService struct {
	userRepo       repository.UserRepository
	tenantRepo     repository.TenantRepository
	tokenService   *jwt.TokenService
	tokenBlacklist TokenRevoker
}

type RegisterOwnerRequest struct {
	GymName  string `json:"gym_name" validate:"required,min=2,max=100"`
	Slug     string `json:"slug" validate:"omitempty,min=2,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterMemberRequest struct {
	GymSlug  string `json:"gym_slug" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   *domain.User      `json:"user"`
	Tenant *domain.Tenant    `json:"tenant"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	tokenService *jwt.TokenService,
	tokenBlacklist TokenRevoker,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		tenantRepo:     tenantRepo,
		tokenService:   tokenService,
		tokenBlacklist: tokenBlacklist,
	}
}

// RegisterOwner creates a gym and its OWNER user atomically. The slug is
// derived from the gym name when the request leaves it empty.
func (s *AuthService) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*AuthResponse, error) {
	slugValue := req.Slug
	if slugValue == "" {
		slugValue = gosimpleslug.Make(req.GymName)
	}
	if !slugPattern.MatchString(slugValue) {
		return nil, ErrInvalidSlug
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:                  uuid.New(),
		Name:                req.GymName,
		Slug:                slugValue,
		StripeAccountStatus: domain.PayoutAccountNone,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	owner := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tenantRepo.CreateWithOwner(ctx, tenant, owner); err != nil {
		return nil, err
	}

	tokens, err := s.tokenService.GenerateTokenPair(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{Tokens: tokens, User: owner, Tenant: tenant}, nil
}

// RegisterMember signs a member up to an existing gym, looked up by slug.
func (s *AuthService) RegisterMember(ctx context.Context, req RegisterMemberRequest) (*AuthResponse, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, req.GymSlug)
	if err != nil {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	member := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	tokens, err := s.tokenService.GenerateTokenPair(member)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{Tokens: tokens, User: member, Tenant: tenant}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{Tokens: tokens, User: user, Tenant: tenant}, nil
}

// Logout revokes the presented access token for its remaining lifetime.
// With everywhere set it also stamps a per-user revocation marker, so tokens
// minted before this moment stop validating on any device.
func (s *AuthService) Logout(ctx context.Context, token string, claims *domain.Claims, everywhere bool) error {
	expiresAt := time.Now().Add(15 * time.Minute)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokenBlacklist.AddUntil(ctx, token, expiresAt); err != nil {
		return err
	}
	if everywhere {
		return s.tokenBlacklist.RevokeUser(ctx, claims.UserID.String(), s.tokenService.RefreshExpiry())
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
