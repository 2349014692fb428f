package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/pkg/jwt"
)

func testTokenService(t *testing.T) *jwt.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("public key encoding failed: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	svc, err := jwt.NewTokenService(privPEM, pubPEM, 15*time.Minute, 7*24*time.Hour, "gym-api-test")
	if err != nil {
		t.Fatalf("token service init failed: %v", err)
	}
	return svc
}

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo, *memTenantRepo) {
	t.Helper()
	users := newMemUserRepo()
	tenants := newMemTenantRepo(users)
	return NewAuthService(users, tenants, testTokenService(t), nil), users, tenants
}

func TestRegisterOwnerCreatesTenantAndTokens(t *testing.T) {
	svc, _, tenants := newAuthFixture(t)

	resp, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName:  "Iron Temple Gym",
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("owner registration failed: %v", err)
	}

	if resp.Tenant.Slug != "iron-temple-gym" {
		t.Fatalf("expected derived slug iron-temple-gym, got %q", resp.Tenant.Slug)
	}
	if resp.User.Role != domain.RoleOwner || resp.User.TenantID != resp.Tenant.ID {
		t.Fatalf("owner not bound to tenant: %+v", resp.User)
	}
	if resp.User.PasswordHash == "correct-horse" || resp.User.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.Tenant.CreatedAt.IsZero() || resp.User.CreatedAt.IsZero() {
		t.Fatal("creation timestamps not set")
	}
	if _, err := tenants.GetBySlug(context.Background(), "iron-temple-gym"); err != nil {
		t.Fatalf("tenant not persisted: %v", err)
	}
}

func TestRegisterOwnerSlugRules(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "Gym", Slug: "Bad Slug!", Name: "A", Email: "a@example.com", Password: "password1",
	}); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}

	if _, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "First", Slug: "shared", Name: "A", Email: "a@example.com", Password: "password1",
	}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "Second", Slug: "shared", Name: "B", Email: "b@example.com", Password: "password1",
	}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestRegisterMember(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "Iron Temple", Slug: "iron-temple", Name: "Alex", Email: "alex@example.com", Password: "password1",
	}); err != nil {
		t.Fatalf("owner registration failed: %v", err)
	}

	resp, err := svc.RegisterMember(context.Background(), RegisterMemberRequest{
		GymSlug: "iron-temple", Name: "Maya", Email: "maya@example.com", Password: "password2",
	})
	if err != nil {
		t.Fatalf("member registration failed: %v", err)
	}
	if resp.User.Role != domain.RoleMember {
		t.Fatalf("expected MEMBER role, got %s", resp.User.Role)
	}

	// Unknown gym slug.
	if _, err := svc.RegisterMember(context.Background(), RegisterMemberRequest{
		GymSlug: "no-such-gym", Name: "X", Email: "x@example.com", Password: "password3",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Email is globally unique.
	if _, err := svc.RegisterMember(context.Background(), RegisterMemberRequest{
		GymSlug: "iron-temple", Name: "Maya2", Email: "maya@example.com", Password: "password2",
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginAndClaims(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	owner, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "Iron Temple", Slug: "iron-temple", Name: "Alex", Email: "alex@example.com", Password: "password1",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "alex@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.tokenService.ValidateToken(resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.TenantID != owner.Tenant.ID || claims.Role != domain.RoleOwner || claims.TokenType != "access" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Wrong password and unknown email both collapse to one error.
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "alex@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutBlacklistsAndRevokes(t *testing.T) {
	users := newMemUserRepo()
	tenants := newMemTenantRepo(users)
	revoker := newFakeRevoker()
	svc := NewAuthService(users, tenants, testTokenService(t), revoker)

	resp, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		GymName: "Iron Temple", Slug: "iron-temple", Name: "Alex", Email: "alex@example.com", Password: "password1",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	token := resp.Tokens.AccessToken
	claims, err := svc.tokenService.ValidateToken(token)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}

	// Plain logout blacklists only the presented token.
	if err := svc.Logout(context.Background(), token, claims, false); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := revoker.tokens[token]; !ok {
		t.Fatal("token not blacklisted")
	}
	if len(revoker.revoked) != 0 {
		t.Fatalf("plain logout must not revoke the user: %v", revoker.revoked)
	}

	// Logout everywhere also stamps the user marker, sized to outlive the
	// longest-lived token.
	if err := svc.Logout(context.Background(), token, claims, true); err != nil {
		t.Fatalf("logout everywhere failed: %v", err)
	}
	ttl, ok := revoker.revoked[claims.UserID.String()]
	if !ok {
		t.Fatal("user revocation marker not written")
	}
	if ttl != svc.tokenService.RefreshExpiry() {
		t.Fatalf("revocation ttl %v, want %v", ttl, svc.tokenService.RefreshExpiry())
	}
}
