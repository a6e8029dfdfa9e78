package ports

import (
	"context"
	"time"

	"github.com/openlis/lis-backend/internal/core/domain"
)

// PasswordHasher produces and checks salted one-way digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is false,
	// never an error.
	Verify(plaintext, digest string) bool
}

// AccessToken is a signed bearer credential and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies time-limited bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (AccessToken, error)
	// Verify returns the subject claim, or domain.ErrUnauthenticated for
	// malformed, tampered and expired tokens alike.
	Verify(token string) (string, error)
}

// AuthService is the authenticator used by the transport layer.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (AccessToken, error)
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

// Authorizer enforces a role allow-set on an already authenticated account.
type Authorizer interface {
	Authorize(account *domain.Account, allowed domain.RoleSet) error
}
