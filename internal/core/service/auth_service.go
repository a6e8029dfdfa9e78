package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// bcrypt ignores input beyond 72 bytes; longer passwords are refused.
const maxPasswordBytes = 72

// AuthConfig is the immutable slice of configuration the authenticator needs.
type AuthConfig struct {
	TokenTTL time.Duration
	// RestrictRoles rejects registrations whose role is outside the
	// enumeration. Off by default: any role string is accepted and stored.
	RestrictRoles bool
}

// AuthService implements registration, login and per-request authentication.
type AuthService struct {
	store  ports.Store
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cfg    AuthConfig
	log    zerolog.Logger
}

func NewAuthService(
	store ports.Store,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens, cfg: cfg, log: log}
}

// TokenTTL reports the lifetime applied to issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.cfg.TokenTTL
}

// Register creates an account. The duplicate check and the insert share one
// unit of work, and the store's unique constraint on username backs the check
// against concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	r := domain.Role(strings.TrimSpace(role))
	if r == "" {
		r = domain.DefaultRole
	}
	if s.cfg.RestrictRoles && !r.Known() {
		return nil, domain.ErrInvalidRole
	}

	account := &domain.Account{
		Username:  username,
		Role:      r,
		CreatedAt: time.Now().UTC(),
	}

	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		_, err := uow.Accounts().FindByUsername(ctx, username)
		switch {
		case err == nil:
			return domain.ErrDuplicateIdentity
		case !errors.Is(err, domain.ErrAccountNotFound):
			return fmt.Errorf("lookup account: %w", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hash

		return uow.Accounts().Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			s.log.Info().Str("username", username).Msg("registration rejected: username taken")
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	if !r.Known() {
		s.log.Warn().Str("username", username).Str("role", string(r)).Msg("account registered with role outside the enumeration")
	}
	s.log.Info().Int64("account_id", account.ID).Str("username", username).Str("role", string(r)).Msg("account registered")

	return account, nil
}

// Login checks credentials and issues a token whose subject is the username.
// The username is trimmed the same way Register trims it.
// An unknown username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (ports.AccessToken, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ports.AccessToken{}, domain.ErrInvalidCredentials
	}

	var account *domain.Account
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		a, err := uow.Accounts().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		account = a
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Info().Str("username", username).Msg("login failed")
			return ports.AccessToken{}, domain.ErrInvalidCredentials
		}
		return ports.AccessToken{}, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Info().Str("username", username).Msg("login failed")
		return ports.AccessToken{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Username, s.cfg.TokenTTL)
	if err != nil {
		return ports.AccessToken{}, fmt.Errorf("login: %w", err)
	}

	s.log.Debug().Str("username", username).Time("expires_at", token.ExpiresAt).Msg("token issued")
	return token, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
// Every failure, including an account removed after issuance, is
// domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	var account *domain.Account
	err = s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		a, err := uow.Accounts().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		account = a
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return account, nil
}
