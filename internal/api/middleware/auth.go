package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openlis/lis-backend/internal/api/metrics"
	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// AccountKey is the echo context key under which the authenticated account
// is stored.
const AccountKey = "account"

// Authenticate resolves the bearer token to an account and injects it into
// the context. Every failure is reported as domain.ErrUnauthenticated so the
// error handler renders 401 with a Bearer challenge.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			account, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				}
				return err
			}

			c.Set(AccountKey, account)
			return next(c)
		}
	}
}

// AccountFrom returns the account injected by Authenticate, or nil.
func AccountFrom(c echo.Context) *domain.Account {
	account, _ := c.Get(AccountKey).(*domain.Account)
	return account
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
