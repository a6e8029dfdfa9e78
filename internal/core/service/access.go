package service

import (
	"fmt"

	"github.com/openlis/lis-backend/internal/core/domain"
)

// AccessGate implements ports.Authorizer.
type AccessGate struct{}

func NewAccessGate() *AccessGate {
	return &AccessGate{}
}

// Authorize passes iff the account's role is in allowed. A nil account is an
// identity problem, not a permission one, and yields ErrUnauthenticated.
func (g *AccessGate) Authorize(account *domain.Account, allowed domain.RoleSet) error {
	if account == nil {
		return domain.ErrUnauthenticated
	}
	if !allowed.Contains(account.Role) {
		return fmt.Errorf("%w: role %q not allowed", domain.ErrForbidden, account.Role)
	}
	return nil
}
