package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openlis/lis-backend/internal/api/middleware"
	"github.com/openlis/lis-backend/internal/core/domain"
)

// ctxAccount returns the account injected by the Authenticate middleware.
// A missing account means the route was wired without it; treat the caller
// as unauthenticated rather than panicking.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account := middleware.AccountFrom(c)
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

// pathID parses an integer path parameter. Ids that match no record, zero and
// negatives included, are left for the service to report as not found.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
// Malformed bodies are reported as validation failures.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return c.Validate(req)
}
