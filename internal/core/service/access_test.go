package service

import (
	"errors"
	"testing"

	"github.com/openlis/lis-backend/internal/core/domain"
)

func TestAccessGate_Authorize(t *testing.T) {
	gate := NewAccessGate()
	writers := domain.NewRoleSet(domain.RoleAdmin, domain.RoleTechnician)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleTechnician} {
		if err := gate.Authorize(&domain.Account{Username: "u", Role: role}, writers); err != nil {
			t.Fatalf("role %s should pass: %v", role, err)
		}
	}

	for _, role := range []domain.Role{domain.RoleDoctor, "nurse", ""} {
		err := gate.Authorize(&domain.Account{Username: "u", Role: role}, writers)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestAccessGate_NilAccount(t *testing.T) {
	err := NewAccessGate().Authorize(nil, domain.NewRoleSet(domain.RoleAdmin))
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAccessGate_EmptySetDeniesEveryone(t *testing.T) {
	err := NewAccessGate().Authorize(&domain.Account{Role: domain.RoleAdmin}, domain.NewRoleSet())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
