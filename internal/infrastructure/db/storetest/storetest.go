// Package storetest holds behaviour checks every ports.Store implementation
// must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// Run exercises store against the repository contracts. newStore must return
// an empty, migrated store.
func Run(t *testing.T, newStore func(t *testing.T) ports.Store) {
	t.Run("accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("lab records", func(t *testing.T) { testLabRecords(t, newStore(t)) })
	t.Run("references", func(t *testing.T) { testReferences(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) {
		if err := newStore(t).Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func within(t *testing.T, s ports.Store, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.WithinUnitOfWork(ctx, fn)
}

func testAccounts(t *testing.T, s ports.Store) {
	created := time.Now().UTC().Truncate(time.Second)

	err := within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		a := &domain.Account{Username: "alice", PasswordHash: "$2a$hash", Role: domain.RoleAdmin, CreatedAt: created}
		if err := uow.Accounts().Create(ctx, a); err != nil {
			return err
		}
		if a.ID == 0 {
			t.Fatalf("expected id to be assigned")
		}

		got, err := uow.Accounts().FindByUsername(ctx, "alice")
		if err != nil {
			return err
		}
		if got.ID != a.ID || got.Role != domain.RoleAdmin || got.PasswordHash != "$2a$hash" {
			t.Fatalf("unexpected account: %+v", got)
		}

		n, err := uow.Accounts().Count(ctx)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Fatalf("expected 1 account, got %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unit of work: %v", err)
	}

	err = within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.Accounts().Create(ctx, &domain.Account{Username: "alice", PasswordHash: "x", Role: domain.RoleTechnician, CreatedAt: created})
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	err = within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		_, err := uow.Accounts().FindByUsername(ctx, "nobody")
		return err
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func testLabRecords(t *testing.T, s ports.Store) {
	dob := "1985-05-20"
	now := time.Now().UTC().Truncate(time.Second)

	err := within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		p1 := &domain.Patient{FirstName: "Alice", LastName: "Brown", DOB: &dob}
		p2 := &domain.Patient{FirstName: "Bob", LastName: "Stone"}
		for _, p := range []*domain.Patient{p1, p2} {
			if err := uow.Patients().Create(ctx, p); err != nil {
				return err
			}
		}

		got, err := uow.Patients().FindByID(ctx, p1.ID)
		if err != nil {
			return err
		}
		if got.DOB == nil || *got.DOB != dob {
			t.Fatalf("dob not persisted: %+v", got)
		}
		if got2, _ := uow.Patients().FindByID(ctx, p2.ID); got2 == nil || got2.DOB != nil {
			t.Fatalf("expected nil dob for p2, got %+v", got2)
		}

		o := &domain.LabOrder{PatientID: p2.ID, TestName: "Urinalysis", OrderedAt: now}
		if err := uow.Orders().Create(ctx, o); err != nil {
			return err
		}
		r := &domain.Result{OrderID: o.ID, Value: "Normal", MeasuredAt: now}
		if err := uow.Results().Create(ctx, r); err != nil {
			return err
		}

		patients, err := uow.Patients().List(ctx)
		if err != nil {
			return err
		}
		if len(patients) != 2 || patients[0].ID != p1.ID {
			t.Fatalf("unexpected patients: %+v", patients)
		}

		orders, err := uow.Orders().List(ctx, ports.OrderFilter{PatientID: p1.ID})
		if err != nil {
			return err
		}
		if len(orders) != 0 {
			t.Fatalf("expected no orders for p1, got %+v", orders)
		}

		results, err := uow.Results().List(ctx, ports.ResultFilter{OrderID: o.ID})
		if err != nil {
			return err
		}
		if len(results) != 1 || results[0].Value != "Normal" || !results[0].MeasuredAt.Equal(now) {
			t.Fatalf("unexpected results: %+v", results)
		}

		if _, err := uow.Orders().FindByID(ctx, o.ID+1000); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		if _, err := uow.Results().FindByID(ctx, r.ID+1000); !errors.Is(err, domain.ErrResultNotFound) {
			t.Fatalf("expected ErrResultNotFound, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unit of work: %v", err)
	}
}

func testReferences(t *testing.T, s ports.Store) {
	err := within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.Orders().Create(ctx, &domain.LabOrder{PatientID: 424242, TestName: "CBC", OrderedAt: time.Now().UTC()})
	})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for order, got %v", err)
	}

	err = within(t, s, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.Results().Create(ctx, &domain.Result{OrderID: 424242, Value: "Normal", MeasuredAt: time.Now().UTC()})
	})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for result, got %v", err)
	}
}
