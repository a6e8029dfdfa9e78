package ports

import (
	"context"

	"github.com/openlis/lis-backend/internal/core/domain"
)

// Store is the persistence substrate shared by all services.
type Store interface {
	// WithinUnitOfWork acquires a unit of work, runs fn against it and
	// releases it before returning. Writes are committed when fn returns nil
	// and discarded otherwise.
	WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// UnitOfWork groups the repositories that share one persistence session.
type UnitOfWork interface {
	Accounts() AccountRepository
	Patients() PatientRepository
	Orders() OrderRepository
	Results() ResultRepository
}

// AccountRepository is the credential store.
type AccountRepository interface {
	// FindByUsername returns domain.ErrAccountNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Create assigns the ID. A username collision yields domain.ErrDuplicateIdentity.
	Create(ctx context.Context, account *domain.Account) error
	Count(ctx context.Context) (int64, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
}

// OrderFilter narrows List; a zero PatientID matches every order.
type OrderFilter struct {
	PatientID int64
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.LabOrder) error
	FindByID(ctx context.Context, id int64) (*domain.LabOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.LabOrder, error)
}

// ResultFilter narrows List; a zero OrderID matches every result.
type ResultFilter struct {
	OrderID int64
}

type ResultRepository interface {
	Create(ctx context.Context, r *domain.Result) error
	FindByID(ctx context.Context, id int64) (*domain.Result, error)
	List(ctx context.Context, filter ResultFilter) ([]domain.Result, error)
}
