package ports

import (
	"context"

	"github.com/openlis/lis-backend/internal/core/domain"
)

// CreatePatientInput is the DTO passed from the transport layer to PatientService.
type CreatePatientInput struct {
	FirstName string
	LastName  string
	DOB       *string
}

type PatientService interface {
	Create(ctx context.Context, in CreatePatientInput) (*domain.Patient, error)
	Get(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
}

type CreateOrderInput struct {
	PatientID int64
	TestName  string
}

type OrderService interface {
	// Create fails with domain.ErrInvalidReference when the patient is unknown.
	Create(ctx context.Context, in CreateOrderInput) (*domain.LabOrder, error)
	Get(ctx context.Context, id int64) (*domain.LabOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.LabOrder, error)
}

type CreateResultInput struct {
	OrderID int64
	Value   string
}

type ResultService interface {
	// Create fails with domain.ErrInvalidReference when the order is unknown.
	Create(ctx context.Context, in CreateResultInput) (*domain.Result, error)
	Get(ctx context.Context, id int64) (*domain.Result, error)
	List(ctx context.Context, filter ResultFilter) ([]domain.Result, error)
}
