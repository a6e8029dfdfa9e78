package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

type OrderService struct {
	store  ports.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(store ports.Store, logger zerolog.Logger) *OrderService {
	return &OrderService{store: store, logger: logger, now: time.Now}
}

// Create records an order for an existing patient. The patient lookup and
// the insert run in the same unit of work.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.LabOrder, error) {
	o := &domain.LabOrder{
		PatientID: in.PatientID,
		TestName:  in.TestName,
		OrderedAt: s.now().UTC(),
	}

	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		if _, err := uow.Patients().FindByID(ctx, in.PatientID); err != nil {
			if errors.Is(err, domain.ErrPatientNotFound) {
				return fmt.Errorf("%w: patient %d", domain.ErrInvalidReference, in.PatientID)
			}
			return err
		}
		return uow.Orders().Create(ctx, o)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidReference) {
			s.logger.Error().Err(err).Int64("patient_id", in.PatientID).Msg("failed to create order")
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().Int64("order_id", o.ID).Int64("patient_id", o.PatientID).Str("test_name", o.TestName).Msg("lab order created")
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.LabOrder, error) {
	var o *domain.LabOrder
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		found, err := uow.Orders().FindByID(ctx, id)
		o = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, filter ports.OrderFilter) ([]domain.LabOrder, error) {
	var out []domain.LabOrder
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		list, err := uow.Orders().List(ctx, filter)
		out = list
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}
