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

type ResultService struct {
	store  ports.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewResultService(store ports.Store, logger zerolog.Logger) *ResultService {
	return &ResultService{store: store, logger: logger, now: time.Now}
}

// Create records a measured value against an existing order.
func (s *ResultService) Create(ctx context.Context, in ports.CreateResultInput) (*domain.Result, error) {
	r := &domain.Result{
		OrderID:    in.OrderID,
		Value:      in.Value,
		MeasuredAt: s.now().UTC(),
	}

	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		if _, err := uow.Orders().FindByID(ctx, in.OrderID); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return fmt.Errorf("%w: order %d", domain.ErrInvalidReference, in.OrderID)
			}
			return err
		}
		return uow.Results().Create(ctx, r)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidReference) {
			s.logger.Error().Err(err).Int64("order_id", in.OrderID).Msg("failed to create result")
		}
		return nil, fmt.Errorf("create result: %w", err)
	}

	s.logger.Info().Int64("result_id", r.ID).Int64("order_id", r.OrderID).Msg("result recorded")
	return r, nil
}

func (s *ResultService) Get(ctx context.Context, id int64) (*domain.Result, error) {
	var r *domain.Result
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		found, err := uow.Results().FindByID(ctx, id)
		r = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResultService) List(ctx context.Context, filter ports.ResultFilter) ([]domain.Result, error) {
	var out []domain.Result
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		list, err := uow.Results().List(ctx, filter)
		out = list
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}
