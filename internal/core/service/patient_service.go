package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

type PatientService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewPatientService(store ports.Store, logger zerolog.Logger) *PatientService {
	return &PatientService{store: store, logger: logger}
}

func (s *PatientService) Create(ctx context.Context, in ports.CreatePatientInput) (*domain.Patient, error) {
	p := &domain.Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DOB:       in.DOB,
	}

	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.Patients().Create(ctx, p)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create patient")
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info().Int64("patient_id", p.ID).Msg("patient created")
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id int64) (*domain.Patient, error) {
	var p *domain.Patient
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		found, err := uow.Patients().FindByID(ctx, id)
		p = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatientService) List(ctx context.Context) ([]domain.Patient, error) {
	var out []domain.Patient
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		list, err := uow.Patients().List(ctx)
		out = list
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}
