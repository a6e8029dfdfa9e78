package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// DemoAccount is a seeded login.
type DemoAccount struct {
	Username string
	Password string
	Role     domain.Role
}

// DemoAccounts are the credentials created by Seed.
var DemoAccounts = []DemoAccount{
	{Username: "admin", Password: "admin123", Role: domain.RoleAdmin},
	{Username: "tech1", Password: "tech123", Role: domain.RoleTechnician},
	{Username: "tech2", Password: "tech123", Role: domain.RoleTechnician},
	{Username: "doctor1", Password: "doc123", Role: domain.RoleDoctor},
}

var (
	demoFirstNames = []string{"Alice", "Bruno", "Chiara", "Dmitri", "Elena", "Farid", "Grace", "Hiro"}
	demoLastNames  = []string{"Brown", "Costa", "Dubois", "Evans", "Garcia", "Ivanova", "Kim", "Okafor"}
	demoTests      = []string{
		"Blood Test (CBC)",
		"Glucose Test",
		"Cholesterol Panel",
		"Liver Function Test",
		"Kidney Function Test",
		"Thyroid Test (TSH)",
		"Urinalysis",
		"Lipid Panel",
	}
	demoValues = []string{"Normal", "Abnormal", "Borderline", "Pending Review"}
)

// SeedSummary counts what Seed created.
type SeedSummary struct {
	Accounts int
	Patients int
	Orders   int
	Results  int
}

// Seeder fills an empty store with demo data for manual testing.
type Seeder struct {
	store  ports.Store
	hasher ports.PasswordHasher
	log    zerolog.Logger
	rng    *rand.Rand
	now    func() time.Time
}

func NewSeeder(store ports.Store, hasher ports.PasswordHasher, log zerolog.Logger, seed uint64) *Seeder {
	return &Seeder{
		store:  store,
		hasher: hasher,
		log:    log,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		now:    time.Now,
	}
}

// Seed creates demo accounts, patients, orders and results in a single unit
// of work. It does nothing when any account already exists.
func (s *Seeder) Seed(ctx context.Context, patients int) (SeedSummary, error) {
	var sum SeedSummary
	err := s.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		n, err := uow.Accounts().Count(ctx)
		if err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}
		if n > 0 {
			s.log.Info().Int64("accounts", n).Msg("store already populated, skipping seed")
			return nil
		}

		now := s.now().UTC()
		for _, d := range DemoAccounts {
			hash, err := s.hasher.Hash(d.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			a := &domain.Account{Username: d.Username, PasswordHash: hash, Role: d.Role, CreatedAt: now}
			if err := uow.Accounts().Create(ctx, a); err != nil {
				return fmt.Errorf("seed account %s: %w", d.Username, err)
			}
			sum.Accounts++
		}

		for i := 0; i < patients; i++ {
			dob := now.AddDate(-(18 + s.rng.IntN(62)), 0, -s.rng.IntN(365)).Format(time.DateOnly)
			p := &domain.Patient{
				FirstName: demoFirstNames[s.rng.IntN(len(demoFirstNames))],
				LastName:  demoLastNames[s.rng.IntN(len(demoLastNames))],
				DOB:       &dob,
			}
			if err := uow.Patients().Create(ctx, p); err != nil {
				return fmt.Errorf("seed patient: %w", err)
			}
			sum.Patients++

			for range 1 + s.rng.IntN(3) {
				o := &domain.LabOrder{
					PatientID: p.ID,
					TestName:  demoTests[s.rng.IntN(len(demoTests))],
					OrderedAt: now.AddDate(0, 0, -(1 + s.rng.IntN(30))),
				}
				if err := uow.Orders().Create(ctx, o); err != nil {
					return fmt.Errorf("seed order: %w", err)
				}
				sum.Orders++

				if s.rng.Float64() >= 0.8 {
					continue
				}
				r := &domain.Result{
					OrderID:    o.ID,
					Value:      demoValues[s.rng.IntN(len(demoValues))],
					MeasuredAt: o.OrderedAt.AddDate(0, 0, 1+s.rng.IntN(7)),
				}
				if err := uow.Results().Create(ctx, r); err != nil {
					return fmt.Errorf("seed result: %w", err)
				}
				sum.Results++
			}
		}
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}
	return sum, nil
}
