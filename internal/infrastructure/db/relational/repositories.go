package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return m.toDomain(), nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	m := accountModel{
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID = m.ID
	return nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&accountModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

type patientRepository struct {
	db *gorm.DB
}

func (r *patientRepository) Create(ctx context.Context, p *domain.Patient) error {
	m := patientModel{FirstName: p.FirstName, LastName: p.LastName, DOB: p.DOB}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = m.ID
	return nil
}

func (r *patientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	var m patientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	p := m.toDomain()
	return &p, nil
}

func (r *patientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	var rows []patientModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	out := make([]domain.Patient, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, o *domain.LabOrder) error {
	m := labOrderModel{PatientID: o.PatientID, TestName: o.TestName, OrderedAt: o.OrderedAt}
	if err := r.db.WithContext(ctx).Omit("Patient").Create(&m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: patient %d", domain.ErrInvalidReference, o.PatientID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = m.ID
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.LabOrder, error) {
	var m labOrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	o := m.toDomain()
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, f ports.OrderFilter) ([]domain.LabOrder, error) {
	q := r.db.WithContext(ctx).Order("id")
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}

	var rows []labOrderModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.LabOrder, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

type resultRepository struct {
	db *gorm.DB
}

func (r *resultRepository) Create(ctx context.Context, res *domain.Result) error {
	m := resultModel{OrderID: res.OrderID, Value: res.Value, MeasuredAt: res.MeasuredAt}
	if err := r.db.WithContext(ctx).Omit("Order").Create(&m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: order %d", domain.ErrInvalidReference, res.OrderID)
		}
		return fmt.Errorf("insert result: %w", err)
	}
	res.ID = m.ID
	return nil
}

func (r *resultRepository) FindByID(ctx context.Context, id int64) (*domain.Result, error) {
	var m resultModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	res := m.toDomain()
	return &res, nil
}

func (r *resultRepository) List(ctx context.Context, f ports.ResultFilter) ([]domain.Result, error) {
	q := r.db.WithContext(ctx).Order("id")
	if f.OrderID != 0 {
		q = q.Where("order_id = ?", f.OrderID)
	}

	var rows []resultModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.Result, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// Dialects without an error translator for a given code still report the
// constraint in the message.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
