package relational

import (
	"time"

	"github.com/openlis/lis-backend/internal/core/domain"
)

type accountModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(50);not null;default:technician"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (accountModel) TableName() string { return "accounts" }

func (m *accountModel) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

type patientModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100);not null"`
	DOB       *string `gorm:"column:dob;type:varchar(32)"`
}

func (patientModel) TableName() string { return "patients" }

func (m *patientModel) toDomain() domain.Patient {
	return domain.Patient{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, DOB: m.DOB}
}

type labOrderModel struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	PatientID int64        `gorm:"not null;index"`
	Patient   patientModel `gorm:"foreignKey:PatientID;constraint:OnDelete:RESTRICT"`
	TestName  string       `gorm:"type:varchar(200);not null"`
	OrderedAt time.Time    `gorm:"not null"`
}

func (labOrderModel) TableName() string { return "lab_orders" }

func (m *labOrderModel) toDomain() domain.LabOrder {
	return domain.LabOrder{ID: m.ID, PatientID: m.PatientID, TestName: m.TestName, OrderedAt: m.OrderedAt}
}

type resultModel struct {
	ID         int64         `gorm:"primaryKey;autoIncrement"`
	OrderID    int64         `gorm:"not null;index"`
	Order      labOrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
	Value      string        `gorm:"type:varchar(1000);not null"`
	MeasuredAt time.Time     `gorm:"not null"`
}

func (resultModel) TableName() string { return "results" }

func (m *resultModel) toDomain() domain.Result {
	return domain.Result{ID: m.ID, OrderID: m.OrderID, Value: m.Value, MeasuredAt: m.MeasuredAt}
}
