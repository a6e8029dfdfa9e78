package domain

import "time"

// Patient is a person lab orders are placed for.
type Patient struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       *string `json:"dob"`
}

// LabOrder requests a single test for a patient.
type LabOrder struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	TestName  string    `json:"test_name"`
	OrderedAt time.Time `json:"ordered_at"`
}

// Result is a measured value recorded against an order.
type Result struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Value      string    `json:"value"`
	MeasuredAt time.Time `json:"measured_at"`
}
