package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"omitempty,max=50"`
}

type registerResponse struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
	Role     string `json:"role"`
}

// tokenRequest is submitted as application/x-www-form-urlencoded.
type tokenRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// --- Patients ---

type createPatientRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name"  validate:"required,max=100"`
	DOB       *string `json:"dob"`
}

type patientResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       *string `json:"dob"`
}

// --- Lab orders ---

type createOrderRequest struct {
	PatientID int64  `json:"patient_id" validate:"required,gt=0"`
	TestName  string `json:"test_name"  validate:"required,max=200"`
}

type orderResponse struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	TestName  string    `json:"test_name"`
	OrderedAt time.Time `json:"ordered_at"`
}

// --- Results ---

type createResultRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Value   string `json:"value"    validate:"required,max=1000"`
}

type resultResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Value      string    `json:"value"`
	MeasuredAt time.Time `json:"measured_at"`
}
