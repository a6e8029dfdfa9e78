package handler

import "github.com/openlis/lis-backend/internal/core/domain"

func toPatientResponse(p *domain.Patient) patientResponse {
	return patientResponse{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, DOB: p.DOB}
}

func toOrderResponse(o *domain.LabOrder) orderResponse {
	return orderResponse{ID: o.ID, PatientID: o.PatientID, TestName: o.TestName, OrderedAt: o.OrderedAt}
}

func toResultResponse(r *domain.Result) resultResponse {
	return resultResponse{ID: r.ID, OrderID: r.OrderID, Value: r.Value, MeasuredAt: r.MeasuredAt}
}

// mapSlice converts a list of entities, always returning a non-nil slice so
// empty collections encode as [] rather than null.
func mapSlice[T any, R any](in []T, fn func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
