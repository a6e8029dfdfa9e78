package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

type mongoPatient struct {
	ID        int64   `bson:"_id"`
	FirstName string  `bson:"first_name"`
	LastName  string  `bson:"last_name"`
	DOB       *string `bson:"dob,omitempty"`
}

func (m mongoPatient) toDomain() domain.Patient {
	return domain.Patient{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, DOB: m.DOB}
}

type PatientRepository struct {
	coll *mongo.Collection
	ids  *sequence
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	id, err := r.ids.next(ctx, collPatients)
	if err != nil {
		return err
	}
	doc := mongoPatient{ID: id, FirstName: p.FirstName, LastName: p.LastName, DOB: p.DOB}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = id
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	var m mongoPatient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	p := m.toDomain()
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	var rows []mongoPatient
	if err := findAll(ctx, r.coll, bson.M{}, &rows); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	out := make([]domain.Patient, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

type mongoOrder struct {
	ID        int64     `bson:"_id"`
	PatientID int64     `bson:"patient_id"`
	TestName  string    `bson:"test_name"`
	OrderedAt time.Time `bson:"ordered_at"`
}

func (m mongoOrder) toDomain() domain.LabOrder {
	return domain.LabOrder{ID: m.ID, PatientID: m.PatientID, TestName: m.TestName, OrderedAt: m.OrderedAt.UTC()}
}

type OrderRepository struct {
	coll     *mongo.Collection
	patients *mongo.Collection
	ids      *sequence
}

// Create checks the patient reference itself; MongoDB has no foreign keys.
func (r *OrderRepository) Create(ctx context.Context, o *domain.LabOrder) error {
	if err := mustExist(ctx, r.patients, o.PatientID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: patient %d", domain.ErrInvalidReference, o.PatientID)
		}
		return fmt.Errorf("check patient: %w", err)
	}

	id, err := r.ids.next(ctx, collOrders)
	if err != nil {
		return err
	}
	doc := mongoOrder{ID: id, PatientID: o.PatientID, TestName: o.TestName, OrderedAt: o.OrderedAt.UTC()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.LabOrder, error) {
	var m mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	o := m.toDomain()
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]domain.LabOrder, error) {
	filter := bson.M{}
	if f.PatientID != 0 {
		filter["patient_id"] = f.PatientID
	}

	var rows []mongoOrder
	if err := findAll(ctx, r.coll, filter, &rows); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.LabOrder, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

type mongoResult struct {
	ID         int64     `bson:"_id"`
	OrderID    int64     `bson:"order_id"`
	Value      string    `bson:"value"`
	MeasuredAt time.Time `bson:"measured_at"`
}

func (m mongoResult) toDomain() domain.Result {
	return domain.Result{ID: m.ID, OrderID: m.OrderID, Value: m.Value, MeasuredAt: m.MeasuredAt.UTC()}
}

type ResultRepository struct {
	coll   *mongo.Collection
	orders *mongo.Collection
	ids    *sequence
}

func (r *ResultRepository) Create(ctx context.Context, res *domain.Result) error {
	if err := mustExist(ctx, r.orders, res.OrderID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: order %d", domain.ErrInvalidReference, res.OrderID)
		}
		return fmt.Errorf("check order: %w", err)
	}

	id, err := r.ids.next(ctx, collResults)
	if err != nil {
		return err
	}
	doc := mongoResult{ID: id, OrderID: res.OrderID, Value: res.Value, MeasuredAt: res.MeasuredAt.UTC()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	res.ID = id
	return nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id int64) (*domain.Result, error) {
	var m mongoResult
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	res := m.toDomain()
	return &res, nil
}

func (r *ResultRepository) List(ctx context.Context, f ports.ResultFilter) ([]domain.Result, error) {
	filter := bson.M{}
	if f.OrderID != 0 {
		filter["order_id"] = f.OrderID
	}

	var rows []mongoResult
	if err := findAll(ctx, r.coll, filter, &rows); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.Result, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	cur, err := coll.Find(ctx, filter, byID)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func mustExist(ctx context.Context, coll *mongo.Collection, id int64) error {
	return coll.FindOne(ctx, bson.M{"_id": id}).Err()
}
