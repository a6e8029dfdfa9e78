package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openlis/lis-backend/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collAccounts = "accounts"
	collPatients = "patients"
	collOrders   = "lab_orders"
	collResults  = "results"
	collCounters = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store implements ports.Store on MongoDB. On a replica set or sharded
// cluster each unit of work runs in a multi-document transaction. A
// standalone server has no transactions, so there a unit of work is a logical
// scope only: earlier writes survive a later failure. Integer ids come from an
// atomic counter and the unique index on accounts.username carries the
// username invariant in both modes.
type Store struct {
	client        *mongo.Client
	db            *mongo.Database
	transactional bool
}

// Open connects and wraps the database in a Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var reply helloReply
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo hello: %w", err)
	}
	return &Store{client: client, db: db, transactional: reply.supportsTransactions()}, nil
}

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// Transactions need a replica set member or a mongos router.
func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

// Transactional reports whether units of work are atomic on this deployment.
func (s *Store) Transactional() bool {
	return s.transactional
}

func (s *Store) WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	uow := &unitOfWork{db: s.db}
	if !s.transactional {
		return fn(ctx, uow)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	// WithTransaction retries fn on transient errors such as counter write
	// conflicts.
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, uow)
	})
	return err
}

// Migrate creates the indexes the repositories rely on.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Servers before 4.4 cannot create collections inside a transaction.
	for _, name := range []string{collAccounts, collPatients, collOrders, collResults, collCounters} {
		if err := s.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}

	if _, err := s.db.Collection(collAccounts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("accounts index: %w", err)
	}
	if _, err := s.db.Collection(collOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "patient_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("lab_orders index: %w", err)
	}
	if _, err := s.db.Collection(collResults).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("results index: %w", err)
	}
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == 48
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type unitOfWork struct {
	db *mongo.Database
}

func (u *unitOfWork) Accounts() ports.AccountRepository {
	return &AccountRepository{coll: u.db.Collection(collAccounts), ids: u.counters()}
}

func (u *unitOfWork) Patients() ports.PatientRepository {
	return &PatientRepository{coll: u.db.Collection(collPatients), ids: u.counters()}
}

func (u *unitOfWork) Orders() ports.OrderRepository {
	return &OrderRepository{coll: u.db.Collection(collOrders), patients: u.db.Collection(collPatients), ids: u.counters()}
}

func (u *unitOfWork) Results() ports.ResultRepository {
	return &ResultRepository{coll: u.db.Collection(collResults), orders: u.db.Collection(collOrders), ids: u.counters()}
}

func (u *unitOfWork) counters() *sequence {
	return &sequence{coll: u.db.Collection(collCounters)}
}

// sequence hands out monotonically increasing integer ids per collection.
type sequence struct {
	coll *mongo.Collection
}

func (s *sequence) next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}
