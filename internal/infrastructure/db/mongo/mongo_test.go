package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
	"github.com/openlis/lis-backend/internal/infrastructure/db/storetest"
)

// Set LIS_TEST_MONGO_URI to run against a live server. Each subtest gets its
// own database, dropped on cleanup.
func TestStore_Conformance(t *testing.T) {
	uri := os.Getenv("LIS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LIS_TEST_MONGO_URI not set")
	}

	n := 0
	storetest.Run(t, func(t *testing.T) ports.Store {
		n++
		ctx := context.Background()
		s, err := Open(ctx, Config{URI: uri, Database: fmt.Sprintf("lis_test_%d_%d", time.Now().UnixNano(), n)})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() {
			_ = s.db.Drop(context.Background())
			_ = s.Close()
		})
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return s
	})
}

func TestHelloReply_SupportsTransactions(t *testing.T) {
	cases := []struct {
		name  string
		reply helloReply
		want  bool
	}{
		{"standalone", helloReply{}, false},
		{"replica set", helloReply{SetName: "rs0"}, true},
		{"mongos", helloReply{Msg: "isdbgrid"}, true},
	}
	for _, tc := range cases {
		if got := tc.reply.supportsTransactions(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestIsNamespaceExists(t *testing.T) {
	if !isNamespaceExists(mongo.CommandError{Code: 48, Name: "NamespaceExists"}) {
		t.Fatalf("code 48 should be recognised")
	}
	if isNamespaceExists(mongo.CommandError{Code: 11000}) || isNamespaceExists(errors.New("boom")) {
		t.Fatalf("other errors should not match")
	}
}

// Against a replica set, a failed unit of work must leave nothing behind.
func TestStore_UnitOfWorkRollsBackOnReplicaSet(t *testing.T) {
	uri := os.Getenv("LIS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LIS_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, Config{URI: uri, Database: fmt.Sprintf("lis_test_tx_%d", time.Now().UnixNano())})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close()
	})
	if !s.Transactional() {
		t.Skip("server does not support transactions")
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	boom := errors.New("boom")
	err = s.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		if err := uow.Patients().Create(ctx, &domain.Patient{FirstName: "A", LastName: "B"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.WithinUnitOfWork(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		list, err := uow.Patients().List(ctx)
		if err != nil {
			return err
		}
		if len(list) != 0 {
			t.Fatalf("expected rollback, found %d patients", len(list))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
}
