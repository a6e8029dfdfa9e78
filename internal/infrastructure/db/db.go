// Package db selects and opens the configured persistence backend.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/ports"
	"github.com/openlis/lis-backend/internal/infrastructure/config"
	"github.com/openlis/lis-backend/internal/infrastructure/db/mongo"
	"github.com/openlis/lis-backend/internal/infrastructure/db/relational"
)

// Open returns a connected store for cfg.Driver. The memory driver is an
// in-memory SQLite database; its data is lost on exit.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (ports.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Warn().Msg("using in-memory store; data is not persisted")
		return relational.Open(ctx, relational.Config{
			Driver:   relational.DriverSQLite,
			DSN:      relational.MemoryDSN,
			LogLevel: cfg.LogLevel,
		}, log)
	case config.DriverPostgres, config.DriverMySQL, config.DriverSQLite:
		return relational.Open(ctx, relational.Config{
			Driver:   cfg.Driver,
			DSN:      cfg.URL,
			LogLevel: cfg.LogLevel,
		}, log)
	case config.DriverMongo:
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.URL, Database: cfg.Name})
		if err != nil {
			return nil, err
		}
		if !s.Transactional() {
			log.Warn().Msg("mongo deployment has no transactions; a failed operation may leave partial writes")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
