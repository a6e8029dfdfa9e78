// Command seed migrates the configured store and fills it with demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/openlis/lis-backend/internal/core/service"
	"github.com/openlis/lis-backend/internal/infrastructure/config"
	"github.com/openlis/lis-backend/internal/infrastructure/db"
	"github.com/openlis/lis-backend/pkg/logger"
)

func main() {
	patients := flag.Int("patients", 20, "number of demo patients to create")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "lis-seed", Env: cfg.Env})

	store, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Seeding is all-or-nothing except on a standalone Mongo server, where a
	// failure part way leaves accounts behind and later runs skip. Drop the
	// database before retrying there.
	if tx, ok := store.(interface{ Transactional() bool }); ok && !tx.Transactional() {
		log.Warn().Msg("store is not transactional; a failed seed must be cleaned up by hand")
	}

	seeder := service.NewSeeder(store, service.NewBcryptHasher(cfg.Auth.BcryptCost), log, *seed)
	summary, err := seeder.Seed(ctx, *patients)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	log.Info().
		Int("accounts", summary.Accounts).
		Int("patients", summary.Patients).
		Int("orders", summary.Orders).
		Int("results", summary.Results).
		Msg("seed complete")

	if summary.Accounts > 0 {
		printDemoAccounts(os.Stdout)
	}
}

// printDemoAccounts writes the seeded credentials to w. They are kept out of
// the structured log so passwords never reach log storage.
func printDemoAccounts(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tPASSWORD\tROLE")
	for _, a := range service.DemoAccounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Username, a.Password, a.Role)
	}
	_ = tw.Flush()
}
