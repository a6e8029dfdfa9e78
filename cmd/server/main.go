// @title           LIS API
// @version         1.0
// @description     Laboratory information system: patients, lab orders and results behind bearer-token auth.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openlis/lis-backend/internal/api"
	"github.com/openlis/lis-backend/internal/core/service"
	"github.com/openlis/lis-backend/internal/infrastructure/config"
	"github.com/openlis/lis-backend/internal/infrastructure/db"
	"github.com/openlis/lis-backend/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "lis-backend",
		Env:     cfg.Env,
	})
	if cfg.UsingDevSecret() {
		log.Warn().Msg("SECRET_KEY not set; signing tokens with the development placeholder")
	}

	store, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open database")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(
		store,
		hasher,
		service.NewJWTIssuer(cfg.Auth.SecretKey),
		service.AuthConfig{TokenTTL: cfg.Auth.TokenTTL(), RestrictRoles: cfg.Auth.RestrictRoles},
		log,
	)

	e := api.NewRouter(api.Services{
		Auth:     authService,
		Gate:     service.NewAccessGate(),
		Patients: service.NewPatientService(store, log),
		Orders:   service.NewOrderService(store, log),
		Results:  service.NewResultService(store, log),
		Store:    store,
	}, api.Options{
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		MetricsEnabled:     cfg.HTTP.MetricsEnabled,
		SwaggerEnabled:     cfg.HTTP.SwaggerEnabled,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Database.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited")
}
