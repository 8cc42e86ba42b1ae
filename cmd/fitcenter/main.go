package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	adapthttp "fitcenter/internal/adapter/http"
	"fitcenter/internal/adapter/memory"
	"fitcenter/internal/adapter/postgres"
	"fitcenter/internal/adapter/redis"
	"fitcenter/internal/app"
	"fitcenter/internal/catalog"
	"fitcenter/internal/config"
	"fitcenter/internal/domain"
	"fitcenter/internal/logger"
)

// store is the persistence surface shared by the postgres and memory
// adapters.
type store interface {
	domain.UserRepository
	domain.UserDirectory
	domain.ProfileRepository
	domain.MeasurementRepository
	domain.FoodRepository
	domain.ExerciseRepository
	domain.DietRepository
	domain.WorkoutRepository
}

func main() {
	if err := run(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Default().SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db       store
		sessions domain.SessionRepository
		closers  []io.Closer
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		closers = append(closers, pg)
		db, sessions = pg, postgres.NewSessionRepo(pg)
		logger.Info("using postgres storage")
	} else {
		mem := memory.New()
		db, sessions = mem, mem.NewSessionRepo()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var cache domain.Cache
	if cfg.RedisURL != "" {
		rc, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		closers = append(closers, rc)
		cache = rc
		logger.Info("using redis cache")
	} else {
		cache = memory.NewCache()
	}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}()

	if cfg.SeedCatalog {
		nf, ne, err := catalog.Seed(ctx, db, db)
		if err != nil {
			return err
		}
		logger.Info("catalog seeded: %d foods, %d exercises", nf, ne)
	}

	authSvc := app.NewAuthService(db, sessions, db)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := authSvc.BootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("created superadmin %s", cfg.AdminUsername)
		}
	}

	srv := adapthttp.New(adapthttp.Services{
		Auth:         authSvc,
		Profiles:     app.NewProfileService(db, db, db, cache, cfg.CacheTTL),
		Measurements: app.NewMeasurementService(db, db, cfg.Nutrition, cache, cfg.CacheTTL),
		Diet:         app.NewDietService(db, db, db, db, cfg.Nutrition, cache, cfg.CacheTTL),
		Foods:        app.NewFoodService(db, db, cache, cfg.CacheTTL),
		Exercises:    app.NewExerciseService(db, cache, cfg.CacheTTL),
		Workouts:     app.NewWorkoutService(db, db, cache, cfg.CacheTTL),
		Users:        app.NewUserService(db, db, db, cache, cfg.CacheTTL),
	})

	if cfg.ForwardAuth {
		srv.WithForwardAuth(true)
		logger.Warn("forward auth enabled, trusting Remote-User header")
	}

	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return err
		}
		srv.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
		})
		logger.Info("sso enabled via %s", cfg.OIDC.Issuer)
	}

	go sweepSessions(ctx, authSvc)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, auth *app.AuthService) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := auth.CleanupSessions(ctx); err != nil {
				logger.Warn("session cleanup: %v", err)
			}
		}
	}
}
