package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "github.com/emberline/staffauth/internal/auth/http"
	"github.com/emberline/staffauth/internal/auth/service"
	redisstore "github.com/emberline/staffauth/internal/auth/store/drivers/redis"
	"github.com/emberline/staffauth/internal/auth/store/drivers/sqlite"
	"github.com/emberline/staffauth/pkg/cryptox"
	"github.com/emberline/staffauth/pkg/slogx"
)

// BuildVersion is stamped at build time via -ldflags.
var BuildVersion = "dev"

// Application owns every long-lived resource of the process and knows how to
// shut them down in order.
type Application struct {
	cfg    Config
	logger *slog.Logger

	employees   *sqlite.Store
	revocations *redisstore.Store
	server      *http.Server
}

// New wires the full dependency graph: logger, pepper, sqlite with
// migrations, redis, session service, router, server. Any failure leaves no
// dangling resources behind.
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "staffauth",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	cryptox.SetPepperPath(cfg.PepperFile)

	employees, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open employee store: %w", err)
	}
	if err := employees.ApplyMigrations(); err != nil {
		_ = employees.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	revocations, err := redisstore.NewStore(ctx, redisstore.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		_ = employees.Close()
		return nil, fmt.Errorf("connect revocation store: %w", err)
	}

	svc, err := service.NewSessionService(employees, revocations, service.Config{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		Issuer:        cfg.Issuer,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		_ = revocations.Close()
		_ = employees.Close()
		return nil, fmt.Errorf("build session service: %w", err)
	}

	router := authhttp.NewRouter(BuildVersion, employees, revocations, logger)
	router.SessionService = svc
	router.ApplyRoutes()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Application{
		cfg:         cfg,
		logger:      logger,
		employees:   employees,
		revocations: revocations,
		server:      server,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests within the
// configured grace period.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.closeStores()
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		a.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.closeStores()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

func (a *Application) closeStores() {
	if err := a.revocations.Close(); err != nil {
		a.logger.Error("close revocation store", "err", err)
	}
	if err := a.employees.Close(); err != nil {
		a.logger.Error("close employee store", "err", err)
	}
}
