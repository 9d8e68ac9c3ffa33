package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/config"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	v1 "github.com/lguhealth/brgycare/internal/handler/v1"
	"github.com/lguhealth/brgycare/internal/repository/postgres"
	"github.com/lguhealth/brgycare/internal/service"
	"github.com/lguhealth/brgycare/pkg/auth"
	"github.com/lguhealth/brgycare/pkg/database"
	"github.com/lguhealth/brgycare/pkg/logger"
	"github.com/lguhealth/brgycare/pkg/metrics"
	"github.com/lguhealth/brgycare/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("brgycare", prometheus.DefaultRegisterer)

	childRepo := postgres.NewChildRepository(db)
	vaccineRepo := postgres.NewVaccineRepository(db)
	doseRepo := postgres.NewImmunizationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, cfg.Audit.BufferSize, log)
	defer auditSvc.Shutdown()

	registry := vaccine.DefaultRegistry()
	notifier := service.NewLogNotifier(log)

	eligibilitySvc := service.NewEligibilityService(doseRepo, vaccineRepo, registry, log)
	scheduleSvc := service.NewScheduleService(
		doseRepo, vaccineRepo, childRepo,
		eligibilitySvc, registry,
		auditSvc, notifier, collector, log,
	)
	inventorySvc := service.NewInventoryService(vaccineRepo, auditSvc, log)

	verifier := auth.NewVerifier(cfg.JWT)
	router := v1.NewRouter(
		cfg,
		verifier,
		collector,
		v1.NewImmunizationHandler(scheduleSvc, eligibilitySvc, log),
		v1.NewVaccineHandler(inventorySvc, log),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
