package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	"github.com/BruksfildServices01/mascotico-api/internal/config"
	dbpkg "github.com/BruksfildServices01/mascotico-api/internal/db"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/infra/memstore"
	infraRepo "github.com/BruksfildServices01/mascotico-api/internal/infra/repository"
	"github.com/BruksfildServices01/mascotico-api/internal/infra/runstatus"
	"github.com/BruksfildServices01/mascotico-api/internal/logger"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/routes"
	"github.com/BruksfildServices01/mascotico-api/internal/scheduler"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/validators"
)

const shutdownTimeout = 15 * time.Second

// stores is the persistence chosen by STORE_DRIVER.
type stores struct {
	appointments domain.Repository
	references   domain.References
	calendar     calendar.Repository
	auditSink    audit.Sink
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validators.RegisterWithGin(); err != nil {
		return err
	}

	// ======================================================
	// INFRA
	// ======================================================
	st, err := openStores(cfg, zl)
	if err != nil {
		return err
	}

	dispatcher := audit.NewDispatcher(st.auditSink, zl)
	defer dispatcher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	clock := timezone.NewBusinessClock(cfg.Timezone)

	runs, closeRuns := openRunStore(cfg, zl)
	defer closeRuns()

	// ======================================================
	// RECONCILIATION
	// ======================================================
	reconcileUC := ucAppointment.NewReconcilePastAppointments(st.appointments, clock, dispatcher)
	sched := scheduler.New(reconcileUC, runs, m, zl, clock, scheduler.Options{
		Interval: cfg.ReconcileInterval,
		Location: clock.Location(),
		Timeout:  time.Minute,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          zl,
		Metrics:      m,
		Gatherer:     reg,
		Clock:        clock,
		Appointments: st.appointments,
		References:   st.references,
		Calendar:     st.calendar,
		Audit:        dispatcher,
		Reconcile:    sched,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("store", cfg.StoreDriver),
			zap.String("timezone", clock.Location().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		zl.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
	return nil
}

func openStores(cfg *config.Config, zl *zap.Logger) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		mem := memstore.New()
		mem.SeedDefaults(cfg.DefaultBranchID)
		zl.Warn("using in-memory store; data is lost on restart")
		return stores{
			appointments: mem,
			references:   mem,
			calendar:     mem,
			auditSink:    mem,
		}, nil
	}

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		return stores{}, err
	}
	return stores{
		appointments: infraRepo.NewAppointmentGormRepository(db, cfg.DBQueryTimeout),
		references:   infraRepo.NewReferenceGormRepository(db, cfg.DBQueryTimeout),
		calendar:     infraRepo.NewCalendarGormRepository(db, cfg.DBQueryTimeout),
		auditSink:    audit.New(db),
	}, nil
}

// openRunStore keeps the last reconcile run in redis when REDIS_ADDR is
// set, so every instance reports the same status.
func openRunStore(cfg *config.Config, zl *zap.Logger) (runstatus.Store, func()) {
	if cfg.RedisAddr == "" {
		return runstatus.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zl.Warn("redis unavailable, keeping reconcile status in memory", zap.Error(err))
		_ = client.Close()
		return runstatus.NewMemoryStore(), func() {}
	}

	return runstatus.NewRedisStore(client), func() { _ = client.Close() }
}
