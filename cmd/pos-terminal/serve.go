package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	catalogapp "github.com/dmehra2102/pos-terminal/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/pos-terminal/internal/catalog/infrastructure/http"
	"github.com/dmehra2102/pos-terminal/internal/config"
	orderapp "github.com/dmehra2102/pos-terminal/internal/order/application"
	orderhttp "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/http"
	orderkafka "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/pos-terminal/internal/session"
	terminalhttp "github.com/dmehra2102/pos-terminal/internal/terminal/http"
	"github.com/dmehra2102/pos-terminal/pkg/apiclient"
	"github.com/dmehra2102/pos-terminal/pkg/idempotency"
	"github.com/dmehra2102/pos-terminal/pkg/logging"
	"github.com/dmehra2102/pos-terminal/pkg/metrics"
	"github.com/dmehra2102/pos-terminal/pkg/outbox"
	"github.com/dmehra2102/pos-terminal/pkg/shutdown"
	"github.com/dmehra2102/pos-terminal/pkg/tracing"
)

func loadConfig(f *flags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	log := logging.New(cfg.LogLevel).With("terminal_id", cfg.TerminalID)
	return cfg, log, nil
}

func serve(parent context.Context, f *flags) error {
	cfg, log, err := loadConfig(f)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := shutdown.WithSignals(parent)
	defer cancel()

	tp, err := tracing.Init(ctx, appName, cfg.OTelEndpoint, log)
	if err != nil {
		return fmt.Errorf("otel init: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Backend
	api := apiclient.New(log, cfg.BackendURL, cfg.FetchTimeout)
	store := session.NewStore(log)
	nav := session.NewNavigator(store)
	catalog := catalogapp.NewService(log, cataloghttp.NewCatalogClient(api), store, m)

	opts := []orderapp.Option{
		orderapp.WithGracePeriod(cfg.GracePeriod),
		orderapp.WithTerminalID(cfg.TerminalID),
		orderapp.WithMetrics(m),
	}

	// Duplicate submission guard
	if cfg.GuardEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		opts = append(opts, orderapp.WithGuard(idempotency.NewStore(rdb, cfg.IdemTTL)))
		log.Info("submission guard enabled", "redis", cfg.RedisAddr)
	}

	// Order journal and outbox relay
	var journal *orderpg.Journal
	if cfg.JournalEnabled() {
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			return fmt.Errorf("pg connect: %w", err)
		}
		defer pool.Close()
		if err := orderpg.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("pg migrate: %w", err)
		}
		journal = orderpg.NewJournal(log, pool)
		opts = append(opts, orderapp.WithJournal(journal))

		writer := orderkafka.NewWriter(log, []string{cfg.KafkaAddr})
		defer writer.Close()
		publisher := outbox.NewPublisher(log, writer, cfg.OutboxTopic)
		relay := outbox.NewRelay(log, orderpg.NewOutboxStore(log, pool), publisher, cfg.TerminalID+"-relay", outbox.WithMetrics(m))
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Error("relay stopped with error", "err", err)
			}
		}()
		log.Info("order journal enabled", "topic", cfg.OutboxTopic)
	}

	mgr := orderapp.NewManager(log, store, orderhttp.NewSubmitter(api), nav, opts...)
	ctrl := session.NewController(log, store, nav, mgr)

	handler := terminalhttp.NewHandler(log, store, nav, ctrl, catalog, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if journal != nil {
		handler.WithJournal(journal, cfg.TerminalID)
	}

	go func() {
		if err := catalog.FetchInitialData(ctx); err != nil {
			log.Warn("initial catalog load incomplete", "err", err)
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	// Orders still in their grace period are submitted rather than dropped.
	if err := mgr.Close(shutdownCtx); err != nil {
		log.Error("pending orders not flushed", "err", err)
	}
	log.Info("pos-terminal shutdown complete")
	return nil
}
