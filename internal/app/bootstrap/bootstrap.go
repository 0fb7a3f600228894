package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	electionregistry "votingregistry/contexts/governance/election-registry"
	postgresadapter "votingregistry/contexts/governance/election-registry/adapters/postgres"
	workerapp "votingregistry/contexts/governance/election-registry/application/workers"
	"votingregistry/internal/platform/config"
	"votingregistry/internal/platform/db"
	"votingregistry/internal/platform/httpserver"
	"votingregistry/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	provisionTimeout = 10 * time.Second
	shutdownTimeout  = 15 * time.Second
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	// embedded is set when the API runs on the in-memory store, where no
	// separate worker process can read the outbox.
	embedded     *notificationPipeline
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	pipeline     notificationPipeline
	pollInterval time.Duration
	logger       *slog.Logger
}

type notificationPipeline struct {
	outboxRelay workerapp.OutboxRelay
	audit       workerapp.NotificationAuditConsumer
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	app := &APIApp{
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	var module electionregistry.Module
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, election state is kept in memory",
			"event", "bootstrap_api_in_memory",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"election_id", cfg.ElectionID,
		)
		module = electionregistry.NewInMemoryModule(nil, nil, cfg.ElectionID, logger)

		kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, err
		}
		app.embedded = &notificationPipeline{
			outboxRelay: workerapp.OutboxRelay{
				Outbox:    module.Store,
				Publisher: kafka,
				Clock:     module.Store,
				BatchSize: cfg.OutboxBatchSize,
				Logger:    logger,
			},
			audit: workerapp.NotificationAuditConsumer{
				Subscriber: kafka,
				Dedup:      module.Store,
				Clock:      module.Store,
				Disabled:   !cfg.EnableNotificationAuditConsumer,
				Logger:     logger,
			},
		}
	} else {
		pg, repo, err := connectRepository(cfg, logger)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
		module = electionregistry.NewModule(electionregistry.Dependencies{
			Elections:  repo,
			Clock:      postgresadapter.SystemClock{},
			IDGen:      postgresadapter.UUIDGenerator{},
			ElectionID: cfg.ElectionID,
			Logger:     logger,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()
	election, err := module.Provision(ctx, cfg.ElectionOwner)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	logger.Info("election provisioned",
		"event", "bootstrap_election_provisioned",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"election_id", election.ElectionID,
		"owner", election.Owner,
		"workflow_status", election.Status.String(),
	)

	app.server = httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, repo, err := connectRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		pipeline: notificationPipeline{
			outboxRelay: workerapp.OutboxRelay{
				Outbox:    repo,
				Publisher: kafka,
				Clock:     postgresadapter.SystemClock{},
				BatchSize: cfg.OutboxBatchSize,
				Logger:    logger,
			},
			audit: workerapp.NotificationAuditConsumer{
				Subscriber: kafka,
				Dedup:      repo,
				Clock:      postgresadapter.SystemClock{},
				DedupTTL:   7 * 24 * time.Hour,
				Disabled:   !cfg.EnableNotificationAuditConsumer,
				Logger:     logger,
			},
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func connectRepository(cfg config.Config, logger *slog.Logger) (*db.Postgres, *postgresadapter.Repository, error) {
	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, nil, err
	}
	repo := postgresadapter.NewRepository(pg.DB, logger)
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
	}
	return pg, repo, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.embedded != nil {
		if err := a.embedded.audit.Start(ctx); err != nil {
			return err
		}
		go a.embedded.outboxRelay.Run(ctx, a.pollInterval)
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_relay", a.embedded != nil,
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Start()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.pipeline.audit.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.pipeline.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
