package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"cisattest/internal/anchor"
	anchorcache "cisattest/internal/anchor/cache"
	anchorrpc "cisattest/internal/anchor/rpc"
	"cisattest/internal/assessment"
	"cisattest/internal/audit"
	"cisattest/internal/catalog"
	"cisattest/internal/pin"
	"cisattest/internal/platform/config"
	"cisattest/internal/platform/httpserver"
	"cisattest/internal/platform/logger"
	"cisattest/internal/platform/metrics"
	platformredis "cisattest/internal/platform/redis"
	httptransport "cisattest/internal/transport/http"
)

const auditInboxSize = 256

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sgs := catalog.Load(cfg.CatalogPath, log)

	ledger, err := buildLedger(cfg, log)
	if err != nil {
		log.Error("ledger setup failed", "error", err)
		os.Exit(1)
	}

	anchorOpts := []anchor.Option{anchor.WithMetrics(m)}
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		anchorOpts = append(anchorOpts,
			anchor.WithCache(anchorcache.New(redisClient, cfg.VerifyCacheTTL, log)))
	}
	anchorSvc := anchor.NewService(ledger, log, anchorOpts...)

	reports := assessment.NewMemoryReportStore()
	var attestLog assessment.AttestationLog = assessment.NewMemoryAttestationLog()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database setup failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgLog := assessment.NewPostgresAttestationLog(db)
		if err := pgLog.EnsureSchema(ctx); err != nil {
			log.Error("database schema setup failed", "error", err)
			os.Exit(1)
		}
		attestLog = pgLog
	}

	svcOpts := []assessment.Option{assessment.WithMetrics(m)}

	uploader, err := pin.Select(cfg.Pin, http.DefaultClient, log)
	switch {
	case err == nil:
		log.Info("pinning provider selected", "provider", uploader.Name())
		svcOpts = append(svcOpts, assessment.WithPinner(uploader))
	case errors.Is(err, pin.ErrNotConfigured):
		log.Info("no pinning provider configured, pinning disabled")
	default:
		log.Error("pinning setup failed", "error", err)
		os.Exit(1)
	}

	svcOpts = append(svcOpts, assessment.WithAudit(startAudit(ctx, cfg, log)))

	svc := assessment.NewService(sgs, reports, attestLog, anchorSvc, log, svcOpts...)

	handler := httptransport.NewHandler(svc, log, m, cfg.Ledger.ExplorerBase)
	router := httptransport.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting cisattest", "addr", cfg.Addr, "safeguards", len(sgs))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildLedger picks the real JSON-RPC ledger when an RPC endpoint is
// configured and falls back to the in-memory ledger for local development.
func buildLedger(cfg config.Config, log *slog.Logger) (anchor.Ledger, error) {
	if cfg.Ledger.RPCURL == "" {
		log.Info("no RPC endpoint configured, using in-memory ledger")
		return anchor.NewMemoryLedger(), nil
	}
	return anchorrpc.New(cfg.Ledger, log)
}

// startAudit wires the audit pipeline: Kafka sink when brokers are
// configured, in-memory otherwise. The worker drains the inbox until the
// process context ends.
func startAudit(ctx context.Context, cfg config.Config, log *slog.Logger) *audit.Publisher {
	var store audit.Store = audit.NewMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka audit sink setup failed, falling back to memory", "error", err)
		} else {
			store = kafkaStore
			log.Info("kafka audit sink ready", "topic", cfg.Kafka.Topic)
		}
	}

	inbox := make(chan audit.Event, auditInboxSize)
	worker := audit.NewWorker(store, inbox, log)
	go func() {
		_ = worker.Run(ctx)
	}()
	return audit.NewPublisher(inbox, log)
}
