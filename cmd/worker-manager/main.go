// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/camunda"
	"campus-gig-workers/internal/common/config"
	"campus-gig-workers/internal/common/database"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/observability"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/payment"
	"campus-gig-workers/internal/ranking"
	"campus-gig-workers/internal/store/cache"
	"campus-gig-workers/internal/store/postgres"
	"campus-gig-workers/internal/store/search"

	// Ranking Workers (3)
	rg "campus-gig-workers/internal/workers/ranking/recommend-gigs"
	rt "campus-gig-workers/internal/workers/ranking/recommend-talent"
	sg "campus-gig-workers/internal/workers/ranking/search-gigs"

	// Escrow Workers (6)
	aa "campus-gig-workers/internal/workers/escrow/accept-application"
	cr "campus-gig-workers/internal/workers/escrow/confirm-release"
	lde "campus-gig-workers/internal/workers/escrow/lock-direct-escrow"
	le "campus-gig-workers/internal/workers/escrow/lock-escrow"
	re "campus-gig-workers/internal/workers/escrow/refund-escrow"
	rde "campus-gig-workers/internal/workers/escrow/release-direct-escrow"

	// Wallet Workers (4)
	gb "campus-gig-workers/internal/workers/wallet/get-balance"
	rw "campus-gig-workers/internal/workers/wallet/request-withdrawal"
	stx "campus-gig-workers/internal/workers/wallet/settle-transaction"
	vd "campus-gig-workers/internal/workers/wallet/verify-deposit"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// deps is everything the workers are built from.
type deps struct {
	ledger     *ledger.Ledger
	resolver   auth.Resolver
	payments   *payment.Verifier
	engine     *ranking.Engine
	profiles   ranking.ProfileSource
	candidates ranking.CandidateSource
	obs        *observability.Observability
	log        logger.Logger
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Ledger schema ensured")
	}

	checkers := []database.Checker{zeebe, pg}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		redis = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		checkers = append(checkers, redis)
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checkers = append(checkers, esClient)
		zapLog.Info("Elasticsearch connected successfully")
	}

	d := buildDeps(cfg, pg, redis, esClient, obs, log)
	zapLog.Info("Ledger, payments and ranking initialized",
		zap.String("authMode", cfg.Auth.Mode),
		zap.String("lockBackend", cfg.Escrow.LockBackend),
		zap.String("candidateSource", cfg.Ranking.CandidateSource),
	)

	workers := registerWorkers(zeebe, cfg, d, zapLog)
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := newHealthServer(cfg.Server.Address, checkers)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func buildDeps(cfg *config.Config, pg *database.PostgresClient, redis *database.RedisClient, es *database.ElasticsearchClient, obs *observability.Observability, log logger.Logger) deps {
	var locker lock.Locker
	switch cfg.Escrow.LockBackend {
	case config.LockBackendRedis:
		locker = lock.NewRedis(redis.Client,
			config.GetDuration(cfg.Escrow.LockTTL),
			config.GetDuration(cfg.Escrow.LockWait),
			log)
	default:
		locker = lock.NewLocal(config.GetDuration(cfg.Escrow.LockWait))
	}

	directory := postgres.NewDirectory(pg.DB, log)

	var resolver auth.Resolver = directory
	if cfg.Auth.Mode == config.AuthModeKeycloak {
		kc := cfg.Auth.Keycloak
		resolver = auth.NewKeycloakClient(auth.KeycloakOptions{
			BaseURL:      kc.URL,
			Realm:        kc.Realm,
			ClientID:     kc.ClientID,
			ClientSecret: kc.ClientSecret,
			AdminRole:    kc.AdminRole,
			PosterRole:   kc.PosterRole,
		})
	}

	gw := cfg.Payments.Gateway
	payments := payment.NewVerifier(cfg.Payments.SignatureSecret, payment.NewHTTPGateway(payment.HTTPGatewayConfig{
		BaseURL:    gw.BaseURL,
		KeyID:      gw.KeyID,
		KeySecret:  gw.KeySecret,
		Timeout:    config.GetDuration(gw.Timeout),
		MinorUnits: gw.MinorUnits,
	}))

	var candidates ranking.CandidateSource = postgres.NewCandidates(pg.DB)
	if cfg.Ranking.CandidateSource == config.CandidateSourceElasticsearch {
		candidates = search.NewCandidates(es.Client,
			cfg.Database.Elasticsearch.GigIndex,
			cfg.Database.Elasticsearch.UserIndex,
			log)
	}

	var profiles ranking.ProfileSource = directory
	if redis != nil {
		profiles = cache.NewProfiles(redis.Client, directory, config.GetDuration(cfg.Database.Redis.ProfileTTL), log)
	}

	return deps{
		ledger:   ledger.New(postgres.NewLedgerStore(pg.DB), locker, log),
		resolver: resolver,
		payments: payments,
		engine: ranking.NewEngine(
			ranking.WithLimit(cfg.Ranking.DefaultLimit),
			ranking.WithRadiusKm(cfg.Ranking.RadiusKm),
		),
		profiles:   profiles,
		candidates: candidates,
		obs:        obs,
		log:        log,
	}
}

func timeoutFor(cfg *config.Config, taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
}

type validator interface {
	Validate() error
}

func registerWorkers(zeebe *camunda.Client, cfg *config.Config, d deps, zapLog *zap.Logger) []worker.JobWorker {
	withObs := camunda.WithObservability(d.obs)

	sgCfg := &sg.Config{Timeout: timeoutFor(cfg, sg.TaskType), MaxCandidates: cfg.Ranking.MaxCandidates}
	rgCfg := &rg.Config{Timeout: timeoutFor(cfg, rg.TaskType), MaxCandidates: cfg.Ranking.MaxCandidates}
	rtCfg := &rt.Config{Timeout: timeoutFor(cfg, rt.TaskType), MaxCandidates: cfg.Ranking.MaxCandidates}
	ldeCfg := &lde.Config{Timeout: timeoutFor(cfg, lde.TaskType)}
	rwCfg := &rw.Config{Timeout: timeoutFor(cfg, rw.TaskType), MinAmount: cfg.Wallet.MinWithdrawalAmount()}

	for name, c := range map[string]validator{
		sg.TaskType: sgCfg, rg.TaskType: rgCfg, rt.TaskType: rtCfg, lde.TaskType: ldeCfg, rw.TaskType: rwCfg,
	} {
		if err := c.Validate(); err != nil {
			zapLog.Fatal("invalid worker configuration", zap.String("taskType", name), zap.Error(err))
		}
	}

	handlers := map[string]camunda.JobHandler{
		// --- 1. Ranking Workers (3) ---
		sg.TaskType: sg.NewHandler(sgCfg, d.engine, d.profiles, d.candidates, d.log, withObs),
		rg.TaskType: rg.NewHandler(rgCfg, d.engine, d.profiles, d.candidates, d.log, withObs),
		rt.TaskType: rt.NewHandler(rtCfg, d.engine, d.profiles, d.candidates, d.log, withObs),

		// --- 2. Escrow Workers (6) ---
		aa.TaskType:  aa.NewHandler(&aa.Config{Timeout: timeoutFor(cfg, aa.TaskType)}, d.ledger, d.resolver, d.log, withObs),
		le.TaskType:  le.NewHandler(&le.Config{Timeout: timeoutFor(cfg, le.TaskType)}, d.ledger, d.resolver, d.log, withObs),
		cr.TaskType:  cr.NewHandler(&cr.Config{Timeout: timeoutFor(cfg, cr.TaskType)}, d.ledger, d.resolver, d.log, withObs),
		re.TaskType:  re.NewHandler(&re.Config{Timeout: timeoutFor(cfg, re.TaskType)}, d.ledger, d.resolver, d.log, withObs),
		lde.TaskType: lde.NewHandler(ldeCfg, d.ledger, d.payments, d.resolver, d.log, withObs),
		rde.TaskType: rde.NewHandler(&rde.Config{Timeout: timeoutFor(cfg, rde.TaskType)}, d.ledger, d.resolver, d.log, withObs),

		// --- 3. Wallet Workers (4) ---
		gb.TaskType: gb.NewHandler(&gb.Config{Timeout: timeoutFor(cfg, gb.TaskType)}, d.ledger, d.resolver, d.log, withObs),
		vd.TaskType: vd.NewHandler(&vd.Config{Timeout: timeoutFor(cfg, vd.TaskType)},
			d.ledger, d.payments, d.resolver, d.log, withObs),
		rw.TaskType:  rw.NewHandler(rwCfg, d.ledger, d.resolver, d.log, withObs),
		stx.TaskType: stx.NewHandler(&stx.Config{Timeout: timeoutFor(cfg, stx.TaskType)}, d.ledger, d.resolver, d.log, withObs),
	}

	var started []worker.JobWorker
	for taskType, handler := range handlers {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		started = append(started, camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, zapLog))
	}
	return started
}

func newHealthServer(addr string, checkers []database.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		failures := database.CheckAll(r.Context(), 3*time.Second, checkers...)
		if len(failures) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not ready",
				"failures": failures,
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
