// cmd/techflow-web/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techflow-careers/internal/common/camunda"
	"techflow-careers/internal/common/config"
	"techflow-careers/internal/common/database"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/observability"
	"techflow-careers/internal/content"
	"techflow-careers/internal/submission"
	"techflow-careers/internal/web"
	"techflow-careers/internal/wizard"

	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting careers web server...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown(context.Background())
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio); err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		}
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	readyChecks := map[string]web.HealthCheck{
		"postgres": pg.Ping,
		"redis":    rdb.Ping,
	}

	// --- Init Elasticsearch; the site runs without search if it is down ---
	var searcher web.CareerSearcher
	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err == nil {
		err = retryWithBackoff(func() error { return esClient.Ping(ctx) }, 5, 2*time.Second, log, "Elasticsearch connection")
	}
	if err != nil {
		zapLog.Warn("elasticsearch unavailable, career search disabled", zap.Error(err))
	} else {
		searcher = content.NewSearch(esClient, cfg.Careers.Index, log)
		readyChecks["elasticsearch"] = esClient.Ping
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init Zeebe client; applications are stored even without it ---
	var workflow submission.ProcessStarter
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 5, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			zapLog.Warn("zeebe unavailable, applications will not start workflows", zap.Error(err))
		} else {
			defer zeebe.Close()
			workflow = zeebe
			readyChecks["zeebe"] = zeebe.HealthCheck
			zapLog.Info("Zeebe client connected successfully")
		}
	}

	careers := content.NewRepository(pg.DB, rdb.Client, config.GetDuration(cfg.Careers.CacheTTL), log)

	sink := submission.NewService(
		submission.Config{
			ProcessID: cfg.Camunda.ProcessID,
			Timeout:   config.GetDuration(cfg.Server.SubmitTimeout),
		},
		careers,
		submission.NewRecorder(pg.DB, log),
		workflow,
		log,
	)

	wizards := wizard.NewStore(sink, config.GetDuration(cfg.Server.WizardIdleTTL),
		wizard.WithMessageTTL(config.GetDuration(cfg.Server.MessageTTL)),
		wizard.WithLogger(log),
	)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go wizards.RunSweeper(sweepCtx, time.Minute)

	server, err := web.NewServer(web.Options{
		SessionSecret:   cfg.Server.SessionSecret,
		SessionMaxAge:   cfg.Server.SessionMaxAge,
		SecureCookies:   cfg.Server.SecureCookies,
		SubmitTimeout:   config.GetDuration(cfg.Server.SubmitTimeout),
		MaxUploadMemory: cfg.Server.MaxUploadMemory,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ReadyChecks:     readyChecks,
		Observability:   obs,
	}, careers, searcher, wizards, log)
	if err != nil {
		zapLog.Fatal("web server setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Careers site listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}
	zapLog.Info("Careers web server stopped gracefully")
}
