// cmd/financeflow-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"financeflow/internal/common/aws"
	"financeflow/internal/common/config"
	"financeflow/internal/common/database"
	"financeflow/internal/common/logger"
	"financeflow/internal/common/observability"
	"financeflow/internal/loanid"
	"financeflow/internal/notify"
	"financeflow/internal/otp"
	"financeflow/internal/repository"
	"financeflow/internal/search"
	"financeflow/internal/server"
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

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting financeflow server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("financeflow-server")
	defer obs.Shutdown()

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
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional) ---
	var indexer *search.Indexer
	if len(cfg.Database.Elasticsearch.Addresses) > 0 || cfg.Database.Elasticsearch.URL != "" {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, admin search disabled", zap.Error(err))
		} else {
			indexer = search.NewIndexer(esClient.Client, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init AWS clients (optional) ---
	var notifier *notify.Notifier
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("ses client init failed, email disabled", zap.Error(err))
		} else {
			notifier = notify.NewNotifier(sesClient, cfg.Integrations.AWS.SES.FromEmail, log)
		}
	}

	var otpService *otp.Service
	if cfg.Auth.OTP.Enabled {
		var sender otp.Sender
		if cfg.Integrations.AWS.SNS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Warn("sns client init failed, otp codes will not be delivered", zap.Error(err))
			} else {
				sender = snsClient
			}
		}
		otpService = otp.NewService(
			redis.Client, sender,
			cfg.Auth.OTP.Length,
			time.Duration(cfg.Auth.OTP.TTLSeconds)*time.Second,
			log,
		)
	}

	app := server.NewApp(server.Options{
		Config:       cfg,
		Logger:       log,
		Users:        repository.NewUserRepo(pg.DB, log),
		Applications: repository.NewLoanApplicationRepo(pg.DB, log),
		LoanTypes: repository.NewLoanTypeRepo(
			pg.DB, redis.Client,
			time.Duration(cfg.Loans.TypeCacheTTLSeconds)*time.Second,
			log,
		),
		LoanIDs:  loanid.NewGenerator(pg.DB, log),
		OTP:      otpService,
		Notifier: notifier,
		Indexer:  indexer,
		Obs:      obs,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
