package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/adapters/database/pgsql"
	"github.com/SscSPs/sftp_txn_ingest/internal/adapters/secrets"
	"github.com/SscSPs/sftp_txn_ingest/internal/adapters/sftp"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/handlers"
	"github.com/SscSPs/sftp_txn_ingest/internal/metrics"
	"github.com/SscSPs/sftp_txn_ingest/internal/middleware"
	"github.com/SscSPs/sftp_txn_ingest/internal/scheduler"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils"
	"github.com/SscSPs/sftp_txn_ingest/pkg/config"
	"github.com/SscSPs/sftp_txn_ingest/pkg/database"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("sftp ingest exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.User, cfg.Database.Password, cfg.Database.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.User, cfg.Database.Password, cfg.Database.MigrationsPath, logger); err != nil {
			return err
		}
	}

	var secretStore gateways.SecretStore
	if cfg.SFTP.PasswordParam != "" || cfg.SFTP.KeyParam != "" {
		store, err := secrets.NewSSMStore(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		secretStore = store
	}

	metricsReporter := metrics.NewReporter()
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(
		cfg,
		pgsql.NewRepositoryProvider(dbPool),
		sftp.NewDialer(cfg.SFTP.KnownHostsPath, cfg.SFTP.ConnectTimeout),
		secretStore,
		services.MultiReporter{services.NewLogReporter(), metricsReporter, posthogClient},
	)
	invoker := handlers.NewInvoker(serviceContainer.Pipeline)

	if cfg.RunMode == config.RunModeOnce {
		result, err := invoker.HandleRequest(ctx, nil)
		if err != nil {
			return err
		}
		logger.Info("Ingest run finished", slog.String("result", result))
		return nil
	}

	return serve(ctx, cfg, logger, serviceContainer, invoker, metricsReporter, posthogClient)
}

func serve(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	serviceContainer *portssvc.ServiceContainer,
	invoker *handlers.Invoker,
	metricsReporter *metrics.Reporter,
	posthogClient *utils.PosthogClientWrapper,
) error {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	limiterInstance, err := middleware.NewLimiter(cfg.Server.RateLimit)
	if err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		Metrics: metricsReporter.Handler(),
		Limiter: limiterInstance,
		Posthog: posthogClient,
	})

	if cfg.Server.RunInterval > 0 {
		sched, err := scheduler.New(scheduler.Config{
			Interval:     cfg.Server.RunInterval,
			RunOnStartup: true,
			Run:          invoker.Run,
			Logger:       logger,
		})
		if err != nil {
			return err
		}
		sched.Start(ctx)
		defer sched.Stop()
		logger.Info("Scheduled ingest enabled", slog.Duration("interval", cfg.Server.RunInterval))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
