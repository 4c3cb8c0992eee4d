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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/logging"
	"github.com/harentsoaR/hospital-api/internal/metrics"
	"github.com/harentsoaR/hospital-api/internal/router"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/session"
	"github.com/harentsoaR/hospital-api/internal/store"
	"github.com/harentsoaR/hospital-api/internal/store/memory"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hospital-api",
		Short:        "Hospital appointment API server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(seedAdminCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.IsDev())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			backend, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer backend.close()

			_, err = services.EnsureAdmin(ctx, backend.repos.Admins, utils.NewPasswordHasher(cfg.BcryptCost), cfg.AdminPassword, logger)
			return err
		},
	}
}

// recordStore is the selected record store together with its health check and
// shutdown hook.
type recordStore struct {
	repos  store.Repositories
	pinger handlers.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*recordStore, error) {
	if cfg.StoreBackend == "memory" {
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		mem := memory.New()
		return &recordStore{repos: mem.Repositories(), pinger: mem, close: func() {}}, nil
	}

	mongoStore, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTransactions)
	if err != nil {
		return nil, err
	}
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		_ = mongoStore.Disconnect(context.Background())
		return nil, err
	}
	logger.Info().
		Str("database", cfg.MongoDatabase).
		Bool("transactions", cfg.MongoTransactions).
		Msg("connected to MongoDB")

	return &recordStore{
		repos:  mongoStore.Repositories(),
		pinger: mongoStore,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoStore.Disconnect(ctx); err != nil {
				logger.Error().Err(err).Msg("mongo disconnect failed")
			}
		},
	}, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.IsDev())
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := openStore(startCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.close()

	redisClient := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	if err := redisClient.Ping(startCtx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	signer, err := utils.NewTokenSigner(cfg.SessionSecret)
	if err != nil {
		return err
	}
	sessions := session.NewManager(session.NewRedisStore(redisClient), signer, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
	})

	passwords := utils.NewPasswordHasher(cfg.BcryptCost)
	if _, err := services.EnsureAdmin(startCtx, backend.repos.Admins, passwords, cfg.AdminPassword, logger); err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	h := handlers.NewHandler(backend.repos, sessions, passwords, services.NewNotifier(cfg.TextbeltAPIKey, logger), m, logger)
	r := router.New(h, sessions, m, logger, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Checks:      map[string]handlers.Pinger{"store": backend.pinger, "sessions": sessions},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
