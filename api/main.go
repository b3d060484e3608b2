package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rogerio-castellano/warehouse-inventory/internal/config"
	"github.com/rogerio-castellano/warehouse-inventory/internal/db"
	"github.com/rogerio-castellano/warehouse-inventory/internal/http/handlers"
	rl "github.com/rogerio-castellano/warehouse-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/warehouse-inventory/internal/http/router"
	"github.com/rogerio-castellano/warehouse-inventory/internal/logger"
	"github.com/rogerio-castellano/warehouse-inventory/internal/redissvc"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/seed"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

// @title Warehouse Inventory API
// @version 1.0
// @description REST API for listing, stocking and reporting on warehouse products.
// @host localhost:3000
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "warehouse-api",
		Short:         "Warehouse inventory HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.New(cfg.LogLevel, cfg.LogFormat)
			return serve(cmd.Context(), cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the bundled products into an empty collection and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.New(cfg.LogLevel, cfg.LogFormat)

			products, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := runSeed(cmd.Context(), cfg, products)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d skipped=%t\n", res.Inserted, res.Skipped)
			return nil
		},
	})

	return rootCmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := runSeed(ctx, cfg, products); err != nil {
		return err
	}

	limiter, closeLimiter, err := openLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	handler := router.NewRouter(router.Deps{
		Products: handlers.NewProductHandler(service.NewProductService(products)),
		Reports:  handlers.NewReportHandler(service.NewReportService(products)),
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repo.ProductRepository, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		slog.Warn("using the in-memory product store, data is lost on exit")
		return repo.NewInMemoryProductRepository(), func() {}, nil
	}

	client, coll, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() { disconnectMongo(client) }

	products := repo.NewMongoProductRepository(coll, cfg.StoreTimeout)
	if err := products.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, nil, err
	}
	return products, disconnect, nil
}

func disconnectMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("disconnect mongo", "error", err)
	}
}

func runSeed(ctx context.Context, cfg *config.Config, products repo.ProductRepository) (seed.Result, error) {
	data, err := seed.Source(cfg.SeedFile)
	if err != nil {
		return seed.Result{}, err
	}
	res, err := seed.Load(ctx, products, data)
	if err != nil {
		return seed.Result{}, fmt.Errorf("seed products: %w", err)
	}
	return res, nil
}

// openLimiter returns a nil limiter when rate limiting is disabled.
func openLimiter(ctx context.Context, cfg *config.Config) (rl.Limiter, func(), error) {
	if !cfg.RateLimitEnabled {
		return nil, func() {}, nil
	}

	if cfg.RedisAddr != "" {
		rdb, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		limiter := rl.NewRedisLimiter(rdb, "warehouse:ratelimit", cfg.RateLimitPerMinute, time.Minute)
		return limiter, func() { _ = rdb.Close() }, nil
	}

	limiter := rl.NewVisitorLimiter(cfg.RateLimitPerMinute)
	go limiter.StartCleanupLoop(ctx, time.Minute, 3*time.Minute)
	return limiter, func() {}, nil
}
