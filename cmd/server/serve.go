package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boardshop/internal/cache"
	"boardshop/internal/cart"
	"boardshop/internal/catalog"
	mydb "boardshop/internal/db"
	"boardshop/internal/products"
	"boardshop/internal/web"
)

func runServe(cmd *cobra.Command, args []string) error {
	catalog.MustLoad()

	db, err := mydb.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer mydb.Close(db)

	if err := mydb.Migrate(db); err != nil {
		return err
	}

	checks := map[string]web.HealthCheck{
		"db": func(ctx context.Context) error { return mydb.Ping(ctx, db) },
	}

	var productCache products.Cache
	if cfg.CacheEnabled() {
		client := cache.NewClient(cfg.RedisAddr)
		defer client.Close()
		rc := cache.NewRedisCache(client, cfg.CacheTTL)
		productCache = rc
		checks["cache"] = rc.Ping
		logger.Info("product cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := web.NewRouter(web.Options{
		Products:      products.NewService(products.NewRepository(db), productCache, logger),
		Carts:         cart.NewRepository(db),
		Logger:        logger,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
		StaticDir:     "./static",
		Checks:        checks,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := mydb.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer mydb.Close(db)

	if err := mydb.Migrate(db); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := mydb.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer mydb.Close(db)

	if err := mydb.Migrate(db); err != nil {
		return err
	}
	n, err := products.Seed(cmd.Context(), db, time.Now())
	if err != nil {
		return err
	}
	logger.Info("seeded products", zap.Int("inserted", n))

	if n > 0 && cfg.CacheEnabled() {
		client := cache.NewClient(cfg.RedisAddr)
		defer client.Close()
		if err := cache.NewRedisCache(client, cfg.CacheTTL).Flush(cmd.Context()); err != nil {
			logger.Warn("could not flush product cache", zap.Error(err))
		}
	}
	return nil
}
