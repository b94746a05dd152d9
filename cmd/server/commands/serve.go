package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/skyblock-shop/internal/catalog"
	"github.com/iliyamo/skyblock-shop/internal/config"
	"github.com/iliyamo/skyblock-shop/internal/database"
	"github.com/iliyamo/skyblock-shop/internal/diagnostics"
	"github.com/iliyamo/skyblock-shop/internal/handler"
	"github.com/iliyamo/skyblock-shop/internal/middleware"
	"github.com/iliyamo/skyblock-shop/internal/queue"
	"github.com/iliyamo/skyblock-shop/internal/router"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, source, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"source":   source,
		"coins":    len(cat.Coins()),
		"accounts": len(cat.Accounts()),
	}).Info("catalog loaded")

	db := database.NewModule(ctx, database.ModuleConfig{
		Enabled: cfg.DatabaseEnabled,
		URL:     cfg.DatabaseURL,
		Name:    cfg.DatabaseName,
	}, log)
	defer db.Close()

	var rdb *redis.Client
	if c, err := config.NewRedisClient(ctx, config.LoadRedisConfig()); err != nil {
		log.WithError(err).Warn("redis unavailable; cache disabled, rate limiting per process")
	} else {
		rdb = c
		defer rdb.Close()
	}

	e := router.New(
		router.Options{
			Logger:    log,
			Metrics:   cfg.MetricsEnabled,
			RateLimit: middleware.NewTokenBucket(ctx, config.LoadRateLimitConfig(), rdb),
		},
		handler.NewPricingHandler(cat),
		handler.NewDiagnosticsHandler(diagnostics.New(db, log)),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	if cfg.EventsEnabled {
		go publishSnapshot(ctx, cfg.BrokerURL(), cat, source, log)
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("listening")
		errCh <- e.Start(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func publishSnapshot(ctx context.Context, url string, cat *catalog.Catalog, source string, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ev := queue.CatalogPublishedEvent{
		Source:      source,
		Currency:    catalog.Currency,
		Coins:       cat.Coins(),
		Accounts:    cat.Accounts(),
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishCatalog(ctx, url, ev); err != nil {
		log.WithError(err).Warn("catalog snapshot not published")
		return
	}
	log.WithField("queue", queue.CatalogQueueName).Info("catalog snapshot published")
}
