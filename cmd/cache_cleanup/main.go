// Command cache_cleanup sweeps expired search-cache entries. Meant to run
// on a schedule (cron or a k8s CronJob); one run, one sweep, exit.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/storage/factory"
	"github.com/sjlee-dev/newsdesk/pkg/config/env"
)

const sweepTimeout = 30 * time.Second

func main() {
	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/cache_cleanup/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	cfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	stores, err := factory.NewStores(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create storage backends", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	cache := searchcache.New(stores.SearchCache)

	deleted, err := cache.CleanExpired(ctx)
	if err != nil {
		slog.Error("Cache sweep failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Cache sweep finished", "deleted", deleted)
}
