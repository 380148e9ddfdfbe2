package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/sjlee-dev/newsdesk/internal/newsapi"
	"github.com/sjlee-dev/newsdesk/internal/router"
	"github.com/sjlee-dev/newsdesk/internal/search"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/server"
	"github.com/sjlee-dev/newsdesk/internal/storage/factory"
	"github.com/sjlee-dev/newsdesk/internal/translate"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	s := server.New(sCfg).
		SetupMiddlewares().
		SetupErrorHandler()

	stores, err := factory.NewStores(s.Context(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage backends", "error", err)
		os.Exit(1)
		return
	}

	s.SetupHealthChecks("/healthz", stores.Health)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "NewsDesk API is running")
	})

	providers, err := translate.BuildChain(cfg.TranslateChain, cfg.TranslateCreds)
	if err != nil {
		slog.Error("Failed to build translation chain", "error", err)
		os.Exit(1)
		return
	}
	translator := translate.NewTranslator(providers, stores.TranslationCache)

	client := newsapi.NewClient(newsapi.ClientConfig{
		APIKey:  cfg.NewsAPIKey,
		BaseURL: cfg.NewsAPIBaseURL,
	})
	cache := searchcache.New(stores.SearchCache)
	svc := search.NewService(client, cache, translator, stores.ScoringConfig)

	router.NewSearchRouter(s.Echo, svc).Bind()
	router.NewTranslateRouter(s.Echo, translator).Bind()
	router.NewScoringConfigRouter(s.Echo, stores.ScoringConfig).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		stores.Close()
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
