package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sjlee-dev/newsdesk/internal/storage/factory"
	"github.com/sjlee-dev/newsdesk/internal/translate"
)

type AppConfig struct {
	StorageConfig *factory.StorageConfig

	NewsAPIKey     string
	NewsAPIBaseURL string

	TranslateChain translate.ChainConfig
	TranslateCreds translate.Credentials
}

type AppSettings struct{}

func NewAppConfig() *AppSettings {
	return &AppSettings{}
}

func (s *AppSettings) Load() (*AppConfig, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("NEWS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("NEWS_API_KEY environment variable is not set")
	}

	chain := translate.DefaultChainConfig()
	if path := os.Getenv("TRANSLATE_PROVIDERS_FILE"); path != "" {
		chain, err = translate.LoadChainConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load translation chain config: %w", err)
		}
		slog.Info("Loaded translation provider chain", "path", path, "providers", len(chain.Providers))
	}

	return &AppConfig{
		StorageConfig:  storageCfg,
		NewsAPIKey:     apiKey,
		NewsAPIBaseURL: os.Getenv("NEWS_API_BASE_URL"),
		TranslateChain: chain,
		TranslateCreds: translate.Credentials{
			GoogleAPIKey: os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
			LibreBaseURL: os.Getenv("LIBRETRANSLATE_BASE_URL"),
			LibreAPIKey:  os.Getenv("LIBRETRANSLATE_API_KEY"),
		},
	}, nil
}
