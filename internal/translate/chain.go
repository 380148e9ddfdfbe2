package translate

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ChainConfig is the explicit, ordered provider configuration. The order in
// the file is the fallback priority; there is no hidden global list.
type ChainConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

type ProviderConfig struct {
	Name           string `yaml:"name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Credentials carries the per-provider secrets the chain builder needs.
// They come from the environment; the YAML file only orders the chain.
type Credentials struct {
	GoogleAPIKey string
	LibreBaseURL string
	LibreAPIKey  string
}

// DefaultChainConfig is used when no chain file is configured:
// official API first, self-hosted second, the keyless endpoint last.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{Providers: []ProviderConfig{
		{Name: "google"},
		{Name: "libretranslate"},
		{Name: "gtx"},
	}}
}

// LoadChainConfig reads a provider-chain YAML file.
func LoadChainConfig(path string) (ChainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ChainConfig{}, fmt.Errorf("read chain config: %w", err)
	}

	var cfg ChainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ChainConfig{}, fmt.Errorf("parse chain config: %w", err)
	}
	if len(cfg.Providers) == 0 {
		return ChainConfig{}, fmt.Errorf("chain config lists no providers")
	}
	return cfg, nil
}

// BuildChain constructs the ordered provider list from a chain config.
// Unknown provider names are rejected rather than skipped.
func BuildChain(cfg ChainConfig, creds Credentials) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		timeout := time.Duration(pc.TimeoutSeconds) * time.Second

		switch pc.Name {
		case "google":
			providers = append(providers, NewGoogleProvider(creds.GoogleAPIKey, "", timeout))
		case "libretranslate":
			providers = append(providers, NewLibreProvider(creds.LibreBaseURL, creds.LibreAPIKey, timeout))
		case "gtx":
			providers = append(providers, NewGTXProvider("", timeout))
		default:
			return nil, fmt.Errorf("unknown translation provider %q", pc.Name)
		}
	}
	return providers, nil
}
