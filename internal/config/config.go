// Package config loads all runtime configuration from environment variables.
// A local .env file is loaded first when present, so development setups don't
// have to export anything by hand.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every knob the server reads at startup. Values are immutable
// after Load; nothing mutates configuration at runtime.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/caption-studio.db"`

	// JWTSecret signs session tokens. Required; at least 16 characters.
	// Generate with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET,required"`

	// External generation API (OpenRouter-compatible chat completions).
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY,required"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string `env:"OPENROUTER_MODEL" envDefault:"mistralai/mistral-7b-instruct"`

	// GitHub OAuth login. Optional; when ClientID is empty the OAuth routes
	// are not registered and password login is the only way in.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads the optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.GitHubClientID != "" && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return &cfg, nil
}
