package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the quiz commands.
type Config struct {
	Rounds     int    `env:"RPS_ROUNDS" envDefault:"3"`
	ServerSeed string `env:"RPS_SERVER_SEED"`
	ClientSeed string `env:"RPS_CLIENT_SEED"`
	Nonce      uint64 `env:"RPS_NONCE" envDefault:"0"`
	Script     string `env:"RPS_SCRIPT"`
	Games      int    `env:"RPS_GAMES" envDefault:"10"` // 0 autoplays until stop()
	LogPrefix  string `env:"RPS_LOG_PREFIX" envDefault:"[QUIZ] "`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given files into the environment
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	var cfg Config
	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no game can be built from.
func (c Config) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Games < 0 {
		return fmt.Errorf("games must not be negative, got %d", c.Games)
	}
	if (c.ServerSeed == "") != (c.ClientSeed == "") {
		return errors.New("server and client seed must be set together")
	}
	return nil
}

// HasSeeds reports whether fixed seeds were configured.
func (c Config) HasSeeds() bool {
	return c.ServerSeed != "" && c.ClientSeed != ""
}
