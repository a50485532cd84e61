package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	BotToken      string        `env:"BOT_TOKEN,required"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"60s"`
	DialogTimeout time.Duration `env:"DIALOG_TIMEOUT" envDefault:"600s"`
	TimezoneName  string        `env:"LOCAL_TIMEZONE" envDefault:"Local"`

	LocalTimezone *time.Location `env:"-"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	location, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", cfg.TimezoneName, err)
		location = time.Local
	}
	cfg.LocalTimezone = location

	return cfg, nil
}
