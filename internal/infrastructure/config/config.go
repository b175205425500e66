package config

import (
	"runtime"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Processing
	Workers int `env:"WORKERS" envDefault:"0"` // 0 means NumCPU

	// Audit
	AuditLogPath string   `env:"AUDIT_LOG_PATH" envDefault:"transactions.log"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"  envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"    envDefault:"ledger-audit"`

	// HTTP Server (serve mode)
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load loads configuration from the environment, reading a .env file
// first if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, nil
}
