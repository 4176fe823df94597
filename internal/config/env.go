package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is the HTTP server's process environment.
type ServerConfig struct {
	Addr         string `env:"KALITEEDI_ADDR" envDefault:":8080"`
	ScoreBackend string `env:"KALITEEDI_SCORE_BACKEND" envDefault:"file"`
	ScoreFile    string `env:"KALITEEDI_SCORE_FILE" envDefault:"kali_scores.json"`
	SQLitePath   string `env:"KALITEEDI_SQLITE_PATH" envDefault:"kali_scores.db"`
	NATSURL      string `env:"KALITEEDI_NATS_URL"`
	InviteSecret string `env:"KALITEEDI_INVITE_SECRET"`
	InviteIssuer string `env:"KALITEEDI_INVITE_ISSUER" envDefault:"kaliteedi"`
}

// ParseServerEnv loads the server configuration from environment variables.
func ParseServerEnv() (ServerConfig, error) {
	var c ServerConfig
	if err := env.Parse(&c); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
