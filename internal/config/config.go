package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. Every field has a sensible default so
// a bare `lq` invocation works.
type Config struct {
	DBPath      string `env:"LQ_DB_PATH"`
	UserKey     string `env:"LQ_USER" envDefault:"main"`
	LogLevel    string `env:"LQ_LOG_LEVEL" envDefault:"warn"`
	OpenAIKey   string `env:"LQ_OPENAI_KEY"`
	OpenAIModel string `env:"LQ_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
