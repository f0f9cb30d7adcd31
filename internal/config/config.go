package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/supptrivia.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	OpenAIAPIKey  string        `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	JudgeModel    string        `env:"JUDGE_MODEL" envDefault:"o4-mini"`
	JudgeTimeout  time.Duration `env:"JUDGE_TIMEOUT" envDefault:"90s"`

	// Optional: when set, room snapshots fan out through redis pub/sub
	// instead of the in-process broker.
	RedisURL string `env:"REDIS_URL"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://supp-trivia.web.app,https://supp-trivia.firebaseapp.com"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`
	RoomTTL       time.Duration `env:"ROOM_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
