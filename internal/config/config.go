package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("BOT_TOKEN is not set")

type Config struct {
	BotToken       string `env:"BOT_TOKEN"`
	BotUsername    string `env:"BOT_USERNAME"`
	ServerPort     string `env:"SERVER_PORT" envDefault:"8080"`
	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"host=localhost port=5432 user=postgres password=postgres dbname=quizarium sslmode=disable"`
	WebhookBaseURL string `env:"WEBHOOK_BASE_URL"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
	AdminAPIKey    string `env:"ADMIN_API_KEY"`

	Game GameConfig
}

// GameConfig holds the pacing of a game. Durations accept Go syntax ("20s").
type GameConfig struct {
	HintInterval  time.Duration `env:"HINT_INTERVAL" envDefault:"20s"`
	RevealPause   time.Duration `env:"REVEAL_PAUSE" envDefault:"3s"`
	AnswerPause   time.Duration `env:"ANSWER_PAUSE" envDefault:"5s"`
	StartDelay    time.Duration `env:"START_DELAY" envDefault:"3s"`
	DefaultRounds int           `env:"DEFAULT_ROUNDS" envDefault:"10"`
	ExtendRounds  int           `env:"EXTEND_ROUNDS" envDefault:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	return &cfg, nil
}
