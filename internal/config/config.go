// Package config loads the bot's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting. Values come from the process environment,
// optionally seeded from a .env file.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`

	Prefixes        []string `env:"BOT_PREFIXES"         envDefault:"!"    envSeparator:"," validate:"min=1,dive,required"`
	MentionPrefix   bool     `env:"BOT_MENTION_PREFIX"   envDefault:"true"`
	OwnerIDs        []string `env:"BOT_OWNER_IDS"        envSeparator:","  validate:"dive,numeric"`
	QuotedArgs      bool     `env:"BOT_QUOTED_ARGS"      envDefault:"true"`
	CaseInsensitive bool     `env:"BOT_CASE_INSENSITIVE" envDefault:"false"`
	IgnoreBots      bool     `env:"BOT_IGNORE_BOTS"      envDefault:"true"`

	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"10" validate:"gte=1"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"3"  validate:"gte=0"`
	LogDebug      bool   `env:"LOG_DEBUG"        envDefault:"false"`

	ReplyMaxAttempts      int           `env:"REPLY_MAX_ATTEMPTS"      envDefault:"3"  validate:"gte=1,lte=10"`
	CooldownSweepInterval time.Duration `env:"COOLDOWN_SWEEP_INTERVAL" envDefault:"1m" validate:"gte=1s"`
	CommandTimeout        time.Duration `env:"COMMAND_TIMEOUT"         envDefault:"30s" validate:"gte=0"`
}

// ErrMissingToken is returned by RequireToken when DISCORD_TOKEN is unset.
var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

var validate = validator.New()

// Load reads .env files (if any, the first found wins per key) and the
// environment, then validates the result.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return Parse(nil)
}

// Parse builds a Config from environ (KEY -> value) or, when environ is nil,
// from the process environment.
func Parse(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// RequireToken fails when the Discord token is missing.
func (c *Config) RequireToken() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}
