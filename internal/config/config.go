package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centralizes process configuration, read from the environment.
type Config struct {
	DiscordToken  string        `env:"DISCORD_BOT_TOKEN,required"`
	GuildID       string        `env:"DISCORD_GUILD_ID"` // empty registers slash commands globally
	TursoURL      string        `env:"TURSO_DATABASE_URL"`
	TursoToken    string        `env:"TURSO_AUTH_TOKEN"`
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"data/personality_bot.db"`
	ContentDir    string        `env:"CONTENT_DIR" envDefault:"data"`
	AdminUserIDs  []string      `env:"ADMIN_USER_IDS" envSeparator:","`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsAdmin reports whether the user may run admin commands.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
