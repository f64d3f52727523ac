// Package config loads bot configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Token is the Discord bot token (DISCORD_TOKEN).
	Token string
	// GuildID optionally scopes slash-command registration to one guild
	// (GUILD_ID). Guild commands propagate immediately, so set this while
	// iterating; leave empty to register globally.
	GuildID string
	// LogLevel is a logrus level name (LOG_LEVEL), empty for the default.
	LogLevel string
}

// Load reads .env if present, then the process environment. Missing values
// are left empty; the caller decides what is required after applying its
// command-line overrides.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Token:    os.Getenv("DISCORD_TOKEN"),
		GuildID:  os.Getenv("GUILD_ID"),
		LogLevel: os.Getenv("LOG_LEVEL"),
	}
}
