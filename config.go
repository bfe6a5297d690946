package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zephyrtronium/selfbot/chatlog"
	"github.com/zephyrtronium/selfbot/dispatch"
	"github.com/zephyrtronium/selfbot/fetch"
	"github.com/zephyrtronium/selfbot/moderate"
)

// Load loads configuration from TOML. Keys not present take their defaults.
func Load(ctx context.Context, r io.Reader) (*Config, *toml.MetaData, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	defaults(&cfg, &md)
	expandcfg(&cfg, os.Getenv)
	return &cfg, &md, nil
}

// Default returns the configuration used when there is no config file.
func Default() *Config {
	var cfg Config
	defaults(&cfg, nil)
	expandcfg(&cfg, os.Getenv)
	return &cfg
}

// defaults fills in every key not defined in md.
// A nil md means nothing is defined.
func defaults(cfg *Config, md *toml.MetaData) {
	def := func(key ...string) bool {
		return md == nil || !md.IsDefined(key...)
	}
	if def("discord", "token_env") {
		cfg.Discord.TokenEnv = "DISCORD_TOKEN"
	}
	if def("log", "file") {
		cfg.Log.File = chatlog.DefaultFile
	}
	if def("moderation", "banned") {
		cfg.Moderation.Banned = append([]string(nil), moderate.DefaultBanned...)
	}
	if def("api", "url") {
		cfg.API.URL = fetch.DefaultURL
	}
	if def("api", "trigger") {
		cfg.API.Trigger = dispatch.DefaultTrigger
	}
}

// Token reads the gateway token from the environment.
func (cfg *Config) Token() (string, error) {
	tok := os.Getenv(cfg.Discord.TokenEnv)
	if tok == "" {
		return "", fmt.Errorf("no token in $%s", cfg.Discord.TokenEnv)
	}
	return tok, nil
}

func fseconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Config is the marshaled structure of the bot's configuration.
// The token itself is never part of the config; only the name of the
// environment variable holding it.
type Config struct {
	// Discord is the configuration for connecting to Discord.
	Discord DiscordCfg `toml:"discord"`
	// Log is the message log configuration.
	Log LogCfg `toml:"log"`
	// Moderation is the moderation configuration.
	Moderation ModerationCfg `toml:"moderation"`
	// API is the configuration for the external data fetch.
	API APICfg `toml:"api"`
	// HTTP is the admin HTTP server configuration.
	HTTP HTTPCfg `toml:"http"`
}

// DiscordCfg is the configuration for the Discord gateway.
type DiscordCfg struct {
	// TokenEnv is the environment variable holding the token.
	TokenEnv string `toml:"token_env"`
	// ReplyTimeout is the limit in seconds on each send or delete request.
	// Zero means no limit.
	ReplyTimeout float64 `toml:"reply_timeout"`
	// Rate is the global rate limit for sending messages.
	// A zero Num means no limit.
	Rate Rate `toml:"rate"`
}

// LogCfg is the configuration of the message log.
type LogCfg struct {
	// File is the path to the append-only message log.
	File string `toml:"file"`
}

// ModerationCfg is the configuration for moderation.
type ModerationCfg struct {
	// Banned is the list of terms for which messages are deleted.
	Banned []string `toml:"banned"`
}

// APICfg is the configuration for fetching external data.
type APICfg struct {
	// URL is the endpoint to fetch.
	URL string `toml:"url"`
	// Trigger is the exact message text which causes a fetch.
	Trigger string `toml:"trigger"`
	// Timeout is the limit in seconds on each fetch. Zero means no limit.
	Timeout float64 `toml:"timeout"`
}

// HTTPCfg is the configuration of the admin HTTP server.
type HTTPCfg struct {
	// Listen is the address to serve on. Empty disables the server.
	Listen string `toml:"listen"`
}

// Rate is a rate limit configuration.
type Rate struct {
	Every float64 `toml:"every"`
	Num   int     `toml:"num"`
}

func expandcfg(cfg *Config, expand func(s string) string) {
	fields := []*string{
		&cfg.Discord.TokenEnv,
		&cfg.Log.File,
		&cfg.API.URL,
		&cfg.HTTP.Listen,
	}
	for _, f := range fields {
		*f = os.Expand(*f, expand)
	}
}
