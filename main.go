package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/zephyrtronium/selfbot/chatlog"
	"github.com/zephyrtronium/selfbot/fetch"
)

var app = cli.Command{
	Name:  "selfbot",
	Usage: "Discord logging, moderation, and custom command bot",

	Flags: []cli.Flag{
		&flagConfig,
		&flagLog,
		&flagLogFormat,
	},
	Commands: []*cli.Command{
		{
			Name:   "show-config",
			Usage:  "Print the configuration in effect, with defaults and environment applied",
			Action: cliShowConfig,
		},
	},
	Action: cliRun,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := app.Run(ctx, os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadFromFlags(ctx, cmd)
	if err != nil {
		return err
	}
	tok, err := cfg.Token()
	if err != nil {
		return err
	}
	sink, err := chatlog.Open(cfg.Log.File)
	if err != nil {
		return err
	}
	fc := &fetch.Client{
		HTTP: &http.Client{},
		URL:  cfg.API.URL,
	}
	robo := New(cfg, sink, fc, runtime.GOMAXPROCS(0))
	if err := robo.InitDiscord(ctx, tok, cfg.Discord); err != nil {
		sink.Close()
		return err
	}
	return robo.Run(ctx, cfg.HTTP.Listen)
}

func cliShowConfig(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadFromFlags(ctx, cmd)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		return fmt.Errorf("couldn't encode config: %w", err)
	}
	return nil
}

// loadFromFlags loads the config file named by the config flag,
// or the default configuration if there is none.
func loadFromFlags(ctx context.Context, cmd *cli.Command) (*Config, error) {
	name := cmd.String("config")
	if name == "" {
		slog.InfoContext(ctx, "no config file, using defaults")
		return Default(), nil
	}
	r, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	defer r.Close()
	cfg, md, err := Load(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config: %w", err)
	}
	if u := md.Undecoded(); len(u) != 0 {
		slog.WarnContext(ctx, "unknown config keys", slog.Any("keys", u))
	}
	return cfg, nil
}

var (
	flagConfig = cli.StringFlag{
		Name:       "config",
		Usage:      "TOML config file",
		Persistent: true,
		Action: func(ctx context.Context, cmd *cli.Command, s string) error {
			i, err := os.Stat(s)
			if err != nil {
				return err
			}
			if !i.Mode().IsRegular() {
				return errors.New("config must be a regular file")
			}
			return nil
		},
	}

	flagLog = cli.StringFlag{
		Name:       "log",
		Usage:      "Logging level, one of debug, info, warn, error",
		Value:      "info",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:       "log-format",
		Usage:      "Logging format, either text or json",
		Value:      "text",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log"))); err != nil {
		panic(err)
	}
	var h slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	}
	return slog.New(h)
}
