package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/selfbot/chatlog"
	"github.com/zephyrtronium/selfbot/dispatch"
	"github.com/zephyrtronium/selfbot/metrics"
	"github.com/zephyrtronium/selfbot/registry"
)

// Robot is the bot's process state.
type Robot struct {
	// commands is the custom command registry.
	commands *registry.Registry
	// sink is the message log.
	sink *chatlog.Sink
	// metrics are the bot's metrics.
	metrics *metrics.Metrics
	// dispatch is the per-message pipeline.
	dispatch *dispatch.Dispatcher
	// pool runs dispatches.
	pool *dispatch.Pool
	// gateway is the Discord connection. It is nil until InitDiscord.
	gateway *discordGateway
}

// New creates a Robot. The sink is closed when Run returns.
// poolSize is the number of idle workers kept for dispatching messages.
func New(cfg *Config, sink *chatlog.Sink, fetcher dispatch.Fetcher, poolSize int) *Robot {
	robo := &Robot{
		commands: registry.New(),
		sink:     sink,
		metrics:  metrics.New(),
	}
	robo.dispatch = &dispatch.Dispatcher{
		Log:          slog.Default(),
		Sink:         sink,
		Commands:     robo.commands,
		Banned:       cfg.Moderation.Banned,
		Fetch:        fetcher,
		Trigger:      cfg.API.Trigger,
		Metrics:      robo.metrics,
		ReplyTimeout: fseconds(cfg.Discord.ReplyTimeout),
		FetchTimeout: fseconds(cfg.API.Timeout),
	}
	robo.pool = dispatch.NewPool(robo.dispatch, poolSize)
	return robo
}

// Run connects to Discord and serves the HTTP API until ctx is canceled or
// either fails. An empty listen address disables the API.
func (robo *Robot) Run(ctx context.Context, listen string) error {
	group, ctx := errgroup.WithContext(ctx)
	if listen != "" {
		group.Go(func() error { return robo.api(ctx, listen, new(http.ServeMux), robo.metrics.Collectors()) })
	}
	if robo.gateway != nil {
		group.Go(func() error { return robo.discord(ctx) })
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		// If the first error is context canceled, then we are shutting down
		// normally in response to a sigint.
		err = nil
	}
	// Events can still arrive from the session's handler goroutines.
	// Stop taking them, and let dispatches in flight finish before closing
	// the log under them.
	robo.pool.Close()
	if cerr := robo.sink.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("couldn't close message log: %w", cerr))
	}
	return err
}

// discord holds the Discord session open until ctx is done.
func (robo *Robot) discord(ctx context.Context) error {
	if err := robo.gateway.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	if err := robo.gateway.Close(); err != nil {
		slog.ErrorContext(ctx, "couldn't close Discord session", slog.Any("err", err))
	}
	return ctx.Err()
}
