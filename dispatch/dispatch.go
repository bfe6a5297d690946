// Package dispatch runs the per-message pipeline: record the message,
// moderate it, then handle custom commands and the data fetch trigger.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/zephyrtronium/selfbot/message"
	"github.com/zephyrtronium/selfbot/metrics"
	"github.com/zephyrtronium/selfbot/registry"
)

// DefaultTrigger is the message text that triggers a data fetch when none is
// configured.
const DefaultTrigger = "!api"

// Gateway is the connection to the chat service.
type Gateway interface {
	// Send sends a message, as a reply if msg.Reply is set.
	Send(ctx context.Context, msg message.Sent) error
	// Delete deletes a message.
	Delete(ctx context.Context, channel, id string) error
	// Self returns the user ID of the bot's own identity,
	// or the empty string if it is not yet known.
	Self() string
}

// Recorder records observed messages.
type Recorder interface {
	Record(msg *message.Received) error
}

// Fetcher retrieves external data.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Dispatcher holds the shared state used by all dispatches.
// Its fields must not be modified once dispatching begins.
type Dispatcher struct {
	// Gateway sends replies and deletes messages.
	Gateway Gateway
	// Log is the operational logger.
	Log *slog.Logger
	// Sink records every message.
	Sink Recorder
	// Commands is the custom command registry.
	Commands *registry.Registry
	// Banned is the list of terms which cause a message to be deleted,
	// in order of priority.
	Banned []string
	// Fetch retrieves data when a message is exactly Trigger.
	Fetch   Fetcher
	Trigger string
	// Metrics collects dispatch metrics.
	Metrics *metrics.Metrics
	// ReplyTimeout bounds each request to the gateway. Zero means no bound.
	ReplyTimeout time.Duration
	// FetchTimeout bounds each data fetch. Zero means no bound.
	FetchTimeout time.Duration
}

// Stage is one step of dispatching a message.
// A stage handles its own errors; it never stops later stages.
type Stage func(ctx context.Context, d *Dispatcher, log *slog.Logger, msg *message.Received)

// Stages is the dispatch pipeline in order.
var Stages = []Stage{
	LogStage,
	ModerateStage,
	CommandStage,
	FetchStage,
}

// Dispatch runs every stage for a message.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *message.Received) {
	log := d.Log.With(slog.String("trace", msg.ID), slog.String("in", msg.Channel))
	d.Metrics.MessagesCount.Observe(1)
	for _, stage := range Stages {
		stage(ctx, d, log, msg)
	}
}

// fromSelf reports whether msg was sent by the bot itself.
func (d *Dispatcher) fromSelf(msg *message.Received) bool {
	return msg.AuthorID != "" && msg.AuthorID == d.Gateway.Self()
}

// send sends a message to the gateway, logging any failure.
func (d *Dispatcher) send(ctx context.Context, log *slog.Logger, msg message.Sent) {
	if msg.Text == "" {
		return
	}
	if d.ReplyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.ReplyTimeout)
		defer cancel()
	}
	if err := d.Gateway.Send(ctx, msg); err != nil {
		d.Metrics.ReplyFailures.Observe(1)
		log.ErrorContext(ctx, "couldn't send reply", slog.Any("err", err), slog.String("text", msg.Text))
		return
	}
	log.DebugContext(ctx, "sent reply", slog.String("text", msg.Text))
}
