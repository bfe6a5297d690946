package dispatch

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/zephyrtronium/selfbot/command"
	"github.com/zephyrtronium/selfbot/message"
	"github.com/zephyrtronium/selfbot/moderate"
)

// LogStage records the message.
func LogStage(ctx context.Context, d *Dispatcher, log *slog.Logger, msg *message.Received) {
	if err := d.Sink.Record(msg); err != nil {
		log.ErrorContext(ctx, "couldn't record message", slog.Any("err", err))
	}
}

// ModerateStage requests deletion of messages containing banned terms.
// Deletion is not retried.
func ModerateStage(ctx context.Context, d *Dispatcher, log *slog.Logger, msg *message.Received) {
	term, ok := moderate.ShouldDelete(msg.Text, d.Banned)
	if !ok {
		return
	}
	log.InfoContext(ctx, "deleting message", slog.String("term", term), slog.String("author", msg.Author))
	d.Metrics.DeletedCount.Observe(1)
	if d.ReplyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.ReplyTimeout)
		defer cancel()
	}
	if err := d.Gateway.Delete(ctx, msg.Channel, msg.ID); err != nil {
		log.ErrorContext(ctx, "couldn't delete message", slog.Any("err", err))
	}
}

// CommandStage handles custom commands.
func CommandStage(ctx context.Context, d *Dispatcher, log *slog.Logger, msg *message.Received) {
	if d.fromSelf(msg) {
		return
	}
	inv, ok := command.Parse(msg.Text)
	if !ok {
		return
	}
	inv.Message = msg
	log.InfoContext(ctx, "command",
		slog.String("kind", inv.Kind.String()),
		slog.String("name", inv.Name),
	)
	r := command.Robot{
		Log:      log,
		Commands: d.Commands,
		Metrics:  d.Metrics,
	}
	reply := command.Run(ctx, &r, &inv)
	// Custom responses are sent verbatim.
	d.send(ctx, log, message.Reply(msg, reply))
}

// FetchStage replies with external data when the message is exactly the
// trigger. A failed fetch is reported in the reply and goes no further.
func FetchStage(ctx context.Context, d *Dispatcher, log *slog.Logger, msg *message.Received) {
	if d.Fetch == nil || msg.Text != d.Trigger || d.fromSelf(msg) {
		return
	}
	fctx := ctx
	if d.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, d.FetchTimeout)
		defer cancel()
	}
	start := time.Now()
	data, err := d.Fetch.Fetch(fctx)
	d.Metrics.FetchLatency.Observe(time.Since(start).Seconds(), strconv.FormatBool(err == nil))
	if err != nil {
		log.ErrorContext(ctx, "fetch failed", slog.Any("err", err))
		d.send(ctx, log, message.Reply(msg, "API Error: "+err.Error()))
		return
	}
	log.InfoContext(ctx, "fetched", slog.Int("len", len(data)))
	// The fetched text goes out verbatim, surrounding whitespace included.
	d.send(ctx, log, message.Reply(msg, "API Data: "+data))
}
