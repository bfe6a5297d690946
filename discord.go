package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/zephyrtronium/selfbot/message"
)

// maxMessage is the longest message Discord accepts, in runes.
const maxMessage = 2000

// discordGateway sends and deletes messages through a Discord session.
type discordGateway struct {
	session *discordgo.Session
	rate    *rate.Limiter
	self    atomic.Pointer[string]
}

// InitDiscord creates the Discord session and registers event handlers.
// The session is not opened until Run.
func (robo *Robot) InitDiscord(ctx context.Context, token string, cfg DiscordCfg) error {
	discordgo.Logger = discordLogger
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("couldn't create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.Rate.Num > 0 {
		lim = rate.NewLimiter(rate.Every(fseconds(cfg.Rate.Every)/time.Duration(cfg.Rate.Num)), cfg.Rate.Num)
	}
	gw := &discordGateway{session: session, rate: lim}

	session.AddHandler(func(session *discordgo.Session, event *discordgo.Ready) {
		gw.self.Store(&event.User.ID)
		slog.InfoContext(ctx, event.User.Username+" is connected!",
			slog.String("id", event.User.ID),
			slog.Int("guilds", len(event.Guilds)),
		)
	})
	session.AddHandler(func(session *discordgo.Session, event *discordgo.MessageCreate) {
		msg := message.FromDiscord(event)
		if !robo.pool.Enqueue(ctx, msg) {
			slog.DebugContext(ctx, "dropped message during shutdown", slog.String("trace", msg.ID))
		}
	})

	robo.gateway = gw
	robo.dispatch.Gateway = gw
	return nil
}

// Send sends a message after waiting for the global rate limit.
func (gw *discordGateway) Send(ctx context.Context, msg message.Sent) error {
	if err := gw.rate.Wait(ctx); err != nil {
		return fmt.Errorf("couldn't wait for rate limit: %w", err)
	}
	text := msg.Text
	if len(text) > maxMessage {
		r := []rune(text)
		r = r[:min(maxMessage, len(r))]
		text = string(r)
	}
	send := discordgo.MessageSend{Content: text}
	if msg.Reply != "" {
		send.Reference = &discordgo.MessageReference{MessageID: msg.Reply, ChannelID: msg.To}
	}
	if _, err := gw.session.ChannelMessageSendComplex(msg.To, &send, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("couldn't send Discord message: %w", err)
	}
	return nil
}

// Delete deletes a message.
func (gw *discordGateway) Delete(ctx context.Context, channel, id string) error {
	if err := gw.session.ChannelMessageDelete(channel, id, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("couldn't delete Discord message: %w", err)
	}
	return nil
}

// Self returns the bot's user ID once the gateway reports ready.
func (gw *discordGateway) Self() string {
	if p := gw.self.Load(); p != nil {
		return *p
	}
	return ""
}

// Start opens the Discord websocket connection.
func (gw *discordGateway) Start() error {
	if err := gw.session.Open(); err != nil {
		return fmt.Errorf("couldn't open Discord session: %w", err)
	}
	return nil
}

// Close closes the Discord websocket connection.
func (gw *discordGateway) Close() error {
	return gw.session.Close()
}

// discordLogger routes discordgo's logging through slog.
func discordLogger(msgL, caller int, format string, a ...any) {
	var l slog.Level
	switch msgL {
	case discordgo.LogError:
		l = slog.LevelError
	case discordgo.LogWarning:
		l = slog.LevelWarn
	case discordgo.LogInformational:
		l = slog.LevelInfo
	default:
		l = slog.LevelDebug
	}
	slog.Log(context.Background(), l, fmt.Sprintf(format, a...), slog.String("from", "discordgo"))
}
