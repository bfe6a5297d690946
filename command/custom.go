package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zephyrtronium/selfbot/registry"
)

const (
	usageText    = "Usage: !cmd <command>"
	addUsageText = "Usage: !cmd add <name> <response>"
	notFoundText = "Command not found."
)

func usage(ctx context.Context, robo *Robot, call *Invocation) string {
	return usageText
}

func addUsage(ctx context.Context, robo *Robot, call *Invocation) string {
	return addUsageText
}

// add defines a command.
//   - Name: name of the command.
//   - Response: text to reply with when the command is used.
func add(ctx context.Context, robo *Robot, call *Invocation) string {
	if err := robo.Commands.Insert(ctx, call.Name, call.Response); err != nil {
		robo.Log.ErrorContext(ctx, "couldn't add command",
			slog.String("name", call.Name),
			slog.Any("err", err),
		)
		return fmt.Sprintf("Error adding command: %v", err)
	}
	robo.Log.InfoContext(ctx, "added command",
		slog.String("name", call.Name),
		slog.String("response", call.Response),
	)
	return fmt.Sprintf("Added command %s -> %s", call.Name, call.Response)
}

// lookup replies with a command's response.
//   - Name: name of the command.
func lookup(ctx context.Context, robo *Robot, call *Invocation) string {
	r, err := robo.Commands.Lookup(ctx, call.Name)
	switch {
	case err == nil:
		robo.Log.DebugContext(ctx, "found command", slog.String("name", call.Name))
		return r
	case errors.Is(err, registry.ErrNotFound):
		robo.Log.DebugContext(ctx, "no such command", slog.String("name", call.Name))
		return notFoundText
	default:
		robo.Log.ErrorContext(ctx, "couldn't look up command",
			slog.String("name", call.Name),
			slog.Any("err", err),
		)
		return fmt.Sprintf("Error looking up command: %v", err)
	}
}
