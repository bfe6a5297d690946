// Package command interprets custom command invocations.
package command

import (
	"context"
	"strings"

	"github.com/zephyrtronium/selfbot/message"
)

// Prefix begins every command message.
const Prefix = "!cmd"

// Kind is the kind of a command invocation.
type Kind int

const (
	// Usage is a malformed or empty invocation.
	Usage Kind = iota
	// Add defines or redefines a command.
	Add
	// AddUsage is an add invocation missing its name or response.
	AddUsage
	// Lookup runs a defined command.
	Lookup
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage"
	case Add:
		return "add"
	case AddUsage:
		return "add-usage"
	case Lookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Invocation is a command invocation. An Invocation and its fields must not
// be modified or retained by any command.
type Invocation struct {
	// Kind is the kind of invocation.
	Kind Kind
	// Name is the name of the command to add or look up.
	Name string
	// Response is the response text for Add, with its internal spacing intact.
	Response string
	// Message is the message which triggered the invocation, if any.
	Message *message.Received
}

// Func executes a command and returns the reply text.
type Func func(ctx context.Context, robo *Robot, call *Invocation) string

// Parse parses a command from message text. The result is false if the text
// is not a command at all.
//
// The grammar is "!cmd add <name> <response>" or "!cmd <name>". Fields are
// separated by single spaces, and everything after the name of an add is
// the response.
func Parse(text string) (Invocation, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, Prefix) {
		return Invocation{}, false
	}
	parts := strings.SplitN(text, " ", 3)
	if parts[0] != Prefix || len(parts) < 2 || parts[1] == "" {
		// Either "!cmd" alone, or something like "!cmdgreet" or "!cmd  greet".
		return Invocation{Kind: Usage}, true
	}
	if parts[1] != "add" {
		return Invocation{Kind: Lookup, Name: parts[1]}, true
	}
	if len(parts) < 3 {
		return Invocation{Kind: AddUsage}, true
	}
	name, resp, _ := strings.Cut(parts[2], " ")
	if name == "" || resp == "" {
		return Invocation{Kind: AddUsage}, true
	}
	return Invocation{Kind: Add, Name: name, Response: resp}, true
}

var funcs = [...]Func{
	Usage:    usage,
	Add:      add,
	AddUsage: addUsage,
	Lookup:   lookup,
}

// Run executes an invocation and returns the reply text.
func Run(ctx context.Context, robo *Robot, call *Invocation) string {
	robo.Metrics.CommandCount.Observe(1, call.Kind.String())
	if call.Kind < 0 || int(call.Kind) >= len(funcs) {
		return usage(ctx, robo, call)
	}
	return funcs[call.Kind](ctx, robo, call)
}
