package command

import (
	"log/slog"

	"github.com/zephyrtronium/selfbot/metrics"
	"github.com/zephyrtronium/selfbot/registry"
)

// Robot is the bot state as is visible to commands.
type Robot struct {
	Log      *slog.Logger
	Commands *registry.Registry
	Metrics  *metrics.Metrics
}
