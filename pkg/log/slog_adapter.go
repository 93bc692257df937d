package log

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// SlogAdapter writes node map events to an slog.Logger.
// Useful for development when you want to see register traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Node != "" {
		attrs = append(attrs, slog.String("node", event.Node))
	}

	// Add type-specific attributes
	if event.Port != nil {
		attrs = append(attrs,
			slog.String("direction", event.Direction.String()),
			slog.String("address", fmt.Sprintf("0x%x", event.Port.Address)),
			slog.Int64("length", event.Port.Length),
			slog.String("data", hex.EncodeToString(event.Port.Data)),
		)
		if event.Port.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	}
	if event.StateChange != nil {
		attrs = append(attrs, slog.String("state", event.StateChange.State.String()))
		if event.StateChange.Model != "" {
			attrs = append(attrs, slog.String("model", event.StateChange.Model))
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	}
	if event.Error != nil {
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
		if event.Error.Kind != nil {
			attrs = append(attrs, slog.Int("error_kind", *event.Error.Kind))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "nodemap", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
