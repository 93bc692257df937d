// Package commands implements the nodemap-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/nodemap-go/nodemap/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Node      string
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Layer != nil && e.Layer != *f.Layer {
		return false
	}
	if f.Direction != nil && e.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Node != "" && e.Node != f.Node {
		return false
	}
	return true
}

const timeLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] LAYER CATEGORY node
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s [session:%s] %s %s", ts, shortenID(event.SessionID), event.Layer, eventLabel(event))
	if event.Node != "" {
		fmt.Fprintf(w, " %s", event.Node)
	}
	fmt.Fprintln(w)

	switch {
	case event.Port != nil:
		formatPortDetails(w, event.Port)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// eventLabel names the event; port I/O is labelled with its direction.
func eventLabel(event log.Event) string {
	if event.Category == log.CategoryPortIO {
		return event.Direction.String()
	}
	return event.Category.String()
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPortDetails(w io.Writer, p *log.PortEvent) {
	fmt.Fprintf(w, "  Address: 0x%x  Length: %d\n", p.Address, p.Length)
	if len(p.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(p.Data))
		if p.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  -> %s\n", sc.State)
	if sc.Model != "" {
		fmt.Fprintf(w, "  Model: %s\n", sc.Model)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Kind != nil {
		fmt.Fprintf(w, "  Kind: %d\n", *err.Kind)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "port":
		return log.LayerPort, nil
	case "node":
		return log.LayerNode, nil
	case "map":
		return log.LayerMap, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be port, node, or map)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "read":
		return log.DirectionRead, nil
	case "write":
		return log.DirectionWrite, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be read or write)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "io", "port_io":
		return log.CategoryPortIO, nil
	case "invalidation":
		return log.CategoryInvalidation, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	case "callback":
		return log.CategoryCallback, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be io, invalidation, state, error, or callback)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if !filter.matches(event) {
			continue
		}
		formatEvent(output, event)
	}

	return nil
}
