package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return logEntry
}

func TestSlogAdapterLogsPortEvent(t *testing.T) {
	logEntry := logJSON(t, Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionWrite,
		Layer:     LayerPort,
		Category:  CategoryPortIO,
		Node:      "WidthReg",
		Port: &PortEvent{
			Address:   0x100,
			Length:    4,
			Data:      []byte{0x00, 0x00, 0x02, 0x80},
			Truncated: true,
		},
	})

	want := map[string]any{
		"msg":       "nodemap",
		"session":   "session-123",
		"direction": "WRITE",
		"layer":     "PORT",
		"category":  "PORT_IO",
		"node":      "WidthReg",
		"address":   "0x100",
		"length":    float64(4),
		"data":      "00000280",
		"truncated": true,
	}
	for k, v := range want {
		if logEntry[k] != v {
			t.Errorf("%s: got %v, want %v", k, logEntry[k], v)
		}
	}
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	logEntry := logJSON(t, Event{
		Timestamp:   time.Now(),
		SessionID:   "abc12345-def6-7890",
		Layer:       LayerMap,
		Category:    CategoryState,
		Node:        "Device",
		StateChange: &StateChangeEvent{State: StateConnected, Model: "Cam1"},
	})

	if logEntry["state"] != "CONNECTED" {
		t.Errorf("state: got %v, want CONNECTED", logEntry["state"])
	}
	if logEntry["model"] != "Cam1" {
		t.Errorf("model: got %v, want Cam1", logEntry["model"])
	}
	if _, ok := logEntry["direction"]; ok {
		t.Error("direction should only be logged for port events")
	}
}

func TestSlogAdapterLogsError(t *testing.T) {
	kind := 5
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "s",
		Layer:     LayerPort,
		Category:  CategoryError,
		Error:     &ErrorEventData{Layer: LayerPort, Message: "port: timeout", Kind: &kind, Context: "READ"},
	})

	output := buf.String()
	for _, want := range []string{"error_msg=\"port: timeout\"", "error_layer=PORT", "error_kind=5", "error_context=READ"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
}

func TestSlogAdapterInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
