package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nodemap-go/nodemap/pkg/log"
)

const testSession = "5f0c2a91-7d3e-4b8a-9c11-2f6e8d4a7b30"

// createTestLogFile writes events to a capture file in a temp directory.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestFormatPortEvent(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: testSession,
		Direction: log.DirectionWrite,
		Layer:     log.LayerPort,
		Category:  log.CategoryPortIO,
		Node:      "WidthReg",
		Port:      log.NewPortEvent(0x100, 4, []byte{0, 0, 2, 0x80}),
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.123456Z",
		"[session:5f0c2a91]",
		"PORT WRITE WidthReg",
		"Address: 0x100  Length: 4",
		"Data: 00000280",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "truncated") {
		t.Errorf("unexpected truncation marker: %s", output)
	}
}

func TestFormatTruncatedPortEvent(t *testing.T) {
	event := log.Event{
		Layer:    log.LayerPort,
		Category: log.CategoryPortIO,
		Port:     log.NewPortEvent(0, 1024, make([]byte, 1024)),
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	if !strings.Contains(buf.String(), "(truncated)") {
		t.Errorf("expected truncation marker, got: %s", buf.String())
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	event := log.Event{
		SessionID:   "short",
		Layer:       log.LayerMap,
		Category:    log.CategoryState,
		Node:        "Device",
		StateChange: &log.StateChangeEvent{State: log.StateConnected, Model: "Demo", Reason: "shell"},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{"[session:short]", "MAP STATE Device", "-> CONNECTED", "Model: Demo", "Reason: shell"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatErrorEvent(t *testing.T) {
	kind := 2
	event := log.Event{
		Layer:    log.LayerNode,
		Category: log.CategoryError,
		Node:     "Gain",
		Error: &log.ErrorEventData{
			Layer:   log.LayerNode,
			Message: "value 99 out of range",
			Kind:    &kind,
			Context: "SetValue",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{"NODE ERROR Gain", "Message: value 99 out of range", "Kind: 2", "Context: SetValue"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("NODE"); err != nil || l != log.LayerNode {
		t.Errorf("ParseLayerFlag(NODE) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirectionFlag("Write"); err != nil || d != log.DirectionWrite {
		t.Errorf("ParseDirectionFlag(Write) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("in"); err == nil {
		t.Error("expected error for unknown direction")
	}

	categories := map[string]log.Category{
		"io":           log.CategoryPortIO,
		"port_io":      log.CategoryPortIO,
		"invalidation": log.CategoryInvalidation,
		"callback":     log.CategoryCallback,
		"state":        log.CategoryState,
		"error":        log.CategoryError,
	}
	for s, want := range categories {
		if c, err := ParseCategoryFlag(s); err != nil || c != want {
			t.Errorf("ParseCategoryFlag(%s) = %v, %v", s, c, err)
		}
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunViewFilters(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerPort, Category: log.CategoryPortIO, Direction: log.DirectionRead, Node: "WidthReg", Port: log.NewPortEvent(0x100, 4, nil)},
		{Timestamp: ts, Layer: log.LayerPort, Category: log.CategoryPortIO, Direction: log.DirectionWrite, Node: "HeightReg", Port: log.NewPortEvent(0x108, 4, nil)},
		{Timestamp: ts, Layer: log.LayerNode, Category: log.CategoryInvalidation, Node: "Width"},
	}
	path := createTestLogFile(t, events)

	write := log.DirectionWrite
	tests := []struct {
		name    string
		filter  ViewFilter
		want    []string
		notWant []string
	}{
		{"all", ViewFilter{}, []string{"WidthReg", "HeightReg", "INVALIDATION Width"}, nil},
		{"direction", ViewFilter{Direction: &write}, []string{"HeightReg"}, []string{"WidthReg"}},
		{"node", ViewFilter{Node: "Width"}, []string{"INVALIDATION Width"}, []string{"Reg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("expected %q in output, got: %s", s, buf.String())
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(buf.String(), s) {
					t.Errorf("unexpected %q in output: %s", s, buf.String())
				}
			}
		})
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.nlog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}
