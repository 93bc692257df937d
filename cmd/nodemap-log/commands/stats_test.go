package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nodemap-go/nodemap/pkg/log"
)

func TestCollect(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, SessionID: "s-1", Layer: log.LayerMap, Category: log.CategoryState, StateChange: &log.StateChangeEvent{State: log.StateLoaded, Model: "Demo"}},
		{Timestamp: base.Add(time.Second), SessionID: "s-1", Layer: log.LayerPort, Category: log.CategoryPortIO, Direction: log.DirectionRead, Node: "WidthReg", Port: log.NewPortEvent(0x100, 4, nil)},
		{Timestamp: base.Add(2 * time.Second), SessionID: "s-1", Layer: log.LayerPort, Category: log.CategoryPortIO, Direction: log.DirectionWrite, Node: "WidthReg", Port: log.NewPortEvent(0x100, 4, nil)},
		{Timestamp: base.Add(3 * time.Second), SessionID: "s-2", Layer: log.LayerPort, Category: log.CategoryPortIO, Direction: log.DirectionRead, Node: "Vendor", Port: log.NewPortEvent(0, 32, nil)},
		{Timestamp: base.Add(4 * time.Second), SessionID: "s-2", Layer: log.LayerNode, Category: log.CategoryError, Node: "Gain", Error: &log.ErrorEventData{Layer: log.LayerNode, Message: "boom"}},
	}
	path := createTestLogFile(t, events)

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", stats.TotalEvents)
	}
	if stats.EventsByLayer[log.LayerPort] != 3 {
		t.Errorf("port events = %d, want 3", stats.EventsByLayer[log.LayerPort])
	}
	if stats.EventsByDirection[log.DirectionRead] != 2 || stats.EventsByDirection[log.DirectionWrite] != 1 {
		t.Errorf("directions = %v", stats.EventsByDirection)
	}
	if stats.BytesRead != 36 || stats.BytesWritten != 4 {
		t.Errorf("bytes read/written = %d/%d, want 36/4", stats.BytesRead, stats.BytesWritten)
	}
	if stats.Nodes["WidthReg"] != 2 {
		t.Errorf("WidthReg events = %d, want 2", stats.Nodes["WidthReg"])
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if len(stats.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(stats.Sessions))
	}
	if s := stats.Sessions["s-1"]; s.Events != 3 || s.Model != "Demo" || s.LastSeen.Sub(s.FirstSeen) != 2*time.Second {
		t.Errorf("session s-1 = %+v", s)
	}
	if d := stats.TimeRange.End.Sub(stats.TimeRange.Start); d != 4*time.Second {
		t.Errorf("time range = %s, want 4s", d)
	}
}

func TestRunStats(t *testing.T) {
	ts := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, SessionID: testSession, Layer: log.LayerPort, Category: log.CategoryPortIO, Node: "WidthReg", Port: log.NewPortEvent(0x100, 4, nil)},
		{Timestamp: ts, SessionID: testSession, Layer: log.LayerNode, Category: log.CategoryInvalidation, Node: "Width"},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 2",
		"PORT:",
		"INVALIDATION:",
		"READ:          1 (4 bytes)",
		"Busiest Nodes:",
		"Sessions: 1",
		"[5f0c2a91] 2 events",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Errors:") {
		t.Errorf("unexpected error line:\n%s", output)
	}
}

func TestRunStatsEmpty(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") || strings.Contains(buf.String(), "Time Range") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
