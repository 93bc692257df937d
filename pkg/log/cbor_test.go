package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	kind := 3

	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "port read",
			event: Event{
				Timestamp: ts,
				SessionID: "abc12345-def6-7890-abcd-ef1234567890",
				Direction: DirectionRead,
				Layer:     LayerPort,
				Category:  CategoryPortIO,
				Node:      "WidthReg",
				Port:      &PortEvent{Address: 0x100, Length: 4, Data: []byte{0, 0, 2, 0x80}},
			},
		},
		{
			name: "truncated write",
			event: Event{
				Timestamp: ts,
				SessionID: "s",
				Direction: DirectionWrite,
				Layer:     LayerPort,
				Category:  CategoryPortIO,
				Node:      "LUT",
				Port:      &PortEvent{Address: 0x4000, Length: 4096, Data: []byte{1}, Truncated: true},
			},
		},
		{
			name: "invalidation",
			event: Event{
				Timestamp: ts,
				SessionID: "s",
				Layer:     LayerNode,
				Category:  CategoryInvalidation,
				Node:      "PayloadSize",
			},
		},
		{
			name: "state change",
			event: Event{
				Timestamp:   ts,
				SessionID:   "s",
				Layer:       LayerMap,
				Category:    CategoryState,
				Node:        "Device",
				StateChange: &StateChangeEvent{State: StateConnected, Model: "Cam1", Reason: "user"},
			},
		},
		{
			name: "error",
			event: Event{
				Timestamp: ts,
				SessionID: "s",
				Direction: DirectionWrite,
				Layer:     LayerPort,
				Category:  CategoryError,
				Node:      "GainReg",
				Port:      &PortEvent{Address: 0x10, Length: 8},
				Error:     &ErrorEventData{Layer: LayerPort, Message: "port: timeout", Kind: &kind, Context: "WRITE"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}
			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}
			if diff := cmp.Diff(tt.event, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{Timestamp: time.Now(), SessionID: "s", Node: "Width"})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	var raw map[any]any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for k := range raw {
		if _, ok := k.(uint64); !ok {
			t.Errorf("key %v (%T) is not an integer", k, k)
		}
	}
	if raw[uint64(6)] != "Width" {
		t.Errorf("node key 6 = %v, want Width", raw[uint64(6)])
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, n := range []string{"A", "B"} {
		if err := enc.Encode(Event{Node: n}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for _, want := range []string{"A", "B"} {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if ev.Node != want {
			t.Errorf("got node %q, want %q", ev.Node, want)
		}
	}
}

func TestDecodeEventIsLenient(t *testing.T) {
	// {6: "A", 6: "B", 99: 1}: a repeated node key and a key no event has.
	data := []byte{0xa3, 0x06, 0x61, 'A', 0x06, 0x61, 'B', 0x18, 99, 0x01}
	ev, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if ev.Node != "A" && ev.Node != "B" {
		t.Errorf("Node = %q, want one of the repeated values", ev.Node)
	}
}

func TestDecodeEventRejectsTrailingBytes(t *testing.T) {
	data, err := EncodeEvent(Event{Node: "Width"})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if _, err := DecodeEvent(append(data, 0x00)); err == nil {
		t.Error("expected an error for trailing data")
	}
}

func TestEncodingIsCanonical(t *testing.T) {
	ev := Event{
		Timestamp: time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC),
		SessionID: "s",
		Node:      "Width",
		Port:      &PortEvent{Address: 0x100, Length: 4},
	}
	a, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("encodings differ:\n%x\n%x", a, b)
	}
}
