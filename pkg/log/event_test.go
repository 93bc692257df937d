package log

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionRead, "READ"},
		{DirectionWrite, "WRITE"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.dir.String()
		if got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerPort, "PORT"},
		{LayerNode, "NODE"},
		{LayerMap, "MAP"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryPortIO, "PORT_IO"},
		{CategoryInvalidation, "INVALIDATION"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{CategoryCallback, "CALLBACK"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateLoaded, "LOADED"},
		{StateConnected, "CONNECTED"},
		{StateDisconnected, "DISCONNECTED"},
		{StateClosed, "CLOSED"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

// Encoded values end up in capture files; they must never change.
func TestCategoryValues(t *testing.T) {
	if CategoryPortIO != 0 || CategoryInvalidation != 1 || CategoryState != 2 || CategoryError != 3 || CategoryCallback != 4 {
		t.Error("category values changed")
	}
	if LayerPort != 0 || LayerNode != 1 || LayerMap != 2 {
		t.Error("layer values changed")
	}
}

func TestNewPortEvent(t *testing.T) {
	data := []byte{1, 2, 3}
	ev := NewPortEvent(0x100, 3, data)
	data[0] = 9

	if ev.Address != 0x100 || ev.Length != 3 {
		t.Errorf("got address 0x%x length %d", ev.Address, ev.Length)
	}
	if ev.Data[0] != 1 {
		t.Error("NewPortEvent must copy the data")
	}
	if ev.Truncated {
		t.Error("short data must not be truncated")
	}

	big := NewPortEvent(0, 1024, make([]byte, 1024))
	if !big.Truncated || len(big.Data) != MaxPortData {
		t.Errorf("got %d bytes truncated=%v, want %d bytes truncated", len(big.Data), big.Truncated, MaxPortData)
	}

	if empty := NewPortEvent(0, 0, nil); empty.Data != nil {
		t.Error("empty data should stay nil")
	}
}
