package nodemap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodemap-go/nodemap/pkg/port"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		a, b, want AccessMode
	}{
		{NI, RW, NI},
		{NI, NA, NI},
		{NA, RW, NA},
		{NA, RO, NA},
		{NA, WO, NA},
		{RO, WO, NA},
		{RO, RW, RO},
		{WO, RW, WO},
		{RW, RW, RW},
		{RO, RO, RO},
		{WO, WO, WO},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s+%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.a, tt.b))
			assert.Equal(t, tt.want, Combine(tt.b, tt.a), "symmetric")
		})
	}
}

func TestLockMode(t *testing.T) {
	tests := map[AccessMode]AccessMode{
		RW: RO,
		WO: NA,
		RO: RO,
		NA: NA,
		NI: NI,
	}
	for in, want := range tests {
		assert.Equal(t, want, lockMode(in), in.String())
	}
}

func TestAccessResolutionOrder(t *testing.T) {
	m := fromYAML(t, `
nodes:
  - kind: Integer
    name: "No"
    value: "0"
  - kind: Integer
    name: "Yes"
    value: "1"
  - kind: Integer
    name: Missing
    value: "0"
    pIsImplemented: "No"
    pIsAvailable: "No"
  - kind: Integer
    name: Unavailable
    value: "0"
    pIsAvailable: "No"
    pIsLocked: "Yes"
  - kind: Integer
    name: Locked
    value: "0"
    pIsLocked: "Yes"
  - kind: Integer
    name: WriteOnlyLocked
    value: "0"
    imposedAccessMode: WO
    pIsLocked: "Yes"
  - kind: Integer
    name: ReadOnly
    value: "0"
    imposedAccessMode: RO
`)
	tests := map[string]AccessMode{
		"Missing":         NI,
		"Unavailable":     NA,
		"Locked":          RO,
		"WriteOnlyLocked": NA,
		"ReadOnly":        RO,
		"Yes":             RW,
	}
	for name, want := range tests {
		n, err := m.Node(name)
		require.NoError(t, err)
		assert.Equal(t, want, n.AccessMode(), name)
	}

	ro, _ := m.Integer("ReadOnly")
	assert.ErrorIs(t, ro.SetValue(1), ErrAccess)
	missing, _ := m.Integer("Missing")
	_, err := missing.Value()
	assert.ErrorIs(t, err, ErrAccess)
}

func TestRegisterAccessFollowsPort(t *testing.T) {
	m, mem := newCamera(t)
	vendor, _ := m.Node("DeviceVendorName")
	assert.Equal(t, RO, vendor.AccessMode())

	height, _ := m.Node("Height")
	assert.Equal(t, RW, height.AccessMode())

	require.NoError(t, m.Disconnect(""))
	assert.Equal(t, NA, height.AccessMode())

	require.NoError(t, m.Connect(mem, ""))
	assert.Equal(t, RW, height.AccessMode())
}

func TestCategoryAccess(t *testing.T) {
	m := fromYAML(t, `
nodes:
  - kind: Integer
    name: "Off"
    value: "0"
  - kind: Integer
    name: Switch
    value: "0"
  - kind: Integer
    name: Gone
    value: "0"
    pIsImplemented: "Off"
  - kind: Integer
    name: Hidden
    value: "0"
    pIsAvailable: Switch
  - kind: Integer
    name: Plain
    value: "0"
  - kind: Category
    name: Mixed
    pFeature: [Hidden, Plain]
  - kind: Category
    name: AllGone
    pFeature: [Gone]
  - kind: Category
    name: Unavailable
    pFeature: [Gone, Hidden]
  - kind: Category
    name: Empty
`)
	tests := map[string]AccessMode{
		"Mixed":       RO,
		"AllGone":     NI,
		"Unavailable": NA,
		"Empty":       RO,
	}
	for name, want := range tests {
		c, err := m.Category(name)
		require.NoError(t, err)
		assert.Equal(t, want, c.AccessMode(), name)
		assert.False(t, c.IsAccessModeCacheable(), name)
	}

	// A category is recomputed on every access.
	sw, _ := m.Integer("Switch")
	require.NoError(t, sw.SetValue(1))
	c, _ := m.Category("Unavailable")
	assert.Equal(t, RO, c.AccessMode())

	mixed, _ := m.Category("Mixed")
	var names []string
	for _, f := range mixed.Features() {
		names = append(names, f.Name())
		assert.True(t, f.IsFeature())
	}
	assert.Equal(t, []string{"Hidden", "Plain"}, names)
}

func TestUnreadableAvailabilityFlag(t *testing.T) {
	m := fromYAML(t, `
nodes:
  - kind: IntReg
    name: PresentReg
    address: 0x40
    length: "4"
    accessMode: RO
    pPort: Device
    endianess: LittleEndian
    cachable: NoCache
  - kind: Integer
    name: Level
    value: "3"
    pIsAvailable: PresentReg
  - kind: Port
    name: Device
`)
	failing := true
	mem := port.NewMemoryPort()
	require.NoError(t, mem.MapRegion(0x40, 0x43, func(_ int64, buf []byte) error {
		if failing {
			return port.ErrTimeout
		}
		buf[0] = 1
		return nil
	}, nil))
	require.NoError(t, m.Connect(mem, "Device"))

	level, err := m.Integer("Level")
	require.NoError(t, err)
	assert.Equal(t, NA, level.AccessMode())

	_, err = level.Value()
	assert.ErrorIs(t, err, ErrTimeout, "the flag failure is reported, not a plain access error")
	assert.ErrorIs(t, level.SetValue(4), ErrTimeout)

	failing = false
	assert.Equal(t, RW, level.AccessMode())
	v, err := level.Value()
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)
}
