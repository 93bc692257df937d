package description

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadXML(t *testing.T) {
	d, err := LoadXML(filepath.Join("testdata", "camera.xml"))
	if err != nil {
		t.Fatalf("LoadXML failed: %v", err)
	}

	if d.ModelName != "DemoCam" || d.VendorName != "Example Devices" {
		t.Errorf("model/vendor = %q/%q", d.ModelName, d.VendorName)
	}
	if d.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", d.Version)
	}

	// Nodes inside a Group are flattened into the top level.
	vendor, ok := d.Find("DeviceVendorName")
	if !ok {
		t.Fatal("DeviceVendorName not found")
	}
	if vendor.Kind != KindString || vendor.PValue != "DeviceVendorNameReg" {
		t.Errorf("DeviceVendorName = %+v", vendor)
	}
	if vendor.ToolTip != "Name of the manufacturer." {
		t.Errorf("ToolTip = %q", vendor.ToolTip)
	}

	width, _ := d.Find("Width")
	if width.Min != "16" || width.PMax != "WidthMaxReg" || width.Inc != "4" {
		t.Errorf("Width range = min %q pMax %q inc %q", width.Min, width.PMax, width.Inc)
	}
	if width.PIsLocked != "TLParamsLocked" {
		t.Errorf("Width pIsLocked = %q", width.PIsLocked)
	}

	temp, _ := d.Find("DeviceTemperature")
	if temp.DisplayPrecision == nil || *temp.DisplayPrecision != 1 {
		t.Errorf("DisplayPrecision = %v, want 1", temp.DisplayPrecision)
	}

	reg, _ := d.Find("TriggerModeReg")
	want := &Index{Node: "TriggerSelector", Offset: "4"}
	if diff := cmp.Diff(want, reg.PIndex); diff != "" {
		t.Errorf("pIndex mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Strings{"0x0300"}, reg.Address); diff != "" {
		t.Errorf("Address mismatch (-want +got):\n%s", diff)
	}

	pf, _ := d.Find("PixelFormat")
	if len(pf.Entries) != 3 {
		t.Fatalf("PixelFormat entries = %d, want 3", len(pf.Entries))
	}
	for _, e := range pf.Entries {
		if e.Kind != KindEnumEntry {
			t.Errorf("entry %s kind = %q", e.Name, e.Kind)
		}
	}
	if pf.Entries[2].PIsAvailable != "ColorCapable" {
		t.Errorf("RGB8 pIsAvailable = %q", pf.Entries[2].PIsAvailable)
	}

	payload, _ := d.Find("PayloadSize")
	wantVars := []Variable{{Name: "W", Node: "Width"}, {Name: "H", Node: "Height"}, {Name: "PF", Node: "PixelFormat"}}
	if diff := cmp.Diff(wantVars, payload.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if len(payload.Expressions) != 1 || payload.Expressions[0].Text != "(PF & 0x00FF0000) >> 19" {
		t.Errorf("expressions = %+v", payload.Expressions)
	}

	var structReg *NodeDesc
	for i := range d.Nodes {
		if d.Nodes[i].Kind == KindStructReg {
			structReg = &d.Nodes[i]
		}
	}
	if structReg == nil {
		t.Fatal("StructReg not found")
	}
	if len(structReg.StructEntries) != 2 || structReg.StructEntries[1].Kind != KindStructEntry {
		t.Fatalf("struct entries = %+v", structReg.StructEntries)
	}
	if e := structReg.StructEntries[1]; *e.LSB != 1 || *e.MSB != 4 {
		t.Errorf("TestPatternId bits = %d..%d", *e.LSB, *e.MSB)
	}
}

func TestLoadYAML(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "sensor.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.ModelName != "DemoSensor" {
		t.Errorf("ModelName = %q", d.ModelName)
	}

	gain, ok := d.Find("GainReg")
	if !ok {
		t.Fatal("GainReg not found")
	}
	// A scalar address is accepted as a one element list.
	if diff := cmp.Diff(Strings{"0x10"}, gain.Address); diff != "" {
		t.Errorf("Address mismatch (-want +got):\n%s", diff)
	}

	auto, _ := d.Find("GainAuto")
	var names []string
	for _, e := range auto.Entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"Off", "Once", "Continuous"}, names); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	offset, _ := d.Find("Offset")
	if diff := cmp.Diff(Strings{"GainAuto"}, offset.PInvalidator); diff != "" {
		t.Errorf("pInvalidator mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		load func() error
		want error
	}{
		{
			name: "unknown xml element",
			load: func() error {
				_, err := ParseXML([]byte(`<RegisterDescription><Widget Name="X"/></RegisterDescription>`))
				return err
			},
			want: ErrUnknownKind,
		},
		{
			name: "unknown yaml kind",
			load: func() error {
				_, err := ParseYAML([]byte("nodes:\n  - kind: Widget\n    name: X\n"))
				return err
			},
			want: ErrUnknownKind,
		},
		{
			name: "unknown extension",
			load: func() error {
				_, err := Load("camera.json")
				return err
			},
			want: ErrUnknownFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.load(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ParseXML([]byte(`<RegisterDescription><Integer Name="X">`)); err == nil {
		t.Error("expected error for truncated XML")
	}
}

func TestWhitespaceIsTrimmed(t *testing.T) {
	d, err := ParseXML([]byte(`<RegisterDescription>
  <Integer Name="X">
    <pValue>
      XReg
    </pValue>
  </Integer>
</RegisterDescription>`))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}
	if d.Nodes[0].PValue != "XReg" {
		t.Errorf("pValue = %q, want XReg", d.Nodes[0].PValue)
	}
}
