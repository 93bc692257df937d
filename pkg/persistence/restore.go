package persistence

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// Capture takes a snapshot of every streamable feature of m that can
// currently be read and written.
func Capture(m *nodemap.NodeMap) (*Snapshot, error) {
	m.Lock()
	defer m.Unlock()

	snap := &Snapshot{
		Version:    FormatVersion,
		SavedAt:    time.Now(),
		ModelName:  m.ModelName(),
		VendorName: m.VendorName(),
	}
	for _, n := range m.Nodes() {
		if !persistable(n) {
			continue
		}
		v, err := captureValue(n)
		if err != nil {
			return nil, fmt.Errorf("persistence: capturing %s: %w", n.Name(), err)
		}
		snap.Features = append(snap.Features, Feature{Name: n.Name(), Value: v})
	}
	return snap, nil
}

// captureValue renders the value of n for a snapshot. Floats are written
// with the shortest exact representation instead of the display precision.
func captureValue(n *nodemap.Node) (string, error) {
	switch n.Kind() {
	case nodemap.KindFloat, nodemap.KindFloatReg, nodemap.KindConverter:
		v, err := nodemap.Float{Node: n}.Value()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return n.ToString()
}

func persistable(n *nodemap.Node) bool {
	if !n.IsStreamable() {
		return false
	}
	switch n.Kind() {
	case nodemap.KindCategory, nodemap.KindCommand, nodemap.KindPort:
		return false
	}
	return n.AccessMode() == nodemap.RW
}

// Restore writes the features of snap back to m. Features that fail are
// retried as long as a pass makes progress; the errors of the features
// still failing after the last pass are returned together.
func Restore(m *nodemap.NodeMap, snap *Snapshot) error {
	if snap.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	if snap.ModelName != m.ModelName() {
		return fmt.Errorf("%w: %q, map is %q", ErrModelMismatch, snap.ModelName, m.ModelName())
	}

	m.Lock()
	defer m.Unlock()

	pending := append([]Feature(nil), snap.Features...)
	for len(pending) > 0 {
		var failed []Feature
		var errs *multierror.Error
		for _, f := range pending {
			if err := restore(m, f); err != nil {
				failed = append(failed, f)
				errs = multierror.Append(errs, err)
			}
		}
		if len(failed) == len(pending) {
			return errs.ErrorOrNil()
		}
		pending = failed
	}
	return nil
}

func restore(m *nodemap.NodeMap, f Feature) error {
	n, err := m.Node(f.Name)
	if err != nil {
		return fmt.Errorf("persistence: restoring %s: %w", f.Name, err)
	}
	if err := n.FromString(f.Value); err != nil {
		return fmt.Errorf("persistence: restoring %s = %q: %w", f.Name, f.Value, err)
	}
	return nil
}
