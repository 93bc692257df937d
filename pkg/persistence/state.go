package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FormatVersion is the current version of the snapshot file format.
const FormatVersion = 1

// Snapshot errors.
var (
	ErrUnsupportedVersion = errors.New("persistence: unsupported snapshot version")
	ErrModelMismatch      = errors.New("persistence: snapshot was taken from a different model")
)

// Snapshot holds the persisted feature values of one node map.
type Snapshot struct {
	// Version is the snapshot file format version.
	Version int `json:"version"`

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time `json:"saved_at"`

	// ModelName and VendorName identify the description the snapshot was
	// taken from.
	ModelName  string `json:"model_name"`
	VendorName string `json:"vendor_name,omitempty"`

	// Features are the captured values in node declaration order.
	Features []Feature `json:"features"`
}

// Feature is one persisted node value.
type Feature struct {
	// Name is the node name.
	Name string `json:"name"`

	// Value is the string form of the value, as produced by ToString.
	Value string `json:"value"`
}

// Value returns the persisted value of the named feature.
func (s *Snapshot) Value(name string) (string, bool) {
	for _, f := range s.Features {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FileStore keeps a snapshot in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string { return s.path }

// Save writes the snapshot to disk.
func (s *FileStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	snap.Version = FormatVersion
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the snapshot from disk.
// Returns nil, nil if the file doesn't exist.
func (s *FileStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("persistence: decoding %s: %w", s.path, err)
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	return snap, nil
}

// Clear removes the snapshot file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
