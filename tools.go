//go:build tools

package tools

// Pins the mock generator used for pkg/port/mocks (see .mockery.yaml).
// Run: go run github.com/vektra/mockery/v2 from the module root.
import (
	_ "github.com/vektra/mockery/v2"
)
