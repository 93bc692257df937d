// Package log provides structured event capture for node maps.
//
// This package defines the Logger interface and Event types for capturing
// what a node map does at multiple layers (port, node, map). It is separate
// from operational logging (slog): event capture provides a complete
// machine-readable trace of register traffic, invalidations and callbacks
// for debugging and analysis.
//
// # Basic Usage
//
// Applications configure capture by passing a Logger to the node map:
//
//	// For development: log to console via slog
//	nodemap.New(desc, nodemap.WithEventLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For analysis: write to binary file
//	fl, _ := log.NewFileLogger("/tmp/camera.nlog")
//	nodemap.New(desc, nodemap.WithEventLogger(fl))
//
//	// Both: use MultiLogger
//	log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Port: Register reads and writes (PortEvent)
//   - Node: Invalidations and fired callbacks
//   - Map: Lifecycle changes (StateChangeEvent)
//
// Failed port accesses carry an ErrorEventData.
//
// # File Format
//
// Capture files use CBOR encoding with .nlog extension. The nodemap-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
