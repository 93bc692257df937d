// Package persistence saves and restores the streamable features of a node
// map.
//
// A snapshot lists every streamable feature that is readable and writable
// at capture time, rendered with the node's ToString. Restoring writes the
// values back with FromString in several passes, because a feature may only
// become writable once a feature listed after it has been restored (a
// selector, or an auto mode that locks it). Snapshots are stored as
// versioned JSON files.
package persistence
