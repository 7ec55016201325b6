// Package types holds the small shared types that several packages agree
// on, keeping the dependency graph acyclic.
package types

import "fmt"

// WriteMode selects how generated content is merged into the target
// document.
type WriteMode int

const (
	// WriteModeOverwrite replaces the whole document.
	WriteModeOverwrite WriteMode = iota
	// WriteModeIncremental appends after a blank-line separator.
	WriteModeIncremental
	// WriteModeCursorInsert splices content at the cursor marker.
	WriteModeCursorInsert
)

// String returns the config-file name of the mode.
func (m WriteMode) String() string {
	switch m {
	case WriteModeOverwrite:
		return "overwrite"
	case WriteModeIncremental:
		return "incremental"
	case WriteModeCursorInsert:
		return "cursor"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// ParseWriteMode converts a config-file name into a WriteMode.
func ParseWriteMode(s string) (WriteMode, error) {
	switch s {
	case "overwrite":
		return WriteModeOverwrite, nil
	case "incremental":
		return WriteModeIncremental, nil
	case "cursor":
		return WriteModeCursorInsert, nil
	default:
		return WriteModeOverwrite, fmt.Errorf("unknown write mode %q", s)
	}
}
