package types

import (
	"fmt"
	"strings"
)

// ConflictPolicy decides what happens when a rendered path already exists
// at the destination.
type ConflictPolicy int

const (
	// ConflictFail aborts the render, writing nothing, if any path exists.
	ConflictFail ConflictPolicy = iota
	// ConflictOverwrite replaces existing files and symlinks.
	ConflictOverwrite
	// ConflictSkipExisting leaves existing paths alone and writes the rest.
	ConflictSkipExisting
)

// String returns the name used in flags and configuration.
func (p ConflictPolicy) String() string {
	switch p {
	case ConflictFail:
		return "fail"
	case ConflictOverwrite:
		return "overwrite"
	case ConflictSkipExisting:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseConflictPolicy parses "fail", "overwrite" or "skip" (and a few aliases).
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return ConflictFail, nil
	case "overwrite", "force":
		return ConflictOverwrite, nil
	case "skip", "skip-existing", "skip_existing":
		return ConflictSkipExisting, nil
	default:
		return ConflictFail, fmt.Errorf("unknown conflict policy: %s", s)
	}
}
