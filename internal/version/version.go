package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/petridish/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/petridish/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/petridish/internal/version.Date={{.Date}}
)

// String renders the build information on one line for `petridish version`.
func String() string {
	return fmt.Sprintf("petridish %s (commit %s, built %s)", Version, Commit, Date)
}
