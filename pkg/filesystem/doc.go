// Package filesystem provides implementations of types.FS: the real OS
// filesystem used at runtime and an afero-backed one for tests.
package filesystem
