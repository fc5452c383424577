// Package types defines the values shared between petridish's packages: the
// Context handed to the render engine, the ConflictPolicy that governs
// pre-existing destination content, and the FS interface every filesystem
// access goes through.
package types
