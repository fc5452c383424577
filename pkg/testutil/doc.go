// Package testutil provides helpers for tests that build template trees on
// disk and inspect what a render produced.
//
// Key components:
//   - CreateFile / CreateDir / CreateSymlink: fixture builders that fail the
//     test on error
//   - ReadTree: snapshot of a directory as a map of relative path to content
//   - TemplateRepo: declarative builder for a template repository with a
//     config file and an entry directory
package testutil
