// Package render materializes a template directory into a project directory.
//
// A render runs in three passes and touches the destination only in the
// last one:
//
//  1. plan: walk the entry directory, substitute the context into every
//     relative path and every non-excluded file, and collect the result in
//     memory.
//  2. check: compare every planned path with what already exists under the
//     destination and apply the ConflictPolicy.
//  3. commit: write the surviving entries into a private staging directory,
//     then move them into place.
//
// Any failure in the first two passes leaves the destination untouched. A
// failure while staging also leaves it untouched; the staging directory is
// always removed.
//
// Directories are not enumerated, only the files and symlinks inside them,
// so empty directories in a template are not reproduced.
package render
