// Package config loads the two configuration files petridish reads.
//
// The template config (petridish.toml, petridish.yaml or petridish.yml) lives
// at the root of a template repository and declares the project prompt, the
// entry directory, render exclusions and the list of prompts whose answers
// make up the render context.
//
// The user config lives under the XDG config home and carries per-user
// defaults: output directory, conflict policy, default answers and source
// aliases. It is layered as embedded defaults, then the file, then
// PETRIDISH_* environment variables.
package config
