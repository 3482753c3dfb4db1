package main

import "errors"

// Failure kinds reported by the environment bootstrap. All of them are
// terminal: callers print the error and exit rather than retry, but tests
// and embedders can still tell them apart with errors.Is.
var (
	// ErrArchDetection is returned when neither the process information
	// API nor the environment reveals the native OS architecture.
	ErrArchDetection = errors.New("unable to detect native OS architecture")

	// ErrToolingNotFound is returned when a required tool or script is
	// missing from its expected on-disk location.
	ErrToolingNotFound = errors.New("toolchain tooling not found")

	// ErrToolingOutput is returned when the installation locator runs but
	// its output cannot be used: malformed JSON, or no installations.
	ErrToolingOutput = errors.New("could not parse vswhere output")
)
