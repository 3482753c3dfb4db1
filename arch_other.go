//go:build !windows

package main

// detectNativeArch has no process information API to consult off Windows,
// so only the environment fallback applies. Setup short-circuits before
// arch detection on Unix hosts; this keeps the shared code path compiling
// everywhere.
func detectNativeArch(env Environment) (string, error) {
	return archFromEnviron(env)
}
