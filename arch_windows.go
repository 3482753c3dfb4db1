//go:build windows

package main

import "golang.org/x/sys/windows"

// detectNativeArch returns the architecture of Windows itself, which can
// differ from the process architecture when running under emulation, an
// amd64 binary on an arm64 host for example. IsWow64Process2 reports the
// native machine directly; the environment fallback covers systems old
// enough to lack the API.
func detectNativeArch(env Environment) (string, error) {
	var processMachine, nativeMachine uint16
	err := windows.IsWow64Process2(windows.CurrentProcess(), &processMachine, &nativeMachine)
	if err == nil {
		if arch := archFromMachine(nativeMachine); arch != "" {
			return arch, nil
		}
	}
	return archFromEnviron(env)
}
