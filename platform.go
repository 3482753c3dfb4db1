package main

import "runtime"

// Platform classifies the host for environment setup purposes.
type Platform int

const (
	// PlatformUnix hosts need no toolchain setup.
	PlatformUnix Platform = iota
	// PlatformWindows hosts get Visual Studio toolchain discovery.
	PlatformWindows
	// PlatformCompatLayer is Windows under a Unix compatibility layer.
	// Toolchains there resolve through the layer's own search path, so it
	// is treated like Unix.
	PlatformCompatLayer
)

func (p Platform) String() string {
	switch p {
	case PlatformUnix:
		return "unix"
	case PlatformWindows:
		return "windows"
	case PlatformCompatLayer:
		return "compat-layer"
	}
	return "unknown"
}

// DetectPlatform classifies the host the process is running on. OSTYPE is
// how cygwin shells mark their sessions; native Windows does not set it.
func DetectPlatform(env Environment) Platform {
	if runtime.GOOS != "windows" {
		return PlatformUnix
	}
	if env.Get("OSTYPE") == "cygwin" {
		return PlatformCompatLayer
	}
	return PlatformWindows
}
