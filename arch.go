package main

import (
	"fmt"
	"strings"
)

// Architecture tags used for vcvars script selection. They match the
// lower-cased values the PROCESSOR_ARCHITECTURE environment variable takes.
const (
	archX86   = "x86"
	archAMD64 = "amd64"
	archARM   = "arm"
	archARM64 = "arm64"
)

// Image file machine constants as reported by IsWow64Process2.
// https://learn.microsoft.com/en-us/windows/win32/sysinfo/image-file-machine-constants
const (
	machineI386  = 0x014C
	machineARM   = 0x01C4
	machineAMD64 = 0x8664
	machineARM64 = 0xAA64
)

// archFromMachine maps an image file machine value to an architecture tag,
// or "" when the value is not one the toolchain setup knows about.
func archFromMachine(machine uint16) string {
	switch machine {
	case machineAMD64:
		return archAMD64
	case machineI386:
		return archX86
	case machineARM64:
		return archARM64
	case machineARM:
		return archARM
	}
	return ""
}

// validateArch rejects architecture tags the vcvars selection cannot serve.
// Only explicitly requested architectures are validated; detected ones pass
// through as-is.
func validateArch(arch string) error {
	switch arch {
	case archX86, archAMD64, archARM, archARM64:
		return nil
	}
	return fmt.Errorf("unsupported architecture %q (expected x86, amd64, arm or arm64)", arch)
}

// archFromEnviron recovers the native architecture from the environment.
// PROCESSOR_ARCHITEW6432 is set only for processes running under WOW64
// emulation and names the real OS architecture. PROCESSOR_ARCHITECTURE
// matches the native architecture for everything but emulated processes,
// which is good enough as a last resort on systems where the process
// information API is unavailable.
func archFromEnviron(env Environment) (string, error) {
	if arch := strings.ToLower(env.Get("PROCESSOR_ARCHITEW6432")); arch != "" {
		return arch, nil
	}
	if arch, ok := env.Lookup("PROCESSOR_ARCHITECTURE"); ok {
		return strings.ToLower(arch), nil
	}
	return "", ErrArchDetection
}
