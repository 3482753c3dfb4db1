//go:build !windows

package main

import (
	"fmt"
	"os/exec"
	"syscall"
)

// launch replaces the current process with argv running under env. This is
// execve(2), so on success it does not return. The caller must have applied
// env to the process already for argv[0] to resolve against its PATH.
func launch(argv []string, env Environment) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	if err := syscall.Exec(path, argv, env.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", argv[0], err)
	}
	return nil
}
