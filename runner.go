package main

import (
	"bytes"
	"os"
	"os/exec"
)

// Runner abstracts subprocess execution and search path lookups so tests
// can stand in for vswhere.exe and cmd.exe on any host.
type Runner interface {
	// Output runs a program and captures its standard output. Standard
	// error passes through to the caller's stderr.
	Output(name string, args ...string) ([]byte, error)
	// LookPath reports where name resolves on the executable search path.
	LookPath(name string) (string, error)
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
