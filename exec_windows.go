//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	winjob "github.com/kolesnikovae/go-winjob"
)

// launch runs argv under env and exits with the child's exit code. Windows
// has no execve(2), so the child is spawned with inherited standard streams
// inside a kill-on-close job object. The job ties the child's process tree
// to ours: killing vsenv takes the whole tree down, like replacing the
// process would have. The caller must have applied env to the process
// already for argv[0] to resolve against its PATH.
func launch(argv []string, env Environment) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}

	cmd := childCommand(path, argv, env)

	job, err := winjob.Create("vsenv-"+strconv.Itoa(os.Getpid()),
		winjob.WithKillOnJobClose(),
		winjob.WithBreakawayOK(),
	)
	if err != nil {
		return fmt.Errorf("create job object: %w", err)
	}

	if err := winjob.StartInJobObject(cmd, job); err != nil {
		_ = job.Close()
		return fmt.Errorf("start in job: %w", err)
	}

	// The job handle stays open for the lifetime of the process. It is
	// reclaimed when vsenv exits, and kill-on-close fires then.
	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", argv[0], err)
	}
	os.Exit(0)
	return nil // not reached
}

// childCommand prepares argv to run with inherited standard streams under
// env. Path carries the resolved executable; Args stays argv exactly as
// typed, so the child sees the argv[0] it was invoked with.
func childCommand(path string, argv []string, env Environment) *exec.Cmd {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Args = argv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env.Environ()
	return cmd
}
