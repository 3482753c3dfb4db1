package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Environment holds process environment variables as a map so that overlays
// replace earlier values by key. Windows treats variable names
// case-insensitively; this map does not, it keeps names exactly as the
// process or the environment dump reported them.
type Environment map[string]string

// environFromOS captures the current process environment.
func environFromOS() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		if idx := strings.Index(kv, "="); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Clone returns an independent copy of the environment.
func (e Environment) Clone() Environment {
	clone := make(Environment, len(e))
	for k, v := range e {
		clone[k] = v
	}
	return clone
}

// Merge overlays vars onto the environment, replacing existing keys.
func (e Environment) Merge(vars map[string]string) {
	for k, v := range vars {
		e[k] = v
	}
}

// Lookup finds key in the environment ignoring case, the way Windows
// resolves variable names. An exact match wins over a folded one.
func (e Environment) Lookup(key string) (string, bool) {
	if v, ok := e[key]; ok {
		return v, true
	}
	for k, v := range e {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Get is Lookup without the presence report.
func (e Environment) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// LoadFile overlays a dotenv-format file onto the environment.
func (e Environment) LoadFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	e.Merge(vars)
	return nil
}

// Apply replaces the process environment with e. Executable resolution for
// the launched command then sees the updated PATH, the same as sourcing the
// setup script in a shell would.
func (e Environment) Apply() {
	os.Clearenv()
	for k, v := range e {
		os.Setenv(k, v)
	}
}

// Environ renders the environment as a sorted KEY=VALUE slice in the form
// expected by os/exec and syscall.Exec.
func (e Environment) Environ() []string {
	environ := make([]string, 0, len(e))
	for k, v := range e {
		environ = append(environ, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(environ)
	return environ
}
