package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// compilerCandidates are probed on the search path before discovery runs.
// Any hit means the environment can already build native code and setup is
// skipped unless forced.
var compilerCandidates = []string{"cc", "gcc", "clang", "clang-cl"}

// defaultRequires lists the Visual Studio component IDs accepted as proof
// of a usable native toolchain. WDExpress covers Express editions, which
// carry the C++ compilers without the VC.Tools component.
var defaultRequires = []string{
	"Microsoft.VisualStudio.Component.VC.Tools.x86.x64",
	"Microsoft.VisualStudio.Workload.WDExpress",
}

// Bootstrap discovers a native toolchain installation and prepares the
// environment a command should run under.
type Bootstrap struct {
	Config   *Config
	Platform Platform
	Logger   *slog.Logger
	Runner   Runner
}

// NewBootstrap wires a Bootstrap against the real host: detected platform
// and real subprocess execution.
func NewBootstrap(cfg *Config, logger *slog.Logger, env Environment) *Bootstrap {
	return &Bootstrap{
		Config:   cfg,
		Platform: DetectPlatform(env),
		Logger:   logger,
		Runner:   execRunner{},
	}
}

// SetupEnv returns a copy of base with the toolchain environment merged in.
// On hosts that need no setup, or when a compiler is already reachable and
// setup is not forced, the copy comes back unchanged. On error no
// environment is returned at all, so callers never see a partial merge.
func (b *Bootstrap) SetupEnv(base Environment) (Environment, error) {
	env := base.Clone()

	switch b.Platform {
	case PlatformUnix:
		b.Logger.Debug("not a Windows host, no toolchain setup needed")
		return env, nil
	case PlatformCompatLayer:
		b.Logger.Debug("Unix compatibility layer detected, no toolchain setup needed")
		return env, nil
	}

	if !b.Config.Force {
		if name, ok := b.compilerOnPath(); ok {
			b.Logger.Debug("compiler already on PATH", "compiler", name)
			return env, nil
		}
	}

	arch := b.Config.Arch
	if arch == "" {
		detected, err := detectNativeArch(env)
		if err != nil {
			return nil, err
		}
		arch = detected
	}
	b.Logger.Debug("toolchain architecture", "arch", arch)

	installPath, err := b.findInstallation(env)
	if err != nil {
		return nil, err
	}

	script, err := vcvarsScript(installPath, arch)
	if err != nil {
		return nil, err
	}

	vars, err := b.scriptEnv(script)
	if err != nil {
		return nil, err
	}
	b.Logger.Debug("toolchain environment extracted", "script", script, "vars", len(vars))

	env.Merge(vars)
	return env, nil
}

// CommandEnv builds the environment the command will run under: the base
// environment with the toolchain setup applied, then the config env and the
// config env file merged on top. Later sources win.
func (b *Bootstrap) CommandEnv(base Environment) (Environment, error) {
	env, err := b.SetupEnv(base)
	if err != nil {
		return nil, err
	}
	env.Merge(b.Config.Env)
	if b.Config.EnvFile != "" {
		if err := env.LoadFile(b.Config.EnvFile); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// compilerOnPath probes the search path for any known C compiler.
func (b *Bootstrap) compilerOnPath() (string, bool) {
	for _, name := range compilerCandidates {
		if _, err := b.Runner.LookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}

// locatorPath returns where vswhere.exe should be. Visual Studio 15.2 and
// later always install it under the 32-bit Program Files root.
func (b *Bootstrap) locatorPath(env Environment) string {
	if b.Config.VSWhere != "" {
		return b.Config.VSWhere
	}
	root := env.Get("ProgramFiles(x86)")
	if root == "" {
		root = env.Get("ProgramFiles")
	}
	return filepath.Join(root, "Microsoft Visual Studio", "Installer", "vswhere.exe")
}

// vsInstallation is the subset of a vswhere record the bootstrap uses.
type vsInstallation struct {
	InstallationPath    string `json:"installationPath"`
	InstallationVersion string `json:"installationVersion"`
	DisplayName         string `json:"displayName"`
}

// findInstallation asks vswhere for the newest installation carrying a
// native toolchain and returns its installation path.
func (b *Bootstrap) findInstallation(env Environment) (string, error) {
	vswhere := b.locatorPath(env)
	if _, err := os.Stat(vswhere); err != nil {
		return "", fmt.Errorf("could not find %s: %w", vswhere, ErrToolingNotFound)
	}

	args := []string{"-latest"}
	if b.Config.IncludePrerelease() {
		args = append(args, "-prerelease")
	}
	args = append(args, "-requiresAny")
	for _, id := range b.Config.Requires {
		args = append(args, "-requires", id)
	}
	for _, product := range b.Config.Products {
		args = append(args, "-products", product)
	}
	args = append(args, "-utf8", "-format", "json")

	b.Logger.Debug("running installation locator", "path", vswhere)
	out, err := b.Runner.Output(vswhere, args...)
	if err != nil {
		return "", fmt.Errorf("running %s: %w", filepath.Base(vswhere), err)
	}

	var installations []vsInstallation
	if err := json.Unmarshal(out, &installations); err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolingOutput, err)
	}
	if len(installations) == 0 {
		return "", ErrToolingOutput
	}
	first := installations[0]
	if first.InstallationPath == "" {
		return "", fmt.Errorf("%w: no installationPath in first record", ErrToolingOutput)
	}
	b.Logger.Debug("found installation",
		"name", first.DisplayName,
		"version", first.InstallationVersion,
		"path", first.InstallationPath)
	return first.InstallationPath, nil
}

// vcvarsScript locates the vcvars batch script for arch below installPath.
// Editions that ship only the cross compilers have the x86_ variants, so
// those are accepted as fallbacks.
func vcvarsScript(installPath, arch string) (string, error) {
	var names []string
	if arch == archARM64 {
		names = []string{"vcvarsarm64.bat", "vcvarsx86_arm64.bat"}
	} else {
		names = []string{"vcvars64.bat", "vcvarsx86_amd64.bat"}
	}
	for _, name := range names {
		script := filepath.Join(installPath, "VC", "Auxiliary", "Build", name)
		if _, err := os.Stat(script); err == nil {
			return script, nil
		}
	}
	return "", fmt.Errorf("could not find vcvars script in %s: %w", installPath, ErrToolingNotFound)
}

// scriptEnv runs the vcvars setup script and captures the environment it
// produces. The script cannot be sourced across a process boundary, so a
// wrapper batch script calls it and dumps the resulting variables behind a
// unique separator line, which is then parsed back into a map.
func (b *Bootstrap) scriptEnv(script string) (map[string]string, error) {
	separator := uuid.NewString()

	wrapper, err := writeSetupScript(script, separator)
	if err != nil {
		return nil, err
	}
	defer os.Remove(wrapper)

	b.Logger.Debug("running setup script", "script", script, "wrapper", wrapper)
	out, err := b.Runner.Output(wrapper)
	if err != nil {
		return nil, fmt.Errorf("running setup script: %w", err)
	}
	return parseScriptOutput(string(out), separator), nil
}

// writeSetupScript synthesizes the wrapper batch script. The separator line
// keeps whatever banner the setup script prints apart from the SET dump
// that follows it.
func writeSetupScript(script, separator string) (string, error) {
	var batch bytes.Buffer
	batch.WriteString("@ECHO OFF\r\n")
	fmt.Fprintf(&batch, "call \"%s\"\r\n", script)
	fmt.Fprintf(&batch, "ECHO %s\r\n", separator)
	batch.WriteString("SET\r\n")

	wrapper, err := os.CreateTemp("", "vsenv-*.bat")
	if err != nil {
		return "", fmt.Errorf("creating wrapper script: %w", err)
	}
	if _, err := wrapper.Write(batch.Bytes()); err != nil {
		wrapper.Close()
		os.Remove(wrapper.Name())
		return "", fmt.Errorf("writing wrapper script: %w", err)
	}
	if err := wrapper.Close(); err != nil {
		os.Remove(wrapper.Name())
		return "", fmt.Errorf("writing wrapper script: %w", err)
	}
	return wrapper.Name(), nil
}

// parseScriptOutput extracts the KEY=VALUE dump from the wrapper's output.
// Lines up to and including the separator are the setup script's own
// chatter and are dropped. After it, blank lines and lines without = are
// skipped and later assignments win.
func parseScriptOutput(out, separator string) map[string]string {
	vars := make(map[string]string)
	seen := false
	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !seen {
			if line == separator {
				seen = true
			}
			continue
		}
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[key] = value
	}
	return vars
}
