package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// --- Fake runner ---

// fakeRunner stands in for the two programs the bootstrap shells out to.
// Lookups hit a fixed list of compiler names. Running the locator returns
// canned JSON. Running a wrapper script behaves like cmd.exe would: the fake
// reads the synthesized batch file to recover the separator from its ECHO
// line, then prints the banner, the separator and the canned SET dump.
type fakeRunner struct {
	compilers   []string // names resolving on the fake search path
	locatorOut  string   // locator stdout
	locatorErr  error
	locatorArgs []string // arguments of the last locator run

	scriptBanner []string // lines the setup script prints before the separator
	scriptVars   []string // SET dump lines printed after the separator
	scriptErr    error
	wrappers     []string // wrapper script paths seen
	wrapperText  []string // contents of each wrapper at run time
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	for _, c := range f.compilers {
		if c == name {
			return filepath.Join("fake", "bin", name), nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	if strings.HasSuffix(name, ".bat") {
		return f.runScript(name)
	}
	f.locatorArgs = args
	if f.locatorErr != nil {
		return nil, f.locatorErr
	}
	return []byte(f.locatorOut), nil
}

func (f *fakeRunner) runScript(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.wrappers = append(f.wrappers, path)
	f.wrapperText = append(f.wrapperText, string(data))
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}

	separator := ""
	for _, line := range strings.Split(string(data), "\r\n") {
		if rest, ok := strings.CutPrefix(line, "ECHO "); ok {
			separator = rest
			break
		}
	}
	if separator == "" {
		return nil, fmt.Errorf("no ECHO line in wrapper %s", path)
	}

	var out strings.Builder
	for _, line := range f.scriptBanner {
		out.WriteString(line + "\r\n")
	}
	out.WriteString(separator + "\r\n")
	for _, line := range f.scriptVars {
		out.WriteString(line + "\r\n")
	}
	return []byte(out.String()), nil
}

// --- Fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testBootstrap builds a Bootstrap pinned to the Windows code path, so
// discovery is exercised on any host.
func testBootstrap(cfg *Config, runner Runner) *Bootstrap {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	return &Bootstrap{
		Config:   cfg,
		Platform: PlatformWindows,
		Logger:   testLogger(),
		Runner:   runner,
	}
}

// createInstallTree lays out a fake Program Files root holding the locator
// and one installation with the given vcvars scripts. Returns the root and
// the installation path.
func createInstallTree(t *testing.T, scripts ...string) (string, string) {
	t.Helper()
	root := t.TempDir()

	locatorDir := filepath.Join(root, "Microsoft Visual Studio", "Installer")
	if err := os.MkdirAll(locatorDir, 0755); err != nil {
		t.Fatalf("Failed to create locator dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(locatorDir, "vswhere.exe"), []byte("fake locator"), 0755); err != nil {
		t.Fatalf("Failed to create fake locator: %v", err)
	}

	install := filepath.Join(root, "2022", "Community")
	buildDir := filepath.Join(install, "VC", "Auxiliary", "Build")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		t.Fatalf("Failed to create build dir: %v", err)
	}
	for _, name := range scripts {
		if err := os.WriteFile(filepath.Join(buildDir, name), []byte("REM setup"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	return root, install
}

// locatorJSON renders a single-installation locator response.
func locatorJSON(t *testing.T, installPath string) string {
	t.Helper()
	records := []vsInstallation{{
		InstallationPath:    installPath,
		InstallationVersion: "17.8.3",
		DisplayName:         "Visual Studio Community 2022",
	}}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Failed to marshal locator response: %v", err)
	}
	return string(data)
}

// testEnv is a minimal Windows-shaped base environment rooted at root.
func testEnv(root string) Environment {
	return Environment{
		"ProgramFiles(x86)":      root,
		"PROCESSOR_ARCHITECTURE": "AMD64",
		"Path":                   `C:\Windows\system32`,
		"SystemRoot":             `C:\Windows`,
	}
}
