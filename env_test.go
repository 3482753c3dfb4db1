package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEnvironFromOS_CapturesProcessEnvironment(t *testing.T) {
	t.Setenv("VSENV_TEST_VARIABLE", "present")

	env := environFromOS()
	if env["VSENV_TEST_VARIABLE"] != "present" {
		t.Errorf("Expected VSENV_TEST_VARIABLE captured, got: %q", env["VSENV_TEST_VARIABLE"])
	}
}

func TestEnvironment_CloneIsIndependent(t *testing.T) {
	env := Environment{"A": "1"}

	clone := env.Clone()
	clone["A"] = "2"
	clone["B"] = "3"

	if env["A"] != "1" {
		t.Errorf("Expected original unchanged, got A: %q", env["A"])
	}
	if _, ok := env["B"]; ok {
		t.Errorf("Expected B only in the clone")
	}
}

func TestEnvironment_MergeLaterWins(t *testing.T) {
	env := Environment{"A": "1", "B": "2"}

	env.Merge(map[string]string{"B": "changed", "C": "3"})

	if env["A"] != "1" || env["B"] != "changed" || env["C"] != "3" {
		t.Errorf("Unexpected merge result: %v", env)
	}
}

func TestEnvironment_LookupFoldsCase(t *testing.T) {
	env := Environment{"ComSpec": `C:\Windows\system32\cmd.exe`}

	got, ok := env.Lookup("COMSPEC")
	if !ok || got != `C:\Windows\system32\cmd.exe` {
		t.Errorf("Expected a case-folded hit, got: %q (%v)", got, ok)
	}
	if _, ok := env.Lookup("NOPE"); ok {
		t.Errorf("Expected a miss for an absent variable")
	}
}

func TestEnvironment_LookupPrefersExactMatch(t *testing.T) {
	env := Environment{"Path": "folded", "PATH": "exact"}

	got, _ := env.Lookup("PATH")
	if got != "exact" {
		t.Errorf("Expected the exact key to win, got: %q", got)
	}
}

func TestEnvironment_EnvironSorted(t *testing.T) {
	env := Environment{"B": "2", "A": "1", "C": "3"}

	got := env.Environ()
	want := []string{"A=1", "B=2", "C=3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got: %v", want, got)
	}
}

func TestEnvironment_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.env")
	content := "FOO=bar\nQUOTED=\"a b\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	env := Environment{"FOO": "old"}

	if err := env.LoadFile(path); err != nil {
		t.Fatalf("Expected env file to load, got: %v", err)
	}
	if env["FOO"] != "bar" {
		t.Errorf("Expected FOO overridden, got: %q", env["FOO"])
	}
	if env["QUOTED"] != "a b" {
		t.Errorf("Expected quotes stripped, got: %q", env["QUOTED"])
	}
}

func TestEnvironment_LoadFileMissing(t *testing.T) {
	env := Environment{}

	if err := env.LoadFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("Expected an error for a missing env file")
	}
}

func TestEnvironment_Apply(t *testing.T) {
	t.Setenv("VSENV_APPLY_CANARY", "old")

	env := environFromOS()
	env["VSENV_APPLY_CANARY"] = "new"
	env.Apply()

	if got := os.Getenv("VSENV_APPLY_CANARY"); got != "new" {
		t.Errorf("Expected the applied value, got: %q", got)
	}
}
