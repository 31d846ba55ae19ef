package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/data/a.csv", filepath.Join(home, "data", "a.csv")},
		{"~alice/a.csv", "~alice/a.csv"},
		{"/tmp/a.csv", "/tmp/a.csv"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve_MissingTail(t *testing.T) {
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(filepath.Join(dir, "not", "yet"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(real, "not", "yet"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Resolve(filepath.Join(link, "a.csv"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	realTarget, _ := filepath.EvalSymlinks(target)
	if want := filepath.Join(realTarget, "a.csv"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_Empty(t *testing.T) {
	wd, _ := os.Getwd()
	got, err := Resolve("")
	if err != nil || got != wd {
		t.Errorf("Resolve(\"\") = %q, %v; want %q", got, err, wd)
	}
}
