package localfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsHiddenName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".hidden.csv", true},
		{".git", true},
		{"data.csv", false},
		{".", false},
		{"..", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsHiddenName(tt.name); got != tt.want {
			t.Errorf("IsHiddenName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !IsHidden(filepath.Join("some", "dir", ".env")) {
		t.Error("IsHidden should look at the base name")
	}
}

func setupTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"sales-2024.csv", "sales-2025.csv", "notes.txt", ".secret.csv", "summary.CSV"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("a\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sales-archive"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func names(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListDirectory(t *testing.T) {
	dir := setupTree(t)

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all visible", ListOptions{}, []string{"sales-archive", "notes.txt", "sales-2024.csv", "sales-2025.csv", "summary.CSV"}},
		{"csv only", ListOptions{Extension: ".csv"}, []string{"sales-archive", "sales-2024.csv", "sales-2025.csv"}},
		{"hidden", ListOptions{IncludeHidden: true, Extension: ".csv"}, []string{"sales-archive", ".secret.csv", "sales-2024.csv", "sales-2025.csv"}},
		{"prefix", ListOptions{Prefix: "sales-20"}, []string{"sales-2024.csv", "sales-2025.csv"}},
		{"dot prefix shows hidden", ListOptions{Prefix: ".s"}, []string{".secret.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListDirectory(dir, tt.opts)
			if err != nil {
				t.Fatalf("ListDirectory failed: %v", err)
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotNames, tt.want)
			}
			for i := range gotNames {
				if gotNames[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotNames, tt.want)
				}
			}
		})
	}
}

func TestListDirectory_Missing(t *testing.T) {
	if _, err := ListDirectory(filepath.Join(t.TempDir(), "nope"), ListOptions{}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestComplete(t *testing.T) {
	dir := setupTree(t)
	sep := string(filepath.Separator)

	tests := []struct {
		name      string
		input     string
		want      string
		wantCount int
	}{
		{"common prefix", filepath.Join(dir, "sa"), filepath.Join(dir, "sales-"), 3},
		{"unique file", filepath.Join(dir, "sales-2024"), filepath.Join(dir, "sales-2024.csv"), 1},
		{"unique dir", filepath.Join(dir, "sales-a"), filepath.Join(dir, "sales-archive") + sep, 1},
		{"no match", filepath.Join(dir, "zzz"), filepath.Join(dir, "zzz"), 0},
		{"non-csv ignored", filepath.Join(dir, "no"), filepath.Join(dir, "no"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matches := Complete(tt.input, ".csv", nil)
			if got != tt.want {
				t.Errorf("Complete(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(matches) != tt.wantCount {
				t.Errorf("got %d matches, want %d", len(matches), tt.wantCount)
			}
		})
	}
}

func TestComplete_Expand(t *testing.T) {
	dir := setupTree(t)
	expand := func(d string) string {
		if d == "data/" {
			return dir
		}
		return d
	}

	got, _ := Complete("data/sales-2025", ".csv", expand)
	if got != "data/sales-2025.csv" {
		t.Errorf("Complete with expand = %q", got)
	}
}
