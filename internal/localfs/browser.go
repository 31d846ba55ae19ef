package localfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileEntry is one directory entry.
type FileEntry struct {
	Path  string
	Name  string
	Size  int64
	IsDir bool
}

// ListOptions configures ListDirectory.
type ListOptions struct {
	// IncludeHidden includes dot files.
	IncludeHidden bool

	// Extension keeps only files with this exact suffix. Directories are always kept.
	Extension string

	// Prefix keeps only entries whose name starts with it.
	Prefix string
}

// ListDirectory returns the entries of path, directories first, each group sorted by name.
func ListDirectory(path string, opts ListOptions) ([]FileEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if !opts.IncludeHidden && IsHiddenName(name) && !strings.HasPrefix(opts.Prefix, ".") {
			continue
		}
		if !strings.HasPrefix(name, opts.Prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		isDir := info.IsDir()
		if !isDir && info.Mode()&os.ModeSymlink != 0 {
			if target, err := os.Stat(filepath.Join(path, name)); err == nil {
				isDir = target.IsDir()
			}
		}
		if !isDir && opts.Extension != "" && !strings.HasSuffix(name, opts.Extension) {
			continue
		}

		fe := FileEntry{Path: filepath.Join(path, name), Name: name, IsDir: isDir}
		if !isDir {
			fe.Size = info.Size()
		}
		result = append(result, fe)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsDir != result[j].IsDir {
			return result[i].IsDir
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Complete extends a partially typed path the way a shell does. The typed
// text is split into directory and name prefix; matching entries with the
// given extension (plus directories) are candidates. The returned string is
// input extended by the candidates' longest common prefix, with a trailing
// separator when the single match is a directory. expand turns the typed
// directory into a real one (e.g. "~" expansion) and may be nil.
func Complete(input, extension string, expand func(string) string) (string, []FileEntry) {
	dir, prefix := filepath.Split(input)
	lookup := dir
	if expand != nil {
		lookup = expand(dir)
	}
	if lookup == "" {
		lookup = "."
	}

	matches, err := ListDirectory(lookup, ListOptions{Extension: extension, Prefix: prefix})
	if err != nil || len(matches) == 0 {
		return input, nil
	}

	if len(matches) == 1 {
		completed := dir + matches[0].Name
		if matches[0].IsDir {
			completed += string(filepath.Separator)
		}
		return completed, matches
	}

	common := matches[0].Name
	for _, m := range matches[1:] {
		common = commonPrefix(common, m.Name)
	}
	if len(common) < len(prefix) {
		common = prefix
	}
	return dir + common, matches
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
