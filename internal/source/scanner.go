package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanPath resolves the input path into the list of CSV files to load.
// A regular file is returned as-is; a directory yields every *.csv file
// directly inside it, sorted by name.
func ScanPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: path, Err: ErrNoFiles}
	}

	sort.Strings(files)
	return files, nil
}
