package chart

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// File is a chart file found on disk.
type File struct {
	Path   string
	Format Format
}

// FindFiles returns the .sm and .ssc files under the given roots, sorted by
// path. A root may itself be a chart file.
func FindFiles(roots []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File
	add := func(path string) {
		if f, ok := FormatOf(path); ok && !seen[path] {
			seen[path] = true
			files = append(files, File{Path: path, Format: f})
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable directories are skipped
				if d != nil && d.IsDir() && path != root {
					return fs.SkipDir
				}
				return err
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("chart: walk %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}
