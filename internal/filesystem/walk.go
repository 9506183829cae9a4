package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultIgnoreDirs are skipped by Walk unless IgnoreDirs is set.
var DefaultIgnoreDirs = []string{"node_modules", ".git"}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (e.g., "*.log")
	SkipHidden     bool     // Skip dot files and directories
}

// Walk visits every regular file under root and calls visitor with its
// path relative to root, slash-separated.
func Walk(root string, opts WalkOptions, visitor func(rel string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if opts.SkipHidden && name[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ignore := range ignoreDirs {
				if name == ignore {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, pattern := range opts.IgnorePatterns {
			if matched, _ := filepath.Match(pattern, name); matched {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return visitor(filepath.ToSlash(rel), d)
	})
}

// ListFiles returns every file under root, relative and slash-separated,
// sorted. Nothing is ignored.
func ListFiles(root string) ([]string, error) {
	var files []string
	err := Walk(root, WalkOptions{IgnoreDirs: []string{}}, func(rel string, _ fs.DirEntry) error {
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// IsEmpty reports whether dir has no entries. A directory that does not
// exist is empty.
func IsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
