package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/189/koa2-generator/internal/plan"
)

// Action is the decision taken for one planned file.
type Action int

const (
	Create Action = iota
	IdenticalSkip
	ConflictAbort
	ConflictOverwrite
)

func (a Action) String() string {
	switch a {
	case Create:
		return "create"
	case IdenticalSkip:
		return "identical"
	case ConflictAbort:
		return "conflict"
	case ConflictOverwrite:
		return "force"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ConflictRecord is the classification of one planned path against the
// target directory. Records are computed for the whole plan before anything
// is written and are never persisted.
type ConflictRecord struct {
	Path   string
	Action Action
	Reason string

	existing []byte // on-disk content when it differs, for diffs
}

// ClassifyOptions configures ClassifyAll.
type ClassifyOptions struct {
	Force bool
	// Differ, when set, is used to attach a diff to every conflict whose
	// existing content differs from the generated content.
	Differ *Differ
}

// ConflictError lists every ConflictAbort found in one classification pass.
type ConflictError struct {
	Conflicts []ConflictRecord
	Diffs     map[string]string // by path, only when a Differ was given
}

// Paths returns the conflicting paths in plan order.
func (e *ConflictError) Paths() []string {
	out := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		out[i] = c.Path
	}
	return out
}

func (e *ConflictError) Error() string {
	subject := "files conflict"
	if len(e.Conflicts) == 1 {
		subject = "file conflicts"
	}
	return fmt.Sprintf("%d %s with existing content: %s", len(e.Conflicts), subject, strings.Join(e.Paths(), ", "))
}

// Classify decides what to do with one planned file:
//
//   - nothing at the destination: Create
//   - same bytes on disk: IdenticalSkip
//   - different bytes: ConflictOverwrite with force, ConflictAbort otherwise
//   - a directory at the destination, or a regular file where a parent
//     directory is needed: ConflictAbort, even with force
//
// Directories themselves are never classified; they are created as needed.
func Classify(file plan.PlannedFile, content []byte, targetDir string, force bool) (ConflictRecord, error) {
	rec := ConflictRecord{Path: file.Path}

	if parent := blockedParent(file.Path, targetDir); parent != "" {
		rec.Action = ConflictAbort
		rec.Reason = fmt.Sprintf("%s exists and is not a directory", parent)
		return rec, nil
	}

	dest := filepath.Join(targetDir, filepath.FromSlash(file.Path))
	info, err := os.Stat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		rec.Action = Create
		return rec, nil
	case err != nil:
		return rec, fmt.Errorf("failed to inspect %s: %w", file.Path, err)
	case info.IsDir():
		rec.Action = ConflictAbort
		rec.Reason = "a directory exists at this path"
		return rec, nil
	}

	existing, err := os.ReadFile(dest)
	if err != nil {
		return rec, fmt.Errorf("failed to read %s: %w", file.Path, err)
	}

	switch {
	case bytes.Equal(existing, content):
		rec.Action = IdenticalSkip
	case force:
		rec.Action = ConflictOverwrite
		rec.Reason = "content differs"
		rec.existing = existing
	default:
		rec.Action = ConflictAbort
		rec.Reason = "content differs"
		rec.existing = existing
	}
	return rec, nil
}

// blockedParent returns the first parent of rel, relative to targetDir,
// that exists but is not a directory. It returns "" when every parent is a
// directory or does not exist yet.
func blockedParent(rel, targetDir string) string {
	var parents []string
	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}

	for i := len(parents) - 1; i >= 0; i-- {
		info, err := os.Stat(filepath.Join(targetDir, filepath.FromSlash(parents[i])))
		if err != nil {
			return ""
		}
		if !info.IsDir() {
			return parents[i]
		}
	}
	return ""
}

// ClassifyAll classifies the whole plan before anything is written. If any
// file is a ConflictAbort, the returned error is a *ConflictError listing
// all of them; the records are returned either way.
func ClassifyAll(files []plan.PlannedFile, contents [][]byte, targetDir string, opts ClassifyOptions) ([]ConflictRecord, error) {
	if len(files) != len(contents) {
		return nil, fmt.Errorf("classify: %d files but %d contents", len(files), len(contents))
	}

	records := make([]ConflictRecord, len(files))
	var conflicts []ConflictRecord
	diffs := map[string]string{}

	for i, f := range files {
		rec, err := Classify(f, contents[i], targetDir, opts.Force)
		if err != nil {
			return nil, err
		}
		records[i] = rec

		if rec.existing != nil && opts.Differ != nil {
			diffs[f.Path] = opts.Differ.Diff(f.Path, rec.existing, contents[i])
		}
		if rec.Action == ConflictAbort {
			conflicts = append(conflicts, rec)
		}
	}

	if len(conflicts) > 0 {
		err := &ConflictError{Conflicts: conflicts}
		if opts.Differ != nil {
			err.Diffs = diffs
		}
		return records, err
	}
	return records, nil
}

// Counts tallies records by action.
func Counts(records []ConflictRecord) map[Action]int {
	out := make(map[Action]int, 4)
	for _, r := range records {
		out[r.Action]++
	}
	return out
}
