package generator

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/189/koa2-generator/internal/plan"
)

func writeTestFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, dir string)
		path       string
		force      bool
		wantAction Action
		wantReason string
	}{
		{
			name:       "absent file",
			path:       "routes/index.js",
			wantAction: Create,
		},
		{
			name:       "identical file",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "app.js", "generated\n") },
			path:       "app.js",
			wantAction: IdenticalSkip,
		},
		{
			name:       "identical file with force",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "app.js", "generated\n") },
			path:       "app.js",
			force:      true,
			wantAction: IdenticalSkip,
		},
		{
			name:       "different file",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "app.js", "mine\n") },
			path:       "app.js",
			wantAction: ConflictAbort,
			wantReason: "content differs",
		},
		{
			name:       "different file with force",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "app.js", "mine\n") },
			path:       "app.js",
			force:      true,
			wantAction: ConflictOverwrite,
			wantReason: "content differs",
		},
		{
			name: "directory at destination",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "app.js"), 0755))
			},
			path:       "app.js",
			force:      true,
			wantAction: ConflictAbort,
			wantReason: "a directory exists at this path",
		},
		{
			name:       "file where a parent directory is needed",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "public", "not a dir\n") },
			path:       "public/stylesheets/style.css",
			force:      true,
			wantAction: ConflictAbort,
			wantReason: "public exists and is not a directory",
		},
		{
			name:       "existing parent directories",
			setup:      func(t *testing.T, dir string) { writeTestFile(t, dir, "public/other.txt", "x\n") },
			path:       "public/stylesheets/style.css",
			wantAction: Create,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			rec, err := Classify(plan.PlannedFile{Path: tt.path, Mode: 0644}, []byte("generated\n"), dir, tt.force)
			require.NoError(t, err)
			assert.Equal(t, tt.path, rec.Path)
			assert.Equal(t, tt.wantAction, rec.Action)
			assert.Equal(t, tt.wantReason, rec.Reason)
		})
	}
}

func TestClassify_DoesNotWrite(t *testing.T) {
	dir := t.TempDir()

	_, err := Classify(plan.PlannedFile{Path: "a/b/c.js"}, []byte("x\n"), dir, false)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassifyAll_ReportsEveryConflict(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.js", "old a\n")
	writeTestFile(t, dir, "b.js", "b\n")
	writeTestFile(t, dir, "c.js", "old c\n")

	files := []plan.PlannedFile{{Path: "a.js"}, {Path: "b.js"}, {Path: "c.js"}, {Path: "d.js"}}
	contents := [][]byte{[]byte("a\n"), []byte("b\n"), []byte("c\n"), []byte("d\n")}

	records, err := ClassifyAll(files, contents, dir, ClassifyOptions{})
	require.Error(t, err)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []string{"a.js", "c.js"}, conflictErr.Paths())
	assert.Nil(t, conflictErr.Diffs)
	assert.Equal(t, "2 files conflict with existing content: a.js, c.js", err.Error())

	require.Len(t, records, 4)
	assert.Equal(t, map[Action]int{ConflictAbort: 2, IdenticalSkip: 1, Create: 1}, Counts(records))
}

func TestClassifyAll_Force(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.js", "old a\n")

	files := []plan.PlannedFile{{Path: "a.js"}, {Path: "b.js"}}
	contents := [][]byte{[]byte("a\n"), []byte("b\n")}

	records, err := ClassifyAll(files, contents, dir, ClassifyOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, ConflictOverwrite, records[0].Action)
	assert.Equal(t, Create, records[1].Action)
}

func TestClassifyAll_Diffs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.js", "one\ntwo\n")

	files := []plan.PlannedFile{{Path: "a.js"}}
	contents := [][]byte{[]byte("one\nthree\n")}
	differ := NewDiffer(io.Discard, DiffOptions{Width: 80})

	_, err := ClassifyAll(files, contents, dir, ClassifyOptions{Differ: differ})
	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Contains(t, conflictErr.Diffs, "a.js")
	assert.Contains(t, conflictErr.Diffs["a.js"], "-two")
	assert.Contains(t, conflictErr.Diffs["a.js"], "+three")
}

func TestClassifyAll_LengthMismatch(t *testing.T) {
	_, err := ClassifyAll([]plan.PlannedFile{{Path: "a.js"}}, nil, t.TempDir(), ClassifyOptions{})
	assert.Error(t, err)
}

func TestConflictError_Singular(t *testing.T) {
	err := &ConflictError{Conflicts: []ConflictRecord{{Path: "app.js", Action: ConflictAbort}}}
	assert.Equal(t, "1 file conflicts with existing content: app.js", err.Error())
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "create", Create.String())
	assert.Equal(t, "identical", IdenticalSkip.String())
	assert.Equal(t, "conflict", ConflictAbort.String())
	assert.Equal(t, "force", ConflictOverwrite.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}
