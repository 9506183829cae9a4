package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/189/koa2-generator/internal/filesystem"
)

// creationLogLine is the pattern tools use to read the creation log.
var creationLogLine = regexp.MustCompile(`(?m)(?:create|force).*?: (.*)$`)

// ParseCreationLog returns the paths of every creation-log line in out, in
// order.
func ParseCreationLog(out string) []string {
	var paths []string
	for _, m := range creationLogLine.FindAllStringSubmatch(out, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// TestProject is a temporary target directory for a generator run.
type TestProject struct {
	Root string // parent temp dir
	Dir  string // Root/Name, the target directory
	Name string
	t    *testing.T
}

// NewTestProject creates a temporary parent directory. The target itself
// (Root/name) is not created, as for a fresh run.
func NewTestProject(t *testing.T, name string) *TestProject {
	t.Helper()

	root := t.TempDir()
	return &TestProject{
		Root: root,
		Dir:  filepath.Join(root, name),
		Name: name,
		t:    t,
	}
}

// Path returns the absolute path of a slash-separated file in the target.
func (p *TestProject) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// ReadFile returns the content of a file in the target.
func (p *TestProject) ReadFile(rel string) string {
	p.t.Helper()

	data, err := os.ReadFile(p.Path(rel))
	if err != nil {
		p.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}

// WriteFile creates or replaces a file in the target, with parents.
func (p *TestProject) WriteFile(rel, content string) {
	p.t.Helper()

	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		p.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

// RemoveFile deletes a file from the target.
func (p *TestProject) RemoveFile(rel string) {
	p.t.Helper()

	if err := os.Remove(p.Path(rel)); err != nil {
		p.t.Fatalf("Failed to remove %s: %v", rel, err)
	}
}

// Files lists every file in the target, sorted.
func (p *TestProject) Files() []string {
	p.t.Helper()

	files, err := filesystem.ListFiles(p.Dir)
	if err != nil {
		p.t.Fatalf("Failed to list %s: %v", p.Dir, err)
	}
	return files
}

// AssertLogMatchesTree fails the test unless the paths of the creation log
// in out are exactly the files in the target.
func (p *TestProject) AssertLogMatchesTree(out string) {
	p.t.Helper()

	logged := ParseCreationLog(out)
	sort.Strings(logged)
	files := p.Files()

	if len(logged) != len(files) {
		p.t.Fatalf("creation log has %d paths, target has %d files\nlog:   %v\nfiles: %v", len(logged), len(files), logged, files)
	}
	for i := range files {
		if logged[i] != files[i] {
			p.t.Fatalf("creation log and target differ at %d: %q vs %q", i, logged[i], files[i])
		}
	}
}
