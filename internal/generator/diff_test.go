package generator

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainDiffer(opts DiffOptions) *Differ {
	if opts.Width == 0 {
		opts.Width = 80
	}
	return NewDiffer(io.Discard, opts)
}

func TestDiff_Identical(t *testing.T) {
	d := plainDiffer(DiffOptions{})
	assert.Empty(t, d.Diff("a.js", []byte("x\ny\n"), []byte("x\ny\n")))
}

func TestDiff_Unified(t *testing.T) {
	d := plainDiffer(DiffOptions{})
	old := "line 1\nline 2\nline 3\n"
	newer := "line 1\nline two\nline 3\n"

	want := strings.Join([]string{
		"--- app.js (existing)",
		"+++ app.js (generated)",
		"@@ -1,3 +1,3 @@",
		" line 1",
		"-line 2",
		"+line two",
		" line 3",
		"",
	}, "\n")
	assert.Equal(t, want, d.Diff("app.js", []byte(old), []byte(newer)))
}

func TestDiff_EmptySides(t *testing.T) {
	d := plainDiffer(DiffOptions{})

	added := d.Diff("a", nil, []byte("line 1\nline 2\n"))
	assert.Contains(t, added, "@@ -0,0 +1,2 @@")
	assert.Contains(t, added, "+line 1")
	assert.Contains(t, added, "+line 2")

	removed := d.Diff("a", []byte("line 1\nline 2\n"), nil)
	assert.Contains(t, removed, "@@ -1,2 +0,0 @@")
	assert.Contains(t, removed, "-line 1")
}

func TestDiff_TrailingNewlineOnly(t *testing.T) {
	d := plainDiffer(DiffOptions{})
	out := d.Diff("a", []byte("x"), []byte("x\n"))
	assert.Contains(t, out, "No newline at end of file")
}

func TestDiff_Binary(t *testing.T) {
	d := plainDiffer(DiffOptions{})
	assert.Equal(t, "Binary files differ\n", d.Diff("a", []byte("a\x00b"), []byte("c")))
}

func TestDiff_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 1; i <= 30; i++ {
		line := "line " + strings.Repeat("x", i%3)
		oldLines = append(oldLines, line)
		newLines = append(newLines, line)
	}
	newLines[1] = "changed near top"
	newLines[27] = "changed near bottom"

	d := plainDiffer(DiffOptions{ContextLines: 2})
	out := d.Diff("f", []byte(strings.Join(oldLines, "\n")+"\n"), []byte(strings.Join(newLines, "\n")+"\n"))

	assert.Equal(t, 2, strings.Count(out, "@@ -"), out)
	assert.Contains(t, out, "@@ -1,4 +1,4 @@")
	assert.Contains(t, out, "@@ -26,5 +26,5 @@")
}

func TestDiff_MergesCloseChanges(t *testing.T) {
	old := "a\nb\nc\nd\ne\n"
	newer := "A\nb\nc\nd\nE\n"

	d := plainDiffer(DiffOptions{ContextLines: 3})
	out := d.Diff("f", []byte(old), []byte(newer))
	assert.Equal(t, 1, strings.Count(out, "@@ -"), out)
	assert.Contains(t, out, "@@ -1,5 +1,5 @@")
}

func TestEditScript(t *testing.T) {
	tests := []struct {
		name      string
		a, b      []string
		wantAdd   int
		wantDel   int
		wantEqual int
	}{
		{"empty", nil, nil, 0, 0, 0},
		{"insert all", nil, []string{"x", "y"}, 2, 0, 0},
		{"delete all", []string{"x", "y"}, nil, 0, 2, 0},
		{"replace middle", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 1, 1, 2},
		{"append", []string{"a"}, []string{"a", "b"}, 1, 0, 1},
		{"classic", []string{"a", "b", "c", "a", "b", "b", "a"}, []string{"c", "b", "a", "b", "a", "c"}, 2, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := editScript(tt.a, tt.b)

			counts := map[op]int{}
			var rebuiltA, rebuiltB []string
			for _, l := range script {
				counts[l.op]++
				if l.op != opAdded {
					rebuiltA = append(rebuiltA, l.text)
				}
				if l.op != opRemoved {
					rebuiltB = append(rebuiltB, l.text)
				}
			}

			assert.Equal(t, tt.wantAdd, counts[opAdded])
			assert.Equal(t, tt.wantDel, counts[opRemoved])
			assert.Equal(t, tt.wantEqual, counts[opEqual])
			require.Equal(t, len(tt.a), len(rebuiltA))
			require.Equal(t, len(tt.b), len(rebuiltB))
			if len(tt.a) > 0 {
				assert.Equal(t, tt.a, rebuiltA)
			}
			if len(tt.b) > 0 {
				assert.Equal(t, tt.b, rebuiltB)
			}
		})
	}
}

func TestExpandTabsAndTruncate(t *testing.T) {
	assert.Equal(t, "a   b", expandTabs("a\tb", 4))
	assert.Equal(t, "        x", expandTabs("\t\tx", 4))
	assert.Equal(t, "abcdefg", truncate("abcdefg", 10))
	assert.Equal(t, "abc...", truncate("abcdefghij", 6))
}

func TestTerminalWidth_FollowsWriter(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "diff.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 80, terminalWidth(f), "a regular file is not a terminal")
	assert.Equal(t, 80, terminalWidth(io.Discard))
	assert.Equal(t, 80, NewDiffer(f, DiffOptions{}).opts.Width)
	assert.Equal(t, 120, NewDiffer(f, DiffOptions{Width: 120}).opts.Width)
}
