package generator

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are generated and displayed.
// All fields are optional.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines shown around changes.
	// Default: 3
	ContextLines int

	// TabWidth is the number of spaces a tab expands to. Default: 4
	TabWidth int

	// Width truncates long lines. Default: the width of the diff writer
	// when it is a terminal, 80 otherwise.
	Width int
}

// Differ renders unified diffs between existing and generated files.
type Differ struct {
	opts DiffOptions

	header  lipgloss.Style
	hunk    lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
}

// NewDiffer creates a Differ for diffs printed to w. Colors and the default
// width follow w.
func NewDiffer(w io.Writer, opts DiffOptions) *Differ {
	if opts.ContextLines <= 0 {
		opts.ContextLines = 3
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth(w)
	}
	r := lipgloss.NewRenderer(w)

	return &Differ{
		opts:    opts,
		header:  r.NewStyle().Foreground(lipgloss.Color("240")),
		hunk:    r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		added:   r.NewStyle().Foreground(lipgloss.Color("2")),
		removed: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Diff returns a unified diff from existing to generated, or "" when they
// are identical.
func (d *Differ) Diff(path string, existing, generated []byte) string {
	if bytes.Equal(existing, generated) {
		return ""
	}
	if isBinary(existing) || isBinary(generated) {
		return "Binary files differ\n"
	}

	a, b := splitLines(string(existing)), splitLines(string(generated))
	if len(a) > 10000 || len(b) > 10000 {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	hunks := buildHunks(editScript(a, b), d.opts.ContextLines)
	if len(hunks) == 0 {
		// Only the trailing newline differs.
		return d.header.Render("--- "+path+" (existing)") + "\n" +
			d.header.Render("+++ "+path+" (generated)") + "\n" +
			"\\ No newline at end of file\n"
	}

	var buf strings.Builder
	buf.WriteString(d.header.Render("--- "+path+" (existing)") + "\n")
	buf.WriteString(d.header.Render("+++ "+path+" (generated)") + "\n")
	for _, h := range hunks {
		d.writeHunk(&buf, h)
	}
	return buf.String()
}

type op int

const (
	opEqual op = iota
	opAdded
	opRemoved
)

// diffLine is one line of an edit script. oldNum and newNum are 1-based;
// zero means the line does not exist on that side.
type diffLine struct {
	op     op
	oldNum int
	newNum int
	text   string
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []diffLine
}

// editScript computes the shortest edit script from a to b.
// Based on "An O(ND) Difference Algorithm and Its Variations" by Eugene W. Myers (1986).
func editScript(a, b []string) []diffLine {
	n, m := len(a), len(b)
	maxD := n + m
	off := maxD + 1
	v := make([]int, 2*maxD+3)
	var trace [][]int

	for d := 0; d <= maxD; d++ {
		trace = append(trace, slices.Clone(v))

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1] // down: insertion
			} else {
				x = v[off+k-1] + 1 // right: deletion
			}
			y := x - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x

			if x >= n && y >= m {
				return backtrack(a, b, trace, off)
			}
		}
	}
	return nil
}

func backtrack(a, b []string, trace [][]int, off int) []diffLine {
	x, y := len(a), len(b)
	var out []diffLine

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[off+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			out = append(out, diffLine{op: opEqual, oldNum: x + 1, newNum: y + 1, text: a[x]})
		}

		if d == 0 {
			break
		}
		if x == prevX {
			y--
			out = append(out, diffLine{op: opAdded, newNum: y + 1, text: b[y]})
		} else {
			x--
			out = append(out, diffLine{op: opRemoved, oldNum: x + 1, text: a[x]})
		}
	}

	slices.Reverse(out)
	return out
}

// buildHunks groups changes with up to context unchanged lines on each
// side. Changes separated by at most 2*context unchanged lines share a hunk.
func buildHunks(lines []diffLine, context int) []hunk {
	var hunks []hunk

	for i := 0; i < len(lines); {
		for i < len(lines) && lines[i].op == opEqual {
			i++
		}
		if i == len(lines) {
			break
		}

		start := max(0, i-context)
		end := i
		for end < len(lines) {
			if lines[end].op != opEqual {
				end++
				continue
			}
			run := 0
			for end+run < len(lines) && lines[end+run].op == opEqual {
				run++
			}
			if end+run == len(lines) || run > 2*context {
				break
			}
			end += run
		}

		stop := min(len(lines), end+context)
		hunks = append(hunks, newHunk(lines[start:stop]))
		i = stop
	}
	return hunks
}

func newHunk(lines []diffLine) hunk {
	h := hunk{lines: lines}
	for _, l := range lines {
		if l.oldNum > 0 && h.oldStart == 0 {
			h.oldStart = l.oldNum
		}
		if l.newNum > 0 && h.newStart == 0 {
			h.newStart = l.newNum
		}
		if l.op != opAdded {
			h.oldCount++
		}
		if l.op != opRemoved {
			h.newCount++
		}
	}
	return h
}

func (d *Differ) writeHunk(buf *strings.Builder, h hunk) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(d.hunk.Render(header) + "\n")

	for _, l := range h.lines {
		text := truncate(expandTabs(l.text, d.opts.TabWidth), d.opts.Width-2)
		switch l.op {
		case opAdded:
			buf.WriteString(d.added.Render("+"+text) + "\n")
		case opRemoved:
			buf.WriteString(d.removed.Render("-"+text) + "\n")
		default:
			buf.WriteString(" " + text + "\n")
		}
	}
}

// isBinary reports whether data has a NUL byte in its first 8 KiB.
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines splits s into lines without the final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var buf strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			buf.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		buf.WriteRune(r)
		col++
	}
	return buf.String()
}

func truncate(s string, width int) string {
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

// terminalWidth returns the width of w, or 80 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 80
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
