package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/189/koa2-generator/internal/plan"
)

// Log tags of the creation log.
const (
	TagCreate = "create"
	TagForce  = "force"
)

// LogEntry is one line of the creation log: "<tag> : <path>".
type LogEntry struct {
	Tag  string
	Path string
}

func (e LogEntry) String() string {
	return e.Tag + " : " + e.Path
}

// IOOp identifies the filesystem step that failed.
type IOOp string

const (
	WriteFailed           IOOp = "write"
	DirectoryCreateFailed IOOp = "mkdir"
)

// IOError reports the first filesystem failure of a materialization.
// Files written before it stay on disk.
type IOError struct {
	Op   IOOp
	Path string
	Err  error
}

func (e *IOError) Error() string {
	switch e.Op {
	case DirectoryCreateFailed:
		return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
	}
}

func (e *IOError) Unwrap() error { return e.Err }

// MaterializeOptions configures Materialize.
type MaterializeOptions struct {
	TargetDir string
	Writer    io.Writer   // creation log, defaults to os.Stdout
	Logger    *log.Logger // diagnostics, defaults to discarding
	DryRun    bool
}

// Materialize writes every Create and ConflictOverwrite file in plan order,
// printing one creation-log line as soon as each file is on disk.
// IdenticalSkip files produce neither a write nor a line. The first I/O
// failure stops the run with an *IOError; nothing is rolled back.
//
// The context is only checked before the first write: once writing starts
// it runs to completion or to the first error.
func Materialize(ctx context.Context, files []plan.PlannedFile, contents [][]byte, records []ConflictRecord, opts MaterializeOptions) ([]LogEntry, error) {
	if len(files) != len(contents) || len(files) != len(records) {
		return nil, fmt.Errorf("materialize: %d files, %d contents, %d records", len(files), len(contents), len(records))
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	for _, rec := range records {
		if rec.Action == ConflictAbort {
			return nil, fmt.Errorf("materialize: %s is an unresolved conflict", rec.Path)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags := newTagStyles(opts.Writer)
	var entries []LogEntry

	for i, f := range files {
		var tag string
		switch records[i].Action {
		case Create:
			tag = TagCreate
		case ConflictOverwrite:
			tag = TagForce
		default:
			opts.Logger.Debug("unchanged", "path", f.Path)
			continue
		}
		entry := LogEntry{Tag: tag, Path: f.Path}

		if opts.DryRun {
			fmt.Fprintln(opts.Writer, dryRunLine(entry))
			entries = append(entries, entry)
			continue
		}

		if err := writeFile(opts.TargetDir, f, contents[i], tag == TagForce); err != nil {
			return entries, err
		}
		fmt.Fprintf(opts.Writer, "%s : %s\n", tags.render(tag), f.Path)
		entries = append(entries, entry)

		opts.Logger.Debug("wrote file",
			"path", f.Path,
			"size", humanize.Bytes(uint64(len(contents[i]))),
			"mode", f.Mode)
	}

	return entries, nil
}

// dryRunLine previews an entry. It never takes the "<tag> : <path>" shape,
// so tools reading the creation log see no file for a dry run.
func dryRunLine(e LogEntry) string {
	verb := "create"
	if e.Tag == TagForce {
		verb = "overwrite"
	}
	return fmt.Sprintf("[dry run] would %s %s", verb, e.Path)
}

func writeFile(targetDir string, f plan.PlannedFile, content []byte, overwrite bool) error {
	dest := filepath.Join(targetDir, filepath.FromSlash(f.Path))

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: DirectoryCreateFailed, Path: filepath.ToSlash(filepath.Dir(f.Path)), Err: err}
	}

	if err := os.WriteFile(dest, content, f.Mode); err != nil {
		return &IOError{Op: WriteFailed, Path: f.Path, Err: err}
	}
	// WriteFile keeps the mode of a file that already existed.
	if overwrite {
		if err := os.Chmod(dest, f.Mode); err != nil {
			return &IOError{Op: WriteFailed, Path: f.Path, Err: err}
		}
	}
	return nil
}

// tagStyles colors log tags for the writer they are printed to, so a
// redirected log stays plain text.
type tagStyles struct {
	create lipgloss.Style
	force  lipgloss.Style
}

func newTagStyles(w io.Writer) tagStyles {
	r := lipgloss.NewRenderer(w)
	return tagStyles{
		create: r.NewStyle().Foreground(lipgloss.Color("2")),
		force:  r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (s tagStyles) render(tag string) string {
	if tag == TagForce {
		return s.force.Render(tag)
	}
	return s.create.Render(tag)
}
