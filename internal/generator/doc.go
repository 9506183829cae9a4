// Package generator renders a file plan and writes it to disk.
//
// # Pipeline
//
// A run goes through three steps, and only the last one has side effects:
//
//	contents, err := renderer.RenderPlan(ctx, p.Files, p.Context, manifestBytes)
//	records, err := generator.ClassifyAll(p.Files, contents, dir, generator.ClassifyOptions{Force: force})
//	entries, err := generator.Materialize(ctx, p.Files, contents, records, generator.MaterializeOptions{TargetDir: dir})
//
// Rendering is pure and runs concurrently. Classification completes for the
// whole plan before the first write, so a run that would clobber an existing
// file without --force aborts with a *ConflictError and writes nothing.
//
// # Creation log
//
// Materialize prints one line per written file, in plan order, as soon as
// the file is on disk:
//
//	create : app.js
//	force : routes/index.js
//
// Other tools parse this shape; the tag may be colored when the writer is a
// terminal. Directories are created as needed but get no line of their own,
// so the log lists exactly the files on disk. A dry run prints
// "[dry run] would create <path>" instead, which does not match the log shape.
//
// Materialization is not transactional. The first I/O failure stops the run
// with an *IOError and files already written are left in place.
package generator
