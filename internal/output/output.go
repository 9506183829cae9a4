package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Printer writes styled user-facing messages. Regular messages go to Out,
// errors and warnings to Err. Colors follow each writer, so output
// redirected to a file or a test buffer is plain text.
type Printer struct {
	Out io.Writer
	Err io.Writer

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	infoStyle    lipgloss.Style
	stepStyle    lipgloss.Style
}

// New creates a Printer. Nil writers default to os.Stdout and os.Stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)

	return &Printer{
		Out:          out,
		Err:          errOut,
		successStyle: outR.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		errorStyle:   errR.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warnStyle:    errR.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		infoStyle:    outR.NewStyle().Foreground(lipgloss.Color("6")),
		stepStyle:    outR.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Success prints a success message in green.
//
// Example:
//
//	p.Success("Created koa2 app in ./myapp")
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, p.successStyle.Render("✔ "+msg))
}

// Error prints an error message with ❌ to Err.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Err, p.errorStyle.Render("❌ "+msg))
}

// Warn prints a warning with ⚠️ to Err.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.Err, p.warnStyle.Render("⚠️  "+msg))
}

// Info prints an informational message in cyan.
//
// Example:
//
//	p.Info("Next steps:")
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.Out, p.infoStyle.Render(msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	p.Step("cd myapp && npm install")
func (p *Printer) Step(msg string) {
	fmt.Fprintln(p.Out, p.stepStyle.Render("   "+msg))
}

// Println prints an unstyled line to Out.
func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// NewLogger returns the diagnostic logger of the CLI: Debug level when
// verbose, Warn otherwise.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "koa2",
	})
}
