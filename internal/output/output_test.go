package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestPrinter_Streams(t *testing.T) {
	tests := []struct {
		name    string
		print   func(p *Printer)
		wantOut string
		wantErr string
	}{
		{"success", func(p *Printer) { p.Success("done") }, "✔ done\n", ""},
		{"info", func(p *Printer) { p.Info("Next steps:") }, "Next steps:\n", ""},
		{"step", func(p *Printer) { p.Step("npm install") }, "   npm install\n", ""},
		{"println", func(p *Printer) { p.Println("plain") }, "plain\n", ""},
		{"error", func(p *Printer) { p.Error("error: unknown option '--foo'") }, "", "❌ error: unknown option '--foo'\n"},
		{"warn", func(p *Printer) { p.Warn("deprecated") }, "", "⚠️  deprecated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, errOut := newTestPrinter()
			tt.print(p)
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(nil, nil)
	assert.NotNil(t, p.Out)
	assert.NotNil(t, p.Err)
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	quiet := NewLogger(&buf, false)
	quiet.Debug("hidden")
	quiet.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	verbose := NewLogger(&buf, true)
	verbose.Debug("details", "count", 11)
	assert.Contains(t, buf.String(), "details")
	assert.Contains(t, buf.String(), "count=11")
	assert.Contains(t, buf.String(), "koa2")
}
