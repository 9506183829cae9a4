package generator

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/189/koa2-generator/internal/catalog"
	"github.com/189/koa2-generator/internal/plan"
)

// Renderer expands content sources into file bytes. Parsed templates are
// cached, so one Renderer can be shared by concurrent renders.
type Renderer struct {
	cat   *catalog.Catalog
	cache map[string]*template.Template
	mu    sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer reading templates from cat.
func NewRenderer(cat *catalog.Catalog) *Renderer {
	return &Renderer{
		cat:   cat,
		cache: make(map[string]*template.Template),
	}
}

// Render produces the bytes of a static or parametrized source. Static
// sources are copied verbatim; parametrized output is normalized to "\n"
// line endings with exactly one trailing newline. Manifest sources are not
// rendered here: their bytes come from manifest.Serialize.
func (r *Renderer) Render(src catalog.Source, data catalog.Context) ([]byte, error) {
	switch src.Kind {
	case catalog.Static:
		return r.cat.ReadTemplate(src.Template)
	case catalog.Parametrized:
		tmpl, err := r.template(src.Template)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render template '%s': %w", src.Template, err)
		}
		return normalizeText(buf.Bytes()), nil
	default:
		return nil, fmt.Errorf("cannot render source of kind %q", src.Kind)
	}
}

// template returns the parsed template for name, parsing it on first use.
func (r *Renderer) template(name string) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	text, err := r.cat.ReadTemplate(name)
	if err != nil {
		return nil, err
	}
	tmpl, err = catalog.ParseTemplate(name, string(text))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

// RenderPlan renders every planned file concurrently. The result is indexed
// like files, so callers see plan order regardless of scheduling. Manifest
// files receive manifestBytes. The first error cancels the remaining work.
func (r *Renderer) RenderPlan(ctx context.Context, files []plan.PlannedFile, data catalog.Context, manifestBytes []byte) ([][]byte, error) {
	out := make([][]byte, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if f.Source.Kind == catalog.Manifest {
				out[i] = manifestBytes
				return nil
			}
			content, err := r.Render(f.Source, data)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			out[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeText converts CRLF and CR line endings to LF and leaves exactly
// one trailing newline.
func normalizeText(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	b = bytes.TrimRight(b, "\n")
	return append(b, '\n')
}
