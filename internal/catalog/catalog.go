package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml templates
var embedded embed.FS

// NoView is the view key that disables server-side templates.
const NoView = "none"

// SourceKind selects how a planned file's bytes are produced.
type SourceKind string

const (
	Static       SourceKind = "static"       // copied verbatim
	Parametrized SourceKind = "parametrized" // text/template over Context
	Manifest     SourceKind = "manifest"     // serialized package.json
)

// Source describes where a file's content comes from.
type Source struct {
	Kind     SourceKind
	Template string // path inside the catalog filesystem, empty for Manifest
}

// FileSpec is one file contributed by a feature.
type FileSpec struct {
	Path   string // relative, POSIX-separated
	Source Source
	Mode   fs.FileMode
}

// UnmarshalYAML decodes a file entry, parsing the octal mode string.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Path     string     `yaml:"path"`
		Kind     SourceKind `yaml:"kind"`
		Template string     `yaml:"template"`
		Mode     string     `yaml:"mode"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	if raw.Mode != "" {
		m, err := strconv.ParseUint(raw.Mode, 8, 32)
		if err != nil {
			return fmt.Errorf("line %d: invalid mode %q for %s: %w", node.Line, raw.Mode, raw.Path, err)
		}
		mode = fs.FileMode(m)
	}

	*f = FileSpec{
		Path:   raw.Path,
		Source: Source{Kind: raw.Kind, Template: raw.Template},
		Mode:   mode,
	}
	return nil
}

// Feature is a catalog row: the files and dependencies one selectable
// capability contributes to a generated project.
type Feature struct {
	Key             string            `yaml:"key"`
	Aliases         []string          `yaml:"aliases"`
	Legacy          []string          `yaml:"legacy"` // accepted, but deprecated
	Files           []FileSpec        `yaml:"files"`
	Scripts         map[string]string `yaml:"scripts"`
	Dependencies    map[string]string `yaml:"dependencies"`
	DevDependencies map[string]string `yaml:"devDependencies"`

	// View engines
	Extension string `yaml:"extension"`
	Engine    string `yaml:"engine"` // koa-views map target

	// CSS engines: lines injected into app.js
	Import string `yaml:"import"`
	Use    string `yaml:"use"`
}

// Catalog is the immutable feature registry. Build it with Load or use the
// process-wide Default; it is never mutated after loading.
type Catalog struct {
	Defaults struct {
		View string `yaml:"view"`
		CSS  string `yaml:"css"`
	} `yaml:"defaults"`
	Base   Feature   `yaml:"base"`
	Views  []Feature `yaml:"views"`
	Styles []Feature `yaml:"styles"`
	Git    Feature   `yaml:"git"`

	fsys   fs.FS
	views  map[string]entry
	styles map[string]entry
}

type entry struct {
	feature *Feature
	legacy  bool
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog, loading it on first use.
// It panics if the embedded catalog is malformed: that is a build defect,
// not a runtime condition.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustLoad(embedded)
	})
	return defaultCatalog
}

// MustLoad is like Load but panics on error.
func MustLoad(fsys fs.FS) *Catalog {
	c, err := Load(fsys)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Load parses catalog.yml from fsys, indexes engine keys and aliases, and
// validates every invariant the planner and renderer rely on.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "catalog.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog.yml: %w", err)
	}

	c := &Catalog{fsys: fsys}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog.yml: %w", err)
	}

	if c.views, err = index("view", c.Views); err != nil {
		return nil, err
	}
	if c.styles, err = index("css", c.Styles); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func index(kind string, features []Feature) (map[string]entry, error) {
	idx := make(map[string]entry, len(features))
	add := func(name string, e entry) error {
		if name == "" {
			return &InvariantError{Feature: kind, Reason: "empty engine key"}
		}
		if prev, ok := idx[name]; ok {
			return &InvariantError{
				Feature: kind + ":" + name,
				Reason:  fmt.Sprintf("key already used by %q", prev.feature.Key),
			}
		}
		idx[name] = e
		return nil
	}

	for i := range features {
		f := &features[i]
		if err := add(f.Key, entry{feature: f}); err != nil {
			return nil, err
		}
		for _, alias := range f.Aliases {
			if err := add(alias, entry{feature: f}); err != nil {
				return nil, err
			}
		}
		for _, legacy := range f.Legacy {
			if err := add(legacy, entry{feature: f, legacy: true}); err != nil {
				return nil, err
			}
		}
	}
	return idx, nil
}

// View looks up a view engine by key, alias, or legacy name. legacy reports
// whether name is a deprecated spelling.
func (c *Catalog) View(name string) (f *Feature, legacy bool, ok bool) {
	e, ok := c.views[name]
	if !ok {
		return nil, false, false
	}
	return e.feature, e.legacy, true
}

// Style looks up a CSS engine by key or alias.
func (c *Catalog) Style(name string) (*Feature, bool) {
	e, ok := c.styles[name]
	if !ok {
		return nil, false
	}
	return e.feature, true
}

// ViewNames returns the canonical view keys in declaration order.
func (c *Catalog) ViewNames() []string {
	return keys(c.Views)
}

// StyleNames returns the canonical CSS keys in declaration order.
func (c *Catalog) StyleNames() []string {
	return keys(c.Styles)
}

func keys(features []Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Key
	}
	return out
}

// ReadTemplate returns the raw bytes of a catalog template.
func (c *Catalog) ReadTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template from catalog '%s': %w", name, err)
	}
	return data, nil
}

// Context is the closed set of placeholders parametrized templates may use.
type Context struct {
	Name string
	View ViewContext
	CSS  StyleContext
}

// ViewContext describes the selected view engine.
type ViewContext struct {
	Enabled   bool
	Engine    string
	Extension string
}

// StyleContext describes the selected CSS engine.
type StyleContext struct {
	Engine string
	Import string
	Use    string
}

// NewContext builds the render context for a project name and the selected
// view and CSS features. view may be nil or the "none" feature.
func NewContext(name string, view, style *Feature) Context {
	ctx := Context{Name: name}
	if view != nil && view.Key != NoView {
		ctx.View = ViewContext{
			Enabled:   true,
			Engine:    view.Engine,
			Extension: view.Extension,
		}
	}
	if style != nil {
		ctx.CSS = StyleContext{
			Engine: style.Key,
			Import: style.Import,
			Use:    style.Use,
		}
	}
	return ctx
}

// ParseTemplate parses a parametrized template. Unknown keys are execution
// errors so a template can never silently render a hole.
func ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}
	return tmpl, nil
}
