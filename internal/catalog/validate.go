package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// InvariantError reports a defect in the static catalog: a duplicate
// contributed path or dependency key, a malformed entry, or a template that
// references an unknown placeholder. It is never caused by user input.
type InvariantError struct {
	Feature string
	Path    string
	Reason  string
}

func (e *InvariantError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("catalog invariant violated in %s (%s): %s", e.Feature, e.Path, e.Reason)
	}
	return fmt.Sprintf("catalog invariant violated in %s: %s", e.Feature, e.Reason)
}

// Validate checks every entry of the catalog. All problems are reported
// together.
func (c *Catalog) Validate() error {
	var errs []error

	if _, _, ok := c.View(c.Defaults.View); !ok {
		errs = append(errs, &InvariantError{Feature: "defaults", Reason: fmt.Sprintf("unknown default view %q", c.Defaults.View)})
	}
	if _, ok := c.Style(c.Defaults.CSS); !ok {
		errs = append(errs, &InvariantError{Feature: "defaults", Reason: fmt.Sprintf("unknown default css %q", c.Defaults.CSS)})
	}
	if _, ok := c.Base.Scripts["start"]; !ok {
		errs = append(errs, &InvariantError{Feature: c.Base.Key, Reason: "missing scripts.start"})
	}

	for _, f := range c.features() {
		errs = append(errs, c.validateFeature(f)...)
	}
	errs = append(errs, c.validateTemplates()...)

	return errors.Join(errs...)
}

// features returns every feature in application order.
func (c *Catalog) features() []*Feature {
	out := []*Feature{&c.Base}
	for i := range c.Views {
		out = append(out, &c.Views[i])
	}
	for i := range c.Styles {
		out = append(out, &c.Styles[i])
	}
	return append(out, &c.Git)
}

func (c *Catalog) validateFeature(f *Feature) []error {
	var errs []error
	seen := make(map[string]bool, len(f.Files))

	for _, file := range f.Files {
		if !validPath(file.Path) {
			errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: "path must be relative, clean and slash-separated"})
			continue
		}
		if seen[file.Path] {
			errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: "path declared twice"})
		}
		seen[file.Path] = true

		switch file.Source.Kind {
		case Static, Parametrized:
			if _, err := fs.Stat(c.fsys, file.Source.Template); err != nil {
				errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: fmt.Sprintf("template %q not found", file.Source.Template)})
			}
		case Manifest:
			if file.Source.Template != "" {
				errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: "manifest files take no template"})
			}
		default:
			errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: fmt.Sprintf("unknown source kind %q", file.Source.Kind)})
		}
	}

	for _, deps := range []map[string]string{f.Dependencies, f.DevDependencies} {
		for _, name := range sortedKeys(deps) {
			if !validRange(deps[name]) {
				errs = append(errs, &InvariantError{Feature: f.Key, Reason: fmt.Sprintf("dependency %s has invalid version range %q", name, deps[name])})
			}
		}
	}

	return errs
}

// validateTemplates executes every parametrized template against every
// view/style combination, so a missing placeholder fails at load time
// instead of during a user's run.
func (c *Catalog) validateTemplates() []error {
	var errs []error

	for _, f := range c.features() {
		for _, file := range f.Files {
			if file.Source.Kind != Parametrized {
				continue
			}
			text, err := c.ReadTemplate(file.Source.Template)
			if err != nil {
				continue // reported by validateFeature
			}
			tmpl, err := ParseTemplate(file.Source.Template, string(text))
			if err != nil {
				errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: err.Error()})
				continue
			}

		combos:
			for i := range c.Views {
				for j := range c.Styles {
					ctx := NewContext("hello-world", &c.Views[i], &c.Styles[j])
					if err := tmpl.Execute(io.Discard, ctx); err != nil {
						errs = append(errs, &InvariantError{Feature: f.Key, Path: file.Path, Reason: err.Error()})
						break combos
					}
				}
			}
		}
	}

	return errs
}

func validPath(p string) bool {
	return p != "." && fs.ValidPath(p) && !strings.Contains(p, `\`)
}

// validRange accepts exact versions and caret/tilde ranges, the only forms
// the catalog uses.
func validRange(r string) bool {
	v := strings.TrimLeft(r, "^~")
	return v != "" && semver.IsValid("v"+v)
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
