// Package plan turns a resolved configuration into the ordered list of files
// a generator run will produce, together with the project's dependency
// manifest.
//
// Features are applied in a fixed order (base, view, css, git) and files
// keep their catalog declaration order inside a feature. The resulting order
// is the order of the creation log, which callers may parse positionally.
package plan

import (
	"fmt"
	"io/fs"

	"github.com/189/koa2-generator/internal/catalog"
	"github.com/189/koa2-generator/internal/config"
	"github.com/189/koa2-generator/internal/manifest"
)

// PlannedFile is one virtual file of the plan.
type PlannedFile struct {
	Path    string // relative, POSIX-separated
	Source  catalog.Source
	Mode    fs.FileMode
	Feature string // key of the contributing feature
}

// FilePlan is the ordered file list of one run plus the context its
// parametrized templates render with.
type FilePlan struct {
	Files   []PlannedFile
	Context catalog.Context
}

// Paths returns the planned paths in plan order.
func (p *FilePlan) Paths() []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.Path
	}
	return out
}

// Plan builds the file plan and dependency manifest for cfg. Errors are
// *catalog.InvariantError values: a valid configuration can only fail here
// if the catalog itself is defective.
func Plan(cfg *config.ScaffoldConfig, cat *catalog.Catalog) (*FilePlan, *manifest.Manifest, error) {
	features, view, style, err := selectFeatures(cfg, cat)
	if err != nil {
		return nil, nil, err
	}

	p := &FilePlan{Context: catalog.NewContext(cfg.ProjectName, view, style)}
	m := manifest.New(cfg.ProjectName)
	owner := make(map[string]string)

	for _, f := range features {
		for _, file := range f.Files {
			if prev, ok := owner[file.Path]; ok {
				return nil, nil, &catalog.InvariantError{
					Feature: f.Key,
					Path:    file.Path,
					Reason:  fmt.Sprintf("path already contributed by %s", prev),
				}
			}
			owner[file.Path] = f.Key

			p.Files = append(p.Files, PlannedFile{
				Path:    file.Path,
				Source:  file.Source,
				Mode:    file.Mode,
				Feature: f.Key,
			})
		}

		if err := m.Add(f); err != nil {
			return nil, nil, err
		}
	}

	return p, m, nil
}

// selectFeatures returns the features to apply, in application order, and
// the selected view and style.
func selectFeatures(cfg *config.ScaffoldConfig, cat *catalog.Catalog) ([]*catalog.Feature, *catalog.Feature, *catalog.Feature, error) {
	view, _, ok := cat.View(cfg.ViewEngine)
	if !ok {
		return nil, nil, nil, fmt.Errorf("view engine %q is not in the catalog", cfg.ViewEngine)
	}
	style, ok := cat.Style(cfg.CSSEngine)
	if !ok {
		return nil, nil, nil, fmt.Errorf("css engine %q is not in the catalog", cfg.CSSEngine)
	}

	features := []*catalog.Feature{&cat.Base}
	if view.Key != catalog.NoView {
		features = append(features, view)
	}
	features = append(features, style)
	if cfg.GitEnabled {
		features = append(features, &cat.Git)
	}

	return features, view, style, nil
}
