// Package config turns raw command-line input into a validated
// ScaffoldConfig. Resolution is pure: it never touches the filesystem
// beyond making the target directory absolute.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/189/koa2-generator/internal/catalog"
)

// ScaffoldConfig is the canonical, validated input of one generator run.
type ScaffoldConfig struct {
	ProjectName string
	ViewEngine  string // canonical catalog key, "none" disables views
	CSSEngine   string
	GitEnabled  bool
	Force       bool
	TargetDir   string // absolute and clean

	// Reporting only; neither changes the plan.
	ShowDiff bool
	DryRun   bool

	// Warnings are non-fatal notes for the user, e.g. a deprecated engine.
	Warnings []string
}

// Option is one engine-selecting option as it appeared on the command line.
type Option struct {
	Name  string // e.g. "--ejs", "--view"
	Value string // engine key; empty if the argument was omitted
}

// RawOptions is unvalidated input collected by the CLI.
type RawOptions struct {
	// Views holds every option that selected a view engine, in the order
	// given. More than one is a conflict.
	Views []Option
	CSS   *Option

	Git      *bool // nil when not given, so Defaults.Git applies
	Force    bool
	ShowDiff bool
	DryRun   bool

	// Defaults apply where no option was given.
	Defaults Defaults
}

// Resolve validates raw input against the embedded catalog. rawName is the
// explicit project name, empty when the name should be derived from the
// target directory. Every problem found is reported in one joined error.
func Resolve(rawName, rawTargetDir string, raw RawOptions) (*ScaffoldConfig, error) {
	return ResolveWith(catalog.Default(), rawName, rawTargetDir, raw)
}

// ResolveWith is Resolve against an explicit catalog.
func ResolveWith(cat *catalog.Catalog, rawName, rawTargetDir string, raw RawOptions) (*ScaffoldConfig, error) {
	cfg := &ScaffoldConfig{
		GitEnabled: raw.Defaults.Git,
		Force:      raw.Force,
		ShowDiff:   raw.ShowDiff,
		DryRun:     raw.DryRun,
	}
	if raw.Git != nil {
		cfg.GitEnabled = *raw.Git
	}
	var errs []error

	if rawTargetDir == "" {
		rawTargetDir = "."
	}
	dir, err := filepath.Abs(rawTargetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target directory %s: %w", rawTargetDir, err)
	}
	cfg.TargetDir = dir

	if view, warning, err := resolveView(cat, raw); err != nil {
		errs = append(errs, err)
	} else {
		cfg.ViewEngine = view
		if warning != "" {
			cfg.Warnings = append(cfg.Warnings, warning)
		}
	}

	if css, err := resolveCSS(cat, raw); err != nil {
		errs = append(errs, err)
	} else {
		cfg.CSSEngine = css
	}

	if name, err := resolveName(rawName, dir); err != nil {
		errs = append(errs, err)
	} else {
		cfg.ProjectName = name
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveView(cat *catalog.Catalog, raw RawOptions) (string, string, error) {
	var opt Option
	switch len(raw.Views) {
	case 0:
		if raw.Defaults.View == "" {
			return cat.Defaults.View, "", nil
		}
		opt = Option{Name: "view", Value: raw.Defaults.View}
	case 1:
		opt = raw.Views[0]
	default:
		names := make([]string, len(raw.Views))
		for i, o := range raw.Views {
			names[i] = o.Name
		}
		return "", "", &Error{Kind: ConflictingOptions, Options: names}
	}

	if opt.Value == "" {
		return "", "", &Error{Kind: MissingArgument, Options: []string{opt.Name}}
	}
	f, legacy, ok := cat.View(opt.Value)
	if !ok {
		return "", "", &Error{Kind: UnknownEngine, Options: []string{opt.Name}, Value: opt.Value}
	}

	var warning string
	if legacy {
		warning = fmt.Sprintf("option '%s' selects the deprecated engine '%s', use '%s' instead", opt.Name, opt.Value, f.Key)
	}
	return f.Key, warning, nil
}

func resolveCSS(cat *catalog.Catalog, raw RawOptions) (string, error) {
	var opt Option
	switch {
	case raw.CSS != nil:
		opt = *raw.CSS
	case raw.Defaults.CSS != "":
		opt = Option{Name: "css", Value: raw.Defaults.CSS}
	default:
		return cat.Defaults.CSS, nil
	}

	if opt.Value == "" {
		return "", &Error{Kind: MissingArgument, Options: []string{opt.Name}}
	}
	f, ok := cat.Style(opt.Value)
	if !ok {
		return "", &Error{Kind: UnknownEngine, Options: []string{opt.Name}, Value: opt.Value}
	}
	return f.Key, nil
}

// resolveName normalizes an explicit name, which must then be valid, or
// derives one from the target directory, falling back to DefaultName.
func resolveName(rawName, dir string) (string, error) {
	if rawName != "" {
		name := NormalizeName(rawName)
		if !ValidName(name) {
			return "", &Error{Kind: InvalidName, Options: []string{"--name"}, Value: rawName}
		}
		return name, nil
	}

	name := NormalizeName(filepath.Base(dir))
	if !ValidName(name) {
		return DefaultName, nil
	}
	return name, nil
}
