package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/189/koa2-generator/internal/config"
	"github.com/189/koa2-generator/internal/generator"
	"github.com/189/koa2-generator/internal/output"
)

// flagError turns flag parsing failures into configuration errors, so they
// are reported like every other invalid option.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()

	if rest, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return &config.Error{Kind: config.UnknownOption, Options: []string{rest}}
	}
	if rest, ok := strings.CutPrefix(msg, "unknown shorthand flag: "); ok {
		if c, ok := quotedShorthand(rest); ok {
			return &config.Error{Kind: config.UnknownOption, Options: []string{"-" + c}}
		}
	}
	if rest, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return &config.Error{Kind: config.MissingArgument, Options: []string{longName(cmd.Flags(), rest)}}
	}
	return err
}

// quotedShorthand extracts c from "'c' in -c".
func quotedShorthand(s string) (string, bool) {
	if len(s) < 3 || s[0] != '\'' || s[2] != '\'' {
		return "", false
	}
	return s[1:2], true
}

// longName maps a flag as pflag reports it ("--css" or "'c' in -c") to its
// long form.
func longName(flags *pflag.FlagSet, s string) string {
	c, ok := quotedShorthand(s)
	if !ok {
		return s
	}
	if f := flags.ShorthandLookup(c); f != nil {
		return "--" + f.Name
	}
	return "-" + c
}

// reportError prints every error joined into err. Option errors are followed
// by the usage text, conflicts by the conflicting paths and their diffs.
func reportError(cmd *cobra.Command, p *output.Printer, err error) {
	for _, e := range unjoin(err) {
		p.Error("error: " + e.Error())
	}

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) && (cfgErr.Kind == config.UnknownOption || cfgErr.Kind == config.MissingArgument) {
		p.Println("")
		fmt.Fprint(p.Out, cmd.UsageString())
	}

	var conflictErr *generator.ConflictError
	if errors.As(err, &conflictErr) {
		reportConflicts(p, conflictErr)
	}
}

func reportConflicts(p *output.Printer, err *generator.ConflictError) {
	for _, c := range err.Conflicts {
		fmt.Fprintf(p.Err, "   %s (%s)\n", c.Path, c.Reason)
	}

	paths := make([]string, 0, len(err.Diffs))
	for path := range err.Diffs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintln(p.Err)
		fmt.Fprint(p.Err, err.Diffs[path])
	}

	fmt.Fprintln(p.Err)
	if len(err.Diffs) == 0 {
		p.Warn("nothing was written, rerun with --diff to review or --force to overwrite")
	} else {
		p.Warn("nothing was written, rerun with --force to overwrite")
	}
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
