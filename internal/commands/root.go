package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/189/koa2-generator/internal/catalog"
	"github.com/189/koa2-generator/internal/config"
	"github.com/189/koa2-generator/internal/output"
	"github.com/189/koa2-generator/internal/project"
)

// Version is the koa2 generator version
const Version = "1.0.0"

const usageTemplate = `Usage: {{.Use}}

Options:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`

// viewFlags are the boolean view selectors and the engine each one picks.
var viewFlags = []struct {
	name      string
	shorthand string
	engine    string
	usage     string
}{
	{"ejs", "e", "ejs", "add ejs engine support"},
	{"hbs", "", "hbs", "add handlebars engine support"},
	{"hogan", "H", "hjs", "add hogan.js engine support"},
	{"pug", "", "pug", "add pug engine support"},
	{"jade", "", "jade", "add jade engine support (deprecated, use --pug)"},
	{"twig", "", "twig", "add twig engine support"},
	{"vash", "", "vash", "add vash engine support"},
	{"no-view", "", "none", "use static html instead of view engine"},
}

type options struct {
	view       string
	css        string
	name       string
	configFile string
	git        bool
	force      bool
	diff       bool
	dryRun     bool
	verbose    bool
}

// RootCmd creates the koa2 command
func RootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "koa2 [options] [dir]",
		Short: "Koa 2 application generator",
		Long: `Generates a ready-to-run Koa 2 application in dir (default: the current directory).

Pick one view engine and one stylesheet engine; an existing project is
only touched where its files differ from the generated ones.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	for _, vf := range viewFlags {
		flags.BoolP(vf.name, vf.shorthand, false, vf.usage)
	}
	flags.StringVarP(&o.view, "view", "v", "", "add view `engine` support (ejs|hbs|hjs|jade|pug|twig|vash|nunjucks)")
	flags.StringVarP(&o.css, "css", "c", "", "add stylesheet `engine` support (less|stylus|compass|sass|css)")
	flags.BoolVar(&o.git, "git", false, "add .gitignore")
	flags.BoolVarP(&o.force, "force", "f", false, "overwrite files that differ from the generated ones")
	flags.StringVar(&o.name, "name", "", "package `name` (default derived from dir)")
	flags.BoolVar(&o.diff, "diff", false, "show a diff for each conflicting file")
	flags.BoolVar(&o.dryRun, "dry-run", false, "list the files that would be written, without writing them")
	flags.StringVar(&o.configFile, "config", "", "YAML `file` with default view, css and git settings")
	flags.BoolVar(&o.verbose, "verbose", false, "enable verbose output for debugging")

	cmd.SetUsageTemplate(usageTemplate)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(flagError)

	return cmd
}

// Execute runs the koa2 command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := RootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(cmd, output.New(stdout, stderr), err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, o *options, args []string) error {
	p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := output.NewLogger(cmd.ErrOrStderr(), o.verbose)

	raw := collectOptions(cmd, o)

	defaults, err := config.LoadDefaults(o.configFile)
	if err != nil {
		return err
	}
	raw.Defaults = defaults

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.Resolve(o.name, dir, raw)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		p.Warn(w)
	}

	s := project.NewScaffolder(catalog.Default(), cmd.OutOrStdout(), logger).
		WithDiffOutput(cmd.ErrOrStderr())
	result, err := s.Scaffold(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printNextSteps(p, cfg, dir, result)
	return nil
}

// collectOptions reads the engine-selecting flags into raw options. A value
// that looks like another flag means the argument was omitted.
func collectOptions(cmd *cobra.Command, o *options) config.RawOptions {
	flags := cmd.Flags()
	raw := config.RawOptions{
		Force:    o.force,
		ShowDiff: o.diff,
		DryRun:   o.dryRun,
	}

	if flags.Changed("git") {
		raw.Git = &o.git
	}
	for _, vf := range viewFlags {
		if on, _ := flags.GetBool(vf.name); on {
			raw.Views = append(raw.Views, config.Option{Name: "--" + vf.name, Value: vf.engine})
		}
	}
	if flags.Changed("view") {
		raw.Views = append(raw.Views, engineOption("--view", o.view))
	}
	if flags.Changed("css") {
		opt := engineOption("--css", o.css)
		raw.CSS = &opt
	}
	return raw
}

func engineOption(name, value string) config.Option {
	if strings.HasPrefix(value, "-") {
		value = ""
	}
	return config.Option{Name: name, Value: value}
}

func printNextSteps(p *output.Printer, cfg *config.ScaffoldConfig, dir string, result *project.Result) {
	if result.DryRun {
		p.Println("")
		p.Info(fmt.Sprintf("dry run, %d files left untouched", len(result.Written)))
		return
	}
	if len(result.Written) == 0 {
		p.Success(fmt.Sprintf("%s is up to date (%d files unchanged)", cfg.ProjectName, result.Skipped()))
		return
	}

	p.Println("")
	if dir != "." {
		p.Info("change directory:")
		p.Step("$ cd " + dir)
		p.Println("")
	}
	p.Info("install dependencies:")
	p.Step("$ npm install")
	p.Println("")
	p.Info("run the app:")
	p.Step(fmt.Sprintf("$ DEBUG=%s:* npm start", cfg.ProjectName))
	p.Println("")
}
