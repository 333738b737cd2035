package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tsunused/internal/config"
	"tsunused/internal/diag"
	"tsunused/internal/diagfmt"
	"tsunused/internal/driver"
	"tsunused/internal/rules/unusedvars"
	"tsunused/internal/tsparse"
	"tsunused/internal/version"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <snapshot|dir>...",
		Short: "Run no-unused-vars over checker snapshots",
		Long: `Load *.tsdiag.json / *.tsdiag.mp snapshots of TypeScript checker output
(directories are walked) and report unused bindings.

Exit status: 0 when no error-severity diagnostics were reported, 1 when some
were, 2 on fatal errors (bad configuration, unreadable snapshots, an
unrecognised declaration kind).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a, args)
		},
	}
	f := cmd.Flags()
	f.String("format", "", "output format (pretty|short|json|sarif); default from config")
	f.Int("jobs", -1, "max parallel workers (0 = GOMAXPROCS); default from config")
	f.String("config", "", "path to tsunused.toml (default: search upwards from the working directory)")
	f.Bool("no-config", false, "ignore tsunused.toml and use built-in defaults")
	f.String("options", "", "rule options as a JSON object, e.g. '{\"arguments\":{\"ignoreIfArgsAfterAreUsed\":true}}'")
	f.String("severity", "", "severity of findings (info|warning|error); default from config")
	f.String("ui", "auto", "show progress UI (auto|on|off)")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("no-parse", false, "do not parse source text for snapshots without a node table")
	f.Bool("timings", false, "print per-stage timings to stderr")
	return cmd
}

// checkFlags are the check flags after config resolution.
type checkFlags struct {
	cfg       config.Config
	options   string
	ui        uiMode
	fullPath  bool
	withNotes bool
	noParse   bool
	timings   bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	flags := cmd.Flags()

	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return cf, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return cf, fmt.Errorf("failed to get config flag: %w", err)
	}
	switch {
	case noConfig:
		cf.cfg = config.Default()
	case configPath != "":
		if cf.cfg, err = config.Load(configPath); err != nil {
			return cf, err
		}
	default:
		if cf.cfg, err = config.Discover("."); err != nil {
			return cf, err
		}
	}

	// флаги командной строки перекрывают файл
	if flags.Changed("format") {
		if cf.cfg.Output.Format, err = flags.GetString("format"); err != nil {
			return cf, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if cf.cfg.Output.Jobs, err = flags.GetInt("jobs"); err != nil {
			return cf, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if cf.cfg.Output.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return cf, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("severity") {
		if cf.cfg.Rule.Severity, err = flags.GetString("severity"); err != nil {
			return cf, fmt.Errorf("failed to get severity flag: %w", err)
		}
	}
	if err := cf.cfg.Validate(); err != nil {
		return cf, err
	}

	if cf.options, err = flags.GetString("options"); err != nil {
		return cf, fmt.Errorf("failed to get options flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = readUIMode(uiValue); err != nil {
		return cf, err
	}
	if cf.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return cf, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if cf.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return cf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if cf.noParse, err = flags.GetBool("no-parse"); err != nil {
		return cf, fmt.Errorf("failed to get no-parse flag: %w", err)
	}
	if cf.timings, err = flags.GetBool("timings"); err != nil {
		return cf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return cf, nil
}

// ruleOptions builds the rule options: [rule] from the config, replaced by
// --options when given. Severity always comes from the config/flag.
func (cf checkFlags) ruleOptions() (unusedvars.Options, error) {
	opts, err := cf.cfg.RuleOptions()
	if err != nil {
		return opts, err
	}
	if strings.TrimSpace(cf.options) == "" {
		return opts, nil
	}
	parsed, err := unusedvars.ParseOptions([]byte(cf.options))
	if err != nil {
		return opts, fmt.Errorf("--options: %w", err)
	}
	parsed.Severity = opts.Severity
	return parsed, nil
}

func runCheck(cmd *cobra.Command, a *app, paths []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	ruleOpts, err := cf.ruleOptions()
	if err != nil {
		return err
	}
	rule, err := unusedvars.New(ruleOpts)
	if err != nil {
		return err
	}
	colorOut, err := useColor(cmd, a.stdout)
	if err != nil {
		return err
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	opts := driver.Options{
		Jobs:           cf.cfg.Output.Jobs,
		MaxDiagnostics: cf.cfg.Output.MaxDiagnostics,
		BaseDir:        baseDir,
		Progress:       a.progress,
	}
	if !cf.noParse {
		opts.Parser = tsparse.New()
	}

	files, err := driver.ListSnapshots(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.stderr, "tsunused: no snapshots found")
		return nil
	}

	var res *driver.Result
	if shouldUseTUI(cf.ui, a.stderr) {
		res, err = runCheckWithUI(ctx, a.stderr, "tsunused check", files, rule, opts)
	} else {
		res, err = driver.CheckFiles(ctx, rule, files, opts)
	}
	if err != nil {
		var roleErr *unusedvars.UnknownRoleError
		if errors.As(err, &roleErr) {
			return &exitError{code: exitFatal, err: fmt.Errorf("aborted: %w", err)}
		}
		return err
	}

	// порядок файлов детерминирован, бэги уже отсортированы внутри файла
	bag := diag.NewBag(0)
	for i := range res.Files {
		bag.Merge(res.Files[i].Bag)
	}

	pathMode := diagfmt.PathModeAuto
	if cf.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if err := render(a, cf, bag, res, pathMode, colorOut); err != nil {
		return err
	}
	if cf.cfg.Output.Format == "pretty" {
		printSummary(a.stderr, bag, res)
	}
	if cf.timings {
		printStageTimings(a.stderr, res.Timings, len(res.Files))
	}

	switch {
	case res.HostErrors() > 0:
		return &exitError{code: exitFatal}
	case bag.HasErrors():
		return &exitError{code: exitErrors}
	}
	return nil
}

func render(a *app, cf checkFlags, bag *diag.Bag, res *driver.Result, pathMode diagfmt.PathMode, colorOut bool) error {
	w := a.stdout
	switch cf.cfg.Output.Format {
	case "pretty":
		diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colorOut,
			Context:   0,
			PathMode:  pathMode,
			ShowNotes: cf.withNotes,
		})
	case "short":
		diagfmt.Short(w, bag, res.FileSet, diagfmt.ShortOpts{Color: colorOut, PathMode: pathMode})
	case "json":
		if err := diagfmt.JSON(w, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     cf.withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		if pathMode == diagfmt.PathModeAuto {
			pathMode = diagfmt.PathModeRelative
		}
		if err := diagfmt.Sarif(w, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "tsunused",
			ToolVersion:    version.Version,
			InvocationArgs: a.args,
			PathMode:       pathMode,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", cf.cfg.Output.Format)
	}
	return nil
}

func printSummary(w io.Writer, bag *diag.Bag, res *driver.Result) {
	counts := bag.CountBySeverity()
	total := bag.Len() + bag.Dropped()
	if total == 0 {
		fmt.Fprintf(w, "no problems in %d files\n", len(res.Files))
		return
	}
	fmt.Fprintf(w, "%d problems (%d errors, %d warnings, %d infos) in %d files\n",
		total, counts[diag.SevError], counts[diag.SevWarning], counts[diag.SevInfo], len(res.Files))
}
