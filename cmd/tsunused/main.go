package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tsunused/internal/pipeline"
	"tsunused/internal/prof"
	"tsunused/internal/version"
)

// exitError carries a process exit status out of a RunE handler. A nil err
// means the reason was already printed (diagnostics).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

const (
	exitClean  = 0
	exitErrors = 1
	exitFatal  = 2
)

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	args     []string
	trace    *traceSession
	prof     *prof.Session
	progress *pipeline.Counter
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tsunused",
		Short: "Report unused TypeScript bindings from checker diagnostics",
		Long: `tsunused re-classifies the "declared but never used" diagnostics of the
TypeScript checker into no-unused-vars findings: per binding kind, with
ignore patterns and trailing-parameter suppression.`,
		Version:       version.Version,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			session, err := setupTracing(cmd, a.stderr, a.progress.String)
			if err != nil {
				return err
			}
			a.trace = session
			if a.prof, err = setupProfiling(cmd); err != nil {
				return err
			}
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval for long runs (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newExplainCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// execute runs the CLI and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, args: args, progress: &pipeline.Counter{}}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	code := exitClean
	if err != nil {
		code = exitFatal
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		if ee == nil || ee.err != nil {
			fmt.Fprintf(stderr, "tsunused: %v\n", err)
		}
	}
	if err := a.prof.Stop(); err != nil {
		fmt.Fprintf(stderr, "tsunused: %v\n", err)
	}
	if a.trace != nil {
		a.trace.close(code == exitFatal)
	}
	return code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag for output going to w.
func useColor(cmd *cobra.Command, w io.Writer) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(w), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}
