package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"tsunused/internal/diag"
	"tsunused/internal/pipeline"
	"tsunused/internal/rules/unusedvars"
	"tsunused/internal/snapshot"
	"tsunused/internal/source"
	"tsunused/internal/syntax"
	"tsunused/internal/trace"
)

// Options tune one Check run.
type Options struct {
	// Jobs bounds the number of files analysed at once; <= 0 uses GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's bag; <= 0 is unlimited.
	MaxDiagnostics int
	// Parser builds trees for snapshots without a node table; nil disables
	// the fallback.
	Parser snapshot.TreeParser
	// Progress receives per-file events; may be nil.
	Progress pipeline.ProgressSink
	// BaseDir is the base for relative paths in output.
	BaseDir string
}

// FileResult is the outcome for one snapshot.
type FileResult struct {
	Snapshot string
	// File is the source file name the snapshot describes, empty when
	// loading failed.
	File     string
	Findings []unusedvars.Finding
	Bag      *diag.Bag
	LoadErr  error
	Timings  pipeline.Timings
}

// Result holds every file result in snapshot path order.
type Result struct {
	FileSet *source.FileSet
	Program *snapshot.Program
	Files   []FileResult
	Timings pipeline.Timings
}

// Diagnostics merges the per-file bags in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		if bag := r.Files[i].Bag; bag != nil {
			out = append(out, bag.Items()...)
		}
	}
	return out
}

// FindingCount is the number of rule findings over all files.
func (r *Result) FindingCount() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Findings)
	}
	return n
}

// HostErrors counts snapshots that could not be loaded.
func (r *Result) HostErrors() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].LoadErr != nil {
			n++
		}
	}
	return n
}

// Check loads every snapshot under paths and runs rule over each file in
// parallel. Load failures become IO diagnostics of their file; an error
// from the rule itself (an unrecognised declaration role) cancels the run
// and is returned wrapped with the file name.
func Check(ctx context.Context, rule *unusedvars.Rule, paths []string, opts Options) (*Result, error) {
	snaps, err := ListSnapshots(paths)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, rule, snaps, opts)
}

// CheckFiles is Check over an already expanded snapshot list, as returned by
// ListSnapshots. Results keep the order of snaps.
func CheckFiles(ctx context.Context, rule *unusedvars.Rule, snaps []string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)

	fs := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{
		FileSet: fs,
		Program: snapshot.NewProgram(fs, opts.Parser),
		Files:   make([]FileResult, len(snaps)),
	}
	if len(snaps) == 0 {
		run.End("no snapshots")
		return res, nil
	}
	for _, path := range snaps {
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(trace.WithSpanContext(ctx, trace.SpanContext{SpanID: run.ID()}))
	g.SetLimit(min(jobs, len(snaps)))
	for i, path := range snaps {
		// индекс i уникален для горутины, мьютекс не нужен
		g.Go(func() error {
			return checkFile(gctx, rule, res.Program, path, opts, &res.Files[i])
		})
	}
	if err := g.Wait(); err != nil {
		run.End(err.Error())
		return res, err
	}

	// FileSet трогаем только после параллельной фазы
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.LoadErr != nil {
			reportLoadError(fs, fr)
		}
		for _, stage := range pipeline.Stages() {
			if fr.Timings.Has(stage) {
				res.Timings.Add(stage, fr.Timings.Duration(stage))
			}
		}
	}
	run.WithExtra("files", strconv.Itoa(len(snaps))).
		WithExtra("findings", strconv.Itoa(res.FindingCount())).
		End("")
	return res, nil
}

func checkFile(ctx context.Context, rule *unusedvars.Rule, prog *snapshot.Program, path string, opts Options, out *FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out.Snapshot = path
	out.Bag = diag.NewBag(opts.MaxDiagnostics)

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.CurrentSpan(ctx).SpanID).
		WithExtra("snapshot", path)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	start := time.Now()
	file, err := prog.Load(ctx, path)
	elapsed := time.Since(start)
	out.Timings.Add(pipeline.StageLoad, elapsed)
	if err != nil {
		out.LoadErr = err
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err, Elapsed: elapsed})
		span.End(err.Error())
		return nil
	}
	out.File = file

	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking})
	start = time.Now()
	// один и тот же токен может прийти от двух кодов чекера
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: out.Bag})
	findings, err := rule.Run(ctx, prog, file, reporter)
	elapsed = time.Since(start)
	out.Timings.Add(pipeline.StageAnalyze, elapsed)
	if err != nil {
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageAnalyze, Status: pipeline.StatusError, Err: err, Elapsed: elapsed})
		span.End(err.Error())
		var roleErr *unusedvars.UnknownRoleError
		if errors.As(err, &roleErr) {
			return err
		}
		return fmt.Errorf("%s: %w", file, err)
	}
	out.Findings = findings
	out.Bag.Sort()
	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageAnalyze, Status: pipeline.StatusDone, Elapsed: elapsed})
	span.WithExtra("findings", strconv.Itoa(len(findings))).End("")
	return nil
}

// LoadErrorCode maps a snapshot loading error to its diagnostic code.
func LoadErrorCode(err error) diag.Code {
	switch {
	case errors.Is(err, snapshot.ErrOffsetRange):
		return diag.IOSnapshotRange
	case errors.Is(err, snapshot.ErrDecode),
		errors.Is(err, snapshot.ErrNoTree),
		errors.Is(err, snapshot.ErrDuplicateFile),
		errors.Is(err, syntax.ErrBadTree):
		return diag.IOSnapshotDecode
	default:
		return diag.IOLoadFileError
	}
}

// reportLoadError records fr.LoadErr against an empty virtual file named
// after the snapshot, so output can point at it.
func reportLoadError(fs *source.FileSet, fr *FileResult) {
	id := fs.AddVirtual(fr.Snapshot, nil)
	diag.ReportError(diag.BagReporter{Bag: fr.Bag}, LoadErrorCode(fr.LoadErr),
		source.Span{File: id}, "failed to load snapshot: "+fr.LoadErr.Error()).Emit()
}
