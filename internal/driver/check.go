package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"pcrelint/internal/ast"
	"pcrelint/internal/config"
	"pcrelint/internal/diag"
	"pcrelint/internal/inspect"
	"pcrelint/internal/observ"
	"pcrelint/internal/parser"
	"pcrelint/internal/prefilter"
	"pcrelint/internal/sema"
	"pcrelint/internal/source"
	"pcrelint/internal/symbols"
	"pcrelint/internal/trace"
)

// Options configure Check.
type Options struct {
	Settings config.Settings
	// Jobs bounds concurrent per-file work; <= 0 falls back to
	// Settings.Jobs and then to GOMAXPROCS.
	Jobs int
	// StrictSyntax keeps lexer and parser recovery diagnostics.
	StrictSyntax bool
	// Timings appends an OBS timing diagnostic to the result.
	Timings  bool
	Cache    *DiskCache
	Progress ProgressSink
}

// FileResult holds the findings of one file after severity overrides.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Status  Status
	Bag     *diag.Bag
	Elapsed time.Duration
}

// Stats counts files by how they were handled.
type Stats struct {
	Files    int
	Analyzed int
	Cached   int
	Skipped  int
	Failed   int
}

// Result is the outcome of Check.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag holds every file's findings, sorted by position.
	Bag    *diag.Bag
	Stats  Stats
	Timing observ.Report
}

// unit is the per-file working state.
type unit struct {
	path    string
	rel     string
	file    *source.File
	loadErr error
	// errFile is an empty placeholder anchoring the load error.
	errFile source.FileID

	tree     *ast.File
	parseBag *diag.Bag

	key    Digest
	hit    bool
	status Status
	bag    *diag.Bag
	dur    time.Duration
}

type run struct {
	opts      Options
	fs        *source.FileSet
	units     []*unit
	jobs      int
	maxErrors uint
	tracer    trace.Tracer
	decls     *prefilter.Filter
	wanted    *prefilter.Filter
	table     *symbols.Table
	timer     *observ.Timer
}

// Check analyses root, a file or a directory walked recursively.
func Check(ctx context.Context, root string, opts Options) (*Result, error) {
	ctx, runSpan := trace.Start(ctx, trace.ScopeDriver, "check")
	defer runSpan.End("")

	maxErrors, err := safecast.Conv[uint](max(opts.Settings.MaxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	decls, err := prefilter.NewDeclarations()
	if err != nil {
		return nil, err
	}
	wanted, err := prefilter.New(opts.Settings.Inspections)
	if err != nil {
		return nil, err
	}

	paths, baseDir, err := listFiles(root, opts.Settings)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoFiles)
	}

	r := &run{
		opts:      opts,
		fs:        source.NewFileSetWithBase(baseDir),
		jobs:      resolveJobs(opts),
		maxErrors: maxErrors,
		tracer:    trace.FromContext(ctx),
		decls:     decls,
		wanted:    wanted,
		table:     symbols.NewTable(),
		timer:     observ.NewTimer(observ.DefaultSlowest),
	}

	stop := r.timer.Phase(string(StageLoad))
	r.load(ctx, paths, baseDir)
	r.lookupCache()
	stop(strconv.Itoa(len(paths)) + " files")

	stop = r.timer.Phase(string(StageIndex))
	err = r.index(ctx)
	stop("")
	if err != nil {
		return nil, err
	}

	stop = r.timer.Phase(string(StageAnalyze))
	err = r.analyze(ctx)
	stop("")
	if err != nil {
		return nil, err
	}

	res := r.finish()
	res.Timing = r.timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "check",
			Path:    root,
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
			Slowest: res.Timing.Slowest,
		})
	}
	runSpan.WithExtra("files", strconv.Itoa(res.Stats.Files))
	return res, nil
}

func resolveJobs(opts Options) int {
	switch {
	case opts.Jobs > 0:
		return opts.Jobs
	case opts.Settings.Jobs > 0:
		return opts.Settings.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (r *run) load(ctx context.Context, paths []string, baseDir string) {
	_, span := trace.Start(ctx, trace.ScopePass, string(StageLoad))
	defer span.End(strconv.Itoa(len(paths)) + " files")

	emit(r.opts.Progress, Event{Stage: StageLoad, Status: StatusWorking})
	r.units = make([]*unit, len(paths))
	for i, path := range paths {
		u := &unit{path: path, rel: relPath(path, baseDir)}
		r.units[i] = u
		emit(r.opts.Progress, Event{File: u.rel, Stage: StageLoad, Status: StatusQueued})
	}
	for _, u := range r.units {
		id, err := r.fs.Load(u.path)
		if err != nil {
			u.loadErr = err
			u.errFile = r.fs.Add(u.path, nil, 0)
			u.status = StatusError
			emit(r.opts.Progress, Event{File: u.rel, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		u.file = r.fs.Get(id)
	}
	emit(r.opts.Progress, Event{Stage: StageLoad, Status: StatusDone})
}

func relPath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// lookupCache fills hits from the disk cache. Read failures count as misses.
func (r *run) lookupCache() {
	if r.opts.Cache == nil {
		return
	}
	var (
		paths  []string
		hashes []Digest
	)
	for _, u := range r.units {
		if u.file != nil {
			paths = append(paths, u.rel)
			hashes = append(hashes, Digest(u.file.Hash))
		}
	}
	project := projectDigest(paths, hashes)
	settings := settingsDigest(
		strconv.Itoa(int(diskCacheSchemaVersion)),
		strings.Join(r.opts.Settings.Inspections.Names(), ","),
		strconv.FormatBool(r.opts.StrictSyntax),
		strconv.FormatUint(uint64(r.maxErrors), 10),
	)
	for _, u := range r.units {
		if u.file == nil {
			continue
		}
		u.key = combineDigest(Digest(u.file.Hash), project, settings)
		var payload DiskPayload
		ok, err := r.opts.Cache.Get(u.key, &payload)
		if err != nil {
			trace.Error(r.tracer, "cache", fmt.Sprintf("%s: %v", u.rel, err))
			continue
		}
		if !ok {
			continue
		}
		items, ok := payloadToFindings(u.file, &payload)
		if !ok {
			continue
		}
		u.hit = true
		u.status = StatusCached
		u.bag = diag.NewBag(0)
		for _, d := range items {
			u.bag.Add(d)
		}
	}
}

// needsTree reports whether u must be parsed: for the symbol index, or
// because it will be analysed.
func (r *run) needsTree(u *unit) bool {
	if u.file == nil {
		return false
	}
	if r.decls.Match(u.file.Content) {
		return true
	}
	return !u.hit && (r.opts.StrictSyntax || r.wanted.Match(u.file.Content))
}

// index parses the files and builds the symbol index. It does nothing when
// every file was served from the cache.
func (r *run) index(ctx context.Context) error {
	_, span := trace.Start(ctx, trace.ScopePass, string(StageIndex))
	defer span.End("")

	var todo []*unit
	allHit := true
	for _, u := range r.units {
		if u.file != nil && !u.hit {
			allHit = false
		}
		if r.needsTree(u) {
			todo = append(todo, u)
		}
	}
	if allHit {
		span.WithExtra("cached", "all")
		return nil
	}

	emit(r.opts.Progress, Event{Stage: StageIndex, Status: StatusWorking})
	err := r.parallel(ctx, todo, func(_ context.Context, u *unit) error {
		emit(r.opts.Progress, Event{File: u.rel, Stage: StageIndex, Status: StatusWorking})
		start := time.Now()
		u.parseBag = diag.NewBag(r.opts.Settings.MaxDiagnostics)
		u.tree = parser.ParseFile(u.file, parser.Options{
			Reporter:  &diag.BagReporter{Bag: u.parseBag},
			MaxErrors: r.maxErrors,
		})
		emit(r.opts.Progress, Event{File: u.rel, Stage: StageIndex, Status: StatusDone, Elapsed: time.Since(start)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	// sequential, in path order
	for _, u := range todo {
		r.table.AddFile(u.tree)
	}
	stats := r.table.Stats()
	span.WithExtra("classes", strconv.Itoa(stats.Classes))
	emit(r.opts.Progress, Event{Stage: StageIndex, Status: StatusDone})
	return nil
}

func (r *run) analyze(ctx context.Context) error {
	ctx, span := trace.Start(ctx, trace.ScopePass, string(StageAnalyze))
	defer span.End("")

	var todo []*unit
	for _, u := range r.units {
		switch {
		case u.loadErr != nil:
			u.bag = diag.NewBag(0)
			u.bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  "failed to load file: " + u.loadErr.Error(),
				Primary:  source.Span{File: u.errFile},
			})
		case u.hit:
			emit(r.opts.Progress, Event{File: u.rel, Stage: StageAnalyze, Status: StatusCached})
		default:
			todo = append(todo, u)
		}
	}

	emit(r.opts.Progress, Event{Stage: StageAnalyze, Status: StatusWorking})
	err := r.parallel(ctx, todo, r.analyzeFile)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	emit(r.opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone})
	return nil
}

func (r *run) analyzeFile(ctx context.Context, u *unit) error {
	ctx, fileSpan := trace.Start(ctx, trace.ScopeFile, "file:"+u.rel)
	start := time.Now()
	u.bag = diag.NewBag(r.opts.Settings.MaxDiagnostics)
	if r.opts.StrictSyntax && u.parseBag != nil {
		u.bag.Merge(u.parseBag)
	}

	if u.tree == nil || !r.wanted.Match(u.file.Content) {
		u.status = StatusSkipped
	} else {
		emit(r.opts.Progress, Event{File: u.rel, Stage: StageAnalyze, Status: StatusWorking})
		if err := r.inspect(ctx, u); err != nil {
			fileSpan.End("error")
			emit(r.opts.Progress, Event{File: u.rel, Stage: StageAnalyze, Status: StatusError, Err: err})
			return fmt.Errorf("%s: %w", u.rel, err)
		}
		u.status = StatusDone
	}
	u.dur = time.Since(start)
	if u.status == StatusDone {
		r.timer.File(u.rel, u.dur)
	}
	fileSpan.WithExtra("findings", strconv.Itoa(u.bag.Len()))
	fileSpan.End(string(u.status))

	if r.opts.Cache != nil {
		if err := r.opts.Cache.Put(u.key, findingsToPayload(u.file, u.bag.Items())); err != nil {
			trace.Error(r.tracer, "cache", fmt.Sprintf("%s: %v", u.rel, err))
		}
	}
	emit(r.opts.Progress, Event{File: u.rel, Stage: StageAnalyze, Status: u.status, Elapsed: u.dur})
	return nil
}

func (r *run) inspect(ctx context.Context, u *unit) error {
	res := sema.NewResolver(r.table, u.file, u.tree)
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: u.bag})
	var inspectors []inspect.Inspector
	in := r.opts.Settings.Inspections
	if in.Regex {
		inspectors = append(inspectors, inspect.NewRegexInspector(res, rep))
	}
	if in.Inclusion {
		inspectors = append(inspectors, inspect.NewInclusionInspector(res, rep))
	}
	if in.Offset {
		inspectors = append(inspectors, inspect.NewOffsetInspector(res, rep))
	}
	err := inspect.Walk(ctx, u.tree, inspectors...)
	if n := rep.Suppressed(); n > 0 {
		trace.Point(r.tracer, trace.ScopeFile, "dedup", fmt.Sprintf("%s: %d repeated findings", u.rel, n))
	}
	return err
}

// parallel runs fn over units with at most r.jobs goroutines. Each call
// owns its unit, so no locking is needed.
func (r *run) parallel(ctx context.Context, units []*unit, fn func(context.Context, *unit) error) error {
	if len(units) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(units)))
	for _, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, u)
		})
	}
	return g.Wait()
}

func (r *run) finish() *Result {
	res := &Result{
		FileSet: r.fs,
		Files:   make([]FileResult, 0, len(r.units)),
		Bag:     diag.NewBag(0),
	}
	for _, u := range r.units {
		if u.bag == nil {
			u.bag = diag.NewBag(0)
		}
		applyOverrides(u.bag, r.opts.Settings)
		u.bag.Sort()
		res.Bag.Merge(u.bag)

		fr := FileResult{Path: u.rel, Status: u.status, Bag: u.bag, Elapsed: u.dur}
		if u.file != nil {
			fr.FileID = u.file.ID
		} else {
			fr.FileID = u.errFile
		}
		res.Files = append(res.Files, fr)

		res.Stats.Files++
		switch u.status {
		case StatusCached:
			res.Stats.Cached++
		case StatusSkipped:
			res.Stats.Skipped++
		case StatusError:
			res.Stats.Failed++
		default:
			res.Stats.Analyzed++
		}
	}
	res.Bag.Sort()
	return res
}

// applyOverrides drops disabled codes and rewrites overridden severities.
func applyOverrides(bag *diag.Bag, s config.Settings) {
	if len(s.Disabled) > 0 {
		bag.Filter(func(d diag.Diagnostic) bool { return !s.Disabled[d.Code] })
	}
	if len(s.Severity) > 0 {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if sev, ok := s.Severity[d.Code]; ok {
				d.Severity = sev
			}
			return d
		})
	}
}
