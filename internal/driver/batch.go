package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/trace"
)

// BuildOptions configures a directory build.
type BuildOptions struct {
	Source string
	// Out receives <name>.vs.hlsl and <name>.ps.hlsl per linked program.
	// Empty means nothing is written.
	Out            string
	Level          target.Level
	Options        target.Options
	Defines        map[string]string
	MaxDiagnostics int
	// Budget is the varying row limit; zero means the level default.
	Budget int
	Jobs   int
	Cache  *DiskCache
	// Pairs link units whose basenames differ. Paths are relative to Source.
	Pairs    []project.Pair
	Progress buildpipeline.ProgressSink
}

// UnitReport is the outcome of one shader file.
type UnitReport struct {
	Path   string
	Stage  target.Stage
	Result *Result
	Err    error
}

// ProgramReport is the outcome of linking one vertex/fragment pair.
type ProgramReport struct {
	Name     string
	Vertex   string
	Fragment string
	Link     *LinkResult
	// Outputs are the files written, vertex first.
	Outputs []string
	Err     error
}

// BuildReport collects a whole directory build.
type BuildReport struct {
	Units    []UnitReport
	Programs []ProgramReport
	// Unpaired lists units no program consumed.
	Unpaired []string
	Timings  *buildpipeline.Timings
}

// Failed reports whether any unit or program failed.
func (r *BuildReport) Failed() bool {
	for _, u := range r.Units {
		if u.Err != nil {
			return true
		}
	}
	for _, p := range r.Programs {
		if p.Err != nil {
			return true
		}
	}
	return false
}

// ListShaders returns the sorted .vert/.frag (and .vs/.fs) files under dir.
func ListShaders(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := target.StageFromPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// BuildDir translates every shader under opts.Source in parallel, then
// links the pairs.
func BuildDir(ctx context.Context, opts BuildOptions) (*BuildReport, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "build")
	defer span.End(opts.Source)
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := ListShaders(opts.Source)
	if err != nil {
		return nil, err
	}
	report := &BuildReport{
		Units:   make([]UnitReport, len(files)),
		Timings: &buildpipeline.Timings{},
	}
	if len(files) == 0 {
		return report, nil
	}
	for _, path := range files {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: path, Status: buildpipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Индекс i уникален для горутины, мьютекс не нужен.
			report.Units[i] = translateFile(gctx, opts, path, report.Timings)
			if diag.IsInternal(report.Units[i].Err) {
				return report.Units[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	start := time.Now()
	linkAll(ctx, opts, report)
	report.Timings.Add(buildpipeline.StageLink, time.Since(start))
	return report, nil
}

func translateFile(ctx context.Context, opts BuildOptions, path string, timings *buildpipeline.Timings) UnitReport {
	st, _ := target.StageFromPath(path)
	rep := UnitReport{Path: path, Stage: st}
	// #nosec G304 -- path comes from walking the source directory
	src, err := os.ReadFile(path)
	if err != nil {
		rep.Err = err
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: path, Stage: buildpipeline.StagePreprocess, Status: buildpipeline.StatusError, Err: err})
		return rep
	}
	rep.Result, rep.Err = TranslateCached(ctx, opts.Cache, Request{
		Name:           path,
		Source:         src,
		Stage:          st,
		Level:          opts.Level,
		Options:        opts.Options,
		Defines:        opts.Defines,
		MaxDiagnostics: opts.MaxDiagnostics,
		Progress:       opts.Progress,
	})
	if rep.Result != nil && !rep.Result.Cached {
		for _, ph := range rep.Result.Timings.Phases {
			timings.Add(phaseStage(ph.Name), time.Duration(ph.DurationMS*float64(time.Millisecond)))
		}
	}
	return rep
}

func phaseStage(name string) buildpipeline.Stage {
	switch name {
	case "preprocess":
		return buildpipeline.StagePreprocess
	case "parse":
		return buildpipeline.StageParse
	case "emit":
		return buildpipeline.StageEmit
	}
	return buildpipeline.StageVerify
}

// stem strips the stage extension: "dir/water.vert" -> "dir/water".
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// pairs matches units by stem plus the explicit pairs from opts.
func pairs(opts BuildOptions, units []UnitReport) []ProgramReport {
	var out []ProgramReport
	seen := make(map[[2]string]bool)
	add := func(name, vs, fs string) {
		key := [2]string{vs, fs}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, ProgramReport{Name: name, Vertex: vs, Fragment: fs})
	}
	for _, p := range opts.Pairs {
		vs := filepath.Clean(filepath.Join(opts.Source, p.Vertex))
		fs := filepath.Clean(filepath.Join(opts.Source, p.Fragment))
		name := p.Out
		if name == "" {
			name = stem(p.Vertex)
		}
		add(name, vs, fs)
	}
	frags := make(map[string]string)
	for _, u := range units {
		if u.Stage == target.Fragment {
			frags[stem(filepath.Clean(u.Path))] = filepath.Clean(u.Path)
		}
	}
	for _, u := range units {
		if u.Stage != target.Vertex {
			continue
		}
		vs := filepath.Clean(u.Path)
		fs, ok := frags[stem(vs)]
		if !ok {
			continue
		}
		rel, err := filepath.Rel(opts.Source, stem(vs))
		if err != nil {
			rel = filepath.Base(stem(vs))
		}
		add(rel, vs, fs)
	}
	return out
}

func linkAll(ctx context.Context, opts BuildOptions, report *BuildReport) {
	byPath := make(map[string]*UnitReport, len(report.Units))
	for i := range report.Units {
		byPath[filepath.Clean(report.Units[i].Path)] = &report.Units[i]
	}
	used := make(map[string]bool)
	for _, prog := range pairs(opts, report.Units) {
		used[prog.Vertex], used[prog.Fragment] = true, true
		vs, fs := byPath[prog.Vertex], byPath[prog.Fragment]
		switch {
		case vs == nil || fs == nil:
			prog.Err = fmt.Errorf("program %s: missing shader %s or %s", prog.Name, prog.Vertex, prog.Fragment)
		case vs.Err != nil || fs.Err != nil:
			prog.Err = fmt.Errorf("program %s: a stage failed to translate", prog.Name)
		default:
			prog.Link, prog.Outputs, prog.Err = linkProgram(ctx, opts, prog, vs.Result, fs.Result)
		}
		report.Programs = append(report.Programs, prog)
	}
	for _, u := range report.Units {
		if !used[filepath.Clean(u.Path)] {
			report.Unpaired = append(report.Unpaired, u.Path)
		}
	}
}

func linkProgram(ctx context.Context, opts BuildOptions, prog ProgramReport, vs, fs *Result) (*LinkResult, []string, error) {
	span, _ := trace.Start(ctx, trace.ScopePass, "link:"+prog.Name)
	defer span.End("")

	status := func(s buildpipeline.Status, err error) {
		for _, f := range []string{prog.Vertex, prog.Fragment} {
			buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: f, Stage: buildpipeline.StageLink, Status: s, Err: err})
		}
	}
	status(buildpipeline.StatusWorking, nil)
	lr, err := Link(vs, fs, opts.Budget)
	if err != nil {
		status(buildpipeline.StatusError, err)
		return nil, nil, fmt.Errorf("program %s: %w", prog.Name, err)
	}
	var outputs []string
	if opts.Out != "" {
		base := filepath.Join(opts.Out, prog.Name)
		for _, o := range []struct{ path, text string }{
			{base + ".vs.hlsl", lr.Vertex},
			{base + ".ps.hlsl", lr.Fragment},
		} {
			if err := writeFile(o.path, o.text); err != nil {
				status(buildpipeline.StatusError, err)
				return lr, outputs, err
			}
			outputs = append(outputs, o.path)
		}
	}
	status(buildpipeline.StatusDone, nil)
	return lr, outputs, nil
}

func writeFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
