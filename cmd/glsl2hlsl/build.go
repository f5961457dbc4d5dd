package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags]",
	Short: "Translate and link every shader of a project",
	Long: `Build reads glsl2hlsl.toml, translates every .vert/.frag shader under the
source directory in parallel, links the pairs sharing a basename (plus the
[[link]] entries) and writes <name>.vs.hlsl and <name>.ps.hlsl into the
output directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addTranslateFlags(buildCmd)
	buildCmd.Flags().String("source", "", "shader directory (overrides build.source)")
	buildCmd.Flags().String("out", "", "output directory (overrides build.out)")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel translations (0: GOMAXPROCS)")
	buildCmd.Flags().Bool("no-cache", false, "bypass the translation cache")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyTranslateFlags(cmd, &cfg); err != nil {
		return err
	}
	if s, _ := cmd.Flags().GetString("source"); s != "" {
		cfg.Build.Source = s
	}
	if o, _ := cmd.Flags().GetString("out"); o != "" {
		cfg.Build.Out = o
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Build.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if off, _ := cmd.Flags().GetBool("no-cache"); off {
		cfg.Build.Cache = false
	}
	mode, err := readUIMode(cmd)
	if err != nil {
		return err
	}

	opts, err := buildOptions(&cfg)
	if err != nil {
		return err
	}
	files, err := driver.ListShaders(opts.Source)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no shaders under %s", opts.Source)
	}

	start := time.Now()
	var rep *driver.BuildReport
	if shouldUseTUI(mode) && !quiet(cmd) {
		rep, err = buildWithUI(cmd.Context(), opts, files)
	} else {
		rep, err = driver.BuildDir(cmd.Context(), opts)
	}
	if err != nil {
		return report(cmd, err)
	}
	return summarize(cmd, rep, time.Since(start))
}

func buildOptions(cfg *project.Config) (driver.BuildOptions, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return driver.BuildOptions{}, err
	}
	opts := driver.BuildOptions{
		Source:         cfg.Resolve(cfg.Build.Source),
		Out:            cfg.Resolve(cfg.Build.Out),
		Level:          lvl,
		Options:        cfg.Options(),
		Defines:        cfg.Translate.Defines,
		MaxDiagnostics: cfg.Translate.MaxDiagnostics,
		Budget:         cfg.Translate.VaryingBudget,
		Jobs:           cfg.Build.Jobs,
		Pairs:          cfg.Link,
	}
	if cfg.Build.Cache {
		cache, err := driver.OpenDiskCache("", "glsl2hlsl")
		if err != nil {
			return driver.BuildOptions{}, fmt.Errorf("cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

// buildWithUI runs the build while the progress model renders its events.
func buildWithUI(ctx context.Context, opts driver.BuildOptions, files []string) (*driver.BuildReport, error) {
	events := make(chan buildpipeline.Event, 64)
	opts.Progress = buildpipeline.ChannelSink{Ch: events}

	type outcome struct {
		rep *driver.BuildReport
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		rep, err := driver.BuildDir(ctx, opts)
		close(events)
		done <- outcome{rep, err}
	}()
	uiErr := ui.Run("building "+opts.Source, files, events)
	if uiErr != nil {
		// UI завершился раньше - дочитываем события, чтобы сборка не встала
		for range events {
		}
	}
	res := <-done
	if res.err != nil {
		return res.rep, res.err
	}
	return res.rep, uiErr
}

func summarize(cmd *cobra.Command, rep *driver.BuildReport, elapsed time.Duration) error {
	out := cmd.ErrOrStderr()
	failed := 0
	for _, u := range rep.Units {
		if u.Err != nil {
			failed++
			var ce *driver.CompileError
			if errors.As(u.Err, &ce) {
				_ = report(cmd, u.Err)
			} else {
				fmt.Fprintf(out, "%s: %v\n", u.Path, u.Err)
			}
			continue
		}
		printWarnings(cmd, u.Result)
	}
	for _, p := range rep.Programs {
		if p.Err != nil {
			fmt.Fprintf(out, "%v\n", p.Err)
		}
	}
	if !quiet(cmd) {
		for _, path := range rep.Unpaired {
			fmt.Fprintf(out, "%s: no matching shader to link with\n", path)
		}
		printBuildSummary(out, rep, elapsed)
	}
	if on, _ := cmd.Root().PersistentFlags().GetBool("timings"); on {
		printStageTimings(out, rep.Timings)
	}
	if rep.Failed() {
		return fmt.Errorf("build failed: %d of %d shaders did not translate", failed, len(rep.Units))
	}
	return nil
}

func printBuildSummary(out io.Writer, rep *driver.BuildReport, elapsed time.Duration) {
	linked := 0
	for _, p := range rep.Programs {
		if p.Err == nil {
			linked++
		}
	}
	fmt.Fprintf(out, "built %d programs from %d shaders in %.1f ms\n", linked, len(rep.Units), toMillis(elapsed))
}

func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	for _, st := range buildpipeline.Stages {
		if d := timings.Duration(st); d > 0 {
			fmt.Fprintf(out, "  %-12s %7.2f ms\n", st, toMillis(d))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
