package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// addTranslateFlags registers the flags shared by translate, link and build.
// Unset flags fall back to glsl2hlsl.toml when one is found.
func addTranslateFlags(cmd *cobra.Command) {
	cmd.Flags().String("level", "", "Direct3D feature level (9_1|9_3|10_0|10_1|11_0)")
	cmd.Flags().Bool("preserve-names", false, "keep user identifiers without the '_' prefix when legal")
	cmd.Flags().Bool("line-directives", false, "emit #line markers")
	cmd.Flags().Bool("no-short-circuit", false, "do not rewrite ?: operands with side effects into if statements")
	cmd.Flags().StringArrayP("define", "D", nil, "predefine a macro (NAME or NAME=VALUE)")
}

// loadConfig returns the manifest above the working directory, or the
// defaults when there is none.
func loadConfig() (project.Config, error) {
	path, ok, err := project.FindManifest(".")
	if err != nil {
		return project.Config{}, err
	}
	if !ok {
		return project.Default(), nil
	}
	return project.Load(path)
}

// applyTranslateFlags overlays the command line onto cfg.
func applyTranslateFlags(cmd *cobra.Command, cfg *project.Config) error {
	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Translate.Level, _ = flags.GetString("level")
	}
	if flags.Changed("preserve-names") {
		cfg.Translate.PreserveNames, _ = flags.GetBool("preserve-names")
	}
	if flags.Changed("line-directives") {
		cfg.Translate.LineDirectives, _ = flags.GetBool("line-directives")
	}
	if flags.Changed("no-short-circuit") {
		cfg.Translate.NoShortCircuit, _ = flags.GetBool("no-short-circuit")
	}
	defines, _ := flags.GetStringArray("define")
	for _, d := range defines {
		name, value, _ := strings.Cut(d, "=")
		if name == "" {
			return fmt.Errorf("invalid define %q", d)
		}
		if cfg.Translate.Defines == nil {
			cfg.Translate.Defines = make(map[string]string)
		}
		cfg.Translate.Defines[name] = value
	}
	if n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err == nil && cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		cfg.Translate.MaxDiagnostics = n
	}
	return cfg.Validate()
}

// request builds a translation request for path.
func request(cfg *project.Config, path string, stage target.Stage) (driver.Request, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return driver.Request{}, err
	}
	// #nosec G304 -- path is provided by the user
	src, err := os.ReadFile(path)
	if err != nil {
		return driver.Request{}, err
	}
	return driver.Request{
		Name:           filepath.ToSlash(path),
		Source:         src,
		Stage:          stage,
		Level:          lvl,
		Options:        cfg.Options(),
		Defines:        cfg.Translate.Defines,
		MaxDiagnostics: cfg.Translate.MaxDiagnostics,
	}, nil
}

// stageOf resolves --stage, falling back to the file extension.
func stageOf(cmd *cobra.Command, path string) (target.Stage, error) {
	if s, _ := cmd.Flags().GetString("stage"); s != "" {
		return target.ParseStage(s)
	}
	if st, ok := target.StageFromPath(path); ok {
		return st, nil
	}
	return 0, fmt.Errorf("%s: cannot tell the shader stage from the extension, pass --stage", path)
}

// writeOutput writes text to path, or to stdout for "" and "-".
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
