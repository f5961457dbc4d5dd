package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "glsl2hlsl",
	Short: "GLSL ES 1.00 to HLSL translator",
	Long: `glsl2hlsl verifies WebGL GLSL ES 1.00 shaders and translates them into
HLSL for Direct3D 9 and 11 feature levels.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if traceCleanup != nil {
			traceCleanup()
		}
	},
}

var traceCleanup func()

func init() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to keep per shader")
	rootCmd.PersistentFlags().String("diag-format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	rootCmd.PersistentFlags().String("trace", "", "write a pass trace to this file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")
}

// main runs the root command; any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of f or 0 when it is not a terminal.
func terminalWidth(f *os.File) int {
	if !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
