package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diagfmt"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/link"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/version"
)

// useColor resolves --color against the stream diagnostics go to.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch strings.ToLower(mode) {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	return isTerminal(f) && !color.NoColor
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

// printBag writes the bag to stderr in the --diag-format format.
func printBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, lines diagfmt.LineMaps) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	format, _ := cmd.Root().PersistentFlags().GetString("diag-format")
	out := cmd.ErrOrStderr()
	switch strings.ToLower(format) {
	case "", "pretty":
		width := terminalWidth(os.Stderr)
		if width > 255 {
			width = 255
		}
		return diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			Width:     uint8(width),
			ShowNotes: true,
			Lines:     lines,
		})
	case "short":
		_, err := io.WriteString(out, diag.FormatShort(bag.Items(), fs, diag.ShortOptions{Notes: true, Lines: lines})+"\n")
		return err
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Lines:            lines,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:    "glsl2hlsl",
			ToolVersion: version.Version,
		})
	}
	return fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json|sarif)", format)
}

// report prints a translation or link failure and returns the error the
// command should exit with.
func report(cmd *cobra.Command, err error) error {
	var ce *driver.CompileError
	if errors.As(err, &ce) {
		var lines diagfmt.LineMaps
		if ce.Lines != nil && ce.Bag.Len() > 0 {
			lines = diagfmt.LineMaps{ce.Bag.Items()[0].Primary.File: ce.Lines}
		}
		if perr := printBag(cmd, ce.Bag, ce.Files, lines); perr != nil {
			return perr
		}
		return fmt.Errorf("%s: translation failed", ce.Name)
	}
	var le *link.Error
	if errors.As(err, &le) {
		sev := color.New(color.FgRed, color.Bold)
		if !useColor(cmd, os.Stderr) {
			sev.DisableColor()
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", sev.Sprint("ERROR"), le.Kind.Code().ID(), err)
		return errors.New("link failed")
	}
	if diag.IsInternal(err) {
		dumpCrashRing(cmd)
	}
	return err
}
