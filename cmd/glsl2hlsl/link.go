package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

var linkCmd = &cobra.Command{
	Use:   "link [flags] vertex-shader fragment-shader",
	Short: "Translate and link a vertex/fragment pair",
	Long: `Link translates both shaders, checks that every varying the fragment shader
reads is written by the vertex shader with the same type, and writes the
two HLSL files with matching VS_OUTPUT/PS_INPUT structs.`,
	Args: cobra.ExactArgs(2),
	RunE: runLink,
}

func init() {
	addTranslateFlags(linkCmd)
	linkCmd.Flags().StringP("output", "o", "", "output base path; writes <base>.vs.hlsl and <base>.ps.hlsl (default: print both)")
	linkCmd.Flags().Int("varying-budget", 0, "varying row limit (0: feature level default)")
}

func runLink(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyTranslateFlags(cmd, &cfg); err != nil {
		return err
	}
	budget := cfg.Translate.VaryingBudget
	if cmd.Flags().Changed("varying-budget") {
		budget, _ = cmd.Flags().GetInt("varying-budget")
	}

	var units [2]*driver.Result
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, st := range []target.Stage{target.Vertex, target.Fragment} {
		req, err := request(&cfg, args[i], st)
		if err != nil {
			return err
		}
		g.Go(func() error {
			res, err := driver.Translate(ctx, req)
			units[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return report(cmd, err)
	}
	for _, u := range units {
		printWarnings(cmd, u)
		printTimings(cmd, u)
	}

	lr, err := driver.Link(units[0], units[1], budget)
	if err != nil {
		return report(cmd, err)
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "linked %d varyings (%d rows): %s\n", len(lr.Varyings), lr.Rows, strings.Join(lr.Varyings, ", "))
	}

	base, _ := cmd.Flags().GetString("output")
	if base == "" {
		return writeOutput(cmd, "", "// vertex\n"+lr.Vertex+"\n// fragment\n"+lr.Fragment)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if err := writeOutput(cmd, base+".vs.hlsl", lr.Vertex); err != nil {
		return err
	}
	return writeOutput(cmd, base+".ps.hlsl", lr.Fragment)
}
