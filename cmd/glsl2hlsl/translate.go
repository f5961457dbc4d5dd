package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] shader.vert|shader.frag",
	Short: "Translate one shader to HLSL",
	Long: `Translate verifies a single GLSL ES shader and prints its HLSL. The output
lacks the varying structs, which only the link step can produce; use link
to get compilable shaders.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	addTranslateFlags(translateCmd)
	translateCmd.Flags().String("stage", "", "shader stage (vertex|fragment); defaults to the file extension")
	translateCmd.Flags().StringP("output", "o", "", "write HLSL to this file instead of stdout")
	translateCmd.Flags().String("emit", "hlsl", "what to print (hlsl|interface)")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyTranslateFlags(cmd, &cfg); err != nil {
		return err
	}
	st, err := stageOf(cmd, path)
	if err != nil {
		return err
	}
	req, err := request(&cfg, path, st)
	if err != nil {
		return err
	}
	res, err := driver.Translate(cmd.Context(), req)
	if err != nil {
		return report(cmd, err)
	}
	printWarnings(cmd, res)
	printTimings(cmd, res)

	out, _ := cmd.Flags().GetString("output")
	emit, _ := cmd.Flags().GetString("emit")
	switch emit {
	case "hlsl":
		return writeOutput(cmd, out, res.Text())
	case "interface":
		data, err := json.MarshalIndent(res.Interface, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, string(data)+"\n")
	}
	return fmt.Errorf("unknown --emit value %q (expected hlsl|interface)", emit)
}

func printWarnings(cmd *cobra.Command, res *driver.Result) {
	if quiet(cmd) {
		return
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.Name, w)
	}
}

func printTimings(cmd *cobra.Command, res *driver.Result) {
	if on, _ := cmd.Root().PersistentFlags().GetBool("timings"); !on {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s ", res.Name)
	fmt.Fprint(cmd.ErrOrStderr(), res.Timings.String())
}
