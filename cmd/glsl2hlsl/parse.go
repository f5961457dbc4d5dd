package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] shader",
	Short: "Print the syntax tree of a shader",
	Long:  `Parse preprocesses and parses a shader and prints the unverified tree.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("stage", "", "shader stage (vertex|fragment); defaults to the file extension")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig()
	if err != nil {
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
	result, err := driver.Parse(req)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := printBag(cmd, result.Bag, result.FileSet, lineMaps(&result.TokenizeResult)); err != nil {
		return err
	}
	if result.Root == nil {
		return errors.New("parse failed")
	}
	if err := ast.Dump(cmd.OutOrStdout(), result.Root, ast.DumpConfig{Strings: result.Strings}); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errors.New("parse failed")
	}
	return nil
}
