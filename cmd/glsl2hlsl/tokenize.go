package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diagfmt"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] shader",
	Short: "Print the tokens of a shader",
	Long: `Tokenize prints the lexer output of a shader. With --expand the
preprocessor runs first and the macro-expanded stream is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("stage", "", "shader stage (vertex|fragment); defaults to the file extension")
	tokenizeCmd.Flags().Bool("expand", false, "run the preprocessor first")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	expand, _ := cmd.Flags().GetBool("expand")
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

	result, err := driver.Tokenize(req, expand)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	lines := lineMaps(result)
	// Выводим диагностику в stderr, если есть
	if err := printBag(cmd, result.Bag, result.FileSet, lines); err != nil {
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet, lines)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet, lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func lineMaps(r *driver.TokenizeResult) diagfmt.LineMaps {
	if r.Lines == nil || r.File == nil {
		return nil
	}
	return diagfmt.LineMaps{r.File.ID: r.Lines}
}
