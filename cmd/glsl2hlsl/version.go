package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		case "pretty":
			prev := color.NoColor
			color.NoColor = !useColor(cmd, os.Stdout)
			defer func() { color.NoColor = prev }()
			renderVersionPretty(cmd.OutOrStdout())
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func renderVersionPretty(out io.Writer) {
	fmt.Fprintf(out, "glsl2hlsl %s\n", version.Colored())
	if !versionShowFull {
		return
	}
	fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(version.GitCommit))
	fmt.Fprintf(out, "message: %s\n", valueOrUnknown(version.GitMessage))
	fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(version.BuildDate))
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{Tool: "glsl2hlsl", Version: version.Version}
	if versionShowFull {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
		payload.GitMessage = valueOrUnknown(version.GitMessage)
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
