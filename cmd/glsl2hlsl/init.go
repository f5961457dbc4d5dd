package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a shader project",
	Long: `Initialize writes glsl2hlsl.toml with the default settings and a sample
vertex/fragment pair under shaders/. Without [path] the current directory is
used; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const sampleVertex = `attribute vec4 a_position;
attribute vec2 a_texcoord;
uniform mat4 u_matrix;
varying vec2 v_texcoord;

void main() {
    gl_Position = u_matrix * a_position;
    v_texcoord = a_texcoord;
}
`

const sampleFragment = `precision mediump float;
uniform sampler2D u_texture;
varying vec2 v_texcoord;

void main() {
    gl_FragColor = texture2D(u_texture, v_texcoord);
}
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	root, found, err := project.FindProjectRoot(target)
	if err != nil {
		return err
	}
	if found && root == target {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if found && !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s is nested inside the project at %s\n", target, root)
	}
	cfg := project.Default()
	manifest, err := cfg.Encode()
	if err != nil {
		return err
	}

	shaders := filepath.Join(target, cfg.Build.Source)
	if err := os.MkdirAll(shaders, 0o755); err != nil {
		return err
	}
	created := []string{manifestPath}
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return err
	}
	for name, text := range map[string]string{"sample.vert": sampleVertex, "sample.frag": sampleFragment} {
		p := filepath.Join(shaders, name)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			return err
		}
		created = append(created, p)
	}
	if !quiet(cmd) {
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
		}
	}
	return nil
}
