// Package project loads the glsl2hlsl.toml project configuration.
package project

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// Translate holds the translation settings applied to every unit.
type Translate struct {
	Level          string            `toml:"level"`
	PreserveNames  bool              `toml:"preserve_names"`
	LineDirectives bool              `toml:"line_directives"`
	NoShortCircuit bool              `toml:"no_short_circuit"`
	Defines        map[string]string `toml:"defines,omitempty"`
	MaxDiagnostics int               `toml:"max_diagnostics"`
	VaryingBudget  int               `toml:"varying_budget,omitempty"`
}

// Build configures `glsl2hlsl build`.
type Build struct {
	Source string `toml:"source"`
	Out    string `toml:"out"`
	Cache  bool   `toml:"cache"`
	Jobs   int    `toml:"jobs,omitempty"`
}

// Pair links an explicit vertex/fragment pair whose basenames differ.
type Pair struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	Out      string `toml:"out,omitempty"`
}

// Config is the whole manifest.
type Config struct {
	Translate Translate `toml:"translate"`
	Build     Build     `toml:"build"`
	Link      []Pair    `toml:"link,omitempty"`

	// Root is the directory holding the manifest; empty for Default.
	Root string `toml:"-"`
}

// Default is the configuration `glsl2hlsl init` writes.
func Default() Config {
	return Config{
		Translate: Translate{
			Level:          target.Level11_0.String(),
			LineDirectives: true,
			MaxDiagnostics: 100,
		},
		Build: Build{
			Source: "shaders",
			Out:    "build/hlsl",
			Cache:  true,
		},
	}
}

// Load parses path over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values TOML decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Translate.MaxDiagnostics < 0 {
		return fmt.Errorf("translate.max_diagnostics must not be negative")
	}
	if c.Translate.VaryingBudget < 0 {
		return fmt.Errorf("translate.varying_budget must not be negative")
	}
	for i, p := range c.Link {
		if p.Vertex == "" || p.Fragment == "" {
			return fmt.Errorf("link[%d] needs both vertex and fragment", i)
		}
	}
	return nil
}

// Level parses translate.level.
func (c *Config) Level() (target.Level, error) {
	if c.Translate.Level == "" {
		return target.Level11_0, nil
	}
	return target.ParseLevel(c.Translate.Level)
}

// Options folds the boolean switches into translation flags.
func (c *Config) Options() target.Options {
	var o target.Options
	if c.Translate.NoShortCircuit {
		o |= target.OptNoShortCircuit
	}
	if c.Translate.LineDirectives {
		o |= target.OptLineDirectives
	}
	if c.Translate.PreserveNames {
		o |= target.OptPreserveNames
	}
	return o
}

// Resolve makes p absolute against the manifest directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
