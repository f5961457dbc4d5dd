// Package target describes the shader stage, the Direct3D feature level the
// HLSL is produced for, and the translation option flags.
package target

import (
	"fmt"
	"strings"
)

// Stage is the pipeline stage a shader runs in.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// ParseStage accepts "vertex"/"vert"/"vs" and "fragment"/"frag"/"fs"/"ps".
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "vert", "vs":
		return Vertex, nil
	case "fragment", "frag", "fs", "ps", "pixel":
		return Fragment, nil
	}
	return 0, fmt.Errorf("unknown shader stage %q", s)
}

// StageFromPath guesses the stage from a .vert/.frag (or .vs/.fs) extension.
func StageFromPath(path string) (Stage, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return 0, false
	}
	st, err := ParseStage(path[i+1:])
	return st, err == nil
}

// Level is a Direct3D feature level.
type Level uint8

const (
	Level9_1 Level = iota
	Level9_3
	Level10_0
	Level10_1
	Level11_0
)

var levelNames = [...]string{"9_1", "9_3", "10_0", "10_1", "11_0"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// ParseLevel accepts "9_1", "9.3", "10_0", "11" and similar spellings.
func ParseLevel(s string) (Level, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), ".", "_")
	if !strings.Contains(norm, "_") {
		norm += "_0"
	}
	for i, name := range levelNames {
		if name == norm {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature level %q (want one of %s)", s, strings.Join(levelNames[:], ", "))
}

// NativeLoops reports whether the level supports real flow control, so
// loops may be left rolled. Below 10_0 every loop must be unrolled.
func (l Level) NativeLoops() bool {
	return l >= Level10_0
}

// MaxVaryingVectors is the varying budget in float4 rows.
func (l Level) MaxVaryingVectors() int {
	if l >= Level10_0 {
		return 10
	}
	return 8
}

// Profile returns the HLSL compiler profile for the stage.
func (l Level) Profile(st Stage) string {
	prefix := "vs"
	if st == Fragment {
		prefix = "ps"
	}
	switch l {
	case Level9_1:
		return prefix + "_4_0_level_9_1"
	case Level9_3:
		return prefix + "_4_0_level_9_3"
	case Level10_0:
		return prefix + "_4_0"
	case Level10_1:
		return prefix + "_4_1"
	default:
		return prefix + "_5_0"
	}
}

// Options are translation option flags.
type Options uint32

const (
	// OptNoShortCircuit disables ternary hoisting.
	OptNoShortCircuit Options = 1 << iota
	// OptLineDirectives emits #line markers in the HLSL.
	OptLineDirectives
	// OptPreserveNames keeps user identifiers without the '_' prefix when legal.
	OptPreserveNames
)

func (o Options) Has(flag Options) bool { return o&flag != 0 }

func (o Options) String() string {
	var parts []string
	if o.Has(OptNoShortCircuit) {
		parts = append(parts, "no-short-circuit")
	}
	if o.Has(OptLineDirectives) {
		parts = append(parts, "line-directives")
	}
	if o.Has(OptPreserveNames) {
		parts = append(parts, "preserve-names")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
