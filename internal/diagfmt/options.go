// Package diagfmt renders diagnostics, token streams and trees for the CLI.
package diagfmt

import "github.com/MicrosoftEdge/WebGL-sub003/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) name() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// LineMaps maps each file to its #line remapping; files without an entry
// report physical lines.
type LineMaps map[source.FileID]*source.LineMap

// logical returns the #line-adjusted line for a physical one.
func (m LineMaps) logical(file source.FileID, physical uint32) uint32 {
	lm, ok := m[file]
	if !ok {
		return physical
	}
	_, line := lm.Map(physical)
	return line
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8 // lines of source shown before the primary line
	PathMode PathMode
	Width    uint8 // максимальная ширина строки, 0 - не ограничено
	// ShowNotes prints notes under their diagnostic.
	ShowNotes bool
	Lines     LineMaps
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	IncludeNotes     bool
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	Lines            LineMaps
}
