package pp

import "sort"

// Behavior is the state an extension was put into by #extension.
type Behavior uint8

const (
	BehaviorDisable Behavior = iota
	BehaviorWarn
	BehaviorEnable
	BehaviorRequire
)

func (b Behavior) String() string {
	switch b {
	case BehaviorWarn:
		return "warn"
	case BehaviorEnable:
		return "enable"
	case BehaviorRequire:
		return "require"
	default:
		return "disable"
	}
}

func parseBehavior(s string) (Behavior, bool) {
	switch s {
	case "disable":
		return BehaviorDisable, true
	case "warn":
		return BehaviorWarn, true
	case "enable":
		return BehaviorEnable, true
	case "require":
		return BehaviorRequire, true
	}
	return BehaviorDisable, false
}

// Extension names understood by the translator.
const (
	ExtStandardDerivatives = "GL_OES_standard_derivatives"
	ExtFragDepth           = "GL_EXT_frag_depth"
	ExtDrawBuffers         = "GL_EXT_draw_buffers"
)

var supportedExtensions = []string{
	ExtStandardDerivatives,
	ExtFragDepth,
	ExtDrawBuffers,
}

// Supported reports whether name is an extension the translator implements.
func Supported(name string) bool {
	for _, s := range supportedExtensions {
		if s == name {
			return true
		}
	}
	return false
}

// Extensions maps extension name to its current behaviour.
type Extensions map[string]Behavior

// NewExtensions returns a table with every supported extension disabled.
func NewExtensions() Extensions {
	ext := make(Extensions, len(supportedExtensions))
	for _, name := range supportedExtensions {
		ext[name] = BehaviorDisable
	}
	return ext
}

// Enabled reports whether features of name may be used.
func (e Extensions) Enabled(name string) bool {
	return e[name] != BehaviorDisable
}

// Warn reports whether uses of name must produce a warning.
func (e Extensions) Warn(name string) bool {
	return e[name] == BehaviorWarn
}

// Names returns the known extension names in sorted order.
func (e Extensions) Names() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
