package source

import "sort"

// LineRemap is one `#line` directive: physical lines from Physical onwards
// are reported as Line (and following) of source string Source.
type LineRemap struct {
	Physical uint32
	Line     uint32
	Source   uint32
}

// LineMap translates physical line numbers into `#line`-adjusted ones.
// Remaps must be added in increasing Physical order, which is the order
// the preprocessor meets the directives in.
type LineMap struct {
	remaps []LineRemap
}

// Add records a directive whose effect starts at physical line physical.
func (m *LineMap) Add(physical, line, src uint32) {
	if m == nil {
		return
	}
	m.remaps = append(m.remaps, LineRemap{Physical: physical, Line: line, Source: src})
}

// Map returns the source string number and logical line for a physical line.
func (m *LineMap) Map(physical uint32) (src, line uint32) {
	if m == nil || len(m.remaps) == 0 {
		return 0, physical
	}
	idx := sort.Search(len(m.remaps), func(i int) bool {
		return m.remaps[i].Physical > physical
	})
	if idx == 0 {
		return 0, physical
	}
	r := m.remaps[idx-1]
	return r.Source, r.Line + (physical - r.Physical)
}

// Len reports the number of recorded directives.
func (m *LineMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.remaps)
}
