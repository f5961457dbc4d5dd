package hlsl

import (
	"fmt"
	"strings"
)

// namer hands out unique identifiers. Names are compared case-insensitively
// so that the output stays valid under fxc's legacy keyword matching.
type namer struct {
	used    map[string]struct{}
	counter uint32
}

func newNamer() *namer {
	return &namer{used: make(map[string]struct{})}
}

// call escapes base and makes it unique with a numeric suffix.
func (n *namer) call(base string) string {
	if base == "" {
		base = unnamedParameter
	}
	name := Escape(base)
	if n.take(name) {
		return name
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", name, n.counter)
		if n.take(candidate) {
			return candidate
		}
	}
}

func (n *namer) take(name string) bool {
	key := strings.ToLower(name)
	if _, ok := n.used[key]; ok {
		return false
	}
	n.used[key] = struct{}{}
	return true
}

// reserve marks name as taken without returning it.
func (n *namer) reserve(name string) {
	n.used[strings.ToLower(name)] = struct{}{}
}
