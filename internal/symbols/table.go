package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeBuiltin            // built-in variables and functions
	ScopeGlobal             // translation unit
	ScopeFunction           // parameters and function body
	ScopeBlock              // compound statements, for headers
	ScopeStruct             // struct member names
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBuiltin:
		return "builtin"
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent link.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
}

// Table is the per-unit identifier registry: declare, look up by name,
// look up by name and qualifier, and iterate all symbols.
type Table struct {
	Strings *source.Interner
	scopes  []Scope
	symbols []Symbol
	nextIdx uint32
}

// NewTable builds a fresh table. If strings is nil, a fresh interner is allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Strings: strings,
		scopes:  []Scope{{}},  // 0 is NoScopeID
		symbols: []Symbol{{}}, // 0 is NoSymbolID
	}
}

// NewScope allocates a scope; IDs grow monotonically.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID) ScopeID {
	n, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scope overflow: %w", err))
	}
	t.scopes = append(t.scopes, Scope{
		Kind:      kind,
		Parent:    parent,
		NameIndex: make(map[source.StringID][]SymbolID),
	})
	return ScopeID(n)
}

// Scope returns the scope record or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// ScopeCount reports how many scope IDs have been allocated.
func (t *Table) ScopeCount() int { return len(t.scopes) - 1 }

// Declare adds sym to its scope. When the scope already holds a symbol of
// the same name that sym may not coexist with, Declare returns that
// symbol's ID and false. Functions coexist with functions (overloads).
func (t *Table) Declare(sym Symbol) (SymbolID, bool) {
	sc := t.Scope(sym.Scope)
	if sc == nil {
		panic(fmt.Sprintf("symbols: declare into unknown scope %d", sym.Scope))
	}
	for _, prev := range sc.NameIndex[sym.Name] {
		if sym.Kind != SymbolFunction || t.symbols[prev].Kind != SymbolFunction {
			return prev, false
		}
	}
	n, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbol overflow: %w", err))
	}
	id := SymbolID(n)
	sym.Index = t.nextIdx
	t.nextIdx++
	t.symbols = append(t.symbols, sym)
	sc.NameIndex[sym.Name] = append(sc.NameIndex[sym.Name], id)
	sc.Symbols = append(sc.Symbols, id)
	return id, true
}

// Get returns the symbol or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// Lookup resolves name from scope outwards and returns the innermost
// binding. For overloaded functions the first declaration is returned;
// use Overloads for the full set.
func (t *Table) Lookup(scope ScopeID, name source.StringID) SymbolID {
	for sc := t.Scope(scope); sc != nil; sc = t.Scope(sc.Parent) {
		if ids := sc.NameIndex[name]; len(ids) > 0 {
			return ids[0]
		}
	}
	return NoSymbolID
}

// LookupLocal checks only the given scope.
func (t *Table) LookupLocal(scope ScopeID, name source.StringID) SymbolID {
	if sc := t.Scope(scope); sc != nil {
		if ids := sc.NameIndex[name]; len(ids) > 0 {
			return ids[0]
		}
	}
	return NoSymbolID
}

// Overloads returns every function named name in the innermost scope that
// declares it. Outer declarations are hidden.
func (t *Table) Overloads(scope ScopeID, name source.StringID) []SymbolID {
	for sc := t.Scope(scope); sc != nil; sc = t.Scope(sc.Parent) {
		if ids := sc.NameIndex[name]; len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// LookupQualified finds a global-scope variable by name and qualifier.
func (t *Table) LookupQualified(name source.StringID, qual Qualifier) SymbolID {
	for i := 1; i < len(t.scopes); i++ {
		sc := &t.scopes[i]
		if sc.Kind != ScopeGlobal {
			continue
		}
		for _, id := range sc.NameIndex[name] {
			if s := &t.symbols[id]; s.Kind == SymbolVariable && s.Qual == qual {
				return id
			}
		}
	}
	return NoSymbolID
}

// Each calls fn for every symbol in declaration order; fn returning false stops.
func (t *Table) Each(fn func(SymbolID, *Symbol) bool) {
	for i := 1; i < len(t.symbols); i++ {
		if !fn(SymbolID(i), &t.symbols[i]) {
			return
		}
	}
}

// Len reports the number of declared symbols.
func (t *Table) Len() int { return len(t.symbols) - 1 }

// MarkRead bumps the usage counter of id.
func (t *Table) MarkRead(id SymbolID) {
	if s := t.Get(id); s != nil {
		s.Reads++
	}
}

// MarkWritten bumps the write counter of id.
func (t *Table) MarkWritten(id SymbolID) {
	if s := t.Get(id); s != nil {
		s.Writes++
	}
}

// Name returns the spelling of id's name.
func (t *Table) Name(id SymbolID) string {
	s := t.Get(id)
	if s == nil {
		return ""
	}
	name, _ := t.Strings.Lookup(s.Name)
	return name
}
