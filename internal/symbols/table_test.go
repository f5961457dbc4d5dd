package symbols

import (
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

func TestDeclareAndLookup(t *testing.T) {
	tbl := NewTable(nil)
	ty := types.NewInterner()
	global := tbl.NewScope(ScopeGlobal, NoScopeID)
	block := tbl.NewScope(ScopeBlock, global)
	if block <= global {
		t.Fatalf("scope IDs must grow monotonically")
	}

	x := tbl.Strings.Intern("x")
	outer, ok := tbl.Declare(Symbol{Name: x, Kind: SymbolVariable, Scope: global, Type: ty.Builtins().Float})
	if !ok {
		t.Fatalf("first declaration must succeed")
	}
	if _, ok := tbl.Declare(Symbol{Name: x, Kind: SymbolVariable, Scope: global}); ok {
		t.Fatalf("redeclaration in the same scope must fail")
	}
	inner, ok := tbl.Declare(Symbol{Name: x, Kind: SymbolVariable, Scope: block, Type: ty.Builtins().Int})
	if !ok {
		t.Fatalf("shadowing in an inner scope must succeed")
	}
	if got := tbl.Lookup(block, x); got != inner {
		t.Fatalf("inner lookup = %d, want %d", got, inner)
	}
	if got := tbl.Lookup(global, x); got != outer {
		t.Fatalf("outer lookup = %d, want %d", got, outer)
	}
	if tbl.Lookup(block, tbl.Strings.Intern("y")).IsValid() {
		t.Fatalf("unknown names must not resolve")
	}
	if tbl.Get(inner).Index != 1 || tbl.Name(inner) != "x" {
		t.Fatalf("unexpected identifier index or name")
	}
}

func TestOverloadsAndQualifiedLookup(t *testing.T) {
	tbl := NewTable(nil)
	builtin := tbl.NewScope(ScopeBuiltin, NoScopeID)
	global := tbl.NewScope(ScopeGlobal, builtin)
	f := tbl.Strings.Intern("f")
	tbl.Declare(Symbol{Name: f, Kind: SymbolFunction, Scope: builtin})
	tbl.Declare(Symbol{Name: f, Kind: SymbolFunction, Scope: builtin})
	if n := len(tbl.Overloads(global, f)); n != 2 {
		t.Fatalf("expected 2 builtin overloads, got %d", n)
	}
	user, _ := tbl.Declare(Symbol{Name: f, Kind: SymbolFunction, Scope: global})
	if ov := tbl.Overloads(global, f); len(ov) != 1 || ov[0] != user {
		t.Fatalf("user function must hide builtin overloads")
	}
	if _, ok := tbl.Declare(Symbol{Name: f, Kind: SymbolVariable, Scope: global}); ok {
		t.Fatalf("variable may not share a name with a function in one scope")
	}

	v := tbl.Strings.Intern("v_uv")
	id, _ := tbl.Declare(Symbol{Name: v, Kind: SymbolVariable, Scope: global, Qual: QualVarying})
	if tbl.LookupQualified(v, QualVarying) != id || tbl.LookupQualified(v, QualUniform).IsValid() {
		t.Fatalf("qualified lookup mismatch")
	}

	tbl.MarkRead(id)
	tbl.MarkWritten(id)
	tbl.MarkWritten(id)
	if s := tbl.Get(id); s.Reads != 1 || s.Writes != 2 {
		t.Fatalf("counters = %d/%d", s.Reads, s.Writes)
	}
	count := 0
	tbl.Each(func(SymbolID, *Symbol) bool { count++; return true })
	if count != tbl.Len() || count != 4 {
		t.Fatalf("Each visited %d of %d", count, tbl.Len())
	}
}
