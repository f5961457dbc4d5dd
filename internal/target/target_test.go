package target

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"9_1": Level9_1, "9.3": Level9_3, "10_0": Level10_0, "10": Level10_0,
		"10.1": Level10_1, "11_0": Level11_0, "11": Level11_0,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("12_0"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelCapabilities(t *testing.T) {
	if Level9_3.NativeLoops() || !Level10_0.NativeLoops() {
		t.Fatalf("native loops start at 10_0")
	}
	if Level9_1.MaxVaryingVectors() != 8 || Level11_0.MaxVaryingVectors() != 10 {
		t.Fatalf("unexpected varying budgets")
	}
	if got := Level9_3.Profile(Fragment); got != "ps_4_0_level_9_3" {
		t.Fatalf("unexpected profile %q", got)
	}
	if got := Level11_0.Profile(Vertex); got != "vs_5_0" {
		t.Fatalf("unexpected profile %q", got)
	}
}

func TestStages(t *testing.T) {
	if st, ok := StageFromPath("shaders/quad.frag"); !ok || st != Fragment {
		t.Fatalf("expected fragment stage")
	}
	if st, ok := StageFromPath("quad.vert"); !ok || st != Vertex {
		t.Fatalf("expected vertex stage")
	}
	if _, ok := StageFromPath("README"); ok {
		t.Fatalf("no extension must not resolve")
	}
	if (OptNoShortCircuit | OptPreserveNames).String() != "no-short-circuit,preserve-names" {
		t.Fatalf("unexpected options string")
	}
}
