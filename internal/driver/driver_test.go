package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/link"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

const vertexSrc = `attribute vec4 a_pos;
attribute vec2 a_uv;
varying vec2 v_uv;
void main() {
    v_uv = a_uv;
    gl_Position = a_pos;
}
`

const fragmentSrc = `precision mediump float;
uniform sampler2D u_tex;
varying vec2 v_uv;
void main() {
    gl_FragColor = texture2D(u_tex, v_uv);
}
`

func translate(t *testing.T, st target.Stage, src string) *Result {
	t.Helper()
	res, err := Translate(context.Background(), Request{
		Name:   "test." + st.String(),
		Source: []byte(src),
		Stage:  st,
		Level:  target.Level11_0,
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	return res
}

func TestTranslateRecordsPasses(t *testing.T) {
	res := translate(t, target.Vertex, vertexSrc)
	if res.HLSL == nil || res.HLSL.Profile != "vs_5_0" {
		t.Fatalf("output = %+v", res.HLSL)
	}
	var names []string
	for _, ph := range res.Timings.Phases {
		names = append(names, ph.Name)
	}
	if got := strings.Join(names, ","); got != "preprocess,parse,verify,hoist,emit" {
		t.Fatalf("phases = %s", got)
	}
	if !strings.Contains(res.Text(), "void gl_main()") {
		t.Fatalf("text:\n%s", res.Text())
	}
}

func TestTranslateReportsLogicalLines(t *testing.T) {
	src := "precision mediump float;\n#line 20\nvoid main() { gl_FragColor = vec4(missing); }\n"
	_, err := Translate(context.Background(), Request{
		Name:   "bad.frag",
		Source: []byte(src),
		Stage:  target.Fragment,
		Level:  target.Level11_0,
	})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, diag.ErrReported) {
		t.Fatalf("compile error must wrap ErrReported")
	}
	if len(ce.Diagnostics) == 0 {
		t.Fatalf("no diagnostics")
	}
	d := ce.Diagnostics[0]
	if d.Severity != "ERROR" || d.Line != 20 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if !strings.HasPrefix(ce.Error(), "bad.frag: ") {
		t.Fatalf("message = %q", ce.Error())
	}
}

func TestTranslateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Translate(ctx, Request{Source: []byte(vertexSrc), Stage: target.Vertex, Level: target.Level11_0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestTranslateEmitsProgress(t *testing.T) {
	var rec buildpipeline.Recorder
	_, err := Translate(context.Background(), Request{
		Name:     "p.vert",
		Source:   []byte(vertexSrc),
		Stage:    target.Vertex,
		Level:    target.Level11_0,
		Progress: &rec,
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	evs := rec.Events()
	if len(evs) == 0 {
		t.Fatalf("no events")
	}
	last := evs[len(evs)-1]
	if last.File != "p.vert" || last.Stage != buildpipeline.StageEmit || last.Status != buildpipeline.StatusDone {
		t.Fatalf("last event = %+v", last)
	}
}

func TestLinkAssemblesBothStages(t *testing.T) {
	vs := translate(t, target.Vertex, vertexSrc)
	fs := translate(t, target.Fragment, fragmentSrc)
	lr, err := Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(lr.Varyings) != 1 || lr.Varyings[0] != "v_uv" || lr.Rows != 1 {
		t.Fatalf("link = %+v", lr)
	}
	for _, text := range []string{lr.Vertex, lr.Fragment} {
		if !strings.Contains(text, "float2 _v_uv : TEXCOORD0;") {
			t.Fatalf("missing varying member:\n%s", text)
		}
	}
	if strings.Index(lr.Vertex, "struct VS_OUTPUT") > strings.Index(lr.Vertex, "VS_OUTPUT main(") {
		t.Fatalf("prologue must precede the entry point:\n%s", lr.Vertex)
	}
	if _, err := Link(fs, vs, 0); err == nil {
		t.Fatalf("swapped stages must fail")
	}
}

func TestLinkReportsTypeMismatch(t *testing.T) {
	src := strings.NewReplacer(
		"varying vec2 v_uv;", "varying vec3 v_uv;",
		"v_uv = a_uv;", "v_uv = vec3(a_uv, 0.0);",
	).Replace(vertexSrc)
	vs := translate(t, target.Vertex, src)
	fs := translate(t, target.Fragment, fragmentSrc)
	_, err := Link(vs, fs, 0)
	var le *link.Error
	if !errors.As(err, &le) || le.Kind != link.TypeMismatch {
		t.Fatalf("err = %v", err)
	}
}

func TestDiskCache(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	req := Request{Name: "c.vert", Source: []byte(vertexSrc), Stage: target.Vertex, Level: target.Level11_0}
	first, err := TranslateCached(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if first.Cached {
		t.Fatalf("first translation cannot be cached")
	}
	second, err := TranslateCached(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("cached translate: %v", err)
	}
	if !second.Cached || second.HLSL.Body != first.HLSL.Body || second.HLSL.Entry != first.HLSL.Entry {
		t.Fatalf("cache hit differs")
	}
	if len(second.Interface.Varyings) != 1 || second.Interface.Varyings[0].Type != first.Interface.Varyings[0].Type {
		t.Fatalf("interface lost in the cache: %+v", second.Interface)
	}

	other := req
	other.Level = target.Level9_3
	if CacheKey(other) == CacheKey(req) {
		t.Fatalf("level must change the key")
	}
	other = req
	other.Defines = map[string]string{"X": "1"}
	if CacheKey(other) == CacheKey(req) {
		t.Fatalf("defines must change the key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, err := cache.Get(CacheKey(req)); err != nil || ok {
		t.Fatalf("entry survived DropAll: ok=%v err=%v", ok, err)
	}
}

func writeShader(t *testing.T, dir, name, src string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildDir(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeShader(t, src, "water.vert", vertexSrc)
	writeShader(t, src, "water.frag", fragmentSrc)
	writeShader(t, src, "sky/base.vs", vertexSrc)
	writeShader(t, src, "sky/night.fs", fragmentSrc)
	writeShader(t, src, "lonely.vert", vertexSrc)

	var rec buildpipeline.Recorder
	report, err := BuildDir(context.Background(), BuildOptions{
		Source:   src,
		Out:      out,
		Level:    target.Level11_0,
		Jobs:     2,
		Pairs:    []project.Pair{{Vertex: "sky/base.vs", Fragment: "sky/night.fs", Out: "sky"}},
		Progress: &rec,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Failed() {
		t.Fatalf("build failed: %+v", report)
	}
	if len(report.Units) != 5 || len(report.Programs) != 2 {
		t.Fatalf("units=%d programs=%d", len(report.Units), len(report.Programs))
	}
	if len(report.Unpaired) != 1 || filepath.Base(report.Unpaired[0]) != "lonely.vert" {
		t.Fatalf("unpaired = %v", report.Unpaired)
	}
	for _, name := range []string{"water.vs.hlsl", "water.ps.hlsl", "sky.vs.hlsl", "sky.ps.hlsl"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
	linked := 0
	for _, ev := range rec.Events() {
		if ev.Stage == buildpipeline.StageLink && ev.Status == buildpipeline.StatusDone {
			linked++
		}
	}
	if linked != 4 {
		t.Fatalf("link done events = %d", linked)
	}
}

func TestBuildDirKeepsGoingAfterErrors(t *testing.T) {
	src := t.TempDir()
	writeShader(t, src, "a.vert", vertexSrc)
	writeShader(t, src, "a.frag", "void main() { gl_FragColor = 1; }\n")
	writeShader(t, src, "b.vert", vertexSrc)
	writeShader(t, src, "b.frag", fragmentSrc)

	report, err := BuildDir(context.Background(), BuildOptions{Source: src, Level: target.Level11_0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !report.Failed() {
		t.Fatalf("broken fragment must fail the build")
	}
	var failed, ok int
	for _, p := range report.Programs {
		if p.Err != nil {
			failed++
		} else if p.Link != nil {
			ok++
		}
	}
	if failed != 1 || ok != 1 {
		t.Fatalf("failed=%d ok=%d", failed, ok)
	}
	for _, u := range report.Units {
		if filepath.Base(u.Path) == "a.frag" {
			var ce *CompileError
			if !errors.As(u.Err, &ce) {
				t.Fatalf("a.frag err = %v", u.Err)
			}
		}
	}
}
