package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "glsl2hlsl.toml") {
		t.Fatalf("init output:\n%s", out)
	}
	if _, _, err := execute(t, "init"); err == nil {
		t.Fatalf("second init must refuse to overwrite the manifest")
	}

	_, errOut, err := execute(t, "build", "--ui", "off", "--no-cache")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, errOut)
	}
	for _, name := range []string{"sample.vs.hlsl", "sample.ps.hlsl"} {
		data, err := os.ReadFile(filepath.Join(dir, "build", "hlsl", name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(data), "_v_texcoord : TEXCOORD0;") {
			t.Fatalf("%s lacks the linked varying:\n%s", name, data)
		}
	}
}

func TestInitNestedProjectNotes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if _, _, err := execute(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	_, errOut, err := execute(t, "init", "nested")
	if err != nil {
		t.Fatalf("nested init: %v", err)
	}
	if !strings.Contains(errOut, "nested inside the project") {
		t.Fatalf("stderr:\n%s", errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "glsl2hlsl.toml")); err != nil {
		t.Fatalf("nested manifest: %v", err)
	}
}

func TestTranslateEmitsInterface(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := "attribute vec4 a_pos;\nvarying float v_f;\nvoid main() { v_f = a_pos.x; gl_Position = a_pos; }\n"
	if err := os.WriteFile("s.vert", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out, errOut, err := execute(t, "translate", "--emit", "interface", "s.vert")
	if err != nil {
		t.Fatalf("translate: %v\n%s", err, errOut)
	}
	var in struct {
		Varyings []struct {
			Name string
			Used bool
		}
	}
	if err := json.Unmarshal([]byte(out), &in); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(in.Varyings) != 1 || in.Varyings[0].Name != "v_f" || !in.Varyings[0].Used {
		t.Fatalf("varyings = %+v", in.Varyings)
	}
}

func TestTranslateFailureReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("bad.frag", []byte("void main() { gl_FragColor = nope; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := execute(t, "translate", "--emit", "hlsl", "--diag-format", "short", "bad.frag")
	if err == nil {
		t.Fatalf("translation of a broken shader succeeded")
	}
	if !strings.Contains(errOut, "bad.frag") {
		t.Fatalf("diagnostics do not name the file:\n%s", errOut)
	}
}
