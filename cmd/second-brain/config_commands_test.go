package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatal("sample config missing llm section")
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("output does not mention target path: %q", out.String())
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for existing config file")
	}
	if !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("error does not mention --overwrite: %v", err)
	}

	cmd = newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target, "--overwrite"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init --overwrite returned error: %v", err)
	}
}

func TestStageTableListsStagesInOrder(t *testing.T) {
	art := sampleArtifact(t)
	rendered := renderStageTable(art)

	validateIdx := strings.Index(rendered, "validate_input")
	semanticsIdx := strings.Index(rendered, "analyze_semantics")
	if validateIdx < 0 || semanticsIdx < 0 {
		t.Fatalf("table missing stage rows:\n%s", rendered)
	}
	if validateIdx > semanticsIdx {
		t.Fatalf("stages out of order:\n%s", rendered)
	}
	if !strings.Contains(rendered, "failed") {
		t.Fatalf("table missing failed status:\n%s", rendered)
	}
}
