package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("THANOS_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Organize.OnFileError != "skip" {
		t.Fatalf("expected default skip policy, got %q", cfg.Organize.OnFileError)
	}
	if cfg.LLM.Model != defaultLLMModel {
		t.Fatalf("expected default model, got %q", cfg.LLM.Model)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
upload_dir = "` + filepath.Join(dir, "up") + `"
organized_dir = "` + filepath.Join(dir, "org") + `"
data_dir = "` + dir + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[organize]
on_file_error = "ABORT"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Organize.OnFileError != "abort" {
		t.Fatalf("expected lowered policy, got %q", cfg.Organize.OnFileError)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "thanos.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Organize.OnFileError = "retry"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "on_file_error") {
		t.Fatalf("expected on_file_error validation error, got %v", err)
	}
}

func TestValidateRejectsSharedUploadAndOrganizedDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.UploadDir = "/tmp/same"
	cfg.Paths.OrganizedDir = "/tmp/same"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for shared upload/organized dir")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/data")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Fatalf("expected %q, got %q", filepath.Join(home, "data"), got)
	}
}

func TestCreateSampleWritesEmbeddedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[organize]") {
		t.Fatal("sample config missing [organize] section")
	}
}

func TestChatLLMFallsBackToLLMModel(t *testing.T) {
	cfg := Default()
	cfg.LLM.Model = "custom-model"
	cfg.Chat.Model = ""
	if got := cfg.ChatLLM().Model; got != "custom-model" {
		t.Fatalf("expected fallback to llm model, got %q", got)
	}
}
