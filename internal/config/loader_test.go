package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nbackend: openai\nruntime_url: http://ollama:11434\nmodel: gemma:7b\nrequest_timeout_sec: 30\ncors_origins: [\"http://a\", \"http://b\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Backend != "openai" || cfg.RuntimeURL != "http://ollama:11434" || cfg.Model != "gemma:7b" || cfg.RequestTimeoutSec != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model":"llama3","max_body_bytes":2048,"log_level":"debug"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Model != "llama3" || cfg.MaxBodyBytes != 2048 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nbackend=\"llama\"\nmodel_path=\"/x/m.gguf\"\nllama_ctx=2048\nllama_threads=4\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Backend != "llama" || cfg.ModelPath != "/x/m.gguf" || cfg.LlamaCtx != 2048 || cfg.LlamaThreads != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeTempFile(t, home, "queryd.yaml", "model: phi3\n")
	cfg, err := Load("~/queryd.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "phi3" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
