package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.IndexPath != "database/travel_index.faiss" {
		t.Errorf("index path: got %q", cfg.Storage.IndexPath)
	}
	if cfg.Storage.MetadataPath != "database/travel_metadata.json" {
		t.Errorf("metadata path: got %q", cfg.Storage.MetadataPath)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("model: got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.MaxBatchSize != 99 {
		t.Errorf("max batch size: got %d", cfg.Embedding.MaxBatchSize)
	}
	if cfg.Retrieval.KPerCategory != 3 || cfg.Retrieval.Pool != 150 {
		t.Errorf("retrieval defaults: got k=%d pool=%d", cfg.Retrieval.KPerCategory, cfg.Retrieval.Pool)
	}
	if cfg.Chat.Model != "gpt-4o-mini" {
		t.Errorf("chat model: got %q", cfg.Chat.Model)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9090
storage:
  index_path: /data/idx.bin
embedding:
  model: text-embedding-3-large
retrieval:
  k_per_category: 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Storage.IndexPath != "/data/idx.bin" {
		t.Errorf("index path: got %q", cfg.Storage.IndexPath)
	}
	if cfg.Embedding.Model != "text-embedding-3-large" {
		t.Errorf("model: got %q", cfg.Embedding.Model)
	}
	if cfg.Retrieval.KPerCategory != 5 {
		t.Errorf("k: got %d", cfg.Retrieval.KPerCategory)
	}
	// Unset fields still get defaults.
	if cfg.Storage.SeedDir != "seed" {
		t.Errorf("seed dir: got %q", cfg.Storage.SeedDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INDEX_PATH", "/env/index.bin")
	t.Setenv("METADATA_PATH", "/env/meta.json")
	t.Setenv("EMBEDDING_MODEL", "env-model")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  index_path: /file/index.bin\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.IndexPath != "/env/index.bin" {
		t.Errorf("env should win over file: got %q", cfg.Storage.IndexPath)
	}
	if cfg.Storage.MetadataPath != "/env/meta.json" {
		t.Errorf("metadata path: got %q", cfg.Storage.MetadataPath)
	}
	if cfg.Embedding.Model != "env-model" {
		t.Errorf("model: got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("api key not picked up from env")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
