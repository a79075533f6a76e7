// Package config provides configuration loading for the itinera service.
// Values come from an optional YAML file, overridden by environment variables,
// with zero values filled in by ApplyDefaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the persisted index artifacts and seed data.
type StorageConfig struct {
	IndexPath    string `yaml:"index_path"`
	MetadataPath string `yaml:"metadata_path"`
	SeedDir      string `yaml:"seed_dir"`
}

// EmbeddingConfig holds embedding service settings. Model must be identical
// between index build and query time; the persisted index records it and the
// loader refuses a mismatch.
type EmbeddingConfig struct {
	Provider     string `yaml:"provider"` // "openai" (default) or "mock"
	Model        string `yaml:"model"`
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	MaxBatchSize int    `yaml:"max_batch_size"`
	CacheSize    int    `yaml:"cache_size"`
}

// ChatConfig holds advice generation settings.
type ChatConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// RetrievalConfig holds search tunables. Pool must be large enough for every
// category to fill its per-category quota; the retriever does not grow it.
type RetrievalConfig struct {
	KPerCategory int `yaml:"k_per_category"`
	Pool         int `yaml:"pool"`
}

// Load reads the config file at path (skipped when path is empty), applies
// environment overrides and defaults. Returns an error if the file exists but
// cannot be read or parsed.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv overrides config fields from environment variables. Env wins over
// the file so deployments can retarget artifacts without editing YAML.
func applyEnv(cfg *Config) {
	if v := os.Getenv("INDEX_PATH"); v != "" {
		cfg.Storage.IndexPath = v
	}
	if v := os.Getenv("METADATA_PATH"); v != "" {
		cfg.Storage.MetadataPath = v
	}
	if v := os.Getenv("SEED_DIR"); v != "" {
		cfg.Storage.SeedDir = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
