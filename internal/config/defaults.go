package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "database/travel_index.faiss"
	}
	if cfg.Storage.MetadataPath == "" {
		cfg.Storage.MetadataPath = "database/travel_metadata.json"
	}
	if cfg.Storage.SeedDir == "" {
		cfg.Storage.SeedDir = "seed"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.MaxBatchSize == 0 {
		cfg.Embedding.MaxBatchSize = 99
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1024
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gpt-4o-mini"
	}
	if cfg.Retrieval.KPerCategory == 0 {
		cfg.Retrieval.KPerCategory = 3
	}
	if cfg.Retrieval.Pool == 0 {
		cfg.Retrieval.Pool = 150
	}
}
