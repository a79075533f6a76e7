// Package main is the Itinera CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/voyagehq/itinera/internal/advisor"
	"github.com/voyagehq/itinera/internal/assistant"
	"github.com/voyagehq/itinera/internal/config"
	"github.com/voyagehq/itinera/internal/embedding"
	"github.com/voyagehq/itinera/internal/guardrail"
	"github.com/voyagehq/itinera/internal/indexer"
	"github.com/voyagehq/itinera/internal/models"
	"github.com/voyagehq/itinera/internal/server"
	"github.com/voyagehq/itinera/internal/vector"
	"github.com/voyagehq/itinera/internal/watcher"
	"github.com/voyagehq/itinera/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/itinera/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "itinera server" from the project dir uses the
// project's config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		// Missing default config is fine, env vars and defaults apply.
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, loadErr := config.Load("")
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "query":
		runQuery()
	case "version", "--version", "-v":
		fmt.Printf("itinera version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Itinera - seed-grounded travel advice service

Usage:
  itinera server [flags]          Start the HTTP API (builds the index if missing)
  itinera build [flags]           Build or rebuild the vector index from seed catalogues
  itinera query [flags] <query>   Ask for travel advice
  itinera version                 Print version

Common flags:
  -config <path>   config file path (default ` + defaultConfigPath + `)

Run "itinera <command> -h" for command flags.`)
}

// components holds everything the server and the direct query path share.
type components struct {
	Embedder  embedding.Embedder
	Assistant *assistant.Service
}

func (c *components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// initComponents builds the embedding client, ensures the on-disk index, and
// wires the query pipeline.
func initComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*components, error) {
	embedder, err := embedding.NewEmbedder(embedding.Config{
		Provider:     cfg.Embedding.Provider,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
		BaseURL:      cfg.Embedding.BaseURL,
		MaxBatchSize: cfg.Embedding.MaxBatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	var queryEmbedder embedding.Embedder = embedder
	if cfg.Embedding.CacheSize > 0 {
		queryEmbedder = embedding.NewCachedEmbedder(embedder, cfg.Embedding.CacheSize)
	}

	builder := indexer.NewBuilder(
		cfg.Storage.SeedDir,
		cfg.Storage.IndexPath,
		cfg.Storage.MetadataPath,
		embedder,
		indexer.WithLogger(logger),
	)
	idx, meta, err := builder.Ensure(ctx)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	generator, err := advisor.NewGenerator(
		cfg.Embedding.APIKey,
		cfg.Chat.Model,
		cfg.Embedding.BaseURL,
		cfg.Chat.Temperature,
		advisor.WithGeneratorLogger(logger),
	)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("create advice generator: %w", err)
	}

	svc := assistant.NewService(
		queryEmbedder,
		idx,
		meta,
		guardrail.NewFilter(),
		generator,
		assistant.Options{
			KPerCategory: cfg.Retrieval.KPerCategory,
			Pool:         cfg.Retrieval.Pool,
		},
		logger,
	)
	return &components{Embedder: embedder, Assistant: svc}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	srv := server.NewServer(comps.Assistant, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	force := fs.Bool("force", false, "rebuild even when valid artifacts exist")
	watch := fs.Bool("watch", false, "keep running and rebuild when seed catalogues change")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	embedder, err := embedding.NewEmbedder(embedding.Config{
		Provider:     cfg.Embedding.Provider,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
		BaseURL:      cfg.Embedding.BaseURL,
		MaxBatchSize: cfg.Embedding.MaxBatchSize,
	})
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	builder := indexer.NewBuilder(
		cfg.Storage.SeedDir,
		cfg.Storage.IndexPath,
		cfg.Storage.MetadataPath,
		embedder,
		indexer.WithLogger(logger),
	)

	ctx := context.Background()
	build := func() {
		var idx *vector.FlatIndex
		var buildErr error
		if *force {
			idx, _, buildErr = builder.Rebuild(ctx)
		} else {
			idx, _, buildErr = builder.Ensure(ctx)
		}
		if buildErr != nil {
			if *watch {
				logger.Error("index build failed", zap.Error(buildErr))
				return
			}
			logger.Fatal("index build failed", zap.Error(buildErr))
		}
		logger.Info("index ready",
			zap.Int("items", idx.Ntotal()),
			zap.String("index_path", cfg.Storage.IndexPath),
			zap.String("metadata_path", cfg.Storage.MetadataPath),
		)
	}
	build()

	if !*watch {
		return
	}

	// In watch mode every settled change forces a full rebuild; the seed
	// catalogues are small, so incremental updates are not worth the
	// alignment risk.
	w := watcher.NewWatcher(cfg.Storage.SeedDir, func() {
		logger.Info("seed catalogues changed, rebuilding")
		if _, _, rebuildErr := builder.Rebuild(ctx); rebuildErr != nil {
			logger.Error("rebuild failed", zap.Error(rebuildErr))
		}
	}, watcher.WithLogger(logger))

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := w.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	logger.Info("watching seed directory", zap.String("dir", cfg.Storage.SeedDir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}

// buildQueryText joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQueryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// queryArgsReorder moves any flags (and their values) that appear after the
// query text to the front of the slice so that flag.Parse() sees them. The
// flag package stops at the first non-flag argument.
func queryArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printQueryUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: itinera query [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  itinera query romantic week in Italy on a mid budget
  itinera query --server "" beach holiday with kids   # bypass the HTTP API
`)
}

func runQuery() {
	queryArgs := queryArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline in-process)")
	fs.Usage = func() { printQueryUsage(fs) }
	_ = fs.Parse(queryArgs)

	queryText := buildQueryText(fs.Args())
	if queryText == "" {
		printQueryUsage(fs)
		os.Exit(1)
	}

	if *serverURL != "" {
		advice, err := adviseViaHTTP(*serverURL, queryText)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		printAdvice(advice)
		return
	}

	// In-process path for when no server is running. Still needs API
	// credentials unless the mock embedding provider is configured.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initComponents(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comps.Close()

	advice, err := comps.Assistant.Advise(context.Background(), queryText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	printAdvice(advice)
}

func adviseViaHTTP(serverURL, query string) (*models.TravelAdvice, error) {
	body, err := json.Marshal(models.TravelQuery{Query: query})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/travel-assistant", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var advice models.TravelAdvice
	if err := json.NewDecoder(resp.Body).Decode(&advice); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &advice, nil
}

func printAdvice(advice *models.TravelAdvice) {
	out, err := json.MarshalIndent(advice, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
