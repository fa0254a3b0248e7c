package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-generator/internal/config"
	"github.com/jonathan/resume-generator/internal/db"
	"github.com/jonathan/resume-generator/internal/embedding"
	"github.com/jonathan/resume-generator/internal/ingestion"
	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/parsing"
	"github.com/jonathan/resume-generator/internal/pipeline"
	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/update"
	"github.com/jonathan/resume-generator/internal/vectorstore"
)

// components holds every wired service the commands dispatch to.
type components struct {
	client    llm.Client
	embedder  embedding.Embedder
	store     vectorstore.Store
	retriever *retrieval.Engine
	assembler *pipeline.Assembler
	updater   *update.Engine
	database  *db.DB // nil when DATABASE_URL is unset
}

// loadConfig layers the optional JSON config file over environment
// variables over built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if flagVerbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildComponents wires the full service from configuration. The caller
// must call close when done.
func buildComponents(ctx context.Context, cfg config.Config) (*components, func(), error) {
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey, "")
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store := vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
	})
	if err := store.EnsureCollection(ctx, embedder.Dimensions()); err != nil {
		client.Close()
		embedder.Close()
		return nil, nil, fmt.Errorf("failed to ensure vector store collection: %w", err)
	}

	// Generation history is best-effort: run without it when Postgres
	// is not configured.
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: generation history disabled: %v", err)
			database = nil
		}
	}

	retriever := retrieval.NewEngine(embedder, store, cfg.SearchLimit)
	analyzer := parsing.NewAnalyzer(client)
	assembler := pipeline.NewAssembler(analyzer, retriever, client, database)
	updater := update.NewEngine(ingestion.NewNormalizer(client), retriever, store, embedder)

	c := &components{
		client:    client,
		embedder:  embedder,
		store:     store,
		retriever: retriever,
		assembler: assembler,
		updater:   updater,
		database:  database,
	}
	cleanup := func() {
		client.Close()
		embedder.Close()
		if database != nil {
			database.Close()
		}
	}
	return c, cleanup, nil
}
