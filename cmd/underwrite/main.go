package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"creditdesk/internal/policy"
	"creditdesk/internal/underwriting"
	"creditdesk/internal/underwriting/metrics"
	"creditdesk/pkg/cache"
	"creditdesk/pkg/config"
	"creditdesk/pkg/logger"
	"creditdesk/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	input := flag.String("input", "-", "application JSON file, or - for stdin")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Service.Name, cfg.Service.LogLevel)

	table := policy.MustLoadTable()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	var opts []policy.Option
	if m != nil {
		opts = append(opts, policy.WithFallbackCounter(m))
	}
	if cfg.Retrieval.Enabled {
		store, err := policy.NewDocStore(cfg.Retrieval.DocsDir)
		if err != nil {
			log.Fatal("Failed to load policy documents", map[string]interface{}{
				"dir":   cfg.Retrieval.DocsDir,
				"error": err.Error(),
			})
		}
		opts = append(opts, policy.WithRetriever(store, cfg.Retrieval.Timeout, cfg.Retrieval.TopK))
	}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Patch caching is best-effort; run without it.
			log.Warn("Redis unavailable, continuing without patch cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisCache.Close()
			opts = append(opts, policy.WithPatchCache(redisCache, cfg.Redis.PatchTTL))
		}
	}

	repo := policy.NewRepository(table, log, opts...)

	svc := underwriting.NewService(repo, validator.New(), m, log)

	app, err := readApplication(*input)
	if err != nil {
		log.Fatal("Failed to read application", map[string]interface{}{"error": err.Error()})
	}

	envelope, err := svc.Evaluate(context.Background(), app)
	if err != nil {
		log.Fatal("Evaluation failed", map[string]interface{}{"error": err.Error()})
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode decision", map[string]interface{}{"error": err.Error()})
	}
	fmt.Println(string(out))
}

func readApplication(path string) (*underwriting.Application, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var app underwriting.Application
	if err := json.NewDecoder(r).Decode(&app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return &app, nil
}
