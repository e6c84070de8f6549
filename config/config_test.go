package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
taxonomy: data/taxonomy.yaml
corpus: data/corpus.yaml
retrieval:
  top_k: 3
  min_score: 0.2
filter: 'int(alert.rule.level) >= 7'
cache:
  url: redis://localhost:6379/0
  ttl: 30m
watch:
  endpoints: [localhost:2379]
  key: threatlink/taxonomy/path
log_level: debug
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.TaxonomyPath != "data/taxonomy.yaml" || cfg.CorpusPath != "data/corpus.yaml" {
		t.Errorf("paths = %q, %q", cfg.TaxonomyPath, cfg.CorpusPath)
	}
	if cfg.Retrieval.TopK != 3 || cfg.Retrieval.MinScore != 0.2 {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
	if cfg.Filter == "" {
		t.Error("expected filter expression")
	}
	if cfg.Cache == nil || cfg.Cache.URL != "redis://localhost:6379/0" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	ttl, err := cfg.Cache.GetTTL()
	if err != nil || ttl != 30*time.Minute {
		t.Errorf("GetTTL() = %v, %v", ttl, err)
	}
	if cfg.Watch == nil || cfg.Watch.Key != "threatlink/taxonomy/path" {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("taxonomy: t.yaml\ncorpus: c.yaml\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Retrieval.TopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinScore != 1e-9 {
		t.Errorf("default min_score = %v", cfg.Retrieval.MinScore)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log_level = %q", cfg.LogLevel)
	}
	if cfg.Cache != nil || cfg.Watch != nil {
		t.Error("cache and watch should be absent by default")
	}
}

func TestParseCachePrefixDefault(t *testing.T) {
	cfg, err := Parse([]byte("taxonomy: t\ncorpus: c\ncache:\n  url: redis://localhost:6379\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Prefix != "threatlink" {
		t.Errorf("default prefix = %q", cfg.Cache.Prefix)
	}
	ttl, err := cfg.Cache.GetTTL()
	if err != nil || ttl != 15*time.Minute {
		t.Errorf("default TTL = %v, %v", ttl, err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			data:    "taxonomy: [",
			wantErr: "parse config",
		},
		{
			name:    "missing taxonomy",
			data:    "corpus: c.yaml\n",
			wantErr: "taxonomy path is required",
		},
		{
			name:    "missing corpus",
			data:    "taxonomy: t.yaml\n",
			wantErr: "corpus path is required",
		},
		{
			name:    "bad log level",
			data:    "taxonomy: t\ncorpus: c\nlog_level: loud\n",
			wantErr: "invalid log_level",
		},
		{
			name:    "min_score out of range",
			data:    "taxonomy: t\ncorpus: c\nretrieval:\n  min_score: 1.5\n",
			wantErr: "min_score",
		},
		{
			name:    "cache without url",
			data:    "taxonomy: t\ncorpus: c\ncache:\n  ttl: 5m\n",
			wantErr: "cache.url is required",
		},
		{
			name:    "bad cache ttl",
			data:    "taxonomy: t\ncorpus: c\ncache:\n  url: redis://x\n  ttl: soon\n",
			wantErr: "invalid cache TTL",
		},
		{
			name:    "watch without endpoints",
			data:    "taxonomy: t\ncorpus: c\nwatch:\n  key: k\n",
			wantErr: "watch.endpoints is required",
		},
		{
			name:    "watch without key",
			data:    "taxonomy: t\ncorpus: c\nwatch:\n  endpoints: [localhost:2379]\n",
			wantErr: "watch.key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("taxonomy: t.yaml\ncorpus: c.yaml\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TaxonomyPath != "t.yaml" {
		t.Errorf("TaxonomyPath = %q", cfg.TaxonomyPath)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
