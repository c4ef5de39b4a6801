package mcp

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "adsbridge.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if !cfg.CacheEnabled {
		t.Fatal("expected caching enabled by default")
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected default cache ttl 1h, got %v", cfg.CacheTTL)
	}
	if cfg.SweepInterval != time.Hour {
		t.Fatalf("expected default sweep interval 1h, got %v", cfg.SweepInterval)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{
		"-db", "/tmp/other.db",
		"-transport", "http",
		"-http-addr", "localhost:9999",
		"-cache=false",
		"-cache-ttl", "30m",
		"-sweep-interval", "0",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if cfg.CacheEnabled {
		t.Fatal("expected caching disabled by flag")
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("expected cache ttl 30m, got %v", cfg.CacheTTL)
	}
	if cfg.SweepInterval != 0 {
		t.Fatalf("expected sweep interval 0, got %v", cfg.SweepInterval)
	}
}
