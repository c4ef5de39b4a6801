// Package mcp parses bridge command flags and runs the MCP server on the
// selected transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/louisbranch/adsbridge/internal/platform/config"
	"github.com/louisbranch/adsbridge/internal/platform/otel"
	mcpapp "github.com/louisbranch/adsbridge/internal/services/mcp/app"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath          string        `env:"ADSBRIDGE_DB_PATH"           envDefault:"adsbridge.db"`
	Transport       string        `env:"ADSBRIDGE_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr        string        `env:"ADSBRIDGE_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	CacheEnabled    bool          `env:"ADSBRIDGE_CACHE_ENABLED"     envDefault:"true"`
	CacheTTL        time.Duration `env:"ADSBRIDGE_CACHE_TTL"         envDefault:"1h"`
	SweepInterval   time.Duration `env:"ADSBRIDGE_SWEEP_INTERVAL"    envDefault:"1h"`
	DeveloperToken  string        `env:"ADSBRIDGE_DEVELOPER_TOKEN"`
	AccessToken     string        `env:"ADSBRIDGE_ACCESS_TOKEN"`
	LoginCustomerID string        `env:"ADSBRIDGE_LOGIN_CUSTOMER_ID"`
	Endpoint        string        `env:"ADSBRIDGE_API_ENDPOINT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite cache database")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for http transport)")
	fs.BoolVar(&cfg.CacheEnabled, "cache", cfg.CacheEnabled, "serve repeated reads from the response cache")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "default cached response lifetime")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "expired entry sweep interval, 0 disables")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP bridge.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return mcpapp.Run(ctx, mcpapp.Config{
		DBPath:          cfg.DBPath,
		Transport:       cfg.Transport,
		HTTPAddr:        cfg.HTTPAddr,
		CacheEnabled:    cfg.CacheEnabled,
		CacheTTL:        cfg.CacheTTL,
		SweepInterval:   cfg.SweepInterval,
		DeveloperToken:  cfg.DeveloperToken,
		AccessToken:     cfg.AccessToken,
		LoginCustomerID: cfg.LoginCustomerID,
		Endpoint:        cfg.Endpoint,
	})
}
