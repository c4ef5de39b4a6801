// Package maintenance implements offline administration of the bridge
// database: cache statistics, invalidation, expiry sweeps, call-log
// inspection, and user grants.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/louisbranch/adsbridge/internal/adsclient"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite"
)

// Config holds maintenance command configuration.
type Config struct {
	Command    string
	DBPath     string        `env:"ADSBRIDGE_DB_PATH" envDefault:"adsbridge.db"`
	Timeout    time.Duration `env:"ADSBRIDGE_MAINTENANCE_TIMEOUT" envDefault:"1m"`
	Namespace  string
	CustomerID string
	Since      time.Duration
	Limit      int
	JSONOutput bool
	UserID     string
	Level      string
	TTL        time.Duration
	Disable    bool
}

type envConfig struct {
	DBPath  string        `env:"ADSBRIDGE_DB_PATH" envDefault:"adsbridge.db"`
	Timeout time.Duration `env:"ADSBRIDGE_MAINTENANCE_TIMEOUT" envDefault:"1m"`
}

// ParseConfig parses flags into a Config. The first positional argument
// selects the command: stats, clear, sweep, calls, grant, accounts,
// config-set, or config-get.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		DBPath:  envCfg.DBPath,
		Timeout: envCfg.Timeout,
		Since:   24 * time.Hour,
		Limit:   50,
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite cache database")
	fs.StringVar(&cfg.Namespace, "namespace", "", "cache namespace filter (clear)")
	fs.StringVar(&cfg.CustomerID, "customer", "", "ads account filter, dashes allowed (clear, grant, accounts)")
	fs.DurationVar(&cfg.Since, "since", cfg.Since, "look-back window (calls)")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "max rows to print (calls)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.StringVar(&cfg.UserID, "user", "", "user id (grant, accounts)")
	fs.StringVar(&cfg.Level, "level", "read", "access level: read, write, or admin (grant)")
	fs.DurationVar(&cfg.TTL, "ttl", 0, "stored default cache ttl (config-set)")
	fs.BoolVar(&cfg.Disable, "disable-cache", false, "store cache-disabled flag (config-set)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() < 1 {
		return Config{}, errors.New("a command is required: stats, clear, sweep, calls, grant, accounts, config-set, or config-get")
	}
	cfg.Command = fs.Arg(0)
	return cfg, nil
}

// Run executes the maintenance command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	store, err := sqlite.OpenWithOptions(cfg.DBPath, sqlite.Options{DisableAutoSweep: true})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(errOut, "Error: close store: %v\n", closeErr)
		}
	}()

	switch cfg.Command {
	case "stats":
		return runStats(ctx, store, cfg, out)
	case "clear":
		return runClear(ctx, store, cfg, out)
	case "sweep":
		return runSweep(ctx, store, cfg, out)
	case "calls":
		return runCalls(ctx, store, cfg, out)
	case "grant":
		return runGrant(ctx, store, cfg, out)
	case "accounts":
		return runAccounts(ctx, store, cfg, out)
	case "config-set":
		return runConfigSet(ctx, store, cfg, out)
	case "config-get":
		return runConfigGet(ctx, store, cfg, out)
	}
	return fmt.Errorf("unknown command %q", cfg.Command)
}

func runStats(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read cache stats: %w", err)
	}
	if cfg.JSONOutput {
		return printJSON(out, stats)
	}
	namespaces := make([]string, 0, len(stats))
	for namespace := range stats {
		namespaces = append(namespaces, string(namespace))
	}
	sort.Strings(namespaces)
	var total int64
	for _, namespace := range namespaces {
		count := stats[storage.Namespace(namespace)]
		total += count
		fmt.Fprintf(out, "%-16s %d\n", namespace, count)
	}
	fmt.Fprintf(out, "%-16s %d\n", "total", total)
	return nil
}

func runClear(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	if cfg.Namespace != "" && !storage.Namespace(cfg.Namespace).Valid() {
		return fmt.Errorf("unknown namespace %q", cfg.Namespace)
	}
	customerID := cfg.CustomerID
	if customerID != "" {
		cleaned, err := adsclient.CleanCustomerID(customerID)
		if err != nil {
			return err
		}
		customerID = cleaned
	}
	removed, err := store.Invalidate(ctx, storage.Namespace(cfg.Namespace), customerID)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	fmt.Fprintf(out, "removed %d cached entries\n", removed)
	return nil
}

func runSweep(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	removed, err := store.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep cache: %w", err)
	}
	fmt.Fprintf(out, "removed %d expired entries\n", removed)
	return nil
}

// callReport summarizes recent upstream calls for the calls command.
type callReport struct {
	Total    int            `json:"total"`
	Hits     int            `json:"hits"`
	Misses   int            `json:"misses"`
	Failures int            `json:"failures"`
	ByMethod map[string]int `json:"by_method"`
	Calls    []callRow      `json:"calls"`
}

type callRow struct {
	CalledAt    string `json:"called_at"`
	Method      string `json:"method"`
	CustomerID  string `json:"customer_id,omitempty"`
	CacheStatus string `json:"cache_status"`
	ElapsedMS   int64  `json:"elapsed_ms"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func runCalls(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	since := time.Now().Add(-cfg.Since)
	calls, err := store.ListAPICalls(ctx, since, cfg.Limit)
	if err != nil {
		return fmt.Errorf("list api calls: %w", err)
	}

	report := callReport{ByMethod: map[string]int{}}
	for _, call := range calls {
		report.Total++
		report.ByMethod[call.Method]++
		switch call.CacheStatus {
		case storage.CacheHit:
			report.Hits++
		case storage.CacheMiss:
			report.Misses++
		}
		if !call.Success {
			report.Failures++
		}
		report.Calls = append(report.Calls, callRow{
			CalledAt:    call.Timestamp.UTC().Format(time.RFC3339),
			Method:      call.Method,
			CustomerID:  call.CustomerID,
			CacheStatus: string(call.CacheStatus),
			ElapsedMS:   call.ExecutionTime.Milliseconds(),
			Success:     call.Success,
			Error:       call.ErrorMessage,
		})
	}
	if cfg.JSONOutput {
		return printJSON(out, report)
	}
	fmt.Fprintf(out, "%d calls since %s: %d hits, %d misses, %d failures\n",
		report.Total, since.UTC().Format(time.RFC3339), report.Hits, report.Misses, report.Failures)
	for _, row := range report.Calls {
		status := "ok"
		if !row.Success {
			status = "FAILED"
		}
		fmt.Fprintf(out, "%s  %-24s %-12s %s %4dms %s\n",
			row.CalledAt, row.Method, row.CustomerID, row.CacheStatus, row.ElapsedMS, status)
	}
	return nil
}

func runGrant(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	if cfg.UserID == "" {
		return errors.New("-user is required")
	}
	customerID, err := adsclient.CleanCustomerID(cfg.CustomerID)
	if err != nil {
		return err
	}
	level := storage.AccessLevel(strings.ToLower(cfg.Level))
	if err := store.GrantAccountAccess(ctx, cfg.UserID, customerID, level); err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	fmt.Fprintf(out, "granted %s access on %s to %s\n", level, adsclient.FormatCustomerID(customerID), cfg.UserID)
	return nil
}

func runAccounts(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	if cfg.UserID == "" {
		return errors.New("-user is required")
	}
	grants, err := store.ListAccountAccess(ctx, cfg.UserID)
	if err != nil {
		return fmt.Errorf("list account access: %w", err)
	}
	if cfg.JSONOutput {
		return printJSON(out, grants)
	}
	for _, grant := range grants {
		fmt.Fprintf(out, "%s  %s\n", adsclient.FormatCustomerID(grant.CustomerID), grant.Level)
	}
	return nil
}

// cacheConfigKey matches the global row the server reads at startup.
const cacheConfigKey = "cache"

func runConfigSet(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	if cfg.TTL < 0 {
		return platformerrors.New(platformerrors.CodeTTLInvalid, fmt.Sprintf("ttl %s must not be negative", cfg.TTL))
	}
	value := map[string]any{}
	if cfg.TTL > 0 {
		value["ttl"] = cfg.TTL.String()
	}
	value["enabled"] = !cfg.Disable
	if err := store.PutConfig(ctx, cacheConfigKey, "", value); err != nil {
		return fmt.Errorf("store cache config: %w", err)
	}
	fmt.Fprintf(out, "stored cache config: %v\n", value)
	return nil
}

func runConfigGet(ctx context.Context, store *sqlite.Store, cfg Config, out io.Writer) error {
	value, err := store.GetConfig(ctx, cacheConfigKey, "")
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintln(out, "no stored cache config")
			return nil
		}
		return fmt.Errorf("read cache config: %w", err)
	}
	return printJSON(out, value)
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
