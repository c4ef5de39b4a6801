package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/adsbridge/internal/adsclient"
	"github.com/louisbranch/adsbridge/internal/services/mcp/domain"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Ads Bridge MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

type mcpRegistrationModule struct {
	name     string
	register func(mcpRegistrationTarget) error
}

const (
	mcpAccountToolsModuleName  = "account-tools"
	mcpReportToolsModuleName   = "report-tools"
	mcpMutationToolsModuleName = "mutation-tools"
	mcpAdminToolsModuleName    = "admin-tools"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.AccountListInput, domain.AccountListResult](),
	newMCPToolRegistrar[domain.AccountSummaryInput, domain.AccountSummaryResult](),
	newMCPToolRegistrar[domain.ReportInput, domain.CampaignListResult](),
	newMCPToolRegistrar[domain.ReportInput, domain.AdGroupListResult](),
	newMCPToolRegistrar[domain.ReportInput, domain.KeywordListResult](),
	newMCPToolRegistrar[domain.ReportInput, domain.SearchTermListResult](),
	newMCPToolRegistrar[domain.BudgetListInput, domain.BudgetListResult](),
	newMCPToolRegistrar[domain.GAQLInput, domain.GAQLResult](),
	newMCPToolRegistrar[domain.BudgetUpdateInput, domain.MutationResult](),
	newMCPToolRegistrar[domain.AdGroupUpdateInput, domain.MutationResult](),
	newMCPToolRegistrar[domain.KeywordUpdateInput, domain.MutationResult](),
	newMCPToolRegistrar[domain.CacheStatsInput, domain.CacheStatsResult](),
	newMCPToolRegistrar[domain.CacheClearInput, domain.CacheClearResult](),
	newMCPToolRegistrar[domain.CacheSweepInput, domain.CacheSweepResult](),
	newMCPToolRegistrar[domain.CallLogInput, domain.CallLogResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(deps Deps) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpAccountToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAccountTools(registrar, deps)
			},
		},
		{
			name: mcpReportToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerReportTools(registrar, deps)
			},
		},
		{
			name: mcpMutationToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerMutationTools(registrar, deps)
			},
		},
		{
			name: mcpAdminToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAdminTools(registrar, deps)
			},
		},
	}
}

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP listen address. Defaults to localhost:8081 for
	// the HTTP transport so the server is not exposed beyond the local
	// machine without an explicit choice.
	HTTPAddr string
}

// Deps carries the backends MCP tool handlers operate on.
type Deps struct {
	Ads   *adsclient.Client
	Cache storage.CacheStore
	Calls storage.APICallLog
	Users storage.UserStore
}

func (d Deps) validate() error {
	if d.Ads == nil {
		return fmt.Errorf("ads client is required")
	}
	if d.Cache == nil {
		return fmt.Errorf("cache store is required")
	}
	if d.Calls == nil {
		return fmt.Errorf("call log is required")
	}
	return nil
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server with all tool handlers bound to the
// provided backends.
func New(deps Deps) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, module := range newMCPRegistrationModules(deps) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. Startup picks stdio for local tools and HTTP for remote
// integrations.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(deps)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is the normal shutdown path and is not an error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// serveHTTP runs the MCP server behind the SDK's streamable HTTP handler
// until the context is cancelled.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if addr == "" {
		addr = "localhost:8081"
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("mcp http server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve MCP http: %w", err)
		}
		return nil
	}
}
