// Package server assembles the MCP server and runs it over the
// configured transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools/alert"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools/cases"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools/cortex"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools/observable"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools/task"
)

const (
	Name    = "thehive-mcp"
	Version = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

// Options for creating a Server.
type Options struct {
	Transport string
	Listen    string
	Modules   []string

	Sessions   *hive.SessionCache // overrides the env-backed cache, for tests
	SignalChan chan os.Signal     // for testing signal handling
}

type Server struct {
	opts   Options
	mcp    *mcp.Server
	report tools.Report
}

// New builds the MCP server and registers the requested tool modules.
// Registration failures are isolated per module; New only fails when
// every requested module failed.
func New(opts Options) (*Server, error) {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = hive.NewSessionCache(hive.SessionCacheOptions{})
	}

	registry := tools.NewRegistry()
	registry.Add("alert", func() (tools.Catalog, error) { return alert.New(sessions), nil })
	registry.Add("case", func() (tools.Catalog, error) { return cases.New(sessions), nil })
	registry.Add("observable", func() (tools.Catalog, error) { return observable.New(sessions), nil })
	registry.Add("task", func() (tools.Catalog, error) { return task.New(sessions), nil })
	registry.Add("cortex", func() (tools.Catalog, error) { return cortex.New(sessions), nil })

	modules := opts.Modules
	if len(modules) == 0 {
		modules = registry.ModuleNames()
	}

	srv := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
	report := registry.RegisterAll(srv, modules)
	report.Log()

	if report.Registered == 0 && len(report.Failures) > 0 {
		return nil, fmt.Errorf("no tool module could be registered: %d failed", len(report.Failures))
	}

	return &Server{opts: opts, mcp: srv, report: report}, nil
}

// Report returns the registration outcome of the last New call.
func (s *Server) Report() tools.Report { return s.report }

func (s *Server) Run(ctx context.Context) error {
	switch s.opts.Transport {
	case "stdio":
		log.Info().Str("transport", "stdio").Msg("serving")
		return s.mcp.Run(ctx, &mcp.StdioTransport{})
	case "sse":
		handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
		return s.serveHTTP(ctx, handler)
	case "streamable-http", "http":
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
		return s.serveHTTP(ctx, handler)
	default:
		return fmt.Errorf("unknown transport %q", s.opts.Transport)
	}
}

func (s *Server) serveHTTP(ctx context.Context, handler http.Handler) error {
	httpSrv := &http.Server{
		Addr:    s.opts.Listen,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("transport", s.opts.Transport).Str("listen", s.opts.Listen).Msg("serving")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := s.opts.SignalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Info().Str("signal", fmt.Sprint(sig)).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
