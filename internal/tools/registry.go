package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "registry").Logger()

// CatalogFunc resolves one catalog by name. Resolution is deferred until
// registration so a broken catalog surfaces as a per-catalog failure
// instead of a startup crash.
type CatalogFunc func() (Catalog, error)

// Registry collects domain catalogs and registers their tools with the
// hosting MCP server. The registered-name set lives for the process; it is
// what makes repeated or overlapping catalog requests idempotent.
type Registry struct {
	catalogs map[string]CatalogFunc
	names    []string
	seen     map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[string]CatalogFunc),
		seen:     make(map[string]struct{}),
	}
}

// Add binds a module name to its catalog constructor. Later bindings for
// the same name replace earlier ones.
func (r *Registry) Add(name string, fn CatalogFunc) {
	if _, exists := r.catalogs[name]; !exists {
		r.names = append(r.names, name)
	}
	r.catalogs[name] = fn
}

// ModuleNames returns the bound module names in registration order.
func (r *Registry) ModuleNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Report summarizes one RegisterAll pass.
type Report struct {
	Registered int
	Duplicates int
	Failures   map[string]error
}

// Failed returns the names of catalogs that could not be loaded, sorted.
func (rep Report) Failed() []string {
	out := make([]string, 0, len(rep.Failures))
	for name := range rep.Failures {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Log emits the operator-facing summary. Zero registered tools is loud but
// not fatal: the server still starts and serves an empty tool list.
func (rep Report) Log() {
	for _, name := range rep.Failed() {
		logger.Error().Err(rep.Failures[name]).Str("module", name).Msg("failed loading module")
	}
	if rep.Duplicates > 0 {
		logger.Warn().Int("count", rep.Duplicates).Msg("duplicate tools skipped")
	}
	logger.Info().Int("count", rep.Registered).Msg("total tools registered")
	if rep.Registered == 0 {
		logger.Warn().Msg("no tools registered")
	}
}

// RegisterAll resolves each requested catalog in order, lists its tools
// and registers them on server. Duplicate tool names are skipped (first
// occurrence wins); a catalog that fails to resolve or enumerate is
// recorded and skipped without aborting the remaining catalogs.
func (r *Registry) RegisterAll(server *mcp.Server, requested []string) Report {
	rep := Report{Failures: make(map[string]error)}

	for _, name := range requested {
		fn, ok := r.catalogs[name]
		if !ok {
			rep.Failures[name] = fmt.Errorf("unknown module %q", name)
			continue
		}
		catalog, err := fn()
		if err != nil {
			rep.Failures[name] = err
			continue
		}
		list, err := catalog.Tools()
		if err != nil {
			rep.Failures[name] = err
			continue
		}

		for _, t := range list {
			if t.Name == "" || t.Description == "" || t.Handler == nil {
				logger.Warn().Str("module", name).Str("tool", t.Name).Msg("skipping malformed tool descriptor")
				continue
			}
			if _, dup := r.seen[t.Name]; dup {
				logger.Warn().Str("tool", t.Name).Msg("skipping duplicate tool")
				rep.Duplicates++
				continue
			}
			logger.Debug().Str("tool", t.Name).Msg("registering tool")
			registerTool(server, t)
			r.seen[t.Name] = struct{}{}
			rep.Registered++
		}
	}
	return rep
}

func registerTool(server *mcp.Server, t Tool) {
	def := &mcp.Tool{
		Name:        t.Name,
		Title:       t.Title,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
	if t.OutputSchema != nil {
		def.OutputSchema = t.OutputSchema
	}
	handler := t.Handler
	server.AddTool(def, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		return handler(ctx, args), nil
	})
}
