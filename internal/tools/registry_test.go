package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testServer() *mcp.Server {
	return mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
}

func okHandler(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return Text("ok")
}

type staticCatalog struct {
	name  string
	tools []Tool
	err   error
}

func (c *staticCatalog) Name() string          { return c.name }
func (c *staticCatalog) Tools() ([]Tool, error) { return c.tools, c.err }

func catalogOf(name string, toolNames ...string) CatalogFunc {
	return func() (Catalog, error) {
		var list []Tool
		for _, tn := range toolNames {
			list = append(list, Tool{
				Name:        tn,
				Description: "test tool",
				InputSchema: map[string]any{"type": "object"},
				Handler:     okHandler,
			})
		}
		return &staticCatalog{name: name, tools: list}, nil
	}
}

func TestRegisterAllCounts(t *testing.T) {
	r := NewRegistry()
	r.Add("alpha", catalogOf("alpha", "a1", "a2"))
	r.Add("beta", catalogOf("beta", "b1"))

	report := r.RegisterAll(testServer(), []string{"alpha", "beta"})
	if report.Registered != 3 {
		t.Errorf("Registered = %d, want 3", report.Registered)
	}
	if report.Duplicates != 0 {
		t.Errorf("Duplicates = %d, want 0", report.Duplicates)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want none", report.Failures)
	}
}

func TestRegisterAllDuplicateFirstWins(t *testing.T) {
	r := NewRegistry()
	r.Add("alpha", catalogOf("alpha", "shared", "a2"))
	r.Add("beta", catalogOf("beta", "shared"))

	report := r.RegisterAll(testServer(), []string{"alpha", "beta"})
	if report.Registered != 2 {
		t.Errorf("Registered = %d, want 2", report.Registered)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
}

func TestRegisterAllRepeatedModuleIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Add("alpha", catalogOf("alpha", "a1", "a2"))

	report := r.RegisterAll(testServer(), []string{"alpha", "alpha"})
	if report.Registered != 2 {
		t.Errorf("Registered = %d, want 2", report.Registered)
	}
	if report.Duplicates != 2 {
		t.Errorf("Duplicates = %d, want 2", report.Duplicates)
	}
}

func TestRegisterAllUnknownModule(t *testing.T) {
	r := NewRegistry()
	r.Add("alpha", catalogOf("alpha", "a1"))

	report := r.RegisterAll(testServer(), []string{"alpha", "ghost"})
	if report.Registered != 1 {
		t.Errorf("Registered = %d, want 1", report.Registered)
	}
	if _, ok := report.Failures["ghost"]; !ok {
		t.Errorf("Failures = %v, want entry for ghost", report.Failures)
	}
}

func TestRegisterAllCatalogFailureIsIsolated(t *testing.T) {
	r := NewRegistry()
	r.Add("broken", func() (Catalog, error) { return nil, errors.New("load failed") })
	r.Add("alpha", catalogOf("alpha", "a1"))

	report := r.RegisterAll(testServer(), []string{"broken", "alpha"})
	if report.Registered != 1 {
		t.Errorf("Registered = %d, want 1", report.Registered)
	}
	if err := report.Failures["broken"]; err == nil {
		t.Errorf("Failures = %v, want entry for broken", report.Failures)
	}
}

func TestRegisterAllToolsErrorIsIsolated(t *testing.T) {
	r := NewRegistry()
	r.Add("flaky", func() (Catalog, error) {
		return &staticCatalog{name: "flaky", err: errors.New("enumeration failed")}, nil
	})
	r.Add("alpha", catalogOf("alpha", "a1"))

	report := r.RegisterAll(testServer(), []string{"flaky", "alpha"})
	if report.Registered != 1 {
		t.Errorf("Registered = %d, want 1", report.Registered)
	}
	if err := report.Failures["flaky"]; err == nil {
		t.Errorf("Failures = %v, want entry for flaky", report.Failures)
	}
}

func TestRegisterAllSkipsMalformedDescriptors(t *testing.T) {
	r := NewRegistry()
	r.Add("alpha", func() (Catalog, error) {
		return &staticCatalog{name: "alpha", tools: []Tool{
			{Name: "", Description: "no name", Handler: okHandler},
			{Name: "no_handler", Description: "nil handler"},
			{Name: "good", Description: "fine", InputSchema: map[string]any{"type": "object"}, Handler: okHandler},
		}}, nil
	})

	report := r.RegisterAll(testServer(), []string{"alpha"})
	if report.Registered != 1 {
		t.Errorf("Registered = %d, want 1", report.Registered)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want none", report.Failures)
	}
}

func TestModuleNamesPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Add("alert", catalogOf("alert"))
	r.Add("case", catalogOf("case"))
	r.Add("observable", catalogOf("observable"))

	got := r.ModuleNames()
	want := []string{"alert", "case", "observable"}
	if len(got) != len(want) {
		t.Fatalf("ModuleNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ModuleNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReportFailedSorted(t *testing.T) {
	report := Report{Failures: map[string]error{
		"zeta":  errors.New("z"),
		"alpha": errors.New("a"),
	}}
	failed := report.Failed()
	if len(failed) != 2 || failed[0] != "alpha" || failed[1] != "zeta" {
		t.Errorf("Failed() = %v, want [alpha zeta]", failed)
	}
}
