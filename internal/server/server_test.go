package server

import (
	"context"
	"testing"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
)

func testSessions() *hive.SessionCache {
	return hive.NewSessionCache(hive.SessionCacheOptions{
		Factory: func() (*hive.Client, error) {
			return hive.NewClient("http://localhost:9000", "test-key"), nil
		},
	})
}

func TestNewRegistersAllModules(t *testing.T) {
	srv, err := New(Options{Transport: "stdio", Sessions: testSessions()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	report := srv.Report()
	if report.Registered != 71 {
		t.Errorf("Registered = %d, want 71", report.Registered)
	}
	if report.Duplicates != 0 {
		t.Errorf("Duplicates = %d, want 0", report.Duplicates)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want none", report.Failures)
	}
}

func TestNewWithModuleSubset(t *testing.T) {
	srv, err := New(Options{Transport: "stdio", Modules: []string{"alert", "cortex"}, Sessions: testSessions()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := srv.Report().Registered; got != 25 {
		t.Errorf("Registered = %d, want 25 (17 alert + 8 cortex)", got)
	}
}

func TestNewUnknownModuleIsIsolated(t *testing.T) {
	srv, err := New(Options{Transport: "stdio", Modules: []string{"alert", "nonexistent"}, Sessions: testSessions()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	report := srv.Report()
	if report.Registered != 17 {
		t.Errorf("Registered = %d, want 17", report.Registered)
	}
	if _, ok := report.Failures["nonexistent"]; !ok {
		t.Errorf("Failures = %v, want entry for nonexistent", report.Failures)
	}
}

func TestNewFailsWhenNothingRegisters(t *testing.T) {
	if _, err := New(Options{Transport: "stdio", Modules: []string{"nonexistent"}, Sessions: testSessions()}); err == nil {
		t.Error("New() error = nil, want failure when no module registers")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	srv, err := New(Options{Transport: "carrier-pigeon", Sessions: testSessions()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want unknown transport error")
	}
}
