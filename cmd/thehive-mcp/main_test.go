package main

import (
	"testing"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/config"
)

func TestServeFlagDefaults(t *testing.T) {
	transport, err := serveCmd.Flags().GetString("transport")
	if err != nil {
		t.Fatalf("GetString(transport) error = %v", err)
	}
	if transport != config.DefaultTransport {
		t.Errorf("transport default = %q, want %q", transport, config.DefaultTransport)
	}

	listen, err := serveCmd.Flags().GetString("listen")
	if err != nil {
		t.Fatalf("GetString(listen) error = %v", err)
	}
	if listen != config.DefaultListen {
		t.Errorf("listen default = %q, want %q", listen, config.DefaultListen)
	}

	modules, err := serveCmd.Flags().GetStringSlice("modules")
	if err != nil {
		t.Fatalf("GetStringSlice(modules) error = %v", err)
	}
	if len(modules) != 0 {
		t.Errorf("modules default = %v, want empty (all modules)", modules)
	}
}

func TestRootHasServeCommand(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "serve" {
			return
		}
	}
	t.Error("serve command not registered on root")
}
