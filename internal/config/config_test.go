package config

import (
	"errors"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Transport != DefaultTransport {
		t.Errorf("transport = %q, want %q", opts.Transport, DefaultTransport)
	}
	if opts.Listen != DefaultListen {
		t.Errorf("listen = %q, want %q", opts.Listen, DefaultListen)
	}
	if opts.LogLevel != DefaultLogLevel {
		t.Errorf("logLevel = %q, want %q", opts.LogLevel, DefaultLogLevel)
	}
}

func TestHiveURL(t *testing.T) {
	t.Setenv(EnvHiveURL, "https://thehive.example.com:9000")
	url, err := HiveURL()
	if err != nil {
		t.Fatalf("HiveURL error: %v", err)
	}
	if url != "https://thehive.example.com:9000" {
		t.Errorf("url = %q, want %q", url, "https://thehive.example.com:9000")
	}
}

func TestHiveURL_Trimmed(t *testing.T) {
	t.Setenv(EnvHiveURL, "  https://thehive.local:9000  ")
	url, err := HiveURL()
	if err != nil {
		t.Fatalf("HiveURL error: %v", err)
	}
	if url != "https://thehive.local:9000" {
		t.Errorf("url = %q, want trimmed value", url)
	}
}

func TestHiveURL_Missing(t *testing.T) {
	for _, value := range []string{"", "   "} {
		t.Setenv(EnvHiveURL, value)
		_, err := HiveURL()
		if err == nil {
			t.Fatalf("HiveURL(%q) expected error, got nil", value)
		}
		var missing *MissingEnvError
		if !errors.As(err, &missing) {
			t.Fatalf("error type = %T, want *MissingEnvError", err)
		}
		if missing.Name != EnvHiveURL {
			t.Errorf("missing.Name = %q, want %q", missing.Name, EnvHiveURL)
		}
	}
}

func TestHiveAPIKey_Missing(t *testing.T) {
	t.Setenv(EnvHiveAPIKey, "")
	_, err := HiveAPIKey()
	var missing *MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingEnvError", err)
	}
}
