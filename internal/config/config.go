package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables read at session construction time.
const (
	EnvHiveURL    = "HIVE_URL"
	EnvHiveAPIKey = "HIVE_API_KEY"
)

const (
	DefaultListen    = "localhost:8000"
	DefaultTransport = "streamable-http"
	DefaultLogLevel  = "info"
)

// Options holds the server settings supplied by the CLI.
type Options struct {
	Transport string
	Listen    string
	Modules   []string
	LogLevel  string
}

func DefaultOptions() Options {
	return Options{
		Transport: DefaultTransport,
		Listen:    DefaultListen,
		LogLevel:  DefaultLogLevel,
	}
}

// MissingEnvError reports a required environment variable that is unset or
// blank. Session construction fails fast on it instead of proceeding with a
// partially configured client.
type MissingEnvError struct {
	Name string
	Hint string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s environment variable is required but not set. Expected: %s", e.Name, e.Hint)
}

func requireEnv(name, hint string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", &MissingEnvError{Name: name, Hint: hint}
	}
	return value, nil
}

// HiveURL reads the TheHive base URL from the environment. It is read at
// call time, never cached, so a session reset followed by reconstruction
// picks up runtime reconfiguration.
func HiveURL() (string, error) {
	return requireEnv(EnvHiveURL, "TheHive instance base URL (e.g. https://thehive.example.com:9000)")
}

// HiveAPIKey reads the TheHive API key from the environment at call time.
func HiveAPIKey() (string, error) {
	return requireEnv(EnvHiveAPIKey, "API key for authenticating with TheHive")
}
