// Package tools defines the descriptor, catalog and registration layer
// between the domain tool packages and the hosting MCP runtime. Domain
// packages produce Tool values; the Registry turns them into server
// registrations, skipping duplicates and isolating per-catalog failures.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler executes one tool invocation. Handlers own the error boundary:
// every failure, validation or remote, is mapped to result content, so a
// handler never reports a protocol-level error to the runtime.
type Handler func(ctx context.Context, args json.RawMessage) *mcp.CallToolResult

// Tool describes one invocable operation. Name is the dedup and dispatch
// key and must be unique across all loaded catalogs; Description must be
// non-empty.
type Tool struct {
	Name         string
	Title        string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Handler      Handler
}

// Catalog produces the tool set for one entity type. Tools builds the
// descriptors fresh on every call; catalogs do not cache their lists.
type Catalog interface {
	Name() string
	Tools() ([]Tool, error)
}

// Text returns a single-item result list.
func Text(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Textf is Text with formatting.
func Textf(format string, args ...any) *mcp.CallToolResult {
	return Text(fmt.Sprintf(format, args...))
}

// Errorf returns a single-item failure result. The text carries the whole
// diagnostic; IsError marks the result for hosts that inspect the flag.
func Errorf(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// JSONValue renders one entity as a single pretty-printed JSON item.
func JSONValue(v any) *mcp.CallToolResult {
	return Text(jsonString(v))
}

// JSONList maps a collection to one result item per element, preserving
// order. An empty collection yields an empty result list.
func JSONList(items []map[string]any) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(items))
	for _, item := range items {
		content = append(content, &mcp.TextContent{Text: jsonString(item)})
	}
	return &mcp.CallToolResult{Content: content}
}

// JSON renders a value compactly for embedding in a message string.
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func jsonString(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
