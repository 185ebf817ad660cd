package tools

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func textOf(t *testing.T, res *mcp.CallToolResult, i int) string {
	t.Helper()
	if i >= len(res.Content) {
		t.Fatalf("content index %d out of range, len = %d", i, len(res.Content))
	}
	text, ok := res.Content[i].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[%d] = %T, want *mcp.TextContent", i, res.Content[i])
	}
	return text.Text
}

func TestTextf(t *testing.T) {
	res := Textf("Found %d alerts", 3)
	if res.IsError {
		t.Error("IsError = true, want false")
	}
	if got := textOf(t, res, 0); got != "Found 3 alerts" {
		t.Errorf("text = %q", got)
	}
}

func TestErrorfSetsIsError(t *testing.T) {
	res := Errorf("Error getting alert: %s", "gone")
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := textOf(t, res, 0); got != "Error getting alert: gone" {
		t.Errorf("text = %q", got)
	}
}

func TestJSONListOneItemPerElement(t *testing.T) {
	items := []map[string]any{
		{"_id": "~1"},
		{"_id": "~2"},
		{"_id": "~3"},
	}
	res := JSONList(items)
	if res.IsError {
		t.Error("IsError = true, want false")
	}
	if len(res.Content) != 3 {
		t.Fatalf("len(Content) = %d, want 3", len(res.Content))
	}
	for i, item := range items {
		got := textOf(t, res, i)
		if !strings.Contains(got, item["_id"].(string)) {
			t.Errorf("content[%d] = %q, want item %v", i, got, item)
		}
	}
}

func TestJSONListEmpty(t *testing.T) {
	res := JSONList(nil)
	if len(res.Content) != 0 {
		t.Errorf("len(Content) = %d, want 0", len(res.Content))
	}
}

func TestJSONValueIsIndented(t *testing.T) {
	res := JSONValue(map[string]any{"_id": "~1", "title": "Suspicious login"})
	got := textOf(t, res, 0)
	if !strings.Contains(got, "\n  ") {
		t.Errorf("text = %q, want indented JSON", got)
	}
}

func TestJSONCompact(t *testing.T) {
	got := JSON(map[string]any{"a": 1})
	if got != `{"a":1}` {
		t.Errorf("JSON() = %q", got)
	}
}
