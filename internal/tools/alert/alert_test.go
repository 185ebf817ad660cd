package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
)

// newTestCatalog returns a catalog whose client talks to the given
// handler, plus a counter of requests that reached it.
func newTestCatalog(t *testing.T, handler http.HandlerFunc) (*Catalog, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	sessions := hive.NewSessionCache(hive.SessionCacheOptions{
		Factory: func() (*hive.Client, error) {
			return hive.NewClient(srv.URL, "test-key"), nil
		},
	})
	return New(sessions), &calls
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want *mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestToolsCoversAlertSurface(t *testing.T) {
	c := New(nil)
	list, err := c.Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(list) != 17 {
		t.Errorf("len(Tools()) = %d, want 17", len(list))
	}
	for _, tool := range list {
		if tool.Name == "" || tool.Description == "" || tool.Handler == nil {
			t.Errorf("tool %q has incomplete descriptor", tool.Name)
		}
	}
}

func TestCreateAlertMissingData(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createAlert(context.Background(), json.RawMessage(`{}`))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := resultText(t, res); got != "Error creating alert: Missing alert data." {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCreateAlertMissingRequiredFields(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	args := json.RawMessage(`{"fields": {"type": "external", "title": "Suspicious login"}}`)
	res := c.createAlert(context.Background(), args)
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	got := resultText(t, res)
	if !strings.Contains(got, "Missing required fields: source, sourceRef, description.") {
		t.Errorf("text = %q, want missing-fields message", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCreateAlert(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/alert" {
			t.Errorf("request = %s %s, want POST /api/v1/alert", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"_id": "~40964096", "title": "Suspicious login"})
	})

	args := json.RawMessage(`{"fields": {
		"type": "external", "source": "siem", "sourceRef": "ref-1",
		"title": "Suspicious login", "description": "brute force"
	}}`)
	res := c.createAlert(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	got := resultText(t, res)
	if !strings.HasPrefix(got, "Created alert: ") || !strings.Contains(got, "~40964096") {
		t.Errorf("text = %q", got)
	}
}

func TestGetAlertsReturnsOneItemPerAlert(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "~1", "title": "first"},
			{"_id": "~2", "title": "second"},
			{"_id": "~3", "title": "third"},
		})
	})

	res := c.getAlerts(context.Background(), json.RawMessage(`{}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if len(res.Content) != 3 {
		t.Fatalf("len(Content) = %d, want 3", len(res.Content))
	}
	first := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(first, `"~1"`) {
		t.Errorf("content[0] = %q, want first alert", first)
	}
}

func TestGetAlertAPIError(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"message": "Alert not found"})
	})

	res := c.getAlert(context.Background(), json.RawMessage(`{"alert_id": "~999"}`))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	got := resultText(t, res)
	if !strings.HasPrefix(got, "Error getting alert: ") || !strings.Contains(got, "Alert not found") {
		t.Errorf("text = %q", got)
	}
}

func TestUpdateAlert(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/v1/alert/~1" {
			t.Errorf("request = %s %s, want PATCH /api/v1/alert/~1", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	args := json.RawMessage(`{"alert_id": "~1", "fields": {"severity": 3}}`)
	res := c.updateAlert(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "Alert ~1 updated successfully" {
		t.Errorf("text = %q", got)
	}
}

func TestBulkUpdateAlertsIncludesIDs(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	args := json.RawMessage(`{"alert_ids": ["~1", "~2"], "fields": {"tlp": 2}}`)
	res := c.bulkUpdateAlerts(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	ids, ok := body["ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Errorf("request ids = %v, want 2 entries", body["ids"])
	}
	if body["tlp"] != float64(2) {
		t.Errorf("request tlp = %v, want 2", body["tlp"])
	}
	if got := resultText(t, res); got != "Updated 2 alerts successfully" {
		t.Errorf("text = %q", got)
	}
}

func TestBulkUpdateAlertsNoIDs(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.bulkUpdateAlerts(context.Background(), json.RawMessage(`{"alert_ids": [], "fields": {"tlp": 2}}`))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := resultText(t, res); got != "No alert IDs provided for bulk update" {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCountAlerts(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(42)
	})

	res := c.countAlerts(context.Background(), json.RawMessage(`{"filters": {"_field": "status", "_value": "New"}}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "Found 42 alerts" {
		t.Errorf("text = %q", got)
	}
}

func TestCreateAlertObservableFiltersUnknownKeys(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode([]map[string]any{{"_id": "~7", "dataType": "ip"}})
	})

	args := json.RawMessage(`{"alert_id": "~1", "observable": {
		"dataType": "ip", "data": "10.0.0.1", "bogus": "dropped"
	}}`)
	res := c.createAlertObservable(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if _, ok := body["bogus"]; ok {
		t.Error("unknown observable key was forwarded")
	}
	if got := resultText(t, res); !strings.HasPrefix(got, "Created observable: ") {
		t.Errorf("text = %q", got)
	}
}

func TestCreateAlertObservableMissingKeys(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	args := json.RawMessage(`{"alert_id": "~1", "observable": {"dataType": "ip"}}`)
	res := c.createAlertObservable(context.Background(), args)
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := resultText(t, res); got != "Missing required keys: 'dataType' and 'data' are required in observable." {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}
