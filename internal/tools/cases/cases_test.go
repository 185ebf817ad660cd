package cases

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
	return res.Content[0].(*mcp.TextContent).Text
}

func TestToolsCoversCaseSurface(t *testing.T) {
	list, err := New(nil).Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(list) != 23 {
		t.Errorf("len(Tools()) = %d, want 23", len(list))
	}
}

func TestCreateCaseRequiresTitle(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createCase(context.Background(), json.RawMessage(`{"fields": {"description": "intrusion"}}`))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := resultText(t, res); got != "Error: title is required" {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCreateCaseRequiresDescription(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createCase(context.Background(), json.RawMessage(`{"fields": {"title": "Intrusion"}}`))
	if got := resultText(t, res); got != "Error: description is required" {
		t.Errorf("text = %q", got)
	}
}

func TestCloseCaseDefaultsImpactStatus(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	args := json.RawMessage(`{"case_id": "~5", "status": "TruePositive", "summary": "contained"}`)
	res := c.closeCase(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if body["impactStatus"] != "NotApplicable" {
		t.Errorf("impactStatus = %v, want NotApplicable", body["impactStatus"])
	}
	if got := resultText(t, res); got != "Case ~5 closed" {
		t.Errorf("text = %q", got)
	}
}

func TestBulkUpdateCasesListifiesScalars(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	args := json.RawMessage(`{"case_ids": ["~1", "~2"], "severity": 3, "tags": ["apt"]}`)
	res := c.bulkUpdateCases(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if sev, ok := body["severity"].([]any); !ok || len(sev) != 1 || sev[0] != float64(3) {
		t.Errorf("severity = %v, want [3]", body["severity"])
	}
	if tags, ok := body["tags"].([]any); !ok || len(tags) != 1 {
		t.Errorf("tags = %v, want [apt]", body["tags"])
	}
	if _, ok := body["title"]; ok {
		t.Error("unset title was forwarded")
	}
	if got := resultText(t, res); got != "Updated 2 cases successfully" {
		t.Errorf("text = %q", got)
	}
}

func TestMergeCasesJoinsIDsInPath(t *testing.T) {
	var path string
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"_id": "~9"})
	})

	res := c.mergeCases(context.Background(), json.RawMessage(`{"case_ids": ["~1", "~2"]}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if path != "/api/v1/case/_merge/~1,~2" {
		t.Errorf("path = %q, want /api/v1/case/_merge/~1,~2", path)
	}
}

func TestCreateCaseTaskMissingFields(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	args := json.RawMessage(`{"case_id": "~1", "fields": {"title": "Triage"}}`)
	res := c.createCaseTask(context.Background(), args)
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	got := resultText(t, res)
	if !strings.Contains(got, "Missing required fields: description.") {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCreateCaseProcedureMissingData(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createCaseProcedure(context.Background(), json.RawMessage(`{"case_id": "~1", "procedure": {}}`))
	if got := resultText(t, res); got != "Error creating procedure: Missing procedure data." {
		t.Errorf("text = %q", got)
	}
}

func TestGetCasesReturnsOneItemPerCase(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "~1"}, {"_id": "~2"},
		})
	})

	res := c.getCases(context.Background(), json.RawMessage(`{}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if len(res.Content) != 2 {
		t.Errorf("len(Content) = %d, want 2", len(res.Content))
	}
}

func TestFindCaseTasksLabel(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"_id": "~t1", "title": "Triage"}})
	})

	res := c.findCaseTasks(context.Background(), json.RawMessage(`{"case_id": "~1"}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	got := resultText(t, res)
	if !strings.HasPrefix(got, "Case tasks: ") || !strings.Contains(got, "~t1") {
		t.Errorf("text = %q", got)
	}
}
