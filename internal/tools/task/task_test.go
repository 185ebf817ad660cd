package task

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

func TestToolsCoversTaskSurface(t *testing.T) {
	list, err := New(nil).Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(list) != 12 {
		t.Errorf("len(Tools()) = %d, want 12", len(list))
	}
}

func TestCreateTaskMissingCaseID(t *testing.T) {
	c, calls := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createTask(context.Background(), json.RawMessage(`{"fields": {"title": "Triage"}}`))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if got := resultText(t, res); got != "Error creating task: Missing case ID." {
		t.Errorf("text = %q", got)
	}
	if *calls != 0 {
		t.Errorf("server received %d requests, want 0", *calls)
	}
}

func TestCreateTaskMissingTitle(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	args := json.RawMessage(`{"case_id": "~1", "fields": {"description": "look into it"}}`)
	res := c.createTask(context.Background(), args)
	got := resultText(t, res)
	if !strings.Contains(got, "Missing required fields: title.") {
		t.Errorf("text = %q", got)
	}
}

func TestCompleteTaskSetsStatus(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	res := c.completeTask(context.Background(), json.RawMessage(`{"task_id": "~t1"}`))
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if body["status"] != "Completed" {
		t.Errorf("status = %v, want Completed", body["status"])
	}
	if got := resultText(t, res); got != "Task ~t1 completed" {
		t.Errorf("text = %q", got)
	}
}

func TestStartTaskSetsStatus(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	res := c.startTask(context.Background(), json.RawMessage(`{"task_id": "~t1"}`))
	if body["status"] != "InProgress" {
		t.Errorf("status = %v, want InProgress", body["status"])
	}
	if got := resultText(t, res); got != "Task ~t1 started" {
		t.Errorf("text = %q", got)
	}
}

func TestCreateTaskLogRequiresMessage(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

	res := c.createTaskLog(context.Background(), json.RawMessage(`{"task_id": "~t1", "message": ""}`))
	if got := resultText(t, res); got != "Message is required" {
		t.Errorf("text = %q", got)
	}
}

func TestCreateTaskLogTimelineFlag(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{"_id": "~log1"})
	})

	args := json.RawMessage(`{"task_id": "~t1", "message": "scanned host", "include_in_timeline": true}`)
	res := c.createTaskLog(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if body["includeInTimeline"] != "1" {
		t.Errorf("includeInTimeline = %v, want \"1\"", body["includeInTimeline"])
	}
}

func TestBulkUpdateTasksListifiesScalars(t *testing.T) {
	var body map[string]any
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	args := json.RawMessage(`{"task_ids": ["~1", "~2", "~3"], "status": "Cancel"}`)
	res := c.bulkUpdateTasks(context.Background(), args)
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if status, ok := body["status"].([]any); !ok || len(status) != 1 || status[0] != "Cancel" {
		t.Errorf("status = %v, want [Cancel]", body["status"])
	}
	if got := resultText(t, res); got != "Updated 3 tasks successfully" {
		t.Errorf("text = %q", got)
	}
}
