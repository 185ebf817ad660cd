// Package observable exposes TheHive observable operations as MCP tools.
package observable

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools"
)

type Catalog struct {
	sessions *hive.SessionCache
}

func New(sessions *hive.SessionCache) *Catalog {
	return &Catalog{sessions: sessions}
}

func (c *Catalog) Name() string { return "observable" }

var observableFieldsSchema = map[string]any{
	"type":        "object",
	"description": "Observable fields",
	"properties": map[string]any{
		"dataType": map[string]any{"type": "string", "description": "Observable data type (required)"},
		"data":     map[string]any{"description": "The observable value(s) (required)"},
		"message":  map[string]any{"type": "string", "description": "Description or context for the observable"},
		"tags":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Observable tags"},
		"ioc":      map[string]any{"type": "boolean", "description": "Whether the observable is an IOC"},
		"sighted":  map[string]any{"type": "boolean", "description": "Whether the observable has been sighted"},
		"tlp":      map[string]any{"type": "integer", "description": "TLP level (0-4)"},
		"pap":      map[string]any{"type": "integer", "description": "PAP level (0-4)"},
	},
	"required": []string{"dataType", "data"},
}

func (c *Catalog) Tools() ([]tools.Tool, error) {
	return []tools.Tool{
		{
			Name:        "create_observable_in_case",
			Title:       "Create Observable in Case",
			Description: "Create a new observable in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case ID"},
					"fields":  observableFieldsSchema,
				},
				"required": []string{"case_id", "fields"},
			},
			Handler: c.createObservableInCase,
		},
		{
			Name:        "create_observable_in_alert",
			Title:       "Create Observable in Alert",
			Description: "Create a new observable in an alert.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert ID"},
					"fields":   observableFieldsSchema,
				},
				"required": []string{"alert_id", "fields"},
			},
			Handler: c.createObservableInAlert,
		},
		{
			Name:        "get_observables",
			Title:       "Get Observables",
			Description: "Get all observables with optional filtering and pagination.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters":  map[string]any{"type": "object", "description": "Filter criteria for observables"},
					"sortby":   map[string]any{"type": "object", "description": "Sort specification for results"},
					"paginate": map[string]any{"type": "object", "description": "Pagination settings"},
				},
			},
			Handler: c.getObservables,
		},
		{
			Name:        "get_observable",
			Title:       "Get Observable",
			Description: "Get a single observable by ID.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_id": map[string]any{"type": "string", "description": "The unique identifier of the observable"},
				},
				"required": []string{"observable_id"},
			},
			Handler: c.getObservable,
		},
		{
			Name:        "update_observable",
			Title:       "Update Observable",
			Description: "Update an observable using fields dictionary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_id": map[string]any{"type": "string", "description": "Observable to update"},
					"fields":        map[string]any{"type": "object", "description": "Fields to update"},
				},
				"required": []string{"observable_id", "fields"},
			},
			Handler: c.updateObservable,
		},
		{
			Name:        "delete_observable",
			Title:       "Delete Observable",
			Description: "Delete an observable permanently.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_id": map[string]any{"type": "string", "description": "Observable to delete"},
				},
				"required": []string{"observable_id"},
			},
			Handler: c.deleteObservable,
		},
		{
			Name:        "bulk_update_observables",
			Title:       "Bulk Update Observables",
			Description: "Update multiple observables with same values.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Observables to update"},
					"message":        map[string]any{"type": "string", "description": "New message for all observables"},
					"tags":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "New tags for all observables"},
					"ioc":            map[string]any{"type": "boolean", "description": "New IOC flag for all observables"},
					"sighted":        map[string]any{"type": "boolean", "description": "New sighted flag for all observables"},
				},
				"required": []string{"observable_ids"},
			},
			Handler: c.bulkUpdateObservables,
		},
		{
			Name:        "bulk_delete_observables",
			Title:       "Bulk Delete Observables",
			Description: "Delete multiple observables at once.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Observables to delete"},
				},
				"required": []string{"observable_ids"},
			},
			Handler: c.bulkDeleteObservables,
		},
		{
			Name:        "count_observables",
			Title:       "Count Observables",
			Description: "Count observables matching the given filters.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"data_type": map[string]any{"type": "string", "description": "Filter by data type"},
					"tags":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Filter by tags"},
				},
			},
			Handler: c.countObservables,
		},
		{
			Name:        "share_observable",
			Title:       "Share Observable",
			Description: "Share an observable with organizations.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_id": map[string]any{"type": "string", "description": "Observable to share"},
					"organizations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Organizations to share with"},
				},
				"required": []string{"observable_id", "organizations"},
			},
			Handler: c.shareObservable,
		},
		{
			Name:        "unshare_observable",
			Title:       "Unshare Observable",
			Description: "Unshare an observable from organizations.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"observable_id": map[string]any{"type": "string", "description": "Observable to unshare"},
					"organizations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Organizations to unshare from"},
				},
				"required": []string{"observable_id", "organizations"},
			},
			Handler: c.unshareObservable,
		},
	}, nil
}

var requiredObservableFields = []string{"dataType", "data"}

func validateObservableFields(fields map[string]any) *mcp.CallToolResult {
	if len(fields) == 0 {
		return tools.Errorf("Error creating observable: Missing observable data.")
	}
	var missing []string
	for _, field := range requiredObservableFields {
		if v, ok := fields[field]; !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return tools.Errorf("Error creating observable: Missing required fields: %s. Required fields are: %s",
			strings.Join(missing, ", "), strings.Join(requiredObservableFields, ", "))
	}
	return nil
}

func (c *Catalog) createObservableInCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string         `json:"case_id"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error creating observable: case_id is required")
	}
	if res := validateObservableFields(p.Fields); res != nil {
		return res
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	result, err := client.Observable.CreateInCase(ctx, p.CaseID, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	return tools.Textf("Created observable: %s", tools.JSON(result))
}

func (c *Catalog) createObservableInAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string         `json:"alert_id"`
		Fields  map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error creating observable: alert_id is required")
	}
	if res := validateObservableFields(p.Fields); res != nil {
		return res
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	result, err := client.Observable.CreateInAlert(ctx, p.AlertID, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	return tools.Textf("Created observable: %s", tools.JSON(result))
}

func (c *Catalog) getObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters  map[string]any `json:"filters"`
		SortBy   map[string]any `json:"sortby"`
		Paginate map[string]any `json:"paginate"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error retrieving observables: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error retrieving observables: %v", err)
	}
	result, err := client.Observable.Find(ctx, p.Filters, p.SortBy, p.Paginate)
	if err != nil {
		return tools.Errorf("Error retrieving observables: %v", err)
	}
	return tools.JSONList(result)
}

func (c *Catalog) getObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableID string `json:"observable_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.ObservableID == "" {
		return tools.Errorf("Error getting observable: observable_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting observable: %v", err)
	}
	result, err := client.Observable.Get(ctx, p.ObservableID)
	if err != nil {
		return tools.Errorf("Error getting observable: %v", err)
	}
	return tools.JSONValue(result)
}

func (c *Catalog) updateObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableID string         `json:"observable_id"`
		Fields       map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error updating observable: %v", err)
	}
	if p.ObservableID == "" {
		return tools.Errorf("Error updating observable: observable_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error updating observable: %v", err)
	}
	if err := client.Observable.Update(ctx, p.ObservableID, p.Fields); err != nil {
		return tools.Errorf("Error updating observable: %v", err)
	}
	return tools.Textf("Observable %s updated successfully", p.ObservableID)
}

func (c *Catalog) deleteObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableID string `json:"observable_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.ObservableID == "" {
		return tools.Errorf("Error deleting observable: observable_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error deleting observable: %v", err)
	}
	if err := client.Observable.Delete(ctx, p.ObservableID); err != nil {
		return tools.Errorf("Error deleting observable: %v", err)
	}
	return tools.Textf("Observable %s deleted successfully", p.ObservableID)
}

func (c *Catalog) bulkUpdateObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableIDs []string `json:"observable_ids"`
		Message       *string  `json:"message"`
		Tags          []string `json:"tags"`
		IOC           *bool    `json:"ioc"`
		Sighted       *bool    `json:"sighted"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk updating observables: %v", err)
	}
	if len(p.ObservableIDs) == 0 {
		return tools.Errorf("No observable IDs provided for bulk update")
	}

	fields := map[string]any{"ids": p.ObservableIDs}
	if p.Message != nil {
		fields["message"] = []string{*p.Message}
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	if p.IOC != nil {
		fields["ioc"] = []bool{*p.IOC}
	}
	if p.Sighted != nil {
		fields["sighted"] = []bool{*p.Sighted}
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk updating observables: %v", err)
	}
	if err := client.Observable.BulkUpdate(ctx, fields); err != nil {
		return tools.Errorf("Error bulk updating observables: %v", err)
	}
	return tools.Textf("Updated %d observables successfully", len(p.ObservableIDs))
}

// bulkDeleteObservables deletes one at a time and keeps going on
// failures, reporting what could not be removed. The alert bulk delete
// is atomic; this one is deliberately not.
func (c *Catalog) bulkDeleteObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableIDs []string `json:"observable_ids"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk deleting observables: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk deleting observables: %v", err)
	}

	deleted := 0
	var errs []string
	for _, id := range p.ObservableIDs {
		if err := client.Observable.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Sprintf("Failed to delete %s: %v", id, err))
			continue
		}
		deleted++
	}
	if len(errs) > 0 {
		return tools.Textf("Deleted %d observables successfully. Errors: %s", deleted, strings.Join(errs, "; "))
	}
	return tools.Textf("Deleted %d observables successfully", deleted)
}

func (c *Catalog) countObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		DataType *string  `json:"data_type"`
		Tags     []string `json:"tags"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error counting observables: %v", err)
	}

	var filters map[string]any
	if p.DataType != nil || p.Tags != nil {
		filters = map[string]any{}
		if p.DataType != nil {
			filters["dataType"] = *p.DataType
		}
		if p.Tags != nil {
			filters["tags"] = p.Tags
		}
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error counting observables: %v", err)
	}
	count, err := client.Observable.Count(ctx, filters)
	if err != nil {
		return tools.Errorf("Error counting observables: %v", err)
	}
	return tools.Textf("Found %d observables", count)
}

func (c *Catalog) shareObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableID  string   `json:"observable_id"`
		Organizations []string `json:"organizations"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.ObservableID == "" || len(p.Organizations) == 0 {
		return tools.Errorf("Error sharing observable: observable_id and organizations are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error sharing observable: %v", err)
	}
	if err := client.Observable.Share(ctx, p.ObservableID, p.Organizations); err != nil {
		return tools.Errorf("Error sharing observable: %v", err)
	}
	return tools.Textf("Observable %s shared with %d organizations", p.ObservableID, len(p.Organizations))
}

func (c *Catalog) unshareObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObservableID  string   `json:"observable_id"`
		Organizations []string `json:"organizations"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.ObservableID == "" || len(p.Organizations) == 0 {
		return tools.Errorf("Error unsharing observable: observable_id and organizations are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error unsharing observable: %v", err)
	}
	if err := client.Observable.Unshare(ctx, p.ObservableID, p.Organizations); err != nil {
		return tools.Errorf("Error unsharing observable: %v", err)
	}
	return tools.Textf("Observable %s unshared from %d organizations", p.ObservableID, len(p.Organizations))
}
