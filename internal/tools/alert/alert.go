// Package alert exposes TheHive alert operations as MCP tools.
package alert

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools"
)

// Catalog produces the alert tool set. Handlers resolve their client
// through the session cache at invocation time.
type Catalog struct {
	sessions *hive.SessionCache
}

func New(sessions *hive.SessionCache) *Catalog {
	return &Catalog{sessions: sessions}
}

func (c *Catalog) Name() string { return "alert" }

func (c *Catalog) Tools() ([]tools.Tool, error) {
	return []tools.Tool{
		{
			Name:        "create_alert",
			Title:       "Create Alert",
			Description: "Create a new alert in TheHive.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fields": map[string]any{
						"type":        "object",
						"description": "Alert fields dictionary",
						"properties": map[string]any{
							"type":        map[string]any{"type": "string", "description": "Alert type (required)"},
							"source":      map[string]any{"type": "string", "description": "Alert source (required)"},
							"sourceRef":   map[string]any{"type": "string", "description": "Source reference (required)"},
							"title":       map[string]any{"type": "string", "description": "Alert title (required)"},
							"description": map[string]any{"type": "string", "description": "Alert description (required)"},
							"severity":    map[string]any{"type": "integer", "description": "Alert severity (1-4)"},
							"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Alert tags"},
							"tlp":         map[string]any{"type": "integer", "description": "TLP level (0-4)"},
							"pap":         map[string]any{"type": "integer", "description": "PAP level (0-4)"},
						},
					},
				},
			},
			Handler: c.createAlert,
		},
		{
			Name:        "get_alerts",
			Title:       "Get Alerts",
			Description: "Get all alerts with optional filtering and pagination.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters":  map[string]any{"type": "object", "description": "Filter criteria for alerts"},
					"sortby":   map[string]any{"type": "object", "description": "Sort specification for results"},
					"paginate": map[string]any{"type": "object", "description": "Pagination settings"},
				},
			},
			Handler: c.getAlerts,
		},
		{
			Name:        "get_alert",
			Title:       "Get Alert",
			Description: "Get a single alert by ID.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "The unique identifier of the alert"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.getAlert,
		},
		{
			Name:        "update_alert",
			Title:       "Update Alert",
			Description: "Update an alert using fields dictionary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert ID to update"},
					"fields": map[string]any{
						"type":        "object",
						"description": "Fields to update",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "description": "Alert title"},
							"description": map[string]any{"type": "string", "description": "Alert description"},
							"severity":    map[string]any{"type": "integer", "description": "Alert severity (1-4)"},
							"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Alert tags"},
							"status":      map[string]any{"type": "string", "description": "Alert status"},
						},
					},
				},
				"required": []string{"alert_id", "fields"},
			},
			Handler: c.updateAlert,
		},
		{
			Name:        "delete_alert",
			Title:       "Delete Alert",
			Description: "Delete an alert permanently.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "The unique identifier of the alert to delete"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.deleteAlert,
		},
		{
			Name:        "bulk_update_alerts",
			Title:       "Bulk Update Alerts",
			Description: "Update multiple alerts with same values.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "List of alert IDs to update"},
					"fields":    map[string]any{"type": "object", "description": "Fields to update for all alerts"},
				},
				"required": []string{"alert_ids", "fields"},
			},
			Handler: c.bulkUpdateAlerts,
		},
		{
			Name:        "bulk_delete_alerts",
			Title:       "Bulk Delete Alerts",
			Description: "Delete multiple alerts at once.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "List of alert IDs to delete"},
				},
				"required": []string{"alert_ids"},
			},
			Handler: c.bulkDeleteAlerts,
		},
		{
			Name:        "count_alerts",
			Title:       "Count Alerts",
			Description: "Count alerts matching given filters.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters": map[string]any{"type": "object", "description": "Filter criteria dictionary with TheHive query format"},
				},
			},
			Handler: c.countAlerts,
		},
		{
			Name:        "follow_alert",
			Title:       "Follow Alert",
			Description: "Follow an alert to receive notifications.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "The alert ID to follow"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.followAlert,
		},
		{
			Name:        "unfollow_alert",
			Title:       "Unfollow Alert",
			Description: "Unfollow an alert to stop notifications.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "The alert ID to unfollow"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.unfollowAlert,
		},
		{
			Name:        "promote_alert_to_case",
			Title:       "Promote Alert to Case",
			Description: "Promote an alert to a case for investigation.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert to promote"},
					"fields":   map[string]any{"type": "object", "description": "Case creation fields"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.promoteAlertToCase,
		},
		{
			Name:        "merge_alert_into_case",
			Title:       "Merge Alert into Case",
			Description: "Merge an alert into existing case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert to merge"},
					"case_id":  map[string]any{"type": "string", "description": "Target case ID"},
				},
				"required": []string{"alert_id", "case_id"},
			},
			Handler: c.mergeAlertIntoCase,
		},
		{
			Name:        "import_alert_into_case",
			Title:       "Import Alert into Case",
			Description: "Import alert data into a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Source alert"},
					"case_id":  map[string]any{"type": "string", "description": "Target case"},
				},
				"required": []string{"alert_id", "case_id"},
			},
			Handler: c.importAlertIntoCase,
		},
		{
			Name:        "bulk_merge_alerts_into_case",
			Title:       "Bulk Merge Alerts into Case",
			Description: "Merge multiple alerts into one case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":   map[string]any{"type": "string", "description": "Target case"},
					"alert_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Alerts to merge"},
				},
				"required": []string{"case_id", "alert_ids"},
			},
			Handler: c.bulkMergeAlertsIntoCase,
		},
		{
			Name:        "create_alert_observable",
			Title:       "Create Alert Observable",
			Description: "Create observable in alert.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert ID"},
					"observable": map[string]any{
						"type":        "object",
						"description": "Observable fields",
						"properties": map[string]any{
							"dataType": map[string]any{"type": "string", "description": "Observable data type (required)"},
							"data":     map[string]any{"description": "The observable value(s)"},
							"message":  map[string]any{"type": "string", "description": "Description or context for the observable"},
							"tags":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Observable tags"},
							"ioc":      map[string]any{"type": "boolean", "description": "Whether the observable is an IOC"},
							"sighted":  map[string]any{"type": "boolean", "description": "Whether the observable has been sighted"},
						},
					},
				},
				"required": []string{"alert_id", "observable"},
			},
			Handler: c.createAlertObservable,
		},
		{
			Name:        "find_alert_observables",
			Title:       "Find Alert Observables",
			Description: "Find observables in an alert.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert ID"},
				},
				"required": []string{"alert_id"},
			},
			Handler: c.findAlertObservables,
		},
		{
			Name:        "get_alert_similar_observables",
			Title:       "Get Alert Similar Observables",
			Description: "Get similar observables between alerts/cases.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"alert_id": map[string]any{"type": "string", "description": "Alert ID"},
					"other_id": map[string]any{"type": "string", "description": "Other alert or case ID to compare against"},
				},
				"required": []string{"alert_id", "other_id"},
			},
			Handler: c.getAlertSimilarObservables,
		},
	}, nil
}

var requiredAlertFields = []string{"type", "source", "sourceRef", "title", "description"}

// Valid observable keys accepted by the alert observable endpoint; anything
// else from the caller is dropped before submission.
var validObservableKeys = map[string]struct{}{
	"dataType": {}, "data": {}, "message": {}, "startDate": {}, "endDate": {},
	"tlp": {}, "pap": {}, "tags": {}, "ioc": {}, "sighted": {}, "sightedAt": {},
	"ignoreSimilarity": {}, "isZip": {}, "zipPassword": {},
}

func (c *Catalog) createAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error creating alert: %v", err)
	}
	if len(p.Fields) == 0 {
		return tools.Errorf("Error creating alert: Missing alert data.")
	}
	var missing []string
	for _, field := range requiredAlertFields {
		if v, ok := p.Fields[field]; !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return tools.Errorf("Error creating alert: Missing required fields: %s. Required fields are: %s",
			strings.Join(missing, ", "), strings.Join(requiredAlertFields, ", "))
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating alert: %v", err)
	}
	result, err := client.Alert.Create(ctx, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating alert: %v", err)
	}
	return tools.Textf("Created alert: %s", tools.JSON(result))
}

func (c *Catalog) getAlerts(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters  map[string]any `json:"filters"`
		SortBy   map[string]any `json:"sortby"`
		Paginate map[string]any `json:"paginate"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error retrieving alerts: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error retrieving alerts: %v", err)
	}
	result, err := client.Alert.Find(ctx, p.Filters, p.SortBy, p.Paginate)
	if err != nil {
		return tools.Errorf("Error retrieving alerts: %v", err)
	}
	return tools.JSONList(result)
}

func (c *Catalog) getAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error getting alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting alert: %v", err)
	}
	result, err := client.Alert.Get(ctx, p.AlertID)
	if err != nil {
		return tools.Errorf("Error getting alert: %v", err)
	}
	return tools.JSONValue(result)
}

func (c *Catalog) updateAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string         `json:"alert_id"`
		Fields  map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error updating alert: %v", err)
	}
	if p.AlertID == "" {
		return tools.Errorf("Error updating alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error updating alert: %v", err)
	}
	if err := client.Alert.Update(ctx, p.AlertID, p.Fields); err != nil {
		return tools.Errorf("Error updating alert: %v", err)
	}
	return tools.Textf("Alert %s updated successfully", p.AlertID)
}

func (c *Catalog) deleteAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error deleting alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error deleting alert: %v", err)
	}
	if err := client.Alert.Delete(ctx, p.AlertID); err != nil {
		return tools.Errorf("Error deleting alert: %v", err)
	}
	return tools.Textf("Alert %s deleted successfully", p.AlertID)
}

func (c *Catalog) bulkUpdateAlerts(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertIDs []string       `json:"alert_ids"`
		Fields   map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk updating alerts: %v", err)
	}
	if len(p.AlertIDs) == 0 {
		return tools.Errorf("No alert IDs provided for bulk update")
	}
	if len(p.Fields) == 0 {
		return tools.Errorf("fields must be a non-empty dictionary")
	}

	fields := map[string]any{"ids": p.AlertIDs}
	for k, v := range p.Fields {
		fields[k] = v
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk updating alerts: %v", err)
	}
	if err := client.Alert.BulkUpdate(ctx, fields); err != nil {
		return tools.Errorf("Error bulk updating alerts: %v", err)
	}
	return tools.Textf("Updated %d alerts successfully", len(p.AlertIDs))
}

// bulkDeleteAlerts uses TheHive's atomic bulk endpoint: all or nothing,
// unlike the per-item observable bulk delete.
func (c *Catalog) bulkDeleteAlerts(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertIDs []string `json:"alert_ids"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk deleting alerts: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk deleting alerts: %v", err)
	}
	if err := client.Alert.BulkDelete(ctx, p.AlertIDs); err != nil {
		return tools.Errorf("Error bulk deleting alerts: %v", err)
	}
	return tools.Textf("Deleted %d alerts successfully", len(p.AlertIDs))
}

func (c *Catalog) countAlerts(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters map[string]any `json:"filters"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error counting alerts: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error counting alerts: %v", err)
	}
	count, err := client.Alert.Count(ctx, p.Filters)
	if err != nil {
		return tools.Errorf("Error counting alerts: %v", err)
	}
	return tools.Textf("Found %d alerts", count)
}

func (c *Catalog) followAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error following alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error following alert: %v", err)
	}
	if err := client.Alert.Follow(ctx, p.AlertID); err != nil {
		return tools.Errorf("Error following alert: %v", err)
	}
	return tools.Textf("Now following alert %s", p.AlertID)
}

func (c *Catalog) unfollowAlert(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error unfollowing alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error unfollowing alert: %v", err)
	}
	if err := client.Alert.Unfollow(ctx, p.AlertID); err != nil {
		return tools.Errorf("Error unfollowing alert: %v", err)
	}
	return tools.Textf("Unfollowed alert %s", p.AlertID)
}

func (c *Catalog) promoteAlertToCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string         `json:"alert_id"`
		Fields  map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error promoting alert: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error promoting alert: %v", err)
	}
	if p.Fields == nil {
		p.Fields = map[string]any{}
	}
	result, err := client.Alert.PromoteToCase(ctx, p.AlertID, p.Fields)
	if err != nil {
		return tools.Errorf("Error promoting alert: %v", err)
	}
	return tools.Textf("Promoted alert to case: %s", tools.JSON(result))
}

func (c *Catalog) mergeAlertIntoCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
		CaseID  string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" || p.CaseID == "" {
		return tools.Errorf("Error merging alert: alert_id and case_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error merging alert: %v", err)
	}
	result, err := client.Alert.MergeIntoCase(ctx, p.AlertID, p.CaseID)
	if err != nil {
		return tools.Errorf("Error merging alert: %v", err)
	}
	return tools.Textf("Merged alert into case: %s", tools.JSON(result))
}

func (c *Catalog) importAlertIntoCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
		CaseID  string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" || p.CaseID == "" {
		return tools.Errorf("Error importing alert: alert_id and case_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error importing alert: %v", err)
	}
	result, err := client.Alert.ImportIntoCase(ctx, p.AlertID, p.CaseID)
	if err != nil {
		return tools.Errorf("Error importing alert: %v", err)
	}
	return tools.Textf("Imported alert into case: %s", tools.JSON(result))
}

func (c *Catalog) bulkMergeAlertsIntoCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID   string   `json:"case_id"`
		AlertIDs []string `json:"alert_ids"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error bulk merging alerts: case_id and alert_ids are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk merging alerts: %v", err)
	}
	result, err := client.Alert.BulkMergeIntoCase(ctx, p.CaseID, p.AlertIDs)
	if err != nil {
		return tools.Errorf("Error bulk merging alerts: %v", err)
	}
	return tools.Textf("Merged %d alerts into case: %s", len(p.AlertIDs), tools.JSON(result))
}

func (c *Catalog) createAlertObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID    string         `json:"alert_id"`
		Observable map[string]any `json:"observable"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error creating observable: alert_id is required")
	}

	obs := make(map[string]any, len(p.Observable))
	for k, v := range p.Observable {
		if _, ok := validObservableKeys[k]; ok {
			obs[k] = v
		}
	}
	if obs["dataType"] == nil || obs["data"] == nil {
		return tools.Errorf("Missing required keys: 'dataType' and 'data' are required in observable.")
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	result, err := client.Alert.CreateObservable(ctx, p.AlertID, obs)
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	return tools.Textf("Created observable: %s", tools.JSON(result))
}

func (c *Catalog) findAlertObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" {
		return tools.Errorf("Error finding observables: alert_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error finding observables: %v", err)
	}
	result, err := client.Alert.FindObservables(ctx, p.AlertID)
	if err != nil {
		return tools.Errorf("Error finding observables: %v", err)
	}
	return tools.Textf("Alert observables: %s", tools.JSON(result))
}

func (c *Catalog) getAlertSimilarObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AlertID string `json:"alert_id"`
		OtherID string `json:"other_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AlertID == "" || p.OtherID == "" {
		return tools.Errorf("Error getting similar observables: alert_id and other_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting similar observables: %v", err)
	}
	result, err := client.Alert.SimilarObservables(ctx, p.AlertID, p.OtherID)
	if err != nil {
		return tools.Errorf("Error getting similar observables: %v", err)
	}
	return tools.Textf("Similar observables: %s", tools.JSON(result))
}
