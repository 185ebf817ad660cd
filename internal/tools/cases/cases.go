// Package cases exposes TheHive case operations as MCP tools.
package cases

import (
	"context"
	"encoding/json"
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

func (c *Catalog) Name() string { return "case" }

func (c *Catalog) Tools() ([]tools.Tool, error) {
	idOnly := func(desc string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"case_id": map[string]any{"type": "string", "description": desc},
			},
			"required": []string{"case_id"},
		}
	}
	return []tools.Tool{
		{
			Name:        "create_case",
			Title:       "Create Case",
			Description: "Create a new case in TheHive.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fields": map[string]any{
						"type":        "object",
						"description": "Case fields dictionary",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "description": "Case title (required)"},
							"description": map[string]any{"type": "string", "description": "Case description (required)"},
							"severity":    map[string]any{"type": "integer", "description": "Case severity (1-4)"},
							"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Case tags"},
							"flag":        map[string]any{"type": "boolean", "description": "Flag status"},
							"tlp":         map[string]any{"type": "integer", "description": "Traffic Light Protocol (0-3)"},
							"pap":         map[string]any{"type": "integer", "description": "Permissible Actions Protocol (0-3)"},
						},
					},
				},
				"required": []string{"fields"},
			},
			Handler: c.createCase,
		},
		{
			Name:        "get_cases",
			Title:       "Get Cases",
			Description: "Get all cases with optional filtering and pagination.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters":  map[string]any{"type": "object", "description": "Filter criteria for cases"},
					"sortby":   map[string]any{"type": "object", "description": "Sort specification for results"},
					"paginate": map[string]any{"type": "object", "description": "Pagination settings"},
				},
			},
			Handler: c.getCases,
		},
		{
			Name:        "get_case",
			Title:       "Get Case",
			Description: "Get a single case by ID.",
			InputSchema: idOnly("The unique identifier of the case"),
			Handler:     c.getCase,
		},
		{
			Name:        "update_case",
			Title:       "Update Case",
			Description: "Update a case using fields dictionary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case ID to update"},
					"fields":  map[string]any{"type": "object", "description": "Fields to update"},
				},
				"required": []string{"case_id", "fields"},
			},
			Handler: c.updateCase,
		},
		{
			Name:        "delete_case",
			Title:       "Delete Case",
			Description: "Delete a case permanently.",
			InputSchema: idOnly("The unique identifier of the case to delete"),
			Handler:     c.deleteCase,
		},
		{
			Name:        "bulk_update_cases",
			Title:       "Bulk Update Cases",
			Description: "Update multiple cases with same values.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_ids":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "List of case IDs to update"},
					"title":       map[string]any{"type": "string", "description": "New title for all cases"},
					"description": map[string]any{"type": "string", "description": "New description for all cases"},
					"severity":    map[string]any{"type": "integer", "description": "New severity for all cases"},
					"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "New tags for all cases"},
					"status":      map[string]any{"type": "string", "description": "New status for all cases"},
				},
				"required": []string{"case_ids"},
			},
			Handler: c.bulkUpdateCases,
		},
		{
			Name:        "count_cases",
			Title:       "Count Cases",
			Description: "Count cases matching given filters.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters": map[string]any{"type": "object", "description": "Filter criteria dictionary with TheHive query format"},
				},
			},
			Handler: c.countCases,
		},
		{
			Name:        "close_case",
			Title:       "Close Case",
			Description: "Close a case with status and summary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":       map[string]any{"type": "string", "description": "Case to close"},
					"status":        map[string]any{"type": "string", "description": "Closure status"},
					"summary":       map[string]any{"type": "string", "description": "Closure summary"},
					"impact_status": map[string]any{"type": "string", "description": "Impact status, defaults to NotApplicable"},
				},
				"required": []string{"case_id", "status"},
			},
			Handler: c.closeCase,
		},
		{
			Name:        "merge_cases",
			Title:       "Merge Cases",
			Description: "Merge multiple cases together.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Cases to merge"},
				},
				"required": []string{"case_ids"},
			},
			Handler: c.mergeCases,
		},
		{
			Name:        "create_case_observable",
			Title:       "Create Case Observable",
			Description: "Create an observable in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":   map[string]any{"type": "string", "description": "Case ID"},
					"data_type": map[string]any{"type": "string", "description": "Observable data type"},
					"data":      map[string]any{"description": "Observable value(s)"},
					"message":   map[string]any{"type": "string", "description": "Description or context for the observable"},
					"tags":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Observable tags"},
					"ioc":       map[string]any{"type": "boolean", "description": "Whether the observable is an IOC"},
				},
				"required": []string{"case_id", "data_type", "data"},
			},
			Handler: c.createCaseObservable,
		},
		{
			Name:        "find_case_observables",
			Title:       "Find Case Observables",
			Description: "Find observables in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCaseObservables,
		},
		{
			Name:        "get_case_similar_observables",
			Title:       "Get Case Similar Observables",
			Description: "Get similar observables between cases/alerts.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case ID"},
					"other_id": map[string]any{"type": "string", "description": "Other case or alert ID to compare against"},
				},
				"required": []string{"case_id", "other_id"},
			},
			Handler: c.getCaseSimilarObservables,
		},
		{
			Name:        "find_case_comments",
			Title:       "Find Case Comments",
			Description: "Find comments in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCaseComments,
		},
		{
			Name:        "create_case_task",
			Title:       "Create Case Task",
			Description: "Create a task in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case to create the task in"},
					"fields": map[string]any{
						"type":        "object",
						"description": "Task fields",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "description": "Task title (required)"},
							"description": map[string]any{"type": "string", "description": "Task description (required)"},
							"group":       map[string]any{"type": "string", "description": "Task group"},
							"assignee":    map[string]any{"type": "string", "description": "Assigned user"},
						},
					},
				},
				"required": []string{"case_id", "fields"},
			},
			Handler: c.createCaseTask,
		},
		{
			Name:        "find_case_tasks",
			Title:       "Find Case Tasks",
			Description: "Find tasks in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCaseTasks,
		},
		{
			Name:        "create_case_procedure",
			Title:       "Create Case Procedure",
			Description: "Create a TTP procedure in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case to create the procedure in"},
					"procedure": map[string]any{
						"type":        "object",
						"description": "Procedure details",
						"properties": map[string]any{
							"occurDate":   map[string]any{"type": "integer", "description": "Occurrence timestamp (required)"},
							"patternId":   map[string]any{"type": "string", "description": "MITRE ATT&CK pattern ID (required)"},
							"tactic":      map[string]any{"type": "string", "description": "MITRE tactic"},
							"description": map[string]any{"type": "string", "description": "Procedure description"},
						},
					},
				},
				"required": []string{"case_id", "procedure"},
			},
			Handler: c.createCaseProcedure,
		},
		{
			Name:        "find_case_procedures",
			Title:       "Find Case Procedures",
			Description: "Find TTP procedures in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCaseProcedures,
		},
		{
			Name:        "add_case_attachment",
			Title:       "Add Case Attachment",
			Description: "Add attachments to a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":          map[string]any{"type": "string", "description": "Case ID"},
					"attachment_paths": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Local paths of files to attach"},
					"can_rename":       map[string]any{"type": "boolean", "description": "Allow the server to rename on conflicts, defaults to true"},
				},
				"required": []string{"case_id", "attachment_paths"},
			},
			Handler: c.addCaseAttachment,
		},
		{
			Name:        "delete_case_attachment",
			Title:       "Delete Case Attachment",
			Description: "Delete a case attachment.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":       map[string]any{"type": "string", "description": "Case ID"},
					"attachment_id": map[string]any{"type": "string", "description": "Attachment to delete"},
				},
				"required": []string{"case_id", "attachment_id"},
			},
			Handler: c.deleteCaseAttachment,
		},
		{
			Name:        "download_case_attachment",
			Title:       "Download Case Attachment",
			Description: "Download a case attachment to a local path.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":         map[string]any{"type": "string", "description": "Case ID"},
					"attachment_id":   map[string]any{"type": "string", "description": "Attachment to download"},
					"attachment_path": map[string]any{"type": "string", "description": "Local destination path"},
				},
				"required": []string{"case_id", "attachment_id", "attachment_path"},
			},
			Handler: c.downloadCaseAttachment,
		},
		{
			Name:        "find_case_attachments",
			Title:       "Find Case Attachments",
			Description: "Find attachments in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCaseAttachments,
		},
		{
			Name:        "create_case_page",
			Title:       "Create Case Page",
			Description: "Create a page in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id":  map[string]any{"type": "string", "description": "Case ID"},
					"title":    map[string]any{"type": "string", "description": "Page title"},
					"content":  map[string]any{"type": "string", "description": "Page content"},
					"category": map[string]any{"type": "string", "description": "Page category"},
					"order":    map[string]any{"type": "integer", "description": "Page order"},
				},
				"required": []string{"case_id", "title", "content"},
			},
			Handler: c.createCasePage,
		},
		{
			Name:        "find_case_pages",
			Title:       "Find Case Pages",
			Description: "Find pages in a case.",
			InputSchema: idOnly("Case ID"),
			Handler:     c.findCasePages,
		},
	}, nil
}

func (c *Catalog) createCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error creating case: %v", err)
	}
	if _, ok := p.Fields["title"]; !ok {
		return tools.Errorf("Error: title is required")
	}
	if _, ok := p.Fields["description"]; !ok {
		return tools.Errorf("Error: description is required")
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating case: %v", err)
	}
	result, err := client.Case.Create(ctx, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating case: %v", err)
	}
	return tools.Textf("Created case: %s", tools.JSON(result))
}

func (c *Catalog) getCases(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters  map[string]any `json:"filters"`
		SortBy   map[string]any `json:"sortby"`
		Paginate map[string]any `json:"paginate"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error retrieving cases: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error retrieving cases: %v", err)
	}
	result, err := client.Case.Find(ctx, p.Filters, p.SortBy, p.Paginate)
	if err != nil {
		return tools.Errorf("Error retrieving cases: %v", err)
	}
	return tools.JSONList(result)
}

func (c *Catalog) getCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error getting case: case_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting case: %v", err)
	}
	result, err := client.Case.Get(ctx, p.CaseID)
	if err != nil {
		return tools.Errorf("Error getting case: %v", err)
	}
	return tools.JSONValue(result)
}

func (c *Catalog) updateCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string         `json:"case_id"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error updating case: %v", err)
	}
	if p.CaseID == "" {
		return tools.Errorf("Error updating case: case_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error updating case: %v", err)
	}
	if err := client.Case.Update(ctx, p.CaseID, p.Fields); err != nil {
		return tools.Errorf("Error updating case: %v", err)
	}
	return tools.Textf("Case %s updated successfully", p.CaseID)
}

func (c *Catalog) deleteCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error deleting case: case_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error deleting case: %v", err)
	}
	if err := client.Case.Delete(ctx, p.CaseID); err != nil {
		return tools.Errorf("Error deleting case: %v", err)
	}
	return tools.Textf("Case %s deleted successfully", p.CaseID)
}

// bulkUpdateCases wraps scalar values in single-element lists, matching
// the bulk endpoint's field format.
func (c *Catalog) bulkUpdateCases(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseIDs     []string `json:"case_ids"`
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Severity    *int     `json:"severity"`
		Tags        []string `json:"tags"`
		Status      *string  `json:"status"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk updating cases: %v", err)
	}
	if len(p.CaseIDs) == 0 {
		return tools.Errorf("No case IDs provided for bulk update")
	}

	fields := map[string]any{"ids": p.CaseIDs}
	if p.Title != nil {
		fields["title"] = []string{*p.Title}
	}
	if p.Description != nil {
		fields["description"] = []string{*p.Description}
	}
	if p.Severity != nil {
		fields["severity"] = []int{*p.Severity}
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	if p.Status != nil {
		fields["status"] = []string{*p.Status}
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk updating cases: %v", err)
	}
	if err := client.Case.BulkUpdate(ctx, fields); err != nil {
		return tools.Errorf("Error bulk updating cases: %v", err)
	}
	return tools.Textf("Updated %d cases successfully", len(p.CaseIDs))
}

func (c *Catalog) countCases(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters map[string]any `json:"filters"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error counting cases: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error counting cases: %v", err)
	}
	count, err := client.Case.Count(ctx, p.Filters)
	if err != nil {
		return tools.Errorf("Error counting cases: %v", err)
	}
	return tools.Textf("Found %d cases", count)
}

func (c *Catalog) closeCase(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID       string `json:"case_id"`
		Status       string `json:"status"`
		Summary      string `json:"summary"`
		ImpactStatus string `json:"impact_status"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.Status == "" {
		return tools.Errorf("Error closing case: case_id and status are required")
	}
	if p.ImpactStatus == "" {
		p.ImpactStatus = "NotApplicable"
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error closing case: %v", err)
	}
	if err := client.Case.Close(ctx, p.CaseID, p.Status, p.Summary, p.ImpactStatus); err != nil {
		return tools.Errorf("Error closing case: %v", err)
	}
	return tools.Textf("Case %s closed", p.CaseID)
}

func (c *Catalog) mergeCases(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseIDs []string `json:"case_ids"`
	}
	if err := json.Unmarshal(args, &p); err != nil || len(p.CaseIDs) == 0 {
		return tools.Errorf("Error merging cases: case_ids is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error merging cases: %v", err)
	}
	result, err := client.Case.Merge(ctx, p.CaseIDs)
	if err != nil {
		return tools.Errorf("Error merging cases: %v", err)
	}
	return tools.Textf("Merged cases: %s", tools.JSON(result))
}

func (c *Catalog) createCaseObservable(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID   string   `json:"case_id"`
		DataType string   `json:"data_type"`
		Data     any      `json:"data"`
		Message  *string  `json:"message"`
		Tags     []string `json:"tags"`
		IOC      *bool    `json:"ioc"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.DataType == "" || p.Data == nil {
		return tools.Errorf("Error creating observable: case_id, data_type and data are required")
	}

	observable := map[string]any{
		"dataType": p.DataType,
		"data":     p.Data,
	}
	if p.Message != nil {
		observable["message"] = *p.Message
	}
	if p.Tags != nil {
		observable["tags"] = p.Tags
	}
	if p.IOC != nil {
		observable["ioc"] = *p.IOC
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	result, err := client.Case.CreateObservable(ctx, p.CaseID, observable)
	if err != nil {
		return tools.Errorf("Error creating observable: %v", err)
	}
	return tools.Textf("Created observables: %s", tools.JSON(result))
}

func (c *Catalog) findCaseObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case observables", "Error finding observables",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindObservables(ctx, caseID)
		})
}

func (c *Catalog) getCaseSimilarObservables(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID  string `json:"case_id"`
		OtherID string `json:"other_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.OtherID == "" {
		return tools.Errorf("Error getting similar observables: case_id and other_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting similar observables: %v", err)
	}
	result, err := client.Case.SimilarObservables(ctx, p.CaseID, p.OtherID)
	if err != nil {
		return tools.Errorf("Error getting similar observables: %v", err)
	}
	return tools.Textf("Similar observables: %s", tools.JSON(result))
}

func (c *Catalog) findCaseComments(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case comments", "Error finding comments",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindComments(ctx, caseID)
		})
}

var requiredTaskFields = []string{"title", "description"}

func (c *Catalog) createCaseTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string         `json:"case_id"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error creating task: case_id is required")
	}
	var missing []string
	for _, field := range requiredTaskFields {
		if v, ok := p.Fields[field]; !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return tools.Errorf("Error creating task: Missing required fields: %s. Required fields are: %s",
			strings.Join(missing, ", "), strings.Join(requiredTaskFields, ", "))
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating task: %v", err)
	}
	result, err := client.Case.CreateTask(ctx, p.CaseID, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating task: %v", err)
	}
	return tools.Textf("Created task: %s", tools.JSON(result))
}

func (c *Catalog) findCaseTasks(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case tasks", "Error finding tasks",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindTasks(ctx, caseID)
		})
}

var requiredProcedureFields = []string{"occurDate", "patternId"}

func (c *Catalog) createCaseProcedure(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID    string         `json:"case_id"`
		Procedure map[string]any `json:"procedure"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("Error creating procedure: case_id is required")
	}
	if len(p.Procedure) == 0 {
		return tools.Errorf("Error creating procedure: Missing procedure data.")
	}
	var missing []string
	for _, field := range requiredProcedureFields {
		if _, ok := p.Procedure[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return tools.Errorf("Error creating procedure: Missing required fields: %s. Required fields are: %s",
			strings.Join(missing, ", "), strings.Join(requiredProcedureFields, ", "))
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating procedure: %v", err)
	}
	result, err := client.Case.CreateProcedure(ctx, p.CaseID, p.Procedure)
	if err != nil {
		return tools.Errorf("Error creating procedure: %v", err)
	}
	return tools.Textf("Created procedure: %s", tools.JSON(result))
}

func (c *Catalog) findCaseProcedures(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case procedures", "Error finding procedures",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindProcedures(ctx, caseID)
		})
}

func (c *Catalog) addCaseAttachment(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID          string   `json:"case_id"`
		AttachmentPaths []string `json:"attachment_paths"`
		CanRename       *bool    `json:"can_rename"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || len(p.AttachmentPaths) == 0 {
		return tools.Errorf("Error adding attachments: case_id and attachment_paths are required")
	}
	canRename := true
	if p.CanRename != nil {
		canRename = *p.CanRename
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error adding attachments: %v", err)
	}
	result, err := client.Case.AddAttachment(ctx, p.CaseID, p.AttachmentPaths, canRename)
	if err != nil {
		return tools.Errorf("Error adding attachments: %v", err)
	}
	return tools.Textf("Added attachments: %s", tools.JSON(result))
}

func (c *Catalog) deleteCaseAttachment(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID       string `json:"case_id"`
		AttachmentID string `json:"attachment_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.AttachmentID == "" {
		return tools.Errorf("Error deleting attachment: case_id and attachment_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error deleting attachment: %v", err)
	}
	if err := client.Case.DeleteAttachment(ctx, p.CaseID, p.AttachmentID); err != nil {
		return tools.Errorf("Error deleting attachment: %v", err)
	}
	return tools.Textf("Deleted attachment %s", p.AttachmentID)
}

func (c *Catalog) downloadCaseAttachment(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID         string `json:"case_id"`
		AttachmentID   string `json:"attachment_id"`
		AttachmentPath string `json:"attachment_path"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.AttachmentID == "" || p.AttachmentPath == "" {
		return tools.Errorf("Error downloading attachment: case_id, attachment_id and attachment_path are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error downloading attachment: %v", err)
	}
	if err := client.Case.DownloadAttachment(ctx, p.CaseID, p.AttachmentID, p.AttachmentPath); err != nil {
		return tools.Errorf("Error downloading attachment: %v", err)
	}
	return tools.Textf("Downloaded attachment to %s", p.AttachmentPath)
}

func (c *Catalog) findCaseAttachments(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case attachments", "Error finding attachments",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindAttachments(ctx, caseID)
		})
}

func (c *Catalog) createCasePage(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID   string  `json:"case_id"`
		Title    string  `json:"title"`
		Content  string  `json:"content"`
		Category *string `json:"category"`
		Order    *int    `json:"order"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" || p.Title == "" || p.Content == "" {
		return tools.Errorf("Error creating page: case_id, title and content are required")
	}
	page := map[string]any{
		"title":   p.Title,
		"content": p.Content,
	}
	if p.Category != nil {
		page["category"] = *p.Category
	}
	if p.Order != nil {
		page["order"] = *p.Order
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating page: %v", err)
	}
	result, err := client.Case.CreatePage(ctx, p.CaseID, page)
	if err != nil {
		return tools.Errorf("Error creating page: %v", err)
	}
	return tools.Textf("Created page: %s", tools.JSON(result))
}

func (c *Catalog) findCasePages(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.caseList(ctx, args, "Case pages", "Error finding pages",
		func(ctx context.Context, client *hive.Client, caseID string) ([]map[string]any, error) {
			return client.Case.FindPages(ctx, caseID)
		})
}

// caseList factors the shared shape of the find_* handlers: resolve the
// case ID, call the lister, wrap the result under a label.
func (c *Catalog) caseList(ctx context.Context, args json.RawMessage, label, errPrefix string,
	list func(context.Context, *hive.Client, string) ([]map[string]any, error),
) *mcp.CallToolResult {
	var p struct {
		CaseID string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.CaseID == "" {
		return tools.Errorf("%s: case_id is required", errPrefix)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("%s: %v", errPrefix, err)
	}
	result, err := list(ctx, client, p.CaseID)
	if err != nil {
		return tools.Errorf("%s: %v", errPrefix, err)
	}
	return tools.Textf("%s: %s", label, tools.JSON(result))
}
