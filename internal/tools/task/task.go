// Package task exposes TheHive task operations as MCP tools.
package task

import (
	"context"
	"encoding/json"

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

func (c *Catalog) Name() string { return "task" }

func (c *Catalog) Tools() ([]tools.Tool, error) {
	idOnly := func(desc string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string", "description": desc},
			},
			"required": []string{"task_id"},
		}
	}
	return []tools.Tool{
		{
			Name:        "create_task",
			Title:       "Create Task",
			Description: "Create a new task in a case.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"case_id": map[string]any{"type": "string", "description": "Case to create the task in"},
					"fields": map[string]any{
						"type":        "object",
						"description": "Task fields",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "description": "Task title (required)"},
							"description": map[string]any{"type": "string", "description": "Task description"},
							"group":       map[string]any{"type": "string", "description": "Task group"},
							"assignee":    map[string]any{"type": "string", "description": "Assigned user"},
							"flag":        map[string]any{"type": "boolean", "description": "Flag status"},
							"status":      map[string]any{"type": "string", "description": "Task status"},
						},
					},
				},
				"required": []string{"case_id", "fields"},
			},
			Handler: c.createTask,
		},
		{
			Name:        "get_tasks",
			Title:       "Get Tasks",
			Description: "Get all tasks with optional filtering and pagination.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters":  map[string]any{"type": "object", "description": "Filter criteria for tasks"},
					"sortby":   map[string]any{"type": "object", "description": "Sort specification for results"},
					"paginate": map[string]any{"type": "object", "description": "Pagination settings"},
				},
			},
			Handler: c.getTasks,
		},
		{
			Name:        "get_task",
			Title:       "Get Task",
			Description: "Get a single task by ID.",
			InputSchema: idOnly("The unique identifier of the task"),
			Handler:     c.getTask,
		},
		{
			Name:        "update_task",
			Title:       "Update Task",
			Description: "Update a task using fields dictionary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{"type": "string", "description": "Task to update"},
					"fields": map[string]any{
						"type":        "object",
						"description": "Fields to update",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string", "description": "Task title"},
							"description": map[string]any{"type": "string", "description": "Task description"},
							"status":      map[string]any{"type": "string", "description": "Task status"},
							"flag":        map[string]any{"type": "boolean", "description": "Flag status"},
							"assignee":    map[string]any{"type": "string", "description": "Assigned user"},
						},
					},
				},
				"required": []string{"task_id", "fields"},
			},
			Handler: c.updateTask,
		},
		{
			Name:        "delete_task",
			Title:       "Delete Task",
			Description: "Delete a task permanently.",
			InputSchema: idOnly("The unique identifier of the task to delete"),
			Handler:     c.deleteTask,
		},
		{
			Name:        "bulk_update_tasks",
			Title:       "Bulk Update Tasks",
			Description: "Update multiple tasks with same values.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Tasks to update"},
					"title":       map[string]any{"type": "string", "description": "New title for all tasks"},
					"description": map[string]any{"type": "string", "description": "New description for all tasks"},
					"status":      map[string]any{"type": "string", "description": "New status for all tasks"},
					"assignee":    map[string]any{"type": "string", "description": "New assignee for all tasks"},
				},
				"required": []string{"task_ids"},
			},
			Handler: c.bulkUpdateTasks,
		},
		{
			Name:        "count_tasks",
			Title:       "Count Tasks",
			Description: "Count tasks matching the given filters.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status":   map[string]any{"type": "string", "description": "Filter by status"},
					"assignee": map[string]any{"type": "string", "description": "Filter by assignee"},
					"case_id":  map[string]any{"type": "string", "description": "Filter by case"},
				},
			},
			Handler: c.countTasks,
		},
		{
			Name:        "complete_task",
			Title:       "Complete Task",
			Description: "Mark a task as completed.",
			InputSchema: idOnly("Task to complete"),
			Handler:     c.completeTask,
		},
		{
			Name:        "start_task",
			Title:       "Start Task",
			Description: "Mark a task as in progress.",
			InputSchema: idOnly("Task to start"),
			Handler:     c.startTask,
		},
		{
			Name:        "assign_task",
			Title:       "Assign Task",
			Description: "Assign a task to a user.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":  map[string]any{"type": "string", "description": "Task to assign"},
					"assignee": map[string]any{"type": "string", "description": "User to assign the task to"},
				},
				"required": []string{"task_id", "assignee"},
			},
			Handler: c.assignTask,
		},
		{
			Name:        "create_task_log",
			Title:       "Create Task Log",
			Description: "Create a log entry for a task.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":             map[string]any{"type": "string", "description": "Task ID"},
					"message":             map[string]any{"type": "string", "description": "Log message"},
					"include_in_timeline": map[string]any{"type": "boolean", "description": "Whether the log appears in the case timeline"},
				},
				"required": []string{"task_id", "message"},
			},
			Handler: c.createTaskLog,
		},
		{
			Name:        "find_task_logs",
			Title:       "Find Task Logs",
			Description: "Find log entries of a task.",
			InputSchema: idOnly("Task ID"),
			Handler:     c.findTaskLogs,
		},
	}, nil
}

func (c *Catalog) createTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		CaseID string         `json:"case_id"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error creating task: %v", err)
	}
	if p.CaseID == "" {
		return tools.Errorf("Error creating task: Missing case ID.")
	}
	if len(p.Fields) == 0 {
		return tools.Errorf("Error creating task: Missing task data.")
	}
	if v, ok := p.Fields["title"]; !ok || v == "" {
		return tools.Errorf("Error creating task: Missing required fields: title. Required fields are: title")
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating task: %v", err)
	}
	result, err := client.Task.Create(ctx, p.CaseID, p.Fields)
	if err != nil {
		return tools.Errorf("Error creating task: %v", err)
	}
	return tools.Textf("Created task: %s", tools.JSON(result))
}

func (c *Catalog) getTasks(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Filters  map[string]any `json:"filters"`
		SortBy   map[string]any `json:"sortby"`
		Paginate map[string]any `json:"paginate"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error retrieving tasks: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error retrieving tasks: %v", err)
	}
	result, err := client.Task.Find(ctx, p.Filters, p.SortBy, p.Paginate)
	if err != nil {
		return tools.Errorf("Error retrieving tasks: %v", err)
	}
	return tools.JSONList(result)
}

func (c *Catalog) getTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" {
		return tools.Errorf("Error getting task: task_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting task: %v", err)
	}
	result, err := client.Task.Get(ctx, p.TaskID)
	if err != nil {
		return tools.Errorf("Error getting task: %v", err)
	}
	return tools.JSONValue(result)
}

func (c *Catalog) updateTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID string         `json:"task_id"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error updating task: %v", err)
	}
	if p.TaskID == "" {
		return tools.Errorf("Error updating task: Missing task ID.")
	}
	if len(p.Fields) == 0 {
		return tools.Errorf("Error updating task: Missing task fields.")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error updating task: %v", err)
	}
	if err := client.Task.Update(ctx, p.TaskID, p.Fields); err != nil {
		return tools.Errorf("Error updating task: %v", err)
	}
	return tools.Textf("Task %s updated successfully", p.TaskID)
}

func (c *Catalog) deleteTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" {
		return tools.Errorf("Error deleting task: task_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error deleting task: %v", err)
	}
	if err := client.Task.Delete(ctx, p.TaskID); err != nil {
		return tools.Errorf("Error deleting task: %v", err)
	}
	return tools.Textf("Task %s deleted successfully", p.TaskID)
}

func (c *Catalog) bulkUpdateTasks(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskIDs     []string `json:"task_ids"`
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Assignee    *string  `json:"assignee"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error bulk updating tasks: %v", err)
	}
	if len(p.TaskIDs) == 0 {
		return tools.Errorf("No task IDs provided for bulk update")
	}

	fields := map[string]any{"ids": p.TaskIDs}
	if p.Title != nil {
		fields["title"] = []string{*p.Title}
	}
	if p.Description != nil {
		fields["description"] = []string{*p.Description}
	}
	if p.Status != nil {
		fields["status"] = []string{*p.Status}
	}
	if p.Assignee != nil {
		fields["assignee"] = []string{*p.Assignee}
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error bulk updating tasks: %v", err)
	}
	if err := client.Task.BulkUpdate(ctx, fields); err != nil {
		return tools.Errorf("Error bulk updating tasks: %v", err)
	}
	return tools.Textf("Updated %d tasks successfully", len(p.TaskIDs))
}

func (c *Catalog) countTasks(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Status   *string `json:"status"`
		Assignee *string `json:"assignee"`
		CaseID   *string `json:"case_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error counting tasks: %v", err)
	}

	var filters map[string]any
	if p.Status != nil || p.Assignee != nil || p.CaseID != nil {
		filters = map[string]any{}
		if p.Status != nil {
			filters["status"] = *p.Status
		}
		if p.Assignee != nil {
			filters["assignee"] = *p.Assignee
		}
		if p.CaseID != nil {
			filters["case"] = *p.CaseID
		}
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error counting tasks: %v", err)
	}
	count, err := client.Task.Count(ctx, filters)
	if err != nil {
		return tools.Errorf("Error counting tasks: %v", err)
	}
	return tools.Textf("Found %d tasks", count)
}

func (c *Catalog) completeTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.setStatus(ctx, args, "Completed", "completed", "Error completing task")
}

func (c *Catalog) startTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	return c.setStatus(ctx, args, "InProgress", "started", "Error starting task")
}

func (c *Catalog) setStatus(ctx context.Context, args json.RawMessage, status, verb, errPrefix string) *mcp.CallToolResult {
	var p struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" {
		return tools.Errorf("%s: task_id is required", errPrefix)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("%s: %v", errPrefix, err)
	}
	if err := client.Task.Update(ctx, p.TaskID, map[string]any{"status": status}); err != nil {
		return tools.Errorf("%s: %v", errPrefix, err)
	}
	return tools.Textf("Task %s %s", p.TaskID, verb)
}

func (c *Catalog) assignTask(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID   string `json:"task_id"`
		Assignee string `json:"assignee"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" || p.Assignee == "" {
		return tools.Errorf("Error assigning task: task_id and assignee are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error assigning task: %v", err)
	}
	if err := client.Task.Update(ctx, p.TaskID, map[string]any{"assignee": p.Assignee}); err != nil {
		return tools.Errorf("Error assigning task: %v", err)
	}
	return tools.Textf("Task %s assigned to %s", p.TaskID, p.Assignee)
}

func (c *Catalog) createTaskLog(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID            string `json:"task_id"`
		Message           string `json:"message"`
		IncludeInTimeline *bool  `json:"include_in_timeline"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" {
		return tools.Errorf("Error creating log: task_id is required")
	}
	if p.Message == "" {
		return tools.Errorf("Message is required")
	}

	taskLog := map[string]any{"message": p.Message}
	if p.IncludeInTimeline != nil {
		// The log endpoint expects "0"/"1" rather than a boolean.
		v := "0"
		if *p.IncludeInTimeline {
			v = "1"
		}
		taskLog["includeInTimeline"] = v
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating log: %v", err)
	}
	result, err := client.Task.CreateLog(ctx, p.TaskID, taskLog)
	if err != nil {
		return tools.Errorf("Error creating log: %v", err)
	}
	return tools.Textf("Created log: %s", tools.JSON(result))
}

func (c *Catalog) findTaskLogs(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.TaskID == "" {
		return tools.Errorf("Error finding logs: task_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error finding logs: %v", err)
	}
	result, err := client.Task.FindLogs(ctx, p.TaskID)
	if err != nil {
		return tools.Errorf("Error finding logs: %v", err)
	}
	return tools.Textf("Task logs: %s", tools.JSON(result))
}
