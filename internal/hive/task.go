package hive

import (
	"context"
	"net/http"
)

// TaskService wraps the /api/v1/task endpoints.
type TaskService struct {
	client *Client
}

func (s *TaskService) Create(ctx context.Context, caseID string, task map[string]any) (map[string]any, error) {
	return s.client.Case.CreateTask(ctx, caseID, task)
}

func (s *TaskService) Get(ctx context.Context, taskID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, apiBase+"/task/"+taskID, nil, &out)
	return out, err
}

func (s *TaskService) Update(ctx context.Context, taskID string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/task/"+taskID, fields, nil)
}

func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	return s.client.do(ctx, http.MethodDelete, apiBase+"/task/"+taskID, nil, nil)
}

func (s *TaskService) BulkUpdate(ctx context.Context, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/task/_bulk", fields, nil)
}

func (s *TaskService) Find(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	q := listQuery(map[string]any{"_name": "listTask"}, filters, sortby, paginate)
	err := s.client.query(ctx, "tasks", q, &out)
	return out, err
}

func (s *TaskService) Count(ctx context.Context, filters map[string]any) (int, error) {
	var out float64
	q := countQuery(map[string]any{"_name": "listTask"}, filters)
	err := s.client.query(ctx, "tasks.count", q, &out)
	return int(out), err
}

func (s *TaskService) CreateLog(ctx context.Context, taskID string, taskLog map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/task/"+taskID+"/log", taskLog, &out)
	return out, err
}

func (s *TaskService) FindLogs(ctx context.Context, taskID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getTask", "idOrName": taskID},
		{"_name": "logs"},
	}
	err := s.client.query(ctx, "task-logs", q, &out)
	return out, err
}
