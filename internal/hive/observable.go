package hive

import (
	"context"
	"net/http"
)

// ObservableService wraps the /api/v1/observable endpoints.
type ObservableService struct {
	client *Client
}

func (s *ObservableService) CreateInCase(ctx context.Context, caseID string, observable map[string]any) ([]map[string]any, error) {
	return s.client.Case.CreateObservable(ctx, caseID, observable)
}

func (s *ObservableService) CreateInAlert(ctx context.Context, alertID string, observable map[string]any) ([]map[string]any, error) {
	return s.client.Alert.CreateObservable(ctx, alertID, observable)
}

func (s *ObservableService) Get(ctx context.Context, observableID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, apiBase+"/observable/"+observableID, nil, &out)
	return out, err
}

func (s *ObservableService) Update(ctx context.Context, observableID string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/observable/"+observableID, fields, nil)
}

func (s *ObservableService) Delete(ctx context.Context, observableID string) error {
	return s.client.do(ctx, http.MethodDelete, apiBase+"/observable/"+observableID, nil, nil)
}

func (s *ObservableService) BulkUpdate(ctx context.Context, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/observable/_bulk", fields, nil)
}

func (s *ObservableService) Find(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	q := listQuery(map[string]any{"_name": "listObservable"}, filters, sortby, paginate)
	err := s.client.query(ctx, "observables", q, &out)
	return out, err
}

func (s *ObservableService) Count(ctx context.Context, filters map[string]any) (int, error) {
	var out float64
	q := countQuery(map[string]any{"_name": "listObservable"}, filters)
	err := s.client.query(ctx, "observables.count", q, &out)
	return int(out), err
}

func (s *ObservableService) Share(ctx context.Context, observableID string, organisations []string) error {
	body := map[string]any{"organisations": organisations}
	return s.client.do(ctx, http.MethodPost, apiBase+"/observable/"+observableID+"/shares", body, nil)
}

func (s *ObservableService) Unshare(ctx context.Context, observableID string, organisations []string) error {
	body := map[string]any{"organisations": organisations}
	return s.client.do(ctx, http.MethodDelete, apiBase+"/observable/"+observableID+"/shares", body, nil)
}
