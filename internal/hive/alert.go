package hive

import (
	"context"
	"net/http"
)

// AlertService wraps the /api/v1/alert endpoints.
type AlertService struct {
	client *Client
}

func (s *AlertService) Create(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert", fields, &out)
	return out, err
}

func (s *AlertService) Get(ctx context.Context, alertID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, apiBase+"/alert/"+alertID, nil, &out)
	return out, err
}

func (s *AlertService) Update(ctx context.Context, alertID string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/alert/"+alertID, fields, nil)
}

func (s *AlertService) Delete(ctx context.Context, alertID string) error {
	return s.client.do(ctx, http.MethodDelete, apiBase+"/alert/"+alertID, nil, nil)
}

// BulkUpdate applies the same field values to every alert named in
// fields["ids"].
func (s *AlertService) BulkUpdate(ctx context.Context, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/alert/_bulk", fields, nil)
}

// BulkDelete removes all named alerts in one atomic server-side call.
func (s *AlertService) BulkDelete(ctx context.Context, alertIDs []string) error {
	body := map[string]any{"ids": alertIDs}
	return s.client.do(ctx, http.MethodPost, apiBase+"/alert/delete/_bulk", body, nil)
}

func (s *AlertService) Find(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	q := listQuery(map[string]any{"_name": "listAlert"}, filters, sortby, paginate)
	err := s.client.query(ctx, "alerts", q, &out)
	return out, err
}

func (s *AlertService) Count(ctx context.Context, filters map[string]any) (int, error) {
	var out float64
	q := countQuery(map[string]any{"_name": "listAlert"}, filters)
	err := s.client.query(ctx, "alerts.count", q, &out)
	return int(out), err
}

func (s *AlertService) Follow(ctx context.Context, alertID string) error {
	return s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/follow", nil, nil)
}

func (s *AlertService) Unfollow(ctx context.Context, alertID string) error {
	return s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/unfollow", nil, nil)
}

func (s *AlertService) PromoteToCase(ctx context.Context, alertID string, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/case", fields, &out)
	return out, err
}

func (s *AlertService) MergeIntoCase(ctx context.Context, alertID, caseID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/merge/"+caseID, nil, &out)
	return out, err
}

func (s *AlertService) ImportIntoCase(ctx context.Context, alertID, caseID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/import/"+caseID, nil, &out)
	return out, err
}

func (s *AlertService) BulkMergeIntoCase(ctx context.Context, caseID string, alertIDs []string) (map[string]any, error) {
	var out map[string]any
	body := map[string]any{"caseId": caseID, "alertIds": alertIDs}
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert/merge/_bulk", body, &out)
	return out, err
}

// CreateObservable attaches an observable to an alert. TheHive answers
// with an array because multi-valued data fans out to several observables.
func (s *AlertService) CreateObservable(ctx context.Context, alertID string, observable map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/alert/"+alertID+"/observable", observable, &out)
	return out, err
}

func (s *AlertService) FindObservables(ctx context.Context, alertID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getAlert", "idOrName": alertID},
		{"_name": "observables"},
	}
	err := s.client.query(ctx, "alert-observables", q, &out)
	return out, err
}

func (s *AlertService) SimilarObservables(ctx context.Context, alertID, alertOrCaseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getAlert", "idOrName": alertID},
		{"_name": "similarObservables", "alertOrCaseId": alertOrCaseID},
	}
	err := s.client.query(ctx, "alert-similar-observables", q, &out)
	return out, err
}
