package hive

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// CaseService wraps the /api/v1/case endpoints.
type CaseService struct {
	client *Client
}

func (s *CaseService) Create(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case", fields, &out)
	return out, err
}

func (s *CaseService) Get(ctx context.Context, caseID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, apiBase+"/case/"+caseID, nil, &out)
	return out, err
}

func (s *CaseService) Update(ctx context.Context, caseID string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/case/"+caseID, fields, nil)
}

func (s *CaseService) Delete(ctx context.Context, caseID string) error {
	return s.client.do(ctx, http.MethodDelete, apiBase+"/case/"+caseID, nil, nil)
}

func (s *CaseService) BulkUpdate(ctx context.Context, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, apiBase+"/case/_bulk", fields, nil)
}

func (s *CaseService) Find(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	q := listQuery(map[string]any{"_name": "listCase"}, filters, sortby, paginate)
	err := s.client.query(ctx, "cases", q, &out)
	return out, err
}

func (s *CaseService) Count(ctx context.Context, filters map[string]any) (int, error) {
	var out float64
	q := countQuery(map[string]any{"_name": "listCase"}, filters)
	err := s.client.query(ctx, "cases.count", q, &out)
	return int(out), err
}

// Close resolves a case. impactStatus is only meaningful for statuses in
// the Resolved family; TheHive ignores it otherwise.
func (s *CaseService) Close(ctx context.Context, caseID, status, summary, impactStatus string) error {
	fields := map[string]any{"status": status}
	if summary != "" {
		fields["summary"] = summary
	}
	if impactStatus != "" {
		fields["impactStatus"] = impactStatus
	}
	return s.client.do(ctx, http.MethodPatch, apiBase+"/case/"+caseID, fields, nil)
}

func (s *CaseService) Merge(ctx context.Context, caseIDs []string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case/_merge/"+strings.Join(caseIDs, ","), nil, &out)
	return out, err
}

func (s *CaseService) CreateObservable(ctx context.Context, caseID string, observable map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case/"+caseID+"/observable", observable, &out)
	return out, err
}

func (s *CaseService) FindObservables(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "observables"},
	}
	err := s.client.query(ctx, "case-observables", q, &out)
	return out, err
}

func (s *CaseService) SimilarObservables(ctx context.Context, caseID, alertOrCaseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "similarObservables", "alertOrCaseId": alertOrCaseID},
	}
	err := s.client.query(ctx, "case-similar-observables", q, &out)
	return out, err
}

func (s *CaseService) FindComments(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "comments"},
	}
	err := s.client.query(ctx, "case-comments", q, &out)
	return out, err
}

func (s *CaseService) CreateTask(ctx context.Context, caseID string, task map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case/"+caseID+"/task", task, &out)
	return out, err
}

func (s *CaseService) FindTasks(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "tasks"},
	}
	err := s.client.query(ctx, "case-tasks", q, &out)
	return out, err
}

func (s *CaseService) CreateProcedure(ctx context.Context, caseID string, procedure map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case/"+caseID+"/procedure", procedure, &out)
	return out, err
}

func (s *CaseService) FindProcedures(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "procedures"},
	}
	err := s.client.query(ctx, "case-procedures", q, &out)
	return out, err
}

// AddAttachment uploads local files to a case. TheHive expects multipart
// form data here, unlike every other endpoint.
func (s *CaseService) AddAttachment(ctx context.Context, caseID string, attachmentPaths []string, canRename bool) ([]map[string]any, error) {
	body, contentType, err := attachmentForm(attachmentPaths, canRename)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+apiBase+"/case/"+caseID+"/attachments", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.client.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("thehive request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeAttachmentResponse(resp)
}

func (s *CaseService) DeleteAttachment(ctx context.Context, caseID, attachmentID string) error {
	return s.client.do(ctx, http.MethodDelete, apiBase+"/case/"+caseID+"/attachment/"+attachmentID, nil, nil)
}

// DownloadAttachment writes the attachment body to attachmentPath.
func (s *CaseService) DownloadAttachment(ctx context.Context, caseID, attachmentID, attachmentPath string) error {
	f, err := os.Create(filepath.Clean(attachmentPath))
	if err != nil {
		return fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()
	return s.client.download(ctx, apiBase+"/case/"+caseID+"/attachment/"+attachmentID+"/download", f)
}

func (s *CaseService) FindAttachments(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "attachments"},
	}
	err := s.client.query(ctx, "case-attachments", q, &out)
	return out, err
}

func (s *CaseService) CreatePage(ctx context.Context, caseID string, page map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, apiBase+"/case/"+caseID+"/page", page, &out)
	return out, err
}

func (s *CaseService) FindPages(ctx context.Context, caseID string) ([]map[string]any, error) {
	var out []map[string]any
	q := []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "pages"},
	}
	err := s.client.query(ctx, "case-pages", q, &out)
	return out, err
}
