package hive

import (
	"context"
	"net/http"
)

// CortexService wraps the Cortex connector endpoints. Analyzer and
// responder records come from the connected Cortex instances, not TheHive
// itself, so everything here lives under /api/connector/cortex.
type CortexService struct {
	client *Client
}

const cortexBase = "/api/connector/cortex"

// ListAnalyzers lists analyzers across connected Cortex servers. A
// non-empty byteRange ("0-49") paginates via the Range header.
func (s *CortexService) ListAnalyzers(ctx context.Context, byteRange string) ([]map[string]any, error) {
	var out []map[string]any
	path := cortexBase + "/analyzer"
	if byteRange != "" {
		path += "?range=" + byteRange
	}
	err := s.client.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (s *CortexService) ListAnalyzersByType(ctx context.Context, dataType string) ([]map[string]any, error) {
	var out []map[string]any
	err := s.client.do(ctx, http.MethodGet, cortexBase+"/analyzer/type/"+dataType, nil, &out)
	return out, err
}

func (s *CortexService) GetAnalyzer(ctx context.Context, analyzerID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, cortexBase+"/analyzer/"+analyzerID, nil, &out)
	return out, err
}

func (s *CortexService) CreateAnalyzerJob(ctx context.Context, job map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, cortexBase+"/job", job, &out)
	return out, err
}

func (s *CortexService) GetAnalyzerJob(ctx context.Context, jobID string) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodGet, cortexBase+"/job/"+jobID, nil, &out)
	return out, err
}

func (s *CortexService) ListResponders(ctx context.Context, entityType, entityID string) ([]map[string]any, error) {
	var out []map[string]any
	err := s.client.do(ctx, http.MethodGet, cortexBase+"/responder/"+entityType+"/"+entityID, nil, &out)
	return out, err
}

func (s *CortexService) CreateResponderAction(ctx context.Context, action map[string]any) (map[string]any, error) {
	var out map[string]any
	err := s.client.do(ctx, http.MethodPost, cortexBase+"/action", action, &out)
	return out, err
}
