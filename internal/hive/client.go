// Package hive is a minimal client for the TheHive v1 REST API. It covers
// the alert, case, observable, task and Cortex connector surfaces the tool
// catalogs expose, returning plain maps so callers can render responses
// without a schema per entity.
package hive

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	apiBase               = "/api/v1"
)

// APIError is returned for any non-2xx response from TheHive.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("thehive api error: %d %s", e.Status, e.Message)
}

// Client is an authenticated handle to one TheHive instance. A Client does
// no I/O at construction time; the first request dials the server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	Alert      *AlertService
	Case       *CaseService
	Observable *ObservableService
	Task       *TaskService
	Cortex     *CortexService
}

// NewClient builds a client for the given base URL and API key. TheHive
// installs commonly sit behind self-signed certificates, so certificate
// verification is disabled, matching the upstream client defaults.
func NewClient(baseURL, apiKey string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
	c.Alert = &AlertService{client: c}
	c.Case = &CaseService{client: c}
	c.Observable = &ObservableService{client: c}
	c.Task = &TaskService{client: c}
	c.Cortex = &CortexService{client: c}
	return c
}

// BaseURL returns the instance URL the client was constructed with.
func (c *Client) BaseURL() string { return c.baseURL }

// do runs one API request. A non-nil body is sent as JSON; a non-nil out
// receives the decoded response. Non-2xx statuses map to *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("thehive request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// download streams a raw (non-JSON) response body to w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("thehive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read attachment body: %w", err)
	}
	return nil
}

// query submits one request to the /api/v1/query endpoint. The name
// parameter labels the query in TheHive's audit log.
func (c *Client) query(ctx context.Context, name string, query []map[string]any, out any) error {
	path := apiBase + "/query?name=" + url.QueryEscape(name)
	return c.do(ctx, http.MethodPost, path, map[string]any{"query": query}, out)
}

// errorMessage extracts TheHive's {"message": ...} payload when present.
func errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}
