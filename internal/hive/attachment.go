package hive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// attachmentForm builds the multipart body for the case attachment upload
// endpoint: one "attachments" part per file plus the canRename flag.
func attachmentForm(paths []string, canRename bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, path := range paths {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, "", fmt.Errorf("open attachment %s: %w", path, err)
		}
		part, err := writer.CreateFormFile("attachments", filepath.Base(path))
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("build attachment part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("read attachment %s: %w", path, err)
		}
		f.Close()
	}
	if err := writer.WriteField("canRename", strconv.FormatBool(canRename)); err != nil {
		return nil, "", fmt.Errorf("build canRename field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize attachment form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func decodeAttachmentResponse(resp *http.Response) ([]map[string]any, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	// The endpoint answers {"attachments": [...]}; older versions return
	// the array directly.
	var wrapped struct {
		Attachments []map[string]any `json:"attachments"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Attachments != nil {
		return wrapped.Attachments, nil
	}
	var list []map[string]any
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return list, nil
}
