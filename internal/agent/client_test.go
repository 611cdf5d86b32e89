package agent

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClientMethodsSendBearerToken(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	client := NewAPIClient(env.API.URL, newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (map[string]interface{}, error)
	}{
		{"Get", func() (map[string]interface{}, error) {
			return client.Get(ctx, "agents", testToken)
		}},
		{"Post", func() (map[string]interface{}, error) {
			return client.Post(ctx, "agents", map[string]interface{}{"name": "demo"}, testToken)
		}},
		{"Put", func() (map[string]interface{}, error) {
			return client.Put(ctx, "agents/demo", map[string]interface{}{"name": "demo"}, testToken)
		}},
		{"Delete", func() (map[string]interface{}, error) {
			return client.Delete(ctx, "agents/demo", testToken)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); err != nil {
				t.Fatalf("%s returned error: %v", tt.name, err)
			}
			req := env.API.LastRequest(t)
			if req.Authorization != "Bearer "+testToken {
				t.Errorf("expected bearer token header, got %q", req.Authorization)
			}
		})
	}
}

func TestClientJSONContentType(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	client := NewAPIClient(env.API.URL, newTestLogger())
	ctx := context.Background()

	if _, err := client.Post(ctx, "agents", map[string]interface{}{"name": "demo"}, testToken); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	req := env.API.LastRequest(t)
	if req.ContentType != "application/json" {
		t.Errorf("expected application/json content type, got %q", req.ContentType)
	}
	if req.JSONBody["name"] != "demo" {
		t.Errorf("expected JSON body to carry name field, got %v", req.JSONBody)
	}

	// Bodyless requests must not claim a JSON body.
	if _, err := client.Get(ctx, "agents", testToken); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	req = env.API.LastRequest(t)
	if req.ContentType == "application/json" {
		t.Error("expected GET without payload to omit JSON content type")
	}
}

func TestClientErrorResponse(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	env.API.Respond(http.MethodGet, "/agents/ghost", http.StatusNotFound, map[string]interface{}{
		"error": "agent not found",
	})

	client := NewAPIClient(env.API.URL, newTestLogger())

	_, err := client.Get(context.Background(), "agents/ghost", testToken)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIRequestError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "agent not found") {
		t.Errorf("expected response body in error, got %q", apiErr.Body)
	}
	if apiErr.Method != http.MethodGet {
		t.Errorf("expected method GET in error, got %q", apiErr.Method)
	}
}

func TestClientTransportError(t *testing.T) {
	env := setupTestEnvironment(t)
	apiURL := env.API.URL
	env.cleanup()

	client := NewAPIClient(apiURL, newTestLogger())

	_, err := client.Get(context.Background(), "agents", testToken)
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIRequestError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("expected zero status for transport failure, got %d", apiErr.StatusCode)
	}
	if apiErr.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestClientMultipartUpload(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("file contents"), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	client := NewAPIClient(env.API.URL, newTestLogger())

	payload := map[string]interface{}{
		"user_prompt": "summarise this",
		"streaming":   false,
	}
	_, err := client.Post(context.Background(), "agent/demo/chat", payload, testToken, FileUpload("file", path))
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	req := env.API.LastRequest(t)
	if !strings.HasPrefix(req.ContentType, "multipart/form-data") {
		t.Fatalf("expected multipart content type, got %q", req.ContentType)
	}
	if req.Authorization != "Bearer "+testToken {
		t.Errorf("expected bearer token on multipart request, got %q", req.Authorization)
	}
	if req.FormFields["user_prompt"] != "summarise this" {
		t.Errorf("expected string field pass-through, got %q", req.FormFields["user_prompt"])
	}
	if req.FormFields["streaming"] != "false" {
		t.Errorf("expected non-string field JSON-encoded, got %q", req.FormFields["streaming"])
	}
	if req.FileNames["file"] != "notes.txt" {
		t.Errorf("expected file part notes.txt, got %q", req.FileNames["file"])
	}
	if req.FileContents["file"] != "file contents" {
		t.Errorf("expected file contents streamed, got %q", req.FileContents["file"])
	}
}

func TestClientMultipartLiteralContent(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	client := NewAPIClient(env.API.URL, newTestLogger())

	upload := Upload{Field: "file", Name: "inline.md", Content: []byte("# inline")}
	_, err := client.Post(context.Background(), "agent/demo/chat", nil, testToken, upload)
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	req := env.API.LastRequest(t)
	if req.FileNames["file"] != "inline.md" {
		t.Errorf("expected inline.md file part, got %q", req.FileNames["file"])
	}
	if req.FileContents["file"] != "# inline" {
		t.Errorf("expected literal content, got %q", req.FileContents["file"])
	}
}

func TestClientMultipartMissingFile(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	client := NewAPIClient(env.API.URL, newTestLogger())

	_, err := client.Post(context.Background(), "agent/demo/chat", nil, testToken,
		FileUpload("file", filepath.Join(t.TempDir(), "nope.txt")))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIRequestError, got %T: %v", err, err)
	}

	if got := len(env.API.Requests()); got != 0 {
		t.Errorf("expected no request sent when the file cannot be read, got %d", got)
	}
}

func TestClientEmptyResponseBody(t *testing.T) {
	env := setupTestEnvironment(t)
	defer env.cleanup()

	env.API.Respond(http.MethodDelete, "/agents/demo", http.StatusNoContent, nil)

	client := NewAPIClient(env.API.URL, newTestLogger())

	result, err := client.Delete(context.Background(), "agents/demo", testToken)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for empty body, got %v", result)
	}
}

func TestFileUpload(t *testing.T) {
	upload := FileUpload("file", "/tmp/dir/report.pdf")
	if upload.Field != "file" {
		t.Errorf("expected field file, got %q", upload.Field)
	}
	if upload.Name != "report.pdf" {
		t.Errorf("expected base name report.pdf, got %q", upload.Name)
	}
	if upload.Path != "/tmp/dir/report.pdf" {
		t.Errorf("expected path preserved, got %q", upload.Path)
	}
}
