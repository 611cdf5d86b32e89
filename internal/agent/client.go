package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// APIClient issues authenticated requests against a configured base URL.
// It is a stateless facade: no operation mutates the client, so one
// instance can serve any number of sequential calls. Timeouts, retries
// and backoff are deliberately not implemented here; callers layer such
// policy on top via SetHTTPClient or a wrapping decorator.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger
}

// NewAPIClient creates a client for the given API base URL.
func NewAPIClient(baseURL string, logger *Logger) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// BaseURL returns the configured base URL.
func (c *APIClient) BaseURL() string { return c.baseURL }

// SetHTTPClient replaces the underlying HTTP client, e.g. to configure a
// transport timeout.
func (c *APIClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Upload describes one file part of a multipart request. Content takes
// precedence when set; otherwise the file at Path is opened when the
// request is sent and closed before the call returns, on every exit path.
type Upload struct {
	// Field is the multipart form field name
	Field string

	// Name is the filename reported in the part header
	Name string

	// Path is the local file to stream, used when Content is nil
	Path string

	// Content is the literal part content
	Content []byte
}

// FileUpload builds an Upload for a local file, using the base name of
// the path as the part filename.
func FileUpload(field, path string) Upload {
	return Upload{Field: field, Name: filepath.Base(path), Path: path}
}

// Get issues an authenticated GET to the given endpoint and returns the
// parsed JSON response body.
func (c *APIClient) Get(ctx context.Context, endpoint, token string) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, token)
}

// Post issues an authenticated POST. Without uploads the payload is sent
// as a JSON body; with uploads the request degrades to multipart form
// data where every payload field is coerced to a string form field and
// the JSON content type is left to the multipart writer.
func (c *APIClient) Post(ctx context.Context, endpoint string, payload map[string]interface{}, token string, files ...Upload) (map[string]interface{}, error) {
	if len(files) > 0 {
		return c.doMultipart(ctx, endpoint, payload, token, files)
	}
	return c.do(ctx, http.MethodPost, endpoint, payload, token)
}

// Put issues an authenticated PUT with a JSON body.
func (c *APIClient) Put(ctx context.Context, endpoint string, payload map[string]interface{}, token string) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodPut, endpoint, payload, token)
}

// Delete issues an authenticated DELETE.
func (c *APIClient) Delete(ctx context.Context, endpoint, token string) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, token)
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, payload map[string]interface{}, token string) (map[string]interface{}, error) {
	targetURL := BuildURL(c.baseURL, nil, endpoint)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIRequestError{Method: method, URL: targetURL, Err: fmt.Errorf("failed to encode payload: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, &APIRequestError{Method: method, URL: targetURL, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Request(method, targetURL, payload)
	return c.send(req)
}

func (c *APIClient) doMultipart(ctx context.Context, endpoint string, payload map[string]interface{}, token string, files []Upload) (map[string]interface{}, error) {
	targetURL := BuildURL(c.baseURL, nil, endpoint)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range payload {
		field, err := coerceFormField(value)
		if err != nil {
			return nil, &APIRequestError{Method: http.MethodPost, URL: targetURL, Err: fmt.Errorf("failed to encode field %q: %w", key, err)}
		}
		if err := writer.WriteField(key, field); err != nil {
			return nil, &APIRequestError{Method: http.MethodPost, URL: targetURL, Err: err}
		}
	}

	for _, file := range files {
		if err := writeFilePart(writer, file); err != nil {
			return nil, &APIRequestError{Method: http.MethodPost, URL: targetURL, Err: err}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &APIRequestError{Method: http.MethodPost, URL: targetURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, &buf)
	if err != nil {
		return nil, &APIRequestError{Method: http.MethodPost, URL: targetURL, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Request(http.MethodPost, targetURL, payload)
	return c.send(req)
}

// writeFilePart streams one upload into the multipart writer, closing
// any opened file handle before returning.
func writeFilePart(writer *multipart.Writer, file Upload) error {
	part, err := writer.CreateFormFile(file.Field, file.Name)
	if err != nil {
		return err
	}

	if file.Content != nil {
		_, err = part.Write(file.Content)
		return err
	}

	handle, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer handle.Close()

	_, err = io.Copy(part, handle)
	return err
}

// coerceFormField renders a payload value as a string form field.
// Strings pass through unchanged; everything else is JSON-encoded so
// structured values (the context array, booleans) survive the multipart
// degradation.
func coerceFormField(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (c *APIClient) send(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("API request failed: %v", err)
		return nil, &APIRequestError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIRequestError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIRequestError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		c.logger.Error("API request failed: %v", apiErr)
		return nil, apiErr
	}

	if len(body) == 0 {
		return nil, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIRequestError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Response(req.Method, req.URL.String(), result)
	return result, nil
}

// PrettyJSON pretty-prints a value as indented JSON for logging and
// console output.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
