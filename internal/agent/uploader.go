package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// FileUploader pushes files into the platform's context storage using
// the two-step presigned-form flow: request an S3 upload form from the
// upload API, then POST the file to S3 with the form's fields.
type FileUploader struct {
	client     *APIClient
	token      string
	accountID  string
	httpClient *http.Client
	logger     *Logger
}

// NewFileUploader creates an uploader against the given upload API URL.
func NewFileUploader(uploadURL, token string, logger *Logger) *FileUploader {
	return &FileUploader{
		client:     NewAPIClient(uploadURL, logger),
		token:      token,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// SetAccountID attaches an x-account-id to upload form requests.
// Not wired through APIClient headers; the form request carries it in
// the payload accepted by the upload API.
func (u *FileUploader) SetAccountID(accountID string) {
	u.accountID = accountID
}

// SetHTTPClient replaces the HTTP client used for the S3 leg.
func (u *FileUploader) SetHTTPClient(client *http.Client) {
	u.httpClient = client
	u.client.SetHTTPClient(client)
}

// UploadForm requests a presigned S3 upload form for the given file
// name. expiration is the form validity in minutes.
func (u *FileUploader) UploadForm(ctx context.Context, fileName string, expiration int) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		"file_name":   fileName,
		"target_type": "CONTEXT",
		"expiration":  expiration,
	}
	if u.accountID != "" {
		payload["account_id"] = u.accountID
	}

	form, err := u.client.Post(ctx, "", payload, u.token)
	if err != nil {
		u.logger.Error("Failed to get upload form for %s: %v", fileName, err)
		return nil, err
	}
	return form, nil
}

// uploadToS3 posts the file to S3 using the presigned form data. The S3
// form fields must precede the file part. The file handle is closed on
// every exit path.
func (u *FileUploader) uploadToS3(ctx context.Context, form map[string]interface{}, path string) error {
	s3URL, ok := form["url"].(string)
	if !ok {
		return &ResponseShapeError{Field: "url", Keys: mapKeys(form)}
	}
	fields, ok := form["form"].(map[string]interface{})
	if !ok {
		return &ResponseShapeError{Field: "form", Keys: mapKeys(form)}
	}

	handle, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer handle.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		field, err := coerceFormField(value)
		if err != nil {
			return fmt.Errorf("failed to encode form field %q: %w", key, err)
		}
		if err := writer.WriteField(key, field); err != nil {
			return err
		}
	}

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, handle); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s3URL, &buf)
	if err != nil {
		return &APIRequestError{Method: http.MethodPost, URL: s3URL, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return &APIRequestError{Method: http.MethodPost, URL: s3URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIRequestError{
			Method:     http.MethodPost,
			URL:        s3URL,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return nil
}

// UploadFiles uploads each file in order and returns the collected
// upload IDs. The first failure aborts the remaining batch; the IDs
// gathered before the failure are returned alongside the error.
func (u *FileUploader) UploadFiles(ctx context.Context, paths []string) ([]string, error) {
	var ids []string

	for _, path := range paths {
		name := filepath.Base(path)

		form, err := u.UploadForm(ctx, name, 60)
		if err != nil {
			return ids, err
		}

		if err := u.uploadToS3(ctx, form, path); err != nil {
			u.logger.Error("Failed to upload %s: %v", name, err)
			return ids, err
		}

		id, ok := form["id"].(string)
		if !ok {
			return ids, &ResponseShapeError{Field: "id", Keys: mapKeys(form)}
		}

		ids = append(ids, id)
		u.logger.Success("Uploaded %s (%s)", name, id)
	}

	return ids, nil
}

func mapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
