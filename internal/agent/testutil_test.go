package agent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// testToken is the access token issued by the mock auth server
const testToken = "test-access-token"

// testEnv encapsulates a complete test environment with mock servers
type testEnv struct {
	Auth    *MockAuthServer
	API     *MockStackSpotServer
	cleanup func()
}

// setupTestEnvironment creates a mock identity server and a mock
// inference API wired to accept its tokens.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	mockAuth := NewMockAuthServer(t)
	mockAPI := NewMockStackSpotServer(t)

	return &testEnv{
		Auth: mockAuth,
		API:  mockAPI,
		cleanup: func() {
			mockAPI.Close()
			mockAuth.Close()
		},
	}
}

// newTestLogger returns a quiet logger for tests.
func newTestLogger() *Logger {
	return NewLoggerWithWriter(false, false, false, &strings.Builder{})
}

// MockAuthServer is a minimal OAuth client-credentials token endpoint.
// It validates the realm-scoped path and the form-encoded grant request.
type MockAuthServer struct {
	*httptest.Server
	t *testing.T

	// Configuration
	realm        string
	clientID     string
	clientSecret string
	statusCode   int
	response     map[string]interface{}

	// State tracking
	mu                sync.Mutex
	tokenRequestCount int
	lastForm          map[string]string
	lastPath          string
}

// NewMockAuthServer creates a mock identity server issuing testToken for
// realm "test-realm" and credentials id/secret.
func NewMockAuthServer(t *testing.T) *MockAuthServer {
	t.Helper()

	mas := &MockAuthServer{
		t:            t,
		realm:        "test-realm",
		clientID:     "id",
		clientSecret: "secret",
		statusCode:   http.StatusOK,
		response:     map[string]interface{}{"access_token": testToken},
	}
	mas.Server = httptest.NewServer(http.HandlerFunc(mas.handleToken))
	return mas
}

// SetResponse overrides the token endpoint status and body.
func (m *MockAuthServer) SetResponse(status int, body map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCode = status
	m.response = body
}

// TokenRequestCount returns how many token requests were received.
func (m *MockAuthServer) TokenRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokenRequestCount
}

// LastForm returns the form fields of the last token request.
func (m *MockAuthServer) LastForm() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastForm
}

// LastPath returns the path of the last token request.
func (m *MockAuthServer) LastPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPath
}

func (m *MockAuthServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.tokenRequestCount++
	m.lastPath = r.URL.Path
	m.lastForm = map[string]string{
		"grant_type":    r.PostFormValue("grant_type"),
		"client_id":     r.PostFormValue("client_id"),
		"client_secret": r.PostFormValue("client_secret"),
	}
	status := m.statusCode
	response := m.response
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// recordedRequest captures one request seen by the mock API server
type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	JSONBody      map[string]interface{}
	FormFields    map[string]string
	FileNames     map[string]string
	FileContents  map[string]string
}

// MockStackSpotServer is a stub inference API. Responses are registered
// per "METHOD path" key; every request is recorded for assertions.
type MockStackSpotServer struct {
	*httptest.Server
	t *testing.T

	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []recordedRequest
}

type stubResponse struct {
	status int
	body   interface{}
}

// NewMockStackSpotServer creates a stub inference API that answers 200
// with an empty object unless a response was registered.
func NewMockStackSpotServer(t *testing.T) *MockStackSpotServer {
	t.Helper()

	ms := &MockStackSpotServer{
		t:         t,
		responses: make(map[string]stubResponse),
	}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	return ms
}

// Respond registers the response for "METHOD /path".
func (m *MockStackSpotServer) Respond(method, path string, status int, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method+" "+path] = stubResponse{status: status, body: body}
}

// Requests returns a copy of the recorded requests.
func (m *MockStackSpotServer) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	requests := make([]recordedRequest, len(m.requests))
	copy(requests, m.requests)
	return requests
}

// LastRequest returns the most recent recorded request.
func (m *MockStackSpotServer) LastRequest(t *testing.T) recordedRequest {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return m.requests[len(m.requests)-1]
}

func (m *MockStackSpotServer) handle(w http.ResponseWriter, r *http.Request) {
	record := recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	}

	if strings.HasPrefix(record.ContentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			record.FormFields = make(map[string]string)
			for key, values := range r.MultipartForm.Value {
				if len(values) > 0 {
					record.FormFields[key] = values[0]
				}
			}
			record.FileNames = make(map[string]string)
			record.FileContents = make(map[string]string)
			for field, headers := range r.MultipartForm.File {
				if len(headers) == 0 {
					continue
				}
				record.FileNames[field] = headers[0].Filename
				file, err := headers[0].Open()
				if err == nil {
					var sb strings.Builder
					buf := make([]byte, 1024)
					for {
						n, readErr := file.Read(buf)
						sb.Write(buf[:n])
						if readErr != nil {
							break
						}
					}
					file.Close()
					record.FileContents[field] = sb.String()
				}
			}
		}
	} else if r.Body != nil {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			record.JSONBody = body
		}
	}

	m.mu.Lock()
	m.requests = append(m.requests, record)
	stub, ok := m.responses[r.Method+" "+r.URL.Path]
	m.mu.Unlock()

	if !ok {
		stub = stubResponse{status: http.StatusOK, body: map[string]interface{}{}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stub.status)
	if stub.body != nil {
		_ = json.NewEncoder(w).Encode(stub.body)
	}
}

// newTestTokenProvider builds a provider against the mock auth server.
func (e *testEnv) newTestTokenProvider() *TokenProvider {
	return NewTokenProvider(e.Auth.URL, e.Auth.realm, newTestLogger())
}

// newTestAgent builds an agent facade against the mock API server.
func (e *testEnv) newTestAgent(name string) *Agent {
	return NewAgent(AgentConfig{
		Name:        name,
		Description: fmt.Sprintf("test agent %s", name),
		LLM:         NewLLMConfig("openai", "gpt-4o-mini"),
		Prompt:      PromptConfig{Content: "You are a test agent."},
		Client:      NewAPIClient(e.API.URL, newTestLogger()),
		Token:       testToken,
		Logger:      newTestLogger(),
	})
}
