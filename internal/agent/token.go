package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenProvider exchanges client credentials for a bearer token using the
// OAuth client-credentials grant against a realm-scoped token endpoint
// ({auth_base}/{realm}/oidc/oauth/token).
//
// The provider does not cache tokens and does not track expiry; callers
// that want reuse must hold on to the returned token and re-acquire a
// fresh one when the platform rejects it.
type TokenProvider struct {
	authURL    string
	realm      string
	httpClient *http.Client
	logger     *Logger
}

// NewTokenProvider creates a token provider for the given identity
// service base URL and account realm.
func NewTokenProvider(authURL, realm string, logger *Logger) *TokenProvider {
	return &TokenProvider{
		authURL:    authURL,
		realm:      realm,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Timeouts and any
// transport policy belong to the caller; the provider imposes none itself.
func (p *TokenProvider) SetHTTPClient(client *http.Client) {
	p.httpClient = client
}

// TokenURL returns the realm-scoped token endpoint, or a
// ConfigurationError when the realm is not set.
func (p *TokenProvider) TokenURL() (string, error) {
	if p.realm == "" {
		return "", &ConfigurationError{Missing: []string{"realm"}}
	}
	return BuildURL(p.authURL, nil, p.realm, tokenPathOIDC, tokenPathOAuth, tokenPathToken), nil
}

// Token performs one client-credentials exchange and returns the access
// token string. Any non-2xx response, transport failure or a success
// response lacking a non-empty access_token yields an
// AuthenticationError wrapping the underlying cause. No retry is
// attempted here.
func (p *TokenProvider) Token(ctx context.Context, clientID, clientSecret string) (string, error) {
	tokenURL, err := p.TokenURL()
	if err != nil {
		p.logger.Error("Cannot build token URL: %v", err)
		return "", err
	}

	p.logger.Debug("Requesting OAuth token from %s", tokenURL)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthenticationError{Detail: "failed to create token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("Token request failed: %v", err)
		return "", &AuthenticationError{Detail: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthenticationError{Detail: "failed to read token response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Error("Token endpoint returned status %d", resp.StatusCode)
		return "", &AuthenticationError{
			Detail: "token endpoint returned an error",
			Err: &APIRequestError{
				Method:     http.MethodPost,
				URL:        tokenURL,
				StatusCode: resp.StatusCode,
				Body:       string(body),
			},
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &AuthenticationError{Detail: "malformed token response", Err: err}
	}
	if payload.AccessToken == "" {
		return "", &AuthenticationError{Detail: "token response did not contain access_token"}
	}

	p.logger.Debug("OAuth token acquired")
	return payload.AccessToken, nil
}
