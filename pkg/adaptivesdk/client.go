package adaptivesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the adaptive service. A Client with a Token set sends it as
// a bearer credential on every request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient creates an unauthenticated client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginSession logs in and returns a client carrying the issued token.
func (c *Client) LoginSession(ctx context.Context, email, password, otp string) (*Client, error) {
	tok, err := c.Login(ctx, LoginRequest{Email: email, Password: password, OTP: otp})
	if err != nil {
		return nil, err
	}
	return c.WithToken(tok.Token), nil
}

// Register creates a student account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*CreatedResponse, error) {
	var out CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first administrator.
func (c *Client) Bootstrap(ctx context.Context, bootstrapToken string, req RegisterRequest) (*CreatedResponse, error) {
	var out CreatedResponse
	headers := map[string]string{BootstrapTokenHeader: bootstrapToken}
	if err := c.do(ctx, http.MethodPost, "/bootstrap", req, headers, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the caller's identity.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePrincipal creates a principal with any role. Admin only.
func (c *Client) CreatePrincipal(ctx context.Context, req CreatePrincipalRequest) (*PrincipalCreatedResponse, error) {
	var out PrincipalCreatedResponse
	if err := c.do(ctx, http.MethodPost, "/principals", req, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivatePrincipal disables a principal. Admin only.
func (c *Client) DeactivatePrincipal(ctx context.Context, principalID string) error {
	return c.do(ctx, http.MethodPost, "/principals/"+url.PathEscape(principalID)+"/deactivate", nil, nil, http.StatusNoContent, nil)
}

// StartSession opens a learning session for the caller.
func (c *Client) StartSession(ctx context.Context, lessonID string) (*CreatedResponse, error) {
	var out CreatedResponse
	req := StartSessionRequest{LessonID: lessonID}
	if err := c.do(ctx, http.MethodPost, "/sessions", req, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSession marks a session ended. Ending twice is not an error.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/end", nil, nil, http.StatusNoContent, nil)
}

// RecordEmotion appends one sample and returns its id.
func (c *Client) RecordEmotion(ctx context.Context, sessionID string, req RecordEmotionRequest) (*CreatedResponse, error) {
	var out CreatedResponse
	path := "/sessions/" + url.PathEscape(sessionID) + "/emotion"
	if err := c.do(ctx, http.MethodPost, path, req, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns statistics over the last windowSeconds. A nil window uses the
// server default.
func (c *Client) Stats(ctx context.Context, sessionID string, windowSeconds *int) (*SessionStats, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/stats"
	if windowSeconds != nil {
		path += "?windowSeconds=" + strconv.Itoa(*windowSeconds)
	}

	var out SessionStats
	if err := c.do(ctx, http.MethodGet, path, nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Liveness checks if the service is alive.
func (c *Client) Liveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readiness checks if the service is ready.
func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body as JSON (when non-nil) and decodes a response with the
// expected status into out (when non-nil).
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
	expectedStatus int,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
