package dspace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Header names used by the repository's CSRF protection
const (
	headerCSRFRequest   = "X-XSRF-TOKEN"
	headerCSRFResponse  = "DSPACE-XSRF-TOKEN"
	headerAuthorization = "Authorization"

	// cookieCSRF is checked by the server against the X-XSRF-TOKEN header
	cookieCSRF = "DSPACE-XSRF-COOKIE"
)

// Client talks to a DSpace-style repository REST API.
// It keeps no cookies; every auth call carries its caller's CSRF token, so
// one Client serves any number of clients.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds repository connection configuration
type Config struct {
	// BaseURL is the server root (e.g., http://localhost:8080/server)
	BaseURL string

	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// NewClient creates a new repository client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// setCSRF sends token both as header and as the cookie the server compares
// it with
func setCSRF(req *http.Request, token string) {
	req.Header.Set(headerCSRFRequest, token)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieCSRF, Value: token})
	}
}

// HealthCheck verifies the repository API root is available
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("repository health check failed: %s", resp.Status)
	}
	return nil
}

// readError drains the body into an error message
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(body) == 0 {
		return fmt.Errorf("%s", resp.Status)
	}
	return fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(body)))
}
