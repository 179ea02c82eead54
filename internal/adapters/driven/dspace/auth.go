package dspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AuthBackend = (*Client)(nil)

const (
	loginPath        = "/api/authn/login"
	logoutPath       = "/api/authn/logout"
	statusPath       = "/api/authn/status"
	registrationPath = "/api/eperson/registrations"
)

// Login posts the credentials as a form and returns the issued bearer token
func (c *Client) Login(ctx context.Context, creds domain.Credentials, csrfToken string) (*driven.LoginResult, error) {
	form := url.Values{
		"user":     {creds.Email},
		"password": {creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setCSRF(req, csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if err := rejection(resp); err != nil {
		return nil, err
	}

	token := resp.Header.Get(headerAuthorization)
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &driven.LoginResult{
		BearerToken: token,
		CSRFToken:   resp.Header.Get(headerCSRFResponse),
	}, nil
}

type statusResponse struct {
	Authenticated bool `json:"authenticated"`
	Embedded      struct {
		EPerson *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"eperson"`
	} `json:"_embedded"`
}

// Status returns the EPerson behind a bearer token
func (c *Client) Status(ctx context.Context, bearerToken string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath+"?embed=eperson", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerAuthorization, bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("status request failed: %w", readError(resp))
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	if !body.Authenticated {
		return nil, domain.ErrUnauthorized
	}

	user := &domain.User{}
	if p := body.Embedded.EPerson; p != nil {
		user.ID = p.ID
		user.Email = p.Email
		user.Name = p.Name
	}
	return user, nil
}

// Logout invalidates the bearer token
func (c *Client) Logout(ctx context.Context, bearerToken, csrfToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+logoutPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(headerAuthorization, bearerToken)
	setCSRF(req, csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	return rejection(resp)
}

// Register asks the repository to send an account activation email.
// The first attempt carries accountRequestType=register.
func (c *Client) Register(ctx context.Context, r domain.RegistrationRequest, csrfToken string, retry bool) error {
	body, err := json.Marshal(map[string]string{"email": r.Email})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + registrationPath
	if !retry {
		endpoint += "?accountRequestType=register"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	setCSRF(req, csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if err := rejection(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected registration status: %s", resp.Status)
	}
	return nil
}

// rejection maps a failed auth response to a domain error. 401 always means
// bad credentials; any other failure carrying a fresh CSRF token is retryable.
func rejection(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrInvalidCredentials
	}
	if token := resp.Header.Get(headerCSRFResponse); token != "" {
		return &domain.CSRFError{Token: token, StatusCode: resp.StatusCode}
	}
	return fmt.Errorf("request failed: %w", readError(resp))
}
