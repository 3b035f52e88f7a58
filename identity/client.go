package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Config carries the identity service endpoints. Paths are joined onto
// BaseURL; empty paths fall back to the wire-contract defaults.
type Config struct {
	BaseURL string

	LoginPath          string
	RegisterPath       string
	ForgotPasswordPath string
	ResetPasswordPath  string
	RefreshPath        string
	LogoutPath         string
	ProfilePath        string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.LoginPath == "" {
		out.LoginPath = "/auth/login"
	}
	if out.RegisterPath == "" {
		out.RegisterPath = "/auth/register"
	}
	if out.ForgotPasswordPath == "" {
		out.ForgotPasswordPath = "/auth/forgot-password"
	}
	if out.ResetPasswordPath == "" {
		out.ResetPasswordPath = "/auth/reset-password"
	}
	if out.RefreshPath == "" {
		out.RefreshPath = "/auth/refresh"
	}
	if out.LogoutPath == "" {
		out.LogoutPath = "/auth/logout"
	}
	if out.ProfilePath == "" {
		out.ProfilePath = "/users/me"
	}
	return out
}

// Client talks to the remote identity service.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client. When hc is nil a default client with a
// request timeout is used.
func NewClient(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{cfg: cfg.withDefaults(), http: hc}
}

// Login exchanges credentials for an access token (and, depending on the
// deployment, a client-held refresh token) plus the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResult
	err := c.doJSON(ctx, http.MethodPost, c.cfg.LoginPath, "", body, &out)
	if err != nil {
		var status *StatusError
		if errors.Is(err, ErrUnauthorized) ||
			(errors.As(err, &status) && status.Code == http.StatusBadRequest) {
			return nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates a console account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	var out LoginResult
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.RegisterPath, "", req, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// ForgotPassword requests a password-recovery challenge for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.ForgotPasswordPath, "", body, nil); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// ResetPassword completes a password-recovery challenge.
func (c *Client) ResetPassword(ctx context.Context, password, resetToken string) error {
	body := map[string]string{"password": password, "token": resetToken}
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.ResetPasswordPath, "", body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Refresh mints a new access token from refreshToken. Any non-2xx response
// is a renewal failure; the caller clears the session in response.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}

	var out TokenPair
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.RefreshPath, "", body, &out); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("refresh: %w", &StatusError{Code: http.StatusOK, Body: "empty accessToken"})
	}
	return &out, nil
}

// Logout invalidates the server-side session for refreshToken. Callers
// treat failures as best-effort: local state is cleared regardless.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.LogoutPath, "", body, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GetMe fetches the profile record for the bearer of token. The token is an
// explicit parameter: this call runs outside the pipeline, during bootstrap,
// before the store is necessarily settled.
func (c *Client) GetMe(ctx context.Context, token string) (*UserRecord, error) {
	var out UserRecord
	if err := c.doJSON(ctx, http.MethodGet, c.cfg.ProfilePath, token, nil, &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
