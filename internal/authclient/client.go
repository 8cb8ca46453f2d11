// Package authclient implements the auth service collaborator: an HTTP
// client for the real backend and an in-memory mock mirroring the backend's
// development fixtures. Both satisfy session.Service.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/novelpress/novelpress/internal/session"
)

// Client talks to the upstream auth API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginPayload struct {
	Token    string           `json:"token"`
	UserInfo *session.Profile `json:"userInfo"`
}

// EmailLogin exchanges email credentials for a token.
func (c *Client) EmailLogin(ctx context.Context, email, password string) (session.LoginResult, error) {
	var payload loginPayload
	err := c.call(ctx, http.MethodPost, "/auth/email-login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return session.LoginResult{}, err
	}
	return session.LoginResult{Token: payload.Token, User: payload.UserInfo}, nil
}

// PhoneLogin exchanges a phone number and verification code for a token.
func (c *Client) PhoneLogin(ctx context.Context, phone, code string) (session.LoginResult, error) {
	var payload loginPayload
	err := c.call(ctx, http.MethodPost, "/auth/phone-login", "", map[string]string{
		"phone": phone,
		"code":  code,
	}, &payload)
	if err != nil {
		return session.LoginResult{}, err
	}
	return session.LoginResult{Token: payload.Token, User: payload.UserInfo}, nil
}

// Register creates an account. Success does not log in.
func (c *Client) Register(ctx context.Context, reg session.Registration) error {
	return c.call(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"username": reg.Username,
		"email":    reg.Email,
		"password": reg.Password,
	}, nil)
}

// UserInfo fetches the profile for the bearer token.
func (c *Client) UserInfo(ctx context.Context, token string) (session.Profile, error) {
	var profile session.Profile
	if err := c.call(ctx, http.MethodGet, "/auth/user-info", token, nil, &profile); err != nil {
		return session.Profile{}, err
	}
	return profile, nil
}

// Logout invalidates the token upstream.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *Client) call(ctx context.Context, method, path, token string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &session.AuthError{Kind: session.KindNetwork, Message: "auth service unreachable", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return statusError(resp.StatusCode, path, http.StatusText(resp.StatusCode))
		}
		return &session.AuthError{Kind: session.KindNetwork, Message: "malformed auth response", Err: err}
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, path, env.Message)
	}
	if env.Code != 0 && env.Code != http.StatusOK {
		return statusError(env.Code, path, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &session.AuthError{Kind: session.KindNetwork, Message: "malformed auth payload", Err: err}
		}
	}
	return nil
}

// statusError maps backend statuses onto the session failure taxonomy. A 401
// on a credential exchange is bad credentials; a 401 on an authenticated
// call means the token is no longer accepted.
func statusError(status int, path, message string) *session.AuthError {
	if message == "" {
		message = fmt.Sprintf("auth service returned status %d", status)
	}
	switch status {
	case http.StatusUnauthorized:
		if path == "/auth/email-login" || path == "/auth/phone-login" {
			return session.NewAuthError(session.KindAuthentication, message)
		}
		return session.NewAuthError(session.KindAuthorization, message)
	case http.StatusNotFound:
		return session.NewAuthError(session.KindNotFound, message)
	default:
		return session.NewAuthError(session.KindNetwork, message)
	}
}
