package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
)

const (
	adminPathPrefix             = "auth/v1"
	responseBodyReadLimit int64 = 4096
	defaultTimeout              = 10 * time.Second
)

var (
	errBaseURLRequired    = errors.New("auth provider url is required")
	errServiceKeyRequired = errors.New("auth provider service role key is required")

	// ErrEmailExists is returned when the provider already has an identity for the email.
	ErrEmailExists = errors.New("email already registered")
	// ErrUserNotFound is returned when the identity does not exist at the provider.
	ErrUserNotFound = errors.New("auth user not found")
)

// Client calls the hosted auth provider's admin API with the service-role key.
// The key grants full access and must never leave the server.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	serviceRoleKey string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the admin client for the provider at baseURL.
func NewClient(baseURL, serviceRoleKey string, opts ...Option) (*Client, error) {
	trimmedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedURL == "" {
		return nil, errBaseURLRequired
	}
	trimmedKey := strings.TrimSpace(serviceRoleKey)
	if trimmedKey == "" {
		return nil, errServiceKeyRequired
	}

	client := &Client{
		baseURL:        trimmedURL,
		serviceRoleKey: trimmedKey,
		httpClient:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// User is the identity record returned by the provider.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	InvitedAt    *time.Time     `json:"invited_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// InviteParams describes an email invitation. Data lands in user metadata.
type InviteParams struct {
	Email      string
	Data       map[string]any
	RedirectTo string
}

// CreateUserParams describes a user created with a password chosen by an admin.
type CreateUserParams struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
}

// InviteUser sends an invitation email and returns the pending identity.
func (c *Client) InviteUser(ctx context.Context, params InviteParams) (*User, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth provider client not configured")
	}
	if strings.TrimSpace(params.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	endpoint := c.buildURL("invite")
	if params.RedirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(params.RedirectTo)
	}
	body := map[string]any{"email": params.Email}
	if len(params.Data) > 0 {
		body["data"] = params.Data
	}

	var user User
	if err := c.do(ctx, http.MethodPost, endpoint, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a confirmed identity with a password.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth provider client not configured")
	}
	if strings.TrimSpace(params.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if params.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	var user User
	if err := c.do(ctx, http.MethodPost, c.buildURL("admin/users"), params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAppMetadata replaces the provider-managed metadata of an identity.
func (c *Client) UpdateAppMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) (*User, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth provider client not configured")
	}
	body := map[string]any{"app_metadata": metadata}
	var user User
	if err := c.do(ctx, http.MethodPut, c.buildURL("admin/users/"+id.String()), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an identity. A missing identity yields ErrUserNotFound.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "auth provider client not configured")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return c.do(ctx, http.MethodDelete, c.buildURL("admin/users/"+id.String()), nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal auth provider request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build auth provider request")
	}
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Backend(err, "auth provider unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return mapErrorResponse(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Backend(err, "decode auth provider response")
	}
	return nil
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	Status    int
	ErrorCode string
	Message   string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("auth provider status %d (%s): %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("auth provider status %d: %s", e.Status, e.Message)
}

func mapErrorResponse(status int, raw []byte) error {
	apiErr := parseAPIError(status, raw)

	switch {
	case isEmailExists(apiErr):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, fmt.Errorf("%w: %s", ErrEmailExists, apiErr.Message), ErrEmailExists.Error())
	case status == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, fmt.Errorf("%w: %s", ErrUserNotFound, apiErr.Message), ErrUserNotFound.Error())
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, apiErr, apiErr.Message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.Backend(apiErr, "auth provider rejected the service credentials")
	case status == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, apiErr, apiErr.Message)
	default:
		return pkgerrors.Backend(apiErr, "auth provider request failed")
	}
}

// parseAPIError understands both the current {code,error_code,msg} body and the
// older {error,error_description} body.
func parseAPIError(status int, raw []byte) *APIError {
	var body struct {
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.ErrorCode = body.ErrorCode
	for _, candidate := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if strings.TrimSpace(candidate) != "" {
			apiErr.Message = strings.TrimSpace(candidate)
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func isEmailExists(apiErr *APIError) bool {
	switch apiErr.ErrorCode {
	case "email_exists", "user_already_exists":
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "already been registered") || strings.Contains(msg, "already registered")
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, adminPathPrefix, strings.TrimLeft(path, "/"))
}
