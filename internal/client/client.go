package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/novashell/internal/domain/monitor"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// DefaultBaseURL is where a local server listens
const DefaultBaseURL = "http://localhost:8000"

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to the NovaShell REST API
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	baseURL string
}

// Config configures a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
	// Breaker opens after this many consecutive server failures
	Threshold uint32
	Cooldown  time.Duration
}

// DefaultConfig returns the configuration used by novactl
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		MinWait:    200 * time.Millisecond,
		MaxWait:    2 * time.Second,
		Threshold:  5,
		Cooldown:   5 * time.Second,
	}
}

// New creates a client. Retries happen in the retryablehttp transport; the
// breaker sees one outcome per logical call.
func New(cfg Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.MinWait
	retryClient.RetryWaitMax = cfg.MaxWait
	retryClient.Logger = nil // Disable logging
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	base := strings.TrimRight(cfg.BaseURL, "/")
	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "novactl/1.0").
		SetHeader("Accept", "application/json")

	breaker := resilience.New("novashell", resilience.Settings{
		Threshold: cfg.Threshold,
		Cooldown:  cfg.Cooldown,
		IsFailure: isServerFailure,
	})

	return &Client{
		resty:   restyClient,
		breaker: breaker,
		baseURL: base,
	}
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState reports whether calls currently reach the server
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// isServerFailure counts transport errors and 5xx answers against the
// breaker; 4xx means the server is up and said no
func isServerFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return true
}

// call issues one request and decodes a 2xx body into out
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	return resilience.Do(c.breaker, func() (T, error) {
		var out T
		apiErr := &APIError{}

		req := c.resty.R().
			SetContext(ctx).
			SetResult(&out).
			SetError(apiErr)
		if body != nil {
			req.SetBody(body)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return out, fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.IsError() {
			apiErr.Status = resp.StatusCode()
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode())
			}
			return out, apiErr
		}
		return out, nil
	})
}

// ShellResult carries the shell state returned by navigation calls
type ShellResult struct {
	Shell types.ShellState `json:"shell"`
}

// NotifyResult is the answer to a notification submission
type NotifyResult struct {
	Notification types.Notification `json:"notification"`
	Duplicate    bool               `json:"duplicate"`
}

// AppsResult lists the catalog together with the shell state
type AppsResult struct {
	Apps  []types.AppDefinition `json:"apps"`
	Shell types.ShellState      `json:"shell"`
}

// MonitorResult carries telemetry statistics
type MonitorResult struct {
	Summary monitor.Summary  `json:"summary"`
	History []monitor.Sample `json:"history,omitempty"`
}

// State fetches the current device snapshot
func (c *Client) State(ctx context.Context) (types.Snapshot, error) {
	return call[types.Snapshot](ctx, c, http.MethodGet, "/state", nil)
}

// SetToggle flips a device flag and returns the resulting snapshot
func (c *Client) SetToggle(ctx context.Context, name types.Toggle, enabled bool) (types.Snapshot, error) {
	return call[types.Snapshot](ctx, c, http.MethodPut, "/state/toggles/"+string(name),
		types.ToggleRequest{Enabled: &enabled})
}

// Notifications lists live notifications
func (c *Client) Notifications(ctx context.Context) ([]types.Notification, error) {
	res, err := call[struct {
		Notifications []types.Notification `json:"notifications"`
	}](ctx, c, http.MethodGet, "/notifications", nil)
	return res.Notifications, err
}

// Notify submits a notification
func (c *Client) Notify(ctx context.Context, title, message string, kind types.NotificationKind) (NotifyResult, error) {
	return call[NotifyResult](ctx, c, http.MethodPost, "/notifications", types.NotificationRequest{
		Title:   title,
		Message: message,
		Kind:    kind,
	})
}

// Dismiss removes a notification
func (c *Client) Dismiss(ctx context.Context, id string) error {
	_, err := call[map[string]any](ctx, c, http.MethodDelete, "/notifications/"+id, nil)
	return err
}

// Apps lists the catalog, filtered by query when it is not empty
func (c *Client) Apps(ctx context.Context, query string) (AppsResult, error) {
	path := "/apps"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	return call[AppsResult](ctx, c, http.MethodGet, path, nil)
}

// Launch foregrounds an app
func (c *Client) Launch(ctx context.Context, id types.AppID) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/apps/"+string(id)+"/launch", nil)
}

// CloseApp stops a running app
func (c *Client) CloseApp(ctx context.Context, id types.AppID) (types.ShellState, error) {
	return c.shell(ctx, http.MethodDelete, "/apps/"+string(id), nil)
}

// Home shows the home screen
func (c *Client) Home(ctx context.Context) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/shell/home", nil)
}

// Back closes the switcher or goes home
func (c *Client) Back(ctx context.Context) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/shell/back", nil)
}

// Switcher toggles the app switcher
func (c *Client) Switcher(ctx context.Context) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/shell/switcher", nil)
}

// Lock returns to the lock screen
func (c *Client) Lock(ctx context.Context) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/shell/lock", nil)
}

// Unlock leaves the lock screen
func (c *Client) Unlock(ctx context.Context, pin string) (types.ShellState, error) {
	return c.shell(ctx, http.MethodPost, "/shell/unlock", types.UnlockRequest{PIN: pin})
}

func (c *Client) shell(ctx context.Context, method, path string, body any) (types.ShellState, error) {
	res, err := call[ShellResult](ctx, c, method, path, body)
	return res.Shell, err
}

// Monitor fetches telemetry statistics
func (c *Client) Monitor(ctx context.Context, history bool) (MonitorResult, error) {
	path := "/monitor"
	if history {
		path += "?history=true"
	}
	return call[MonitorResult](ctx, c, http.MethodGet, path, nil)
}
