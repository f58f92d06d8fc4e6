package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

// Client is the boundary to the school information portal. The rest of
// the service treats it as a black box returning already-parsed raw
// gradebook records.
type Client interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Gradebook(ctx context.Context, accessToken string, period int) (*Gradebook, error)
}

// Observer receives portal round-trip timings. Implemented by the
// metrics service; nil observers are ignored.
type Observer interface {
	ObservePortalRequest(operation string, success bool, duration time.Duration)
}

// HTTPClient talks to the portal's JSON API.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// Config configures the portal HTTP client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPClient constructs a portal client.
func NewHTTPClient(cfg Config, logger *zap.Logger, observer Observer) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		observer: observer,
	}
}

// Login exchanges portal credentials for a portal session token.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var session Session
	err := c.do(ctx, "login", http.MethodPost, "/api/v1/login", nil, creds, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Gradebook fetches the raw gradebook for the given reporting period.
// A negative period requests the portal's current period.
func (c *HTTPClient) Gradebook(ctx context.Context, accessToken string, period int) (*Gradebook, error) {
	query := url.Values{}
	if period >= 0 {
		query.Set("reportPeriod", strconv.Itoa(period))
	}
	var gradebook Gradebook
	err := c.do(ctx, "gradebook", http.MethodGet, "/api/v1/gradebook?"+query.Encode(), &accessToken, nil, &gradebook)
	if err != nil {
		return nil, err
	}
	return &gradebook, nil
}

func (c *HTTPClient) do(ctx context.Context, operation, method, path string, token *string, body, dest interface{}) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, token, body, dest)
	if c.observer != nil {
		c.observer.ObservePortalRequest(operation, err == nil, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("portal request failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return err
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, token *string, body, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal portal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build portal request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "portal unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "portal rejected credentials")
	case resp.StatusCode >= 400:
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("portal returned status %d", resp.StatusCode))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed portal response")
	}
	return nil
}
