package client

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

	"github.com/jayjaytrn/grocemate/internal/localcache"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"go.uber.org/zap"
)

const (
	healthTimeout  = 3 * time.Second
	profileTimeout = 5 * time.Second

	networkErrorMessage = "Network error. Please check your connection."
)

// APIError is returned for failed calls. Status is zero when the server
// could not be reached.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}{true, e.Message})
}

// IsOffline reports whether err means the server was unreachable.
func IsOffline(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// Client talks to the GroceMate API and falls back to device storage
// when the server is unreachable.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Orders   *localcache.OrderCache
	Cart     *localcache.Cart
	Session  *localcache.Session
	Checkout *orders.Checkout
	Logger   *zap.SugaredLogger
}

func New(baseURL string, storage localcache.Storage, logger *zap.SugaredLogger) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{},
		Orders:   localcache.NewOrderCache(storage, logger),
		Cart:     localcache.NewCart(storage, logger),
		Session:  localcache.NewSession(storage),
		Checkout: orders.NewCheckout(orders.DefaultPricing()),
		Logger:   logger,
	}
}

// Health reports whether the API answers within three seconds.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.BaseURL+"/api/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Debugw("health check failed", "error", err)
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, _ := c.Session.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Message: networkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
