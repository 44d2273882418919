package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is the narrow interface the engine consumes from the catalog. The
// engine never sees the catalog's transport or session mechanics.
type Client interface {
	// Upsert creates or updates one record of the given kind and returns its
	// reference. Field-level rejections surface as an error.
	Upsert(ctx context.Context, kind string, input interface{}) (*Reference, error)
	// SubmitBatch uploads one batch of discovered assets. The result is
	// either inline or an async handle.
	SubmitBatch(ctx context.Context, input *UploadInput) (*BatchResult, error)
	// AwaitAsyncResult polls the async handle until completion or timeout
	// and downloads the final payload.
	AwaitAsyncResult(ctx context.Context, q *AsyncQuery, timeout time.Duration) (*AsyncResult, error)
	// LookupReference finds an existing record by natural key, returning nil
	// when the catalog has none.
	LookupReference(ctx context.Context, kind, key string) (*Reference, error)
}

// httpClient implements Client against the catalog's REST API.
type httpClient struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a catalog client.
func NewClient(cfg Config, log *zap.Logger) Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &httpClient{
		cfg:  cfg,
		http: &http.Client{Transport: transport},
		log:  log,
	}
}

func (c *httpClient) Upsert(ctx context.Context, kind string, input interface{}) (*Reference, error) {
	var out struct {
		Reference
		Errors []FieldError `json:"errors"`
	}
	path := fmt.Sprintf("/%s/upsert/%s", c.cfg.Account, kind)
	if err := c.post(ctx, "upsert "+kind, path, input, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("upsert %s rejected: %s", kind, flattenFieldErrors(out.Errors))
	}
	return &out.Reference, nil
}

func (c *httpClient) SubmitBatch(ctx context.Context, input *UploadInput) (*BatchResult, error) {
	var out BatchResult
	path := fmt.Sprintf("/%s/discovery/batch", c.cfg.Account)
	if err := c.post(ctx, "discovered CIs", path, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) AwaitAsyncResult(ctx context.Context, q *AsyncQuery, timeout time.Duration) (*AsyncResult, error) {
	deadline := time.Now().Add(timeout)
	interval := time.Duration(c.cfg.AsyncPollSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for {
		var status struct {
			Progress int          `json:"progress"`
			Result   *AsyncResult `json:"result"`
		}
		if err := c.getJSON(ctx, "async result "+q.ID, q.ResultURL, &status); err != nil {
			return nil, err
		}
		if status.Progress >= 100 {
			if status.Result == nil {
				return &AsyncResult{}, nil
			}
			return status.Result, nil
		}

		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("async query %s: %w", q.ID, ErrPollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (c *httpClient) LookupReference(ctx context.Context, kind, key string) (*Reference, error) {
	query := url.Values{}
	query.Set("key", key)
	target := fmt.Sprintf("%s/%s/references/%s?%s", c.cfg.URL, c.cfg.Account, kind, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference lookup: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reference lookup %s failed: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus(resp, "reference lookup "+kind); err != nil {
		return nil, err
	}

	var ref Reference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("reference lookup %s: %w", kind, err)
	}
	if ref.ID == "" {
		return nil, nil
	}
	return &ref, nil
}

func (c *httpClient) post(ctx context.Context, op, path string, input, out interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("%s: failed to encode input: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, op); err != nil {
		return err
	}
	return decodeBody(resp.Body, op, out)
}

// getJSON fetches an absolute URL (async result URLs are absolute).
func (c *httpClient) getJSON(ctx context.Context, op, target string, out interface{}) error {
	if !strings.HasPrefix(target, "http") {
		target = c.cfg.URL + target
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, op); err != nil {
		return err
	}
	return decodeBody(resp.Body, op, out)
}

func (c *httpClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("X-Account", c.cfg.Account)
}

func (c *httpClient) checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthorizationError{Message: fmt.Sprintf("%s: %s", op, resp.Status)}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}
	return nil
}

func decodeBody(r io.Reader, op string, out interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func flattenFieldErrors(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// String renders a field error the way the sync result records it.
func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
