package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tokenCache caches the bearer token for the discovery source. In
// client_credentials mode it tracks the expiry returned by the exchange and
// refreshes lazily; in static_token mode the pre-issued token is returned
// as-is. Concurrent refreshes are collapsed into one exchange.
type tokenCache struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
	sf     singleflight.Group
}

func newTokenCache(cfg Config, client *http.Client) *tokenCache {
	return &tokenCache{cfg: cfg, http: client}
}

// Token returns a valid bearer token, exchanging credentials when the cached
// one is absent or expired. A 401 or 404 from the exchange is a terminal
// AuthorizationError; transient failures surface as APIError.
func (t *tokenCache) Token(ctx context.Context) (string, error) {
	if t.cfg.CredentialMode == CredentialStatic {
		return t.cfg.ClientSecret, nil
	}

	t.mu.Lock()
	if t.token != "" && time.Now().Before(t.expiry) {
		token := t.token
		t.mu.Unlock()
		return token, nil
	}
	t.mu.Unlock()

	v, err, _ := t.sf.Do("exchange", func() (interface{}, error) {
		// Re-check after winning the flight: another caller may have
		// refreshed between our check and this closure running.
		t.mu.Lock()
		if t.token != "" && time.Now().Before(t.expiry) {
			token := t.token
			t.mu.Unlock()
			return token, nil
		}
		t.mu.Unlock()
		return t.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next Token call re-exchanges.
func (t *tokenCache) Invalidate() {
	t.mu.Lock()
	t.token = ""
	t.expiry = time.Time{}
	t.mu.Unlock()
}

func (t *tokenCache) exchange(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.cfg.ClientID)
	form.Set("client_secret", t.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.cfg.URL+"/account/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		return "", &APIError{Op: "access token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return "", &AuthorizationError{
			Message: fmt.Sprintf("credentials rejected: %s", resp.Status),
		}
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{Op: "access token", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Op: "access token", Err: err}
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", &APIError{Op: "access token", Err: err}
	}
	if grant.AccessToken == "" {
		return "", &APIError{Op: "access token", Err: fmt.Errorf("no access_token in response")}
	}

	t.mu.Lock()
	t.token = grant.AccessToken
	t.expiry = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	t.mu.Unlock()

	return grant.AccessToken, nil
}
