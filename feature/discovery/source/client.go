package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client talks to the discovery source's export API. Listings that the
// source returns in full (sites, types, software) are fetched in one call;
// assets are traversed through the cursor-paginated fetcher.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *tokenCache
	log    *zap.Logger

	mu    sync.Mutex
	sites []Site
	orgID string
}

// NewClient creates a discovery source client.
func NewClient(cfg Config, log *zap.Logger) *Client {
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

	httpClient := &http.Client{Transport: transport}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		tokens: newTokenCache(cfg, httpClient),
		log:    log,
	}
}

// Sites returns all sites visible to the credentials. The listing is cached
// for the lifetime of the client (one sync run). An empty listing on a
// privileged endpoint means the credentials lack access and is treated as a
// terminal authorization failure.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	c.mu.Lock()
	if c.sites != nil {
		sites := c.sites
		c.mu.Unlock()
		return sites, nil
	}
	c.mu.Unlock()

	var sites []Site
	if err := c.get(ctx, "sites", "/export/org/sites.json", nil, &sites); err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, &AuthorizationError{Message: "no sites returned in response"}
	}

	c.mu.Lock()
	c.sites = sites
	c.mu.Unlock()
	return sites, nil
}

// AssetTypes returns the source's reported asset type vocabulary.
func (c *Client) AssetTypes(ctx context.Context) ([]string, error) {
	var out struct {
		Types []string `json:"types"`
	}
	if err := c.get(ctx, "asset types", "/export/org/types.json", nil, &out); err != nil {
		return nil, err
	}
	return out.Types, nil
}

// Software returns the full software inventory, optionally narrowed to the
// given asset types. The collection is returned whole by the source; callers
// chunk it for submission.
func (c *Client) Software(ctx context.Context, types []string) ([]SoftwareRecord, error) {
	query := url.Values{}
	if len(types) > 0 {
		query.Set("types", strings.Join(types, ","))
	}
	c.scopeToOrg(ctx, query)

	var records []SoftwareRecord
	if err := c.get(ctx, "software inventory", "/export/org/software.json", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// assetPage fetches one page of the asset listing. An empty cursor requests
// the first page.
func (c *Client) assetPage(ctx context.Context, filter AssetFilter, cursor string) (*Page, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.pageSize()))
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if len(filter.Types) > 0 {
		query.Set("types", strings.Join(filter.Types, ","))
	}
	if !filter.LastSeenAfter.IsZero() {
		query.Set("since", filter.LastSeenAfter.UTC().Format(time.RFC3339))
	}
	c.scopeToOrg(ctx, query)

	var envelope struct {
		Items      []RawAsset `json:"items"`
		Total      int        `json:"total"`
		Pagination struct {
			Next string `json:"next"`
		} `json:"pagination"`
	}
	if err := c.get(ctx, "asset page", "/export/org/assets.json", query, &envelope); err != nil {
		return nil, err
	}
	return &Page{Items: envelope.Items, Total: envelope.Total, Next: envelope.Pagination.Next}, nil
}

// scopeToOrg adds the organization scope when it can be resolved. Failure to
// resolve is logged and the listing proceeds unscoped.
func (c *Client) scopeToOrg(ctx context.Context, query url.Values) {
	orgID, err := c.OrgID(ctx)
	if err != nil {
		c.log.Warn("unable to resolve organization, proceeding unscoped", zap.Error(err))
		return
	}
	if orgID != "" {
		query.Set("_oid", orgID)
	}
}

// OrgID resolves and caches the organization id. In static_token mode the id
// comes from the site listing; otherwise it is searched by name.
func (c *Client) OrgID(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.orgID != "" {
		id := c.orgID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var id string
	if c.cfg.CredentialMode == CredentialStatic {
		sites, err := c.Sites(ctx)
		if err != nil {
			return "", err
		}
		id = sites[0].OrganizationID
	} else {
		if c.cfg.OrgName == "" {
			return "", nil
		}
		query := url.Values{}
		query.Set("search", c.cfg.OrgName)
		var orgs []struct {
			ID string `json:"id"`
		}
		if err := c.get(ctx, "organizations", "/account/orgs", query, &orgs); err != nil {
			return "", err
		}
		if len(orgs) == 0 {
			return "", &APIError{Op: "organizations", Err: fmt.Errorf("no organization named %q", c.cfg.OrgName)}
		}
		id = orgs[0].ID
	}

	c.mu.Lock()
	c.orgID = id
	c.mu.Unlock()
	return id, nil
}

func (c *Client) pageSize() int {
	if c.cfg.PageSize <= 0 {
		return 100
	}
	return c.cfg.PageSize
}

// get performs an authenticated GET and decodes the JSON response. A 401 on
// the API forces one token refresh and retry; a second rejection is terminal.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	resp, err := c.do(ctx, op, path, query)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.tokens.Invalidate()
		resp, err = c.do(ctx, op, path, query)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return &AuthorizationError{Message: fmt.Sprintf("token rejected while querying %s", op)}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, path string, query url.Values) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	target := c.cfg.URL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	return resp, nil
}
