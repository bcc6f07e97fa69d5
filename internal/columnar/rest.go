package columnar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RestClientConfig holds configuration for the REST admin client.
type RestClientConfig struct {
	// URI is the base URL of the columnar store's admin API.
	// Example: "http://columnar-admin.strata.svc:8080"
	URI string

	// Token is an optional bearer token for authentication.
	Token string

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	// RequestTimeout is the timeout for individual HTTP requests. Note
	// that Disable and Drop on large tables can legitimately take minutes;
	// the reconciler bounds them with a per-item context deadline instead.
	// If zero, defaults to 15 minutes.
	RequestTimeout time.Duration
}

// RestClient implements the Client interface against the columnar store's
// HTTP admin API.
type RestClient struct {
	config     RestClientConfig
	httpClient *http.Client
	baseURL    string
}

// NewRestClient creates a new REST admin client.
func NewRestClient(config RestClientConfig) (*RestClient, error) {
	if config.URI == "" {
		return nil, errors.New("columnar: admin API URI is required")
	}

	baseURL := strings.TrimSuffix(config.URI, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if config.RequestTimeout > 0 {
		client.Timeout = config.RequestTimeout
	} else if client.Timeout == 0 {
		client.Timeout = 15 * time.Minute
	}

	return &RestClient{
		config:     config,
		httpClient: client,
		baseURL:    baseURL,
	}, nil
}

// do executes an HTTP request and decodes the JSON response into result
// when result is non-nil.
func (c *RestClient) do(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
	case http.StatusNotFound:
		return ErrTableNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

type tableInfo struct {
	Name     string `json:"name"`
	OwnerTag string `json:"ownerTag"`
	Enabled  bool   `json:"enabled"`
}

func tablePath(name string) string {
	return "/api/v1/tables/" + url.PathEscape(name)
}

// ListTables returns all tables whose name starts with prefix.
func (c *RestClient) ListTables(ctx context.Context, prefix string) ([]Table, error) {
	var infos []tableInfo
	path := "/api/v1/tables?prefix=" + url.QueryEscape(prefix)
	if err := c.do(ctx, http.MethodGet, path, &infos); err != nil {
		return nil, &OpError{Op: "ListTables", Table: prefix + "*", Err: err}
	}

	tables := make([]Table, 0, len(infos))
	for _, info := range infos {
		tables = append(tables, Table{Name: info.Name, OwnerTag: info.OwnerTag})
	}
	return tables, nil
}

// TableExists reports whether the named table exists.
func (c *RestClient) TableExists(ctx context.Context, name string) (bool, error) {
	var info tableInfo
	err := c.do(ctx, http.MethodGet, tablePath(name), &info)
	if errors.Is(err, ErrTableNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &OpError{Op: "TableExists", Table: name, Err: err}
	}
	return true, nil
}

// IsEnabled reports whether the named table is enabled for serving.
func (c *RestClient) IsEnabled(ctx context.Context, name string) (bool, error) {
	var info tableInfo
	if err := c.do(ctx, http.MethodGet, tablePath(name), &info); err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return false, err
		}
		return false, &OpError{Op: "IsEnabled", Table: name, Err: err}
	}
	return info.Enabled, nil
}

// Disable takes the named table out of serving.
func (c *RestClient) Disable(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodPost, tablePath(name)+"/disable", nil); err != nil {
		return &OpError{Op: "Disable", Table: name, Err: err}
	}
	return nil
}

// Drop removes the named table.
func (c *RestClient) Drop(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodDelete, tablePath(name), nil); err != nil {
		return &OpError{Op: "Drop", Table: name, Err: err}
	}
	return nil
}
