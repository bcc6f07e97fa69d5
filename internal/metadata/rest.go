package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RestStoreConfig holds configuration for the REST metadata client.
type RestStoreConfig struct {
	// URI is the base URL of the warehouse metadata API.
	// Example: "http://metadata.strata.svc:7070"
	URI string

	// Token is an optional bearer token for authentication.
	Token string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client is used.
	HTTPClient *http.Client

	// RequestTimeout is the timeout for individual HTTP requests.
	// If zero, defaults to 30 seconds.
	RequestTimeout time.Duration
}

// RestStore implements the Store interface against the warehouse
// metadata admin API.
type RestStore struct {
	config     RestStoreConfig
	httpClient *http.Client
	baseURL    string
}

// NewRestStore creates a new REST metadata client.
func NewRestStore(config RestStoreConfig) (*RestStore, error) {
	if config.URI == "" {
		return nil, errors.New("metadata: API URI is required")
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
		client.Timeout = 30 * time.Second
	}

	return &RestStore{
		config:     config,
		httpClient: client,
		baseURL:    baseURL,
	}, nil
}

// get executes a GET request and decodes the JSON response into result.
func (s *RestStore) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("metadata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("metadata: %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("metadata: decode %s response: %w", path, err)
	}
	return nil
}

// ListJobs returns all jobs known to the metadata API.
func (s *RestStore) ListJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := s.get(ctx, "/api/v1/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListCubes returns all cube instances with their segments.
func (s *RestStore) ListCubes(ctx context.Context) ([]CubeInstance, error) {
	var cubes []CubeInstance
	if err := s.get(ctx, "/api/v1/cubes", &cubes); err != nil {
		return nil, err
	}
	return cubes, nil
}
