package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPStore deletes media objects through the media store's HTTP API
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates a store client against the given base URL
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// DeleteObject issues DELETE /objects/{key}. A missing object is treated as
// already deleted.
func (s *HTTPStore) DeleteObject(ctx context.Context, key string) error {
	endpoint := fmt.Sprintf("%s/objects/%s", s.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("media store delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("media store delete returned status %d", resp.StatusCode)
	}
	return nil
}

// HTTPInvalidator asks the cache layer to drop cached copies of a key
type HTTPInvalidator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInvalidator creates an invalidator client against the given base URL
func NewHTTPInvalidator(baseURL string) *HTTPInvalidator {
	return &HTTPInvalidator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Invalidate issues POST /invalidate/{key}
func (i *HTTPInvalidator) Invalidate(ctx context.Context, key string) error {
	endpoint := fmt.Sprintf("%s/invalidate/%s", i.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build invalidation request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("media cache invalidation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("media cache invalidation returned status %d", resp.StatusCode)
	}
	return nil
}
