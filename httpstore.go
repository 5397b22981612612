package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStore is a Store backed by the built-in shared-state server. Each
// Get and Set is a single request; latency and availability are whatever
// the network provides, which is exactly what the rest of the code
// assumes about the store.
type HTTPStore struct {
	base   string
	client *http.Client
}

func NewHTTPStore(base string) *HTTPStore {
	return &HTTPStore{
		base: strings.TrimSuffix(base, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPStore) keyURL(key string) string {
	return s.base + "/kv/" + url.PathEscape(key)
}

func (s *HTTPStore) Get(ctx context.Context, key string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return "", false, fmt.Errorf("store get %s: %w", key, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("store get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", false, fmt.Errorf("store get %s: %w", key, err)
		}

		return string(body), true, nil
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("store get %s: unexpected status %d", key, resp.StatusCode)
	}
}

func (s *HTTPStore) Set(ctx context.Context, key, value string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), strings.NewReader(value))
	if err != nil {
		return fmt.Errorf("store set %s: %w", key, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("store set %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("store set %s: unexpected status %d", key, resp.StatusCode)
	}

	return nil
}
