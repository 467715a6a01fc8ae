// Package entitystore is the HTTP client for the remote entity-storage
// service that owns all of the console's record collections. The service
// exposes generic list/filter/create/update operations over opaque typed
// collections; this client adds shape normalization and nothing else.
package entitystore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davidepagano/storeops-backend/pkg/config"
)

const maxErrorBodyBytes = 512

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// ListOptions bound and order a List call.
type ListOptions struct {
	// Sort is a field name, prefixed with "-" for descending.
	Sort  string
	Limit int
}

// NewClient builds an entity-store client from config.
func NewClient(cfg config.EntityStoreConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("entity store base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// List fetches up to opts.Limit records from a collection.
func (c *Client) List(ctx context.Context, collection string, opts ListOptions) ([]json.RawMessage, error) {
	query := url.Values{}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	endpoint := c.collectionURL(collection)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	records, err := NormalizeRecordList(body)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return records, nil
}

// Filter fetches the records matching all criteria fields.
func (c *Client) Filter(ctx context.Context, collection string, criteria map[string]any) ([]json.RawMessage, error) {
	payload, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("filter %s: encode criteria: %w", collection, err)
	}
	body, err := c.do(ctx, http.MethodPost, c.collectionURL(collection)+"/query", payload)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", collection, err)
	}
	records, err := NormalizeRecordList(body)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", collection, err)
	}
	return records, nil
}

// Create inserts a new record into a collection.
func (c *Client) Create(ctx context.Context, collection string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("create %s: encode record: %w", collection, err)
	}
	if _, err := c.do(ctx, http.MethodPost, c.collectionURL(collection), payload); err != nil {
		return fmt.Errorf("create %s: %w", collection, err)
	}
	return nil
}

// Update replaces the record identified by id.
func (c *Client) Update(ctx context.Context, collection, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("update %s: encode record: %w", collection, err)
	}
	endpoint := c.collectionURL(collection) + "/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodPut, endpoint, payload); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping verifies the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil)
	return err
}

func (c *Client) collectionURL(collection string) string {
	return c.baseURL + "/api/entities/" + url.PathEscape(collection)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call entity store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("entity store returned %d: %s", resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > maxErrorBodyBytes {
		return trimmed[:maxErrorBodyBytes] + "…"
	}
	return trimmed
}
