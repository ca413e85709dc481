// Package cms is a minimal read client for the headless CMS. Webhook
// payloads are never trusted directly; the full document is re-fetched here
// before it reaches the search index.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Document struct {
	ID     string         `json:"_id"`
	Type   string         `json:"_type"`
	Fields map[string]any `json:"-"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

// GetDocument fetches one document by id. Returns nil when the CMS reports
// no such document.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	url := fmt.Sprintf("%s/v1/documents/%s", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cms: get document %s: unexpected status %s", id, resp.Status)
	}

	var fields map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("cms: decode document %s: %w", id, err)
	}

	doc := &Document{Fields: fields}
	if id, ok := fields["_id"].(string); ok {
		doc.ID = id
	}
	if typ, ok := fields["_type"].(string); ok {
		doc.Type = typ
	}
	return doc, nil
}

// StringField reads a top-level string field, empty when absent.
func (d *Document) StringField(key string) string {
	if d == nil || d.Fields == nil {
		return ""
	}
	s, _ := d.Fields[key].(string)
	return s
}

// IntField reads a top-level numeric field as int64.
func (d *Document) IntField(key string) int64 {
	if d == nil || d.Fields == nil {
		return 0
	}
	f, _ := d.Fields[key].(float64)
	return int64(f)
}
