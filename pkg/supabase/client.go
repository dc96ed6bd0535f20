// Package supabase provides a thin PostgREST client for the Supabase
// tables the analysis engine reads from and writes to. The engine always
// acts with the service key; row ownership is enforced by the query
// filters the repositories build.
package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to a Supabase project's REST and auth endpoints
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{},
	}
}

// rest performs one PostgREST request and returns the response body.
// prefer is passed through as the Prefer header when non-empty.
func (c *Client) rest(method, table string, query url.Values, payload interface{}, prefer string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supabase error (%d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Query runs a filtered SELECT against a table. Filter values use
// PostgREST operator syntax, e.g. "eq.<id>", "gte.2024-01-01".
func (c *Client) Query(table string, filters map[string]string) ([]byte, error) {
	q := url.Values{}
	for key, value := range filters {
		q.Set(key, value)
	}
	return c.rest(http.MethodGet, table, q, nil, "")
}

// Insert inserts one record or a slice of records into a table
func (c *Client) Insert(table string, data interface{}) ([]byte, error) {
	return c.rest(http.MethodPost, table, nil, data, "return=representation")
}

// Upsert inserts or updates records. onConflict names the columns of the
// table's natural uniqueness constraint (e.g. "user_id,metric_a,metric_b");
// existing rows matching it are overwritten.
func (c *Client) Upsert(table string, data interface{}, onConflict string) ([]byte, error) {
	q := url.Values{}
	q.Set("on_conflict", onConflict)
	return c.rest(http.MethodPost, table, q, data, "return=representation,resolution=merge-duplicates")
}

// UpdateWhere patches all records matching the filters
func (c *Client) UpdateWhere(table string, filters map[string]string, data interface{}) ([]byte, error) {
	q := url.Values{}
	for key, value := range filters {
		q.Set(key, value)
	}
	return c.rest(http.MethodPatch, table, q, data, "return=representation")
}

// DeleteWhere deletes all records matching the filters
func (c *Client) DeleteWhere(table string, filters map[string]string) error {
	q := url.Values{}
	for key, value := range filters {
		q.Set(key, value)
	}
	_, err := c.rest(http.MethodDelete, table, q, nil, "")
	return err
}

// User represents a Supabase auth user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken validates a user JWT against Supabase auth and returns the
// user it belongs to
func (c *Client) VerifyToken(token string) (*User, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("token verification failed (status %d): %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}
