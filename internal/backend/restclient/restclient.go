// Package restclient implements the Backend Client over a Supabase/PostgREST
// HTTP API.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"promptdeck/internal/backend"
)

const (
	mediaJSON   = "application/json"
	mediaObject = "application/vnd.pgrst.object+json"
)

// Client communicates with a PostgREST endpoint such as <project>/rest/v1.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ backend.Client = (*Client)(nil)

// New creates a REST backend client. A nil httpClient uses http.DefaultClient.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Select fetches the rows matching q and decodes the JSON array into dest.
func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	params := filterParams(q.Filters)
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Descending {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	req, err := c.newRequest(ctx, http.MethodGet, q.Table, params, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", mediaJSON)

	return c.do(req, dest, "selecting "+q.Table)
}

// Insert posts row and decodes the created representation into dest.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	params := url.Values{}
	params.Set("select", "*")

	req, err := c.newRequest(ctx, http.MethodPost, table, params, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Accept", mediaObject)

	return c.do(req, dest, "inserting into "+table)
}

// Update patches the single row matching filters and decodes it into dest.
// PostgREST answers 406 with PGRST116 when the filters match no row.
func (c *Client) Update(ctx context.Context, table string, patch map[string]any, filters []backend.Filter, dest any) error {
	params := filterParams(filters)
	params.Set("select", "*")

	if patch == nil {
		patch = map[string]any{}
	}
	req, err := c.newRequest(ctx, http.MethodPatch, table, params, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Accept", mediaObject)

	return c.do(req, dest, "updating "+table)
}

// Delete removes the rows matching filters.
func (c *Client) Delete(ctx context.Context, table string, filters []backend.Filter) error {
	req, err := c.newRequest(ctx, http.MethodDelete, table, filterParams(filters), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil, "deleting from "+table)
}

func (c *Client) newRequest(ctx context.Context, method, table string, params url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s body: %w", table, err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + "/" + url.PathEscape(table)
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", mediaJSON)
	}
	return req, nil
}

// do sends req and decodes a successful body into dest. Any non-2xx response
// becomes a *backend.Error carrying the server's code and message.
func (c *Client) do(req *http.Request, dest any, action string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	beErr := &backend.Error{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(body) > 0 {
		_ = json.Unmarshal(body, beErr)
	}
	if beErr.Message == "" {
		beErr.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
			beErr.Details = text
		}
	}
	return beErr
}

func filterParams(filters []backend.Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		params.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}
	return params
}
