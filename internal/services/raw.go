package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Raw performs an authenticated request against path and returns the undecoded response.
//
// Non-2xx responses are returned alongside their [*APIError] so callers can print them.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r := request{op: "raw " + strings.ToLower(method), method: method, path: path, auth: true}
	if len(body) > 0 {
		r.body = json.RawMessage(body)
	}

	status, headers, data, err := c.send(ctx, r)
	var apiErr *APIError
	if err != nil && (!errors.As(err, &apiErr) || apiErr.StatusCode == 0) {
		return nil, err
	}

	resp := &APIResponse{StatusCode: status, Headers: headers, Body: data}
	var jsonData any
	if jsonErr := json.Unmarshal(data, &jsonData); jsonErr == nil {
		resp.IsJSON = true
		resp.JSONData = jsonData
	}
	return resp, err
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.Raw(ctx, http.MethodGet, path, nil)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return c.Raw(ctx, http.MethodPost, path, data)
}
