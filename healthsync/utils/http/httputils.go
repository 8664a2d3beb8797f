package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client wraps an http.Client so callers share one transport and the
// upstream timeout is set in exactly one place.
type Client struct {
	hc *http.Client
}

func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{hc: hc}
}

func (c *Client) PostJSON(ctx context.Context, url string, body interface{}, resp interface{}) error {
	return c.post(ctx, url, "", "", body, resp)
}

// PostJSONWithAuth sends a bearer-authenticated JSON POST.
func (c *Client) PostJSONWithAuth(ctx context.Context, url, apiKey string, body interface{}, resp interface{}) error {
	return c.post(ctx, url, "Bearer "+apiKey, "", body, resp)
}

// PostJSONWithBasicAuth sends a basic-authenticated JSON POST (Mailjet style).
func (c *Client) PostJSONWithBasicAuth(ctx context.Context, url, user, password string, body interface{}, resp interface{}) error {
	return c.post(ctx, url, "", user+":"+password, body, resp)
}

func (c *Client) post(ctx context.Context, url, bearer, basic string, body interface{}, resp interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if basic != "" {
		if i := bytes.IndexByte([]byte(basic), ':'); i >= 0 {
			req.SetBasicAuth(basic[:i], basic[i+1:])
		}
	}
	r, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode >= 300 {
		return fmt.Errorf("bad status: %d", r.StatusCode)
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

// PostStream issues a bearer-authenticated JSON POST and hands the raw body
// back to the caller, who owns closing it. Used for SSE/chunked responses.
func (c *Client) PostStream(ctx context.Context, url, apiKey string, body interface{}) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	r, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if r.StatusCode != http.StatusOK {
		defer r.Body.Close()
		return nil, fmt.Errorf("bad status: %d", r.StatusCode)
	}
	return r.Body, nil
}
