// Package client fetches countdowns from a running Timely server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/service"
)

// Client talks to the public countdown API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Get fetches a countdown. A missing countdown yields service.ErrNotFound and
// an unavailable server service.ErrStoreUnavailable.
func (c *Client) Get(ctx context.Context, id string) (*model.Countdown, error) {
	u := c.BaseURL + "/api/countdown/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	var body struct {
		Data  *model.Countdown `json:"data"`
		Error string           `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, service.ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: server returned %s", service.ErrStoreUnavailable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	case decodeErr != nil:
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	case body.Data == nil:
		return nil, service.ErrNotFound
	}
	return body.Data, nil
}

// ParseRef splits a share link ("https://host/c/<id>") into the server URL
// and countdown ID. A bare ID is returned with an empty server URL.
func ParseRef(ref string) (server, id string, err error) {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "://") {
		if ref == "" || strings.Contains(ref, "/") {
			return "", "", fmt.Errorf("invalid countdown reference %q", ref)
		}
		return "", ref, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("parsing share link: %w", err)
	}
	rest, ok := strings.CutPrefix(strings.TrimSuffix(u.Path, "/"), "/c/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", "", fmt.Errorf("not a countdown link: %q", ref)
	}
	return u.Scheme + "://" + u.Host, rest, nil
}
