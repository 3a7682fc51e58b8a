// Package relay forwards GET requests back into this same server and hands
// the response back unchanged.
package relay

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// HeaderName carries the per-process token that marks a request as one of
// our own relay calls.
const HeaderName = "X-Relay-Token"

// maxBodySize caps how much of an upstream body is read into memory.
const maxBodySize = 10 << 20

// ErrNoLocalAddr is returned by BaseURL when the request did not arrive
// through an http.Server, so the listener address is unknown.
var ErrNoLocalAddr = errors.New("request carries no local address")

// UpstreamError reports a non-2xx response from the upstream endpoint.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Response is a successful upstream reply.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client issues relay requests with a shared *http.Client.
type Client struct {
	httpClient *http.Client
	token      string
}

// NewClient returns a Client whose requests give up after timeout. A zero
// timeout defaults to ten seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		// Random per process, so clients cannot forge it.
		token: uuid.NewString(),
	}
}

// IsRelayed reports whether r was sent by this Client.
func (c *Client) IsRelayed(r *http.Request) bool {
	got := r.Header.Get(HeaderName)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(c.token)) == 1
}

// Get fetches baseURL+path. A non-2xx reply is returned as *UpstreamError;
// any other error means no usable response was obtained.
func (c *Client) Get(ctx context.Context, baseURL, path string) (*Response, error) {
	url := strings.TrimRight(baseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build relay request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderName, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "relay GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(err, "read relay response from %s", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// BaseURL returns the URL of the listener the request arrived on. The Host
// header is ignored: it is client-controlled and would let callers point
// the relay at any host.
func BaseURL(r *http.Request) (string, error) {
	addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr)
	if !ok || addr == nil {
		return "", ErrNoLocalAddr
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + addr.String(), nil
}
