// Package rest is the remote adapter: it talks to the annotation service's
// HTTP endpoints and implements core.Fetcher and core.Mutator.
//
// The service wraps every response in an envelope whose code field carries
// business success (200) independently of the transport status; any other
// code is a server-reported failure with a message.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/notemirror/notemirror/pkg/core"
)

const (
	// DefaultPageLimit is deliberately large to minimize round trips.
	DefaultPageLimit = 5000

	// DefaultMaxPages is a hard ceiling against a misbehaving server that
	// keeps reporting more data. Hitting it is a soft stop, not an error.
	DefaultMaxPages = 50

	// DefaultTimeout bounds every remote call. A timed-out call is failed,
	// never retried at this layer.
	DefaultTimeout = 10 * time.Second

	businessOK = 200
)

// Config configures the REST client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	PageLimit  int
	MaxPages   int
	Logger     *slog.Logger
}

// Client implements core.Fetcher and core.Mutator over HTTP.
type Client struct {
	base      string
	http      *http.Client
	timeout   time.Duration
	pageLimit int
	maxPages  int
	logger    *slog.Logger
}

var (
	_ core.Fetcher = (*Client)(nil)
	_ core.Mutator = (*Client)(nil)
)

// NewClient creates a Client, filling unset config fields with defaults.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:      cfg.BaseURL,
		http:      httpClient,
		timeout:   timeout,
		pageLimit: pageLimit,
		maxPages:  maxPages,
		logger:    logger,
	}
}

// envelope is the service's uniform response wrapper.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

// listRequest is the paging request body for list endpoints.
type listRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// listData is the payload of a list response.
type listData struct {
	Data       json.RawMessage `json:"data"`
	HasMore    bool            `json:"has_more"`
	NextOffset int             `json:"next_offset"`
}

// FetchAll retrieves the entire collection for kind, page by page.
//
// It stops when the server reports no more data, when a page comes back
// shorter than the requested limit (treated as end-of-stream even if
// has_more disagrees), or when the page ceiling is reached. Any page
// failing aborts the whole fetch; a partial result is never returned as
// complete.
func (c *Client) FetchAll(ctx context.Context, kind core.Kind, token string) ([]core.Note, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("fetch: unknown kind %q", kind)
	}

	var all []core.Note
	offset := 0

	for page := 0; page < c.maxPages; page++ {
		data, err := c.post(ctx, c.endpoint(kind, "list"), listRequest{Limit: c.pageLimit, Offset: offset}, token)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", kind, page+1, err)
		}

		var payload listData
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("fetch %s page %d: malformed payload: %w", kind, page+1, err)
		}

		notes, err := core.DecodeNotes(kind, payload.Data)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", kind, page+1, err)
		}

		all = append(all, notes...)

		// A short page means the stream is exhausted regardless of the
		// has_more flag; trusting the flag here risks an unbounded loop
		// against an inconsistent server.
		if !payload.HasMore || len(notes) < c.pageLimit {
			return all, nil
		}

		offset += c.pageLimit
	}

	c.logger.Warn("page ceiling reached, returning accumulated snapshot",
		"kind", kind, "pages", c.maxPages, "count", len(all))
	return all, nil
}

// Mutate issues exactly one remote request for the given operation.
func (c *Client) Mutate(ctx context.Context, kind core.Kind, op core.Op, note core.Note, token string) error {
	if !kind.Valid() {
		return &core.ParameterError{Field: "kind"}
	}
	if !op.Valid() {
		return &core.ParameterError{Field: "operation"}
	}

	_, err := c.post(ctx, c.endpoint(kind, string(op)), note, token)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, kind, err)
	}
	return nil
}

func (c *Client) endpoint(kind core.Kind, action string) string {
	return fmt.Sprintf("%s/%s/notes/%s", c.base, kind.Path(), action)
}

// post sends one JSON request and unwraps the response envelope. It maps
// transport failures (including timeout) to TransportError and a non-OK
// envelope code to BusinessError.
func (c *Client) post(ctx context.Context, url string, body any, token string) (json.RawMessage, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.TransportError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("malformed body: %w", err)}
	}

	if env.Code != businessOK {
		return nil, &core.BusinessError{Code: env.Code, Message: env.Msg}
	}

	return env.Data, nil
}
