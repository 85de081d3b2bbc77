package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/id"
)

const requestIDHeader = "X-Request-ID"

// StatusError is returned for non-2xx responses that are not an
// authorization failure. Message holds the server's "error" or "detail"
// field when the body carried one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Blob is a binary response body.
type Blob struct {
	Data        []byte
	ContentType string
}

// Client talks to the analysis service. The zero-token client only reaches
// unauthenticated endpoints; WithTokens returns a client that attaches the
// bearer token read from the source at send time.
type Client struct {
	baseURL string
	http    *http.Client
	ids     id.Generator
	logger  *slog.Logger
	authed  bool
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithIDGenerator(ids id.Generator) Option {
	return func(c *Client) { c.ids = ids }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: http.DefaultTransport},
		ids:     id.UUID{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokens returns a copy of c whose requests carry the token from src.
// src is consulted for every request and must not cache on its own.
func (c *Client) WithTokens(src oauth2.TokenSource) *Client {
	cp := *c
	cp.http = &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &oauth2.Transport{Source: src, Base: c.http.Transport},
	}
	cp.authed = true
	return &cp
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// PostFile sends content as the single file part field of a multipart form.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, content []byte, out any) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func (c *Client) GetBlob(ctx context.Context, path string) (Blob, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return Blob{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, fmt.Errorf("read body: %w: %w", apperrors.ErrTransport, err)
	}
	return Blob{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// do issues one request. The returned response always has a 2xx status and
// its body must be closed by the caller.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	reqID := c.ids.New()
	req.Header.Set(requestIDHeader, reqID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "request_id", reqID, "method", method, "path", path, "err", err)
		if errors.Is(err, apperrors.ErrNoSession) {
			return nil, apperrors.ErrNoSession
		}
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, apperrors.ErrTransport, err)
	}
	c.logger.Debug("request done", "request_id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "authenticated", c.authed, "elapsed", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%s %s: %w (status %d)", method, path, apperrors.ErrUnauthorized, resp.StatusCode)
	}
	return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w: %w", apperrors.ErrMalformedResponse, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	payload, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(payload) == 0 {
		return ""
	}
	var fields struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	if fields.Error != "" {
		return fields.Error
	}
	return fields.Detail
}
