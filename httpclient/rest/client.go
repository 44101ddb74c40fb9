package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/gosh/httpclient"
	"github.com/kbukum/gosh/resilience"
)

// Client is a JSON-focused REST client that wraps the base HTTP client.
// Requests default to Content-Type and Accept of application/json.
type Client struct {
	http *httpclient.Client
}

// New creates a new REST client from the given config.
// JSON headers are applied automatically.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := make(map[string]string, len(cfg.Headers)+2)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	setDefault(headers, "Content-Type", "application/json")
	setDefault(headers, "Accept", "application/json")
	cfg.Headers = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

func setDefault(h map[string]string, name, value string) {
	for k := range h {
		if strings.EqualFold(k, name) {
			return
		}
	}
	h[name] = value
}

// NewFromClient creates a REST client from an existing HTTP client.
func NewFromClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

type request struct {
	opts  httpclient.RequestOptions
	query url.Values
	retry *resilience.RetryConfig
}

// RequestOption configures a single REST request.
type RequestOption func(*request)

// WithQuery adds query parameters to the request.
func WithQuery(params map[string]string) RequestOption {
	return func(r *request) {
		if r.query == nil {
			r.query = url.Values{}
		}
		for k, v := range params {
			r.query.Set(k, v)
		}
	}
}

// WithHeaders adds headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *request) {
		if r.opts.Headers == nil {
			r.opts.Headers = httpclient.Headers{}
		}
		for k, v := range headers {
			r.opts.Headers[k] = []string{v}
		}
	}
}

// WithAuth overrides authentication for the request.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *request) {
		r.opts.Auth = auth
	}
}

// WithOptions replaces the underlying request options.
func WithOptions(opts httpclient.RequestOptions) RequestOption {
	return func(r *request) {
		r.opts = opts
	}
}

// WithRetry retries the request with cfg. A nil cfg uses the client's
// configured or default retry policy.
func WithRetry(cfg *resilience.RetryConfig) RequestOption {
	return func(r *request) {
		if cfg == nil {
			cfg = httpclient.DefaultRetryConfig()
		}
		r.retry = cfg
	}
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

// do executes a REST request and decodes the JSON response.
func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	target, err := withQuery(path, req.query)
	if err != nil {
		return nil, err
	}

	var resp *httpclient.Response
	if req.retry != nil {
		resp, err = c.http.Retry(ctx, method, target, body, req.opts, req.retry)
	} else {
		resp, err = c.http.Do(ctx, method, target, body, req.opts)
	}
	if err != nil {
		// 4xx/5xx responses still carry a body worth decoding
		if resp != nil {
			if data, decodeErr := httpclient.DecodeData[T](resp); decodeErr == nil {
				return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, err
			}
		}
		return nil, err
	}

	data, err := httpclient.DecodeData[T](resp)
	if err != nil {
		return nil, err
	}
	return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, nil
}

func withQuery(path string, query url.Values) (string, error) {
	if len(query) == 0 {
		return path, nil
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
