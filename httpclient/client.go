package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/gosh/console"
	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/logger"
	"github.com/kbukum/gosh/observability"
	"github.com/kbukum/gosh/resilience"
)

// Client performs HTTP requests with default headers, bounded redirect
// following, gzip decoding and failure classification.
type Client struct {
	httpClient *http.Client
	config     Config
	fs         afero.Fs
	sink       console.Sink
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// WithFs sets the filesystem used for uploads and downloads.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// WithSink sets where retry notices go.
func WithSink(sink console.Sink) Option {
	return func(c *Client) { c.sink = sink }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// gzip is requested and decoded explicitly
	transport.DisableCompression = true

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		config: cfg,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = console.Stdout()
	}
	if c.log == nil {
		c.log = logger.Get("httpclient")
	}

	// certificate files are read through the client filesystem
	tlsCfg, err := cfg.TLS.BuildFs(c.fs)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		if t, ok := c.httpClient.Transport.(*http.Transport); ok {
			t.TLSClientConfig = tlsCfg
		}
	}
	return c, nil
}

// Config returns the client's effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Do performs method against rawURL. body may be nil, an io.Reader
// (streamed), []byte or string (sent verbatim), or any value to JSON-encode.
// A non-2xx response fails with *RequestError unless opts.NoThrow is set;
// the response is returned alongside the error.
func (c *Client) Do(ctx context.Context, method, rawURL string, body any, opts RequestOptions) (*Response, error) {
	p, err := newPayload(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, rawURL, p, opts)
}

// NoThrow performs the request and returns non-2xx responses without error.
func (c *Client) NoThrow(ctx context.Context, method, rawURL string, body any, opts RequestOptions) (*Response, error) {
	opts.NoThrow = true
	return c.Do(ctx, method, rawURL, body, opts)
}

// Retry performs the request until it succeeds or the retry budget is
// spent. A nil cfg uses Config.Retry, then DefaultRetryConfig.
func (c *Client) Retry(ctx context.Context, method, rawURL string, body any, opts RequestOptions, cfg *resilience.RetryConfig) (*Response, error) {
	if cfg == nil {
		cfg = c.config.Retry
	}
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	rc := *cfg
	if rc.Sink == nil {
		rc.Sink = c.sink
	}
	if rc.RetryIf == nil {
		rc.RetryIf = IsRetryable
	}

	p, err := newPayload(body)
	if err != nil {
		return nil, err
	}
	return resilience.Retry(ctx, rc, func() (*Response, error) {
		return c.do(ctx, method, rawURL, p, opts)
	})
}

// Get performs a GET and returns the parsed response data.
func (c *Client) Get(ctx context.Context, rawURL string, opts RequestOptions) (any, error) {
	return c.data(c.Do(ctx, http.MethodGet, rawURL, nil, opts))
}

// Post performs a POST and returns the parsed response data.
func (c *Client) Post(ctx context.Context, rawURL string, body any, opts RequestOptions) (any, error) {
	return c.data(c.Do(ctx, http.MethodPost, rawURL, body, opts))
}

// Put performs a PUT and returns the parsed response data.
func (c *Client) Put(ctx context.Context, rawURL string, body any, opts RequestOptions) (any, error) {
	return c.data(c.Do(ctx, http.MethodPut, rawURL, body, opts))
}

// Patch performs a PATCH and returns the parsed response data.
func (c *Client) Patch(ctx context.Context, rawURL string, body any, opts RequestOptions) (any, error) {
	return c.data(c.Do(ctx, http.MethodPatch, rawURL, body, opts))
}

// Delete performs a DELETE and returns the parsed response data.
func (c *Client) Delete(ctx context.Context, rawURL string, body any, opts RequestOptions) (any, error) {
	return c.data(c.Do(ctx, http.MethodDelete, rawURL, body, opts))
}

func (c *Client) data(resp *Response, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Upload streams the file at path as the request body. Content-Length is
// set from the file size unless the caller provided one.
func (c *Client) Upload(ctx context.Context, method, rawURL, path string, opts RequestOptions) (*Response, error) {
	f, opts, err := c.openUpload(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return c.Do(ctx, method, rawURL, f, opts)
}

// RetryUpload is Upload under the retry policy of Retry. The file is
// rewound before every attempt.
func (c *Client) RetryUpload(ctx context.Context, method, rawURL, path string, opts RequestOptions, cfg *resilience.RetryConfig) (*Response, error) {
	f, opts, err := c.openUpload(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return c.Retry(ctx, method, rawURL, f, opts, cfg)
}

func (c *Client) openUpload(path string, opts RequestOptions) (afero.File, RequestOptions, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, opts, goerrors.InvalidInput("file", err.Error()).WithCause(err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, opts, goerrors.Internal(err)
	}
	opts.Headers = opts.Headers.Clone()
	opts.Headers.SetDefault("Content-Length", strconv.FormatInt(info.Size(), 10))
	return f, opts, nil
}

// Download saves the body of a GET to path.
func (c *Client) Download(ctx context.Context, rawURL, path string, opts RequestOptions) (*Response, error) {
	opts.SaveResponseToFile = path
	return c.Do(ctx, http.MethodGet, rawURL, nil, opts)
}

// do runs the redirect loop for one logical request.
func (c *Client) do(ctx context.Context, method, rawURL string, p *payload, opts RequestOptions) (*Response, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanHTTPRequest,
		attribute.String(observability.AttrHTTPMethod, strings.ToUpper(method)),
		attribute.String(observability.AttrHTTPURL, rawURL),
	)
	log := c.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldInvocationID, op.ID,
		logger.FieldMethod, strings.ToUpper(method),
	))

	var redirects []string
	current := rawURL
	for {
		raw, err := BuildRawRequest(method, current, opts, c.config)
		if err != nil {
			c.finish(ctx, op, log, method, current, nil, err)
			return nil, err
		}
		p.applyHeaders(raw)

		follow := !opts.NoFollowRedirects
		resp, err := c.roundTrip(ctx, raw, p, opts, follow)
		if err != nil {
			c.finish(ctx, op, log, method, current, nil, err)
			return nil, err
		}

		if loc := resp.Headers.Get("Location"); follow && isRedirect(resp.StatusCode) && loc != "" {
			if len(redirects) >= c.config.MaxRedirects {
				resp.Redirects = redirects
				err := newStatusError(raw, opts, resp)
				c.finish(ctx, op, log, method, current, resp, err)
				return resp, err
			}
			next, err := resolveLocation(raw.URL, loc)
			if err != nil {
				c.finish(ctx, op, log, method, current, resp, err)
				return resp, err
			}
			log.Debug("following redirect", logger.Fields(logger.FieldStatus, resp.StatusCode, logger.FieldURL, next))
			redirects = append(redirects, next)
			current = next
			continue
		}

		resp.Redirects = redirects
		if !resp.IsSuccess() && !opts.NoThrow {
			err := newStatusError(raw, opts, resp)
			c.finish(ctx, op, log, method, current, resp, err)
			return resp, err
		}
		c.finish(ctx, op, log, method, current, resp, nil)
		return resp, nil
	}
}

// roundTrip sends one request and reads its body. Bodies of redirects that
// will be followed are discarded rather than saved.
func (c *Client) roundTrip(ctx context.Context, raw *RawRequest, p *payload, opts RequestOptions, follow bool) (*Response, error) {
	if raw.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, raw.Timeout)
		defer cancel()
	}

	body, err := p.open()
	if err != nil {
		return nil, goerrors.InvalidInput("body", err.Error()).WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, raw.Method, raw.URL, body)
	if err != nil {
		return nil, goerrors.InvalidInput("request", err.Error()).WithCause(err)
	}
	raw.applyTo(req)
	auth := c.config.Auth
	if opts.Auth != nil {
		auth = opts.Auth
	}
	auth.applyRequest(req)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(raw, opts, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp := &Response{
		StatusCode:    httpResp.StatusCode,
		StatusMessage: statusMessage(httpResp),
		Headers:       httpResp.Header,
		Request:       raw,
	}

	reader, err := decodedBody(httpResp)
	if err != nil {
		return nil, newTransportError(raw, opts, err)
	}

	redirecting := follow && isRedirect(httpResp.StatusCode) && httpResp.Header.Get("Location") != ""
	if opts.SaveResponseToFile != "" && !redirecting {
		if err := c.save(opts.SaveResponseToFile, reader); err != nil {
			if errors.Is(err, errWrite) {
				return nil, goerrors.Internal(err).WithDetail("file", opts.SaveResponseToFile)
			}
			return nil, newTransportError(raw, opts, err)
		}
		resp.SavedTo = opts.SaveResponseToFile
		return resp, nil
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, reader); err != nil {
		return nil, newTransportError(raw, opts, err)
	}
	resp.Body = sb.String()
	resp.Data = parseData(resp.Body)
	return resp, nil
}

var errWrite = errors.New("httpclient: write response file")

// save streams r to path on the client filesystem.
func (c *Client) save(path string, r io.Reader) error {
	f, err := c.fs.Create(path)
	if err != nil {
		return errors.Join(errWrite, err)
	}
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return errors.Join(errWrite, closeErr)
	}
	return nil
}

// decodedBody unwraps gzip content encoding.
func decodedBody(resp *http.Response) (io.Reader, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return resp.Body, nil
	}
	gz, err := gzip.NewReader(resp.Body)
	if errors.Is(err, io.EOF) {
		return strings.NewReader(""), nil
	}
	if err != nil {
		return nil, err
	}
	return gz, nil
}

func isRedirect(status int) bool {
	return status == http.StatusMovedPermanently || status == http.StatusFound
}

func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", goerrors.InvalidInput("url", err.Error()).WithCause(err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", goerrors.InvalidInput("location", err.Error()).WithCause(err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) finish(ctx context.Context, op *observability.Operation, log *logger.Logger, method, rawURL string, resp *Response, err error) {
	duration := op.Duration()
	status := 0
	if resp != nil {
		status = resp.StatusCode
		op.SetAttributes(attribute.Int(observability.AttrHTTPStatus, status))
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	op.End(outcome, err, string(goerrors.CodeOf(err)))
	observability.Instruments().RecordHTTPRequest(ctx, strings.ToUpper(method), outcome, status, duration)

	fields := logger.MergeWithDuration(logger.Fields(logger.FieldURL, rawURL, logger.FieldStatus, status), duration)
	if err != nil {
		log.Debug("http request failed", logger.MergeWithError(fields, err))
		return
	}
	log.Debug("http request finished", fields)
}
