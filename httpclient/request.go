package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/idna"

	goerrors "github.com/kbukum/gosh/errors"
)

// Headers maps header names, spelled the way the caller wrote them, to
// their values. Lookups are case-insensitive.
type Headers map[string][]string

// Get returns the first value of the named header.
func (h Headers) Get(name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Has reports whether the named header is present in any case.
func (h Headers) Has(name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// Add appends a value under name exactly as spelled.
func (h Headers) Add(name, value string) {
	h[name] = append(h[name], value)
}

// SetDefault sets name to value unless the header is already present.
func (h Headers) SetDefault(name, value string) {
	if !h.Has(name) {
		h[name] = []string{value}
	}
}

// Clone returns a deep copy.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RequestOptions configures one HTTP call.
type RequestOptions struct {
	// Headers are sent with the case supplied.
	Headers Headers
	// Timeout overrides Config.Timeout when positive. It covers the round
	// trip and reading the body.
	Timeout time.Duration
	// NoThrow returns non-2xx responses instead of failing.
	NoThrow bool
	// NoFollowRedirects returns 301/302 responses as they are.
	NoFollowRedirects bool
	// OmitBodyInErrorMessage keeps the response body out of error text.
	OmitBodyInErrorMessage bool
	// SaveResponseToFile streams the response body to this path.
	SaveResponseToFile string
	// Auth overrides Config.Auth.
	Auth *AuthConfig
}

// RawRequest is the fully resolved request descriptor.
type RawRequest struct {
	// Protocol is "http" or "https".
	Protocol string
	// Hostname is the ASCII host without port.
	Hostname string
	// Port is explicit or inferred from Protocol.
	Port int
	// Path is the escaped path plus query.
	Path string
	// URL is the absolute URL.
	URL string
	// Method is the upper-case HTTP method.
	Method string
	// Headers are the final headers, caller values first then defaults.
	Headers Headers
	// Timeout bounds this request.
	Timeout time.Duration
}

// HostPort returns the host:port pair the request connects to.
func (r *RawRequest) HostPort() string {
	return net.JoinHostPort(r.Hostname, strconv.Itoa(r.Port))
}

// BuildRawRequest resolves rawURL, opts and cfg into a RawRequest. Default
// headers are added only when the caller has not set them in any case.
func BuildRawRequest(method, rawURL string, opts RequestOptions, cfg Config) (*RawRequest, error) {
	cfg.ApplyDefaults()

	u, err := resolveURL(cfg.BaseURL, rawURL)
	if err != nil {
		return nil, err
	}

	auth := cfg.Auth
	if opts.Auth != nil {
		auth = opts.Auth
	}
	auth.applyQuery(u)

	hostname := u.Hostname()
	if ascii, err := idna.Lookup.ToASCII(hostname); err == nil {
		hostname = ascii
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, goerrors.InvalidInput("url", "invalid port "+p)
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	timeout := cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	raw := &RawRequest{
		Protocol: u.Scheme,
		Hostname: hostname,
		Port:     port,
		Path:     path,
		URL:      u.String(),
		Method:   strings.ToUpper(method),
		Headers:  opts.Headers.Clone(),
		Timeout:  timeout,
	}

	auth.applyHeaders(raw.Headers)
	for k, v := range cfg.Headers {
		raw.Headers.SetDefault(k, v)
	}

	acceptEncoding := "gzip"
	if opts.SaveResponseToFile != "" {
		acceptEncoding = "identity"
	}
	raw.Headers.SetDefault("Accept", "*/*")
	raw.Headers.SetDefault("Accept-Encoding", acceptEncoding)
	raw.Headers.SetDefault("Connection", "close")
	raw.Headers.SetDefault("User-Agent", cfg.UserAgent)
	raw.Headers.SetDefault("Host", raw.HostPort())

	return raw, nil
}

func resolveURL(base, rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerrors.InvalidInput("url", err.Error()).WithCause(err)
	}
	if !u.IsAbs() && base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return nil, goerrors.InvalidInput("base_url", err.Error()).WithCause(err)
		}
		query := u.RawQuery
		u = b.JoinPath(u.Path)
		u.RawQuery = query
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerrors.InvalidInput("url", "scheme must be http or https: "+rawURL)
	}
	if u.Host == "" {
		return nil, goerrors.InvalidInput("url", "missing host: "+rawURL)
	}
	return u, nil
}

// applyTo copies raw headers onto req. Headers Go manages itself are
// moved to their request fields so they are not written twice.
func (r *RawRequest) applyTo(req *http.Request) {
	for k, vs := range r.Headers {
		if len(vs) == 0 {
			continue
		}
		switch {
		case strings.EqualFold(k, "Host"):
			req.Host = vs[0]
		case strings.EqualFold(k, "Content-Length"):
			if n, err := strconv.ParseInt(vs[0], 10, 64); err == nil {
				req.ContentLength = n
			}
		case strings.EqualFold(k, "Connection") && strings.EqualFold(vs[0], "close"):
			req.Close = true
		case strings.EqualFold(k, "User-Agent"):
			req.Header.Set("User-Agent", vs[0])
		default:
			req.Header[k] = append([]string(nil), vs...)
		}
	}
}
