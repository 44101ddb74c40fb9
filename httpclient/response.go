package httpclient

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/kbukum/gosh/errors"
)

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// StatusMessage is the reason phrase, e.g. "Not Found".
	StatusMessage string
	// Headers are the response headers.
	Headers http.Header
	// Body is the decoded response text. Empty when saved to a file.
	Body string
	// Data is the body parsed as JSON, or Body itself when it is not JSON.
	// Nil when the body was saved to a file.
	Data any
	// Request is the descriptor of the request that produced this response.
	Request *RawRequest
	// SavedTo is the path the body was written to, if any.
	SavedTo string
	// Redirects lists the locations followed to reach this response.
	Redirects []string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// statusMessage strips the numeric code from an http.Response status line.
func statusMessage(resp *http.Response) string {
	msg := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}

// parseData parses body as JSON. Bodies that are not JSON, or whose JSON
// value is false, zero, empty or null, are returned as the raw string.
func parseData(body string) any {
	if body == "" {
		return body
	}
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	switch t := v.(type) {
	case nil:
		return body
	case bool:
		if !t {
			return body
		}
	case float64:
		if t == 0 {
			return body
		}
	case string:
		if t == "" {
			return body
		}
	}
	return v
}

// DecodeData decodes the response body into T. A string T receives the
// raw body when it is not JSON.
func DecodeData[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || resp.Body == "" {
		return out, nil
	}
	if s, ok := any(&out).(*string); ok {
		if str, ok := resp.Data.(string); ok {
			*s = str
			return out, nil
		}
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		return out, goerrors.InvalidInput("body", "cannot decode response: "+err.Error()).WithCause(err)
	}
	return out, nil
}
