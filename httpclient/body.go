package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	goerrors "github.com/kbukum/gosh/errors"
)

const jsonContentType = "application/json; charset=utf-8"

var errStreamConsumed = errors.New("httpclient: stream body was already sent and cannot be rewound")

// payload is a request body that can be sent again when a redirect or a
// retry replays the request.
type payload struct {
	data        []byte
	stream      io.Reader
	start       int64
	used        bool
	length      int64
	contentType string
}

// newPayload classifies body. Readers stream unbuffered, []byte and string
// are sent verbatim and anything else is JSON-encoded.
func newPayload(body any) (*payload, error) {
	switch v := body.(type) {
	case nil:
		return &payload{length: -1}, nil
	case io.Reader:
		p := &payload{stream: v, length: -1}
		if s, ok := v.(io.Seeker); ok {
			if off, err := s.Seek(0, io.SeekCurrent); err == nil {
				p.start = off
			}
		}
		return p, nil
	case []byte:
		return &payload{data: v, length: int64(len(v))}, nil
	case string:
		return &payload{data: []byte(v), length: int64(len(v))}, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, goerrors.InvalidInput("body", "cannot encode as JSON: "+err.Error()).WithCause(err)
		}
		return &payload{data: data, length: int64(len(data)), contentType: jsonContentType}, nil
	}
}

// empty reports whether there is no body at all.
func (p *payload) empty() bool {
	return p.stream == nil && p.data == nil
}

// applyHeaders sets Content-Type and Content-Length when the caller has not.
func (p *payload) applyHeaders(raw *RawRequest) {
	if p.contentType != "" {
		raw.Headers.SetDefault("Content-Type", p.contentType)
	}
	if raw.Method != "GET" && p.length >= 0 {
		raw.Headers.SetDefault("Content-Length", strconv.FormatInt(p.length, 10))
	}
}

// open returns a reader positioned at the start of the body.
func (p *payload) open() (io.Reader, error) {
	if p.empty() {
		return nil, nil
	}
	if p.stream == nil {
		return bytes.NewReader(p.data), nil
	}
	if p.used {
		s, ok := p.stream.(io.Seeker)
		if !ok {
			return nil, errStreamConsumed
		}
		if _, err := s.Seek(p.start, io.SeekStart); err != nil {
			return nil, err
		}
	}
	p.used = true
	// hide Close so the transport does not close a caller-owned stream
	return io.NopCloser(p.stream), nil
}
