package httpclient

import "context"

// Call is an HTTP request running in the background.
type Call struct {
	done chan struct{}
	resp *Response
	err  error
}

// Start performs the request on its own goroutine, following redirects
// there, and returns immediately.
func (c *Client) Start(ctx context.Context, method, rawURL string, body any, opts RequestOptions) *Call {
	call := &Call{done: make(chan struct{})}
	go func() {
		defer close(call.done)
		call.resp, call.err = c.Do(ctx, method, rawURL, body, opts)
	}()
	return call
}

// Done is closed once the call has finished.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call finishes and returns its outcome.
func (c *Call) Wait() (*Response, error) {
	<-c.done
	return c.resp, c.err
}
