// Package httpclient performs HTTP and HTTPS requests for automation
// scripts.
//
// Every request is resolved into a RawRequest descriptor first: the URL is
// split into protocol, hostname, port and path, and default headers
// (Accept, Accept-Encoding, Connection, User-Agent, Host) are added only
// when the caller has not set them in any case. Bodies may be streamed
// readers, raw bytes or strings, or values that are JSON-encoded.
//
// Responses carry the decoded body and Data, the body parsed as JSON when
// possible. Redirects (301/302) are followed up to Config.MaxRedirects.
// A non-2xx status fails with *RequestError unless NoThrow is set.
//
//	client, err := httpclient.New(httpclient.Config{})
//	data, err := client.Get(ctx, "https://api.example.com/users/1", httpclient.RequestOptions{})
//
// The rest subpackage decodes responses into typed values.
package httpclient
