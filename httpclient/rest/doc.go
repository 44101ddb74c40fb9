// Package rest provides a JSON-focused REST client built on httpclient.
//
// It inherits default headers, redirects, gzip and retry from httpclient
// and adds typed convenience functions for common REST operations:
//
//	client, _ := rest.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth("token"),
//	})
//
//	// Typed GET
//	user, err := rest.Get[User](ctx, client, "/users/123")
//
//	// Typed POST, retried with the default policy
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"},
//	    rest.WithRetry(nil))
package rest
