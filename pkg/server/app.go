package server

import (
	"context"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// Application produces the response for one request.
//
// Returning a *http.StatusError sends that status and keeps the connection.
// Any other error is answered with 500. The server never modifies the
// returned response, so an Application may return the same value from
// concurrent calls.
type Application interface {
	Serve(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ApplicationFunc adapts a function to Application.
type ApplicationFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Serve calls f(ctx, req).
func (f ApplicationFunc) Serve(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}
