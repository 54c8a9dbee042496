package app

import (
	"context"
	"strings"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// Params holds the values captured by {name} pattern segments.
type Params map[string]string

// HandlerFunc serves a matched route.
type HandlerFunc func(ctx context.Context, req *http.Request, params Params) (*http.Response, error)

type route struct {
	method   http.Method
	segments []string
	handler  HandlerFunc
}

// Router dispatches on method and path. Patterns are '/'-separated; a
// segment written as {name} matches any single segment.
type Router struct {
	routes []route
}

// NewRouter returns an empty router.
func NewRouter() *Router { return &Router{} }

// Handle registers h for method and pattern.
func (r *Router) Handle(method http.Method, pattern string, h HandlerFunc) *Router {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPattern(pattern),
		handler:  h,
	})
	return r
}

// Serve implements server.Application. An unknown path is a 404; a known
// path with another method is a 405.
func (r *Router) Serve(ctx context.Context, req *http.Request) (*http.Response, error) {
	segs := req.Path().Segments()
	pathMatched := false
	for _, rt := range r.routes {
		params, ok := match(rt.segments, segs)
		if !ok {
			continue
		}
		if rt.method != req.Method() {
			pathMatched = true
			continue
		}
		return rt.handler(ctx, req, params)
	}
	if pathMatched {
		return nil, http.MethodNotAllowed(req.Method().String() + " is not allowed on " + req.Path().Path())
	}
	return nil, http.NotFound("no route for " + req.Path().Path())
}

func splitPattern(pattern string) []string {
	var segs []string
	for _, s := range strings.Split(pattern, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func match(pattern, path []string) (Params, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	var params Params
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if params == nil {
				params = Params{}
			}
			params[p[1:len(p)-1]] = path[i]
			continue
		}
		if p != path[i] {
			return nil, false
		}
	}
	return params, true
}
