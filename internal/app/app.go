// Package app is the demo application served by the shape-httpd binary.
package app

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// App wires the demo routes.
type App struct {
	name     string
	started  time.Time
	requests atomic.Int64
	router   *Router
}

// New returns the demo application. name is reported by /stats.
func New(name string) *App {
	a := &App{name: name, started: time.Now()}
	a.router = NewRouter().
		Handle(http.MethodGet, "/", a.root).
		Handle(http.MethodGet, "/echo/{text}", a.echoPath).
		Handle(http.MethodPost, "/echo", a.echoBody).
		Handle(http.MethodGet, "/user-agent", a.userAgent).
		Handle(http.MethodGet, "/stats", a.stats)
	return a
}

// Serve implements server.Application.
func (a *App) Serve(ctx context.Context, req *http.Request) (*http.Response, error) {
	a.requests.Add(1)
	return a.router.Serve(ctx, req)
}

func (a *App) root(ctx context.Context, req *http.Request, _ Params) (*http.Response, error) {
	return http.NewResponse(http.StatusOK, nil), nil
}

func (a *App) echoPath(ctx context.Context, req *http.Request, p Params) (*http.Response, error) {
	return http.Text(http.StatusOK, p["text"]), nil
}

func (a *App) echoBody(ctx context.Context, req *http.Request, _ Params) (*http.Response, error) {
	body, err := io.ReadAll(req.Body())
	if err != nil {
		return nil, http.InternalServerError(err)
	}
	resp := http.NewResponse(http.StatusCreated, body)
	ct, ok := req.Header("Content-Type")
	if !ok {
		ct = "application/octet-stream"
	}
	resp.Headers.Set("Content-Type", ct)
	return resp, nil
}

func (a *App) userAgent(ctx context.Context, req *http.Request, _ Params) (*http.Response, error) {
	ua, ok := req.Header("User-Agent")
	if !ok {
		return nil, http.BadRequest("missing User-Agent header")
	}
	return http.Text(http.StatusOK, ua), nil
}

// Stats is the body of GET /stats.
type Stats struct {
	Server   string `json:"server"`
	Uptime   string `json:"uptime"`
	Requests int64  `json:"requests"`
}

func (a *App) stats(ctx context.Context, req *http.Request, _ Params) (*http.Response, error) {
	return JSON(http.StatusOK, Stats{
		Server:   a.name,
		Uptime:   time.Since(a.started).Round(time.Second).String(),
		Requests: a.requests.Load(),
	})
}

// JSON encodes v as an application/json response.
func JSON(status http.Status, v interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, http.InternalServerError(err)
	}
	resp := http.NewResponse(status, buf.Bytes())
	resp.Headers.Set("Content-Type", "application/json")
	return resp, nil
}
