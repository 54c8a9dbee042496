// Package server runs HTTP/1.1 connections over the shape-httpd tokenizer
// and response generator.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Server accepts connections and serves each one with a Conn.
type Server struct {
	app  Application
	opts Options
}

// New returns a Server for app.
func New(app Application, opts Options) *Server {
	return &Server{app: app, opts: opts.withDefaults()}
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

type deadliner interface {
	SetDeadline(time.Time) error
}

// Serve accepts connections from ln until ctx is done or Accept fails.
//
// On cancellation the accept loop stops, every connection observes the
// cancelled context and writes out any response it already computed, and
// Serve waits for all of them before closing ln. It returns nil after a
// cancellation and the Accept error otherwise.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	if s.opts.MaxConnections > 0 {
		g.SetLimit(s.opts.MaxConnections)
	}

	stop := context.AfterFunc(ctx, func() {
		if d, ok := ln.(deadliner); ok {
			_ = d.SetDeadline(aLongTimeAgo)
			return
		}
		_ = ln.Close()
	})
	defer stop()

	s.opts.Logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	var acceptErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil {
				acceptErr = err
				s.opts.Logger.Error().Err(err).Msg("accept failed")
			}
			break
		}
		g.Go(func() error {
			s.serveConn(ctx, conn)
			return nil
		})
	}

	cancel()
	_ = g.Wait()
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.opts.Logger.Debug().Err(err).Msg("close listener")
	}
	s.opts.Logger.Info().Msg("stopped")
	return acceptErr
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := s.opts.Logger.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", nc.RemoteAddr().String()).
		Logger()

	provider := NewConnProvider(nc)
	if ctx.Err() != nil {
		_ = provider.Close()
		return
	}

	s.opts.Metrics.ConnOpened()
	defer s.opts.Metrics.ConnClosed()

	opts := s.opts
	opts.Logger = &logger
	logger.Debug().Msg("connection opened")
	if err := NewConn(provider, s.app, opts).Serve(ctx); err != nil {
		logger.Warn().Err(err).Msg("connection ended with error")
		return
	}
	logger.Debug().Msg("connection closed")
}
