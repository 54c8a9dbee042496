// Command shape-httpd serves the demo application over the shape-httpd
// HTTP/1.1 stack.
//
// Usage:
//
//	shape-httpd [-config path]        run the server
//	shape-httpd inspect [file]        print the AST of a message as JSON
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/internal/app"
	"github.com/shapestone/shape-httpd/internal/config"
	"github.com/shapestone/shape-httpd/internal/logging"
	"github.com/shapestone/shape-httpd/internal/metrics"
	"github.com/shapestone/shape-httpd/pkg/http"
	"github.com/shapestone/shape-httpd/pkg/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "shape-httpd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "inspect" {
		return inspect(args[1:], stdin, stdout)
	}

	fs := flag.NewFlagSet("shape-httpd", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := logging.New("shape-httpd", logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if *configPath != "" {
		logger.Info().Str("path", *configPath).Msg("loaded config")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, reg, logger)
	}

	srv := server.New(app.New(cfg.ServerName), server.Options{
		ServerName:         cfg.ServerName,
		ReadBufferSize:     cfg.ReadBufferSize,
		MaxLineLength:      cfg.MaxLineLength,
		MaxHeaderBytes:     cfg.MaxHeaderBytes,
		MaxBodySize:        cfg.MaxBodySize,
		CloseDelimitedBody: cfg.CloseDelimitedBody,
		MaxConnections:     cfg.MaxConnections,
		DrainTimeout:       cfg.DrainTimeout,
		Logger:             &logger,
		Metrics:            m,
	})
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) {
	mux := nethttp.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	ms := &nethttp.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = ms.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := ms.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}

// inspect parses one HTTP message and prints its AST as indented JSON.
func inspect(args []string, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	node, err := http.ParseReader(in)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	out, err := json.MarshalIndent(http.NodeToInterface(node), "", "  ")
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "%s\n", out)
	return err
}
