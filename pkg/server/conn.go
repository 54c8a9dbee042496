package server

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shapestone/shape-httpd/internal/metrics"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
	"github.com/shapestone/shape-httpd/pkg/http"
)

// DefaultReadBufferSize bounds a single provider read.
const DefaultReadBufferSize = 1024

// Options configure a Conn or Server.
type Options struct {
	ServerName         string        // Server header value; "shape-httpd" when empty
	ReadBufferSize     int           // DefaultReadBufferSize when zero
	MaxLineLength      int           // see tokenizer.Options
	MaxHeaderBytes     int           // see tokenizer.Options
	MaxBodySize        int64         // see tokenizer.Options
	MaxConnections     int           // concurrent connections; zero is unlimited
	DrainTimeout       time.Duration // bound on writing a response; zero is unbounded
	Logger             *zerolog.Logger
	Metrics            *metrics.Metrics

	// CloseDelimitedBody reads the body of a request without Content-Length
	// until the provider reports end of stream, which also ends the
	// connection. By default such a body is empty and ends at the blank line,
	// so the connection stays usable for the next request.
	CloseDelimitedBody bool
}

func (o Options) withDefaults() Options {
	if o.ServerName == "" {
		o.ServerName = "shape-httpd"
	}
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = DefaultReadBufferSize
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Conn drives one connection: it reads requests from a ByteProvider, hands
// them to the Application and writes back the responses, in order.
// A Conn is not safe for concurrent use.
type Conn struct {
	provider ByteProvider
	app      Application
	opts     Options
	log      zerolog.Logger

	tok      *tokenizer.Tokenizer
	readBuf  []byte
	writeBuf []byte
}

// NewConn returns a driver for provider.
func NewConn(provider ByteProvider, app Application, opts Options) *Conn {
	opts = opts.withDefaults()
	return &Conn{
		provider: provider,
		app:      app,
		opts:     opts,
		log:      *opts.Logger,
		tok: tokenizer.New(tokenizer.Options{
			MaxLineLength:      opts.MaxLineLength,
			MaxHeaderBytes:     opts.MaxHeaderBytes,
			MaxBodySize:        opts.MaxBodySize,
			CloseDelimitedBody: opts.CloseDelimitedBody,
		}),
		readBuf: make([]byte, opts.ReadBufferSize),
	}
}

// Serve runs the request loop until the peer finishes the stream, a request
// asks to close, a request fails to parse, ctx is done or the transport
// fails. Only transport failures are returned. The provider is closed on
// return.
func (c *Conn) Serve(ctx context.Context) error {
	defer c.provider.Close()

	for {
		req, err := c.readRequest(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errIdle):
			return nil
		case http.IsParseError(err):
			c.opts.Metrics.ParseError()
			c.log.Debug().Err(err).Msg("request rejected")
			resp, _ := errorResponse(c.opts.ServerName, err)
			return c.respond(ctx, "", time.Now(), resp)
		case ctx.Err() != nil:
			return nil
		default:
			c.log.Warn().Err(err).Msg("read failed")
			return err
		}

		start := time.Now()
		resp, closeAfter := c.dispatch(ctx, req)
		if err := c.respond(ctx, req.Method().String(), start, resp); err != nil {
			return err
		}
		if closeAfter || ctx.Err() != nil {
			return nil
		}
		if c.tok.Finished() && c.tok.Buffered() == 0 {
			return nil
		}
		c.tok.Reset()
	}
}

var errIdle = errors.New("server: stream ended between requests")

// readRequest feeds provider bytes to the tokenizer until a request is
// complete.
func (c *Conn) readRequest(ctx context.Context) (*http.Request, error) {
	for {
		status, err := c.tok.Parse()
		if err != nil {
			return nil, err
		}
		if status == tokenizer.StatusDone {
			tr, err := c.tok.Request()
			if err != nil {
				return nil, err
			}
			return http.FromTokenized(tr), nil
		}
		if c.tok.Finished() {
			return nil, errIdle
		}

		n, err := c.provider.Read(ctx, c.readBuf)
		if n > 0 {
			c.tok.Feed(c.readBuf[:n])
		}
		if err != nil {
			return nil, err
		}
		if c.provider.Finished() {
			c.tok.Finish()
		}
	}
}

// dispatch runs the application and maps its error, if any, to a response.
func (c *Conn) dispatch(ctx context.Context, req *http.Request) (*http.Response, bool) {
	resp, err := c.app.Serve(ctx, req)
	if err == nil && resp == nil {
		err = errNoResponse
	}

	closeAfter := req.Close()
	if err != nil {
		var mustClose bool
		resp, mustClose = errorResponse(c.opts.ServerName, err)
		closeAfter = closeAfter || mustClose

		ev := c.log.Debug()
		if resp.Status >= http.StatusInternalServerError {
			ev = c.log.Error()
		}
		ev.Err(err).Str("method", req.Method().String()).Str("path", req.Path().Raw()).
			Int("status", resp.Status.Code()).Msg("application error")
	}

	// The returned response may be shared; headers are added to a copy.
	out := *resp
	out.Headers = resp.Headers.Clone()
	resp = &out

	if _, ok := resp.Headers.Lookup("Server"); !ok {
		resp.Headers.Set("Server", c.opts.ServerName)
	}
	if closeAfter {
		resp.Headers.Set("Connection", "close")
	}
	return resp, closeAfter
}

// respond writes resp and flushes it. The write outlives cancellation of
// ctx, bounded by DrainTimeout, so a computed response is never dropped.
func (c *Conn) respond(ctx context.Context, method string, start time.Time, resp *http.Response) error {
	buf, err := http.AppendResponse(c.writeBuf[:0], resp)
	if err != nil {
		c.log.Error().Err(err).Int("status", resp.Status.Code()).Msg("response rejected by generator")
		resp, _ = errorResponse(c.opts.ServerName, err)
		buf, err = http.AppendResponse(c.writeBuf[:0], resp)
		if err != nil {
			return err
		}
	}
	c.writeBuf = buf

	wctx, cancel := c.drainContext(ctx)
	defer cancel()
	if err := c.provider.Write(wctx, buf); err != nil {
		c.log.Warn().Err(err).Msg("write failed")
		return err
	}
	if err := c.provider.Flush(wctx); err != nil {
		c.log.Warn().Err(err).Msg("flush failed")
		return err
	}

	c.opts.Metrics.Request(method, resp.Status.Code(), time.Since(start))
	c.log.Debug().Str("method", method).Int("status", resp.Status.Code()).
		Dur("duration", time.Since(start)).Msg("http_request")
	return nil
}

func (c *Conn) drainContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.opts.DrainTimeout > 0 {
		return context.WithTimeout(detached, c.opts.DrainTimeout)
	}
	return context.WithCancel(detached)
}
