package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// ByteProvider is the transport a Conn reads requests from and writes
// responses to. Implementations are used by a single goroutine.
type ByteProvider interface {
	// Finished reports that the peer ended the stream. No further Read
	// returns data once it is true.
	Finished() bool
	// Read fills p with the next available bytes. End of stream is a
	// zero-length read with a nil error that makes Finished true.
	Read(ctx context.Context, p []byte) (int, error)
	// Write queues p for the peer.
	Write(ctx context.Context, p []byte) error
	// Flush sends everything queued by Write.
	Flush(ctx context.Context) error
	Close() error
}

// aLongTimeAgo is a deadline in the past, used to interrupt blocked I/O.
var aLongTimeAgo = time.Unix(1, 0)

// ConnProvider adapts a net.Conn. Context cancellation interrupts a blocked
// read or write through the connection deadlines.
type ConnProvider struct {
	conn     net.Conn
	w        *bufio.Writer
	finished bool
}

var _ ByteProvider = (*ConnProvider)(nil)

// NewConnProvider wraps conn with a buffered writer.
func NewConnProvider(conn net.Conn) *ConnProvider {
	return &ConnProvider{conn: conn, w: bufio.NewWriter(conn)}
}

// Finished reports whether the peer closed its side of the stream.
func (p *ConnProvider) Finished() bool { return p.finished }

// Read reads from the connection.
func (p *ConnProvider) Read(ctx context.Context, b []byte) (int, error) {
	if p.finished {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	done := interruptOn(ctx, p.conn.SetReadDeadline)
	n, err := p.conn.Read(b)
	if cerr := done(); cerr != nil {
		return n, cerr
	}
	if errors.Is(err, io.EOF) {
		p.finished = true
		return n, nil
	}
	return n, err
}

// Write buffers b.
func (p *ConnProvider) Write(ctx context.Context, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := interruptOn(ctx, p.conn.SetWriteDeadline)
	_, err := p.w.Write(b)
	if cerr := done(); cerr != nil {
		return cerr
	}
	return err
}

// Flush writes any buffered bytes to the connection.
func (p *ConnProvider) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := interruptOn(ctx, p.conn.SetWriteDeadline)
	err := p.w.Flush()
	if cerr := done(); cerr != nil {
		return cerr
	}
	return err
}

// Close closes the connection without flushing.
func (p *ConnProvider) Close() error { return p.conn.Close() }

// RemoteAddr returns the peer address.
func (p *ConnProvider) RemoteAddr() net.Addr { return p.conn.RemoteAddr() }

// interruptOn arms setDeadline to fire when ctx is done. The returned func
// disarms it and reports ctx.Err() if the interrupt fired.
func interruptOn(ctx context.Context, setDeadline func(time.Time) error) func() error {
	if dl, ok := ctx.Deadline(); ok {
		_ = setDeadline(dl)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = setDeadline(aLongTimeAgo)
	})
	return func() error {
		stopped := stop()
		_ = setDeadline(time.Time{})
		if !stopped || ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
}
