// Package transport carries single request/reply exchanges over UDP and TCP
// with fixed timeouts. Failures are reported as auctionerrors.ErrIO and never retried.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/protocol"
)

const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Timeouts bounds every blocking step of an exchange
type Timeouts struct {
	Dial  time.Duration
	Read  time.Duration
	Write time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Dial <= 0 {
		t.Dial = DefaultDialTimeout
	}
	if t.Read <= 0 {
		t.Read = DefaultReadTimeout
	}
	if t.Write <= 0 {
		t.Write = DefaultWriteTimeout
	}
	return t
}

func ioError(op string, err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %s: timed out", auctionerrors.ErrIO, op)
	}
	return fmt.Errorf("%w: %s: %w", auctionerrors.ErrIO, op, err)
}

// Conn is one TCP connection carrying exactly one request/reply exchange.
// All request bytes are written before any reply byte is read.
type Conn struct {
	conn     net.Conn
	timeouts Timeouts
	decoder  *protocol.Decoder
}

// Dial connects to addr within the dial timeout
func Dial(ctx context.Context, addr string, timeouts Timeouts) (*Conn, error) {
	timeouts = timeouts.withDefaults()
	dialer := net.Dialer{Timeout: timeouts.Dial}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, ioError("connect", err)
	}
	return NewConn(conn, timeouts), nil
}

// NewConn wraps an established connection, for example one accepted by a listener
func NewConn(conn net.Conn, timeouts Timeouts) *Conn {
	c := &Conn{conn: conn, timeouts: timeouts.withDefaults()}
	c.decoder = protocol.NewDecoder(readerFunc(c.read))
	return c
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func (c *Conn) read(p []byte) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeouts.Read)); err != nil {
		return 0, ioError("set read deadline", err)
	}
	n, err := c.conn.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, ioError("read", err)
	}
	return n, err
}

// Write writes all of b or fails. Each call gets a fresh write deadline.
func (c *Conn) Write(b []byte) (int, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeouts.Write)); err != nil {
		return 0, ioError("set write deadline", err)
	}
	written := 0
	for written < len(b) {
		n, err := c.conn.Write(b[written:])
		written += n
		if err != nil {
			return written, ioError("write", err)
		}
		if n == 0 {
			return written, fmt.Errorf("%w: write: no progress", auctionerrors.ErrIO)
		}
	}
	return written, nil
}

// Send encodes m and writes it
func (c *Conn) Send(m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	_, err = c.Write(data)
	return err
}

// Decoder reads reply bytes under the read timeout
func (c *Conn) Decoder() *protocol.Decoder {
	return c.decoder
}

// CloseWrite signals the peer that the request is complete, when supported
func (c *Conn) CloseWrite() error {
	if tc, ok := c.conn.(interface{ CloseWrite() error }); ok {
		if err := tc.CloseWrite(); err != nil {
			return ioError("close write", err)
		}
	}
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// DatagramClient sends one datagram and waits for one reply
type DatagramClient struct {
	addr     string
	timeouts Timeouts
}

func NewDatagramClient(addr string, timeouts Timeouts) *DatagramClient {
	return &DatagramClient{addr: addr, timeouts: timeouts.withDefaults()}
}

// Exchange sends req and decodes a single reply of the kind it expects.
// The receive buffer is one byte larger than the reply bound so oversize replies are detected.
func (c *DatagramClient) Exchange(ctx context.Context, req protocol.Message) (protocol.Message, error) {
	data, err := protocol.Encode(req)
	if err != nil {
		return nil, err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", c.addr)
	if err != nil {
		return nil, ioError("resolve", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeouts.Write + c.timeouts.Read)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, ioError("set deadline", err)
	}

	n, err := conn.Write(data)
	if err != nil {
		return nil, ioError("send", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: send: short write of %d/%d bytes", auctionerrors.ErrIO, n, len(data))
	}

	want := req.Kind().Reply()
	buf := make([]byte, protocol.MaxDatagram(want)+1)
	n, err = conn.Read(buf)
	if err != nil {
		return nil, ioError("receive", err)
	}
	if n == len(buf) {
		return nil, fmt.Errorf("%w: %s reply exceeds %d bytes", auctionerrors.ErrFormat, want, n-1)
	}
	return protocol.DecodeAs(buf[:n], want)
}
