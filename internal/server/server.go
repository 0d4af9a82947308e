package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"auction-server/internal/protocol"
	"auction-server/internal/transport"
	"auction-server/services/auction/handler"
	"auction-server/utils"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ProtocolHandler serves one unit of work per datagram or accepted connection
type ProtocolHandler interface {
	HandleDatagram(ctx context.Context, data []byte) []byte
	HandleStream(ctx context.Context, s handler.Stream)
}

type Options struct {
	Addr            string // shared by the UDP and TCP listeners
	UDPTimeout      time.Duration
	TCPReadTimeout  time.Duration
	TCPWriteTimeout time.Duration
	AdminAddr       string // empty disables the admin API
}

// Server runs the UDP and TCP protocol listeners and the admin HTTP API
type Server struct {
	opts    Options
	handler ProtocolHandler

	udp   net.PacketConn
	tcp   net.Listener
	admin net.Listener
	http  *http.Server

	closing  atomic.Bool
	inflight sync.WaitGroup
}

// Listen binds every listener so that addresses are known before Serve.
// With port 0 the UDP socket takes the port picked for TCP.
func Listen(opts Options, h ProtocolHandler, admin http.Handler) (*Server, error) {
	if opts.UDPTimeout <= 0 {
		opts.UDPTimeout = transport.DefaultReadTimeout
	}
	s := &Server{opts: opts, handler: h}

	tcp, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen tcp %s: %w", opts.Addr, err)
	}
	s.tcp = tcp

	host, _, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("parse address %s: %w", opts.Addr, err), s.closeListeners())
	}
	port := tcp.Addr().(*net.TCPAddr).Port
	udp, err := net.ListenPacket("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("listen udp: %w", err), s.closeListeners())
	}
	s.udp = udp

	if opts.AdminAddr != "" && admin != nil {
		ln, err := net.Listen("tcp", opts.AdminAddr)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("listen admin %s: %w", opts.AdminAddr, err), s.closeListeners())
		}
		s.admin = ln
		s.http = &http.Server{Handler: admin, ReadHeaderTimeout: 10 * time.Second}
	}
	return s, nil
}

func (s *Server) UDPAddr() net.Addr { return s.udp.LocalAddr() }
func (s *Server) TCPAddr() net.Addr { return s.tcp.Addr() }

// AdminAddr is nil when the admin API is disabled
func (s *Server) AdminAddr() net.Addr {
	if s.admin == nil {
		return nil
	}
	return s.admin.Addr()
}

// Serve runs until ctx is cancelled or a listener fails, then waits for
// in-flight requests to finish.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	// requests already accepted run to completion under their own timeouts
	work := context.WithoutCancel(ctx)

	g.Go(func() error { return s.serveUDP(work) })
	g.Go(func() error { return s.serveTCP(work) })
	if s.http != nil {
		g.Go(func() error {
			if err := s.http.Serve(s.admin); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return s.shutdown()
	})

	utils.Info("server listening", map[string]any{
		"udp":   s.UDPAddr().String(),
		"tcp":   s.TCPAddr().String(),
		"admin": s.opts.AdminAddr,
	})

	err := g.Wait()
	s.inflight.Wait()
	return err
}

func (s *Server) shutdown() error {
	s.closing.Store(true)
	err := s.closeListeners()
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Append(err, s.http.Shutdown(ctx))
	}
	return err
}

func (s *Server) closeListeners() error {
	var err error
	if s.tcp != nil {
		err = multierr.Append(err, s.tcp.Close())
	}
	if s.udp != nil {
		err = multierr.Append(err, s.udp.Close())
	}
	if s.admin != nil && s.http == nil {
		err = multierr.Append(err, s.admin.Close())
	}
	return err
}

func (s *Server) serveUDP(ctx context.Context) error {
	buf := make([]byte, protocol.MaxRequestDatagram+1)
	for {
		n, addr, err := s.udp.ReadFrom(buf)
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("udp read: %w", err)
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()

			reqCtx, cancel := context.WithTimeout(ctx, s.opts.UDPTimeout)
			defer cancel()

			reply := s.handler.HandleDatagram(reqCtx, data)
			if _, err := s.udp.WriteTo(reply, addr); err != nil {
				utils.Warn("serveUDP: reply not sent", map[string]any{
					"peer":  addr.String(),
					"error": err.Error(),
				})
			}
		}()
	}
}

func (s *Server) serveTCP(ctx context.Context) error {
	timeouts := transport.Timeouts{Read: s.opts.TCPReadTimeout, Write: s.opts.TCPWriteTimeout}
	for {
		c, err := s.tcp.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("tcp accept: %w", err)
		}

		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()

			conn := transport.NewConn(c, timeouts)
			defer conn.Close()
			s.handler.HandleStream(ctx, conn)
		}()
	}
}
