// Package client issues protocol requests on behalf of one user session.
// Each request is a single exchange: one datagram, or one TCP connection.
package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/config"
	"auction-server/internal/filetransfer"
	"auction-server/internal/protocol"
	"auction-server/internal/transport"
	"auction-server/utils"
)

// Session is the user the client acts for
type Session struct {
	UID      string
	Password string
	LoggedIn bool
}

type Client struct {
	addr     string
	timeouts transport.Timeouts
	udp      *transport.DatagramClient

	mu      sync.Mutex
	session Session
}

func New(addr string, timeouts transport.Timeouts) *Client {
	return &Client{
		addr:     addr,
		timeouts: timeouts,
		udp:      transport.NewDatagramClient(addr, timeouts),
	}
}

// NewFromConfig returns a client of the server named by cfg
func NewFromConfig(cfg config.ClientConfig) *Client {
	return New(cfg.Addr(), transport.Timeouts{
		Dial:  cfg.DialTimeout,
		Read:  cfg.ReadTimeout,
		Write: cfg.WriteTimeout,
	})
}

func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// credentials returns the logged in user or ErrNoSession
func (c *Client) credentials() (Session, error) {
	s := c.Session()
	if !s.LoggedIn {
		return Session{}, auctionerrors.ErrNoSession
	}
	return s, nil
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Exit fails while a user is still logged in
func (c *Client) Exit() error {
	if c.Session().LoggedIn {
		return auctionerrors.ErrSessionActive
	}
	return nil
}

func (c *Client) statusExchange(ctx context.Context, req protocol.Message) (protocol.Status, error) {
	reply, err := c.udp.Exchange(ctx, req)
	if err != nil {
		return "", fmt.Errorf("client: %s: %w", req.Kind(), err)
	}
	status := reply.(*protocol.StatusReply).Status
	utils.Debug("client: reply", map[string]any{"kind": reply.Kind().String(), "status": string(status)})
	return status, nil
}

// Login starts a session. REG and OK both log the user in.
func (c *Client) Login(ctx context.Context, uid, password string) (protocol.Status, error) {
	if c.Session().LoggedIn {
		return "", auctionerrors.ErrSessionActive
	}

	status, err := c.statusExchange(ctx, &protocol.LoginRequest{UID: uid, Password: password})
	if err != nil {
		return "", err
	}
	if status == protocol.StatusOK || status == protocol.StatusREG {
		c.setSession(Session{UID: uid, Password: password, LoggedIn: true})
	}
	return status, nil
}

// Logout ends the session whatever the server answers
func (c *Client) Logout(ctx context.Context) (protocol.Status, error) {
	s, err := c.credentials()
	if err != nil {
		return "", err
	}
	status, err := c.statusExchange(ctx, &protocol.LogoutRequest{UID: s.UID, Password: s.Password})
	if err != nil {
		return "", err
	}
	c.setSession(Session{})
	return status, nil
}

// Unregister ends the session whatever the server answers
func (c *Client) Unregister(ctx context.Context) (protocol.Status, error) {
	s, err := c.credentials()
	if err != nil {
		return "", err
	}
	status, err := c.statusExchange(ctx, &protocol.UnregisterRequest{UID: s.UID, Password: s.Password})
	if err != nil {
		return "", err
	}
	c.setSession(Session{})
	return status, nil
}

func (c *Client) list(ctx context.Context, req protocol.Message) (*protocol.ListReply, error) {
	reply, err := c.udp.Exchange(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", req.Kind(), err)
	}
	return reply.(*protocol.ListReply), nil
}

func (c *Client) MyAuctions(ctx context.Context) (*protocol.ListReply, error) {
	s, err := c.credentials()
	if err != nil {
		return nil, err
	}
	return c.list(ctx, &protocol.MyAuctionsRequest{UID: s.UID})
}

func (c *Client) MyBids(ctx context.Context) (*protocol.ListReply, error) {
	s, err := c.credentials()
	if err != nil {
		return nil, err
	}
	return c.list(ctx, &protocol.MyBidsRequest{UID: s.UID})
}

func (c *Client) List(ctx context.Context) (*protocol.ListReply, error) {
	return c.list(ctx, &protocol.ListRequest{})
}

func (c *Client) ShowRecord(ctx context.Context, aid string) (*protocol.RecordReply, error) {
	reply, err := c.udp.Exchange(ctx, &protocol.ShowRecordRequest{AID: aid})
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", protocol.KindSRC, err)
	}
	return reply.(*protocol.RecordReply), nil
}

// stream opens a connection, writes req and hands the connection to fn
func (c *Client) stream(ctx context.Context, req protocol.Message, fn func(conn *transport.Conn) error) error {
	conn, err := transport.Dial(ctx, c.addr, c.timeouts)
	if err != nil {
		return fmt.Errorf("client: %s: %w", req.Kind(), err)
	}
	defer conn.Close()

	if err := conn.Send(req); err != nil {
		return fmt.Errorf("client: %s: %w", req.Kind(), err)
	}
	if err := fn(conn); err != nil {
		return fmt.Errorf("client: %s: %w", req.Kind(), err)
	}
	return nil
}

func (c *Client) streamStatus(ctx context.Context, req protocol.Message) (protocol.Status, error) {
	var status protocol.Status
	err := c.stream(ctx, req, func(conn *transport.Conn) error {
		reply, err := conn.Decoder().ReadExpected(req.Kind().Reply())
		if err != nil {
			return err
		}
		status = reply.(*protocol.StatusReply).Status
		return nil
	})
	return status, err
}

// Open uploads body as the asset of a new auction. It returns the
// assigned AID when the reply status is OK.
func (c *Client) Open(ctx context.Context, name string, startValue, durationSecs int, asset filetransfer.FileInfo, body io.Reader, p *filetransfer.Progress) (*protocol.OpenReply, error) {
	s, err := c.credentials()
	if err != nil {
		return nil, err
	}

	req := &protocol.OpenRequest{
		UID:          s.UID,
		Password:     s.Password,
		Name:         name,
		StartValue:   startValue,
		DurationSecs: durationSecs,
	}
	var reply *protocol.OpenReply
	err = c.stream(ctx, req, func(conn *transport.Conn) error {
		if err := filetransfer.Send(conn, asset, body, p); err != nil {
			return err
		}
		m, err := conn.Decoder().ReadExpected(protocol.KindROA)
		if err != nil {
			return err
		}
		reply = m.(*protocol.OpenReply)
		return nil
	})
	return reply, err
}

// OpenFile is Open with the asset read from path
func (c *Client) OpenFile(ctx context.Context, name, path string, startValue, durationSecs int, p *filetransfer.Progress) (*protocol.OpenReply, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	info := filetransfer.FileInfo{Name: filepath.Base(path), Size: stat.Size()}
	return c.Open(ctx, name, startValue, durationSecs, info, file, p)
}

func (c *Client) Close(ctx context.Context, aid string) (protocol.Status, error) {
	s, err := c.credentials()
	if err != nil {
		return "", err
	}
	return c.streamStatus(ctx, &protocol.CloseRequest{UID: s.UID, Password: s.Password, AID: aid})
}

func (c *Client) Bid(ctx context.Context, aid string, value int) (protocol.Status, error) {
	s, err := c.credentials()
	if err != nil {
		return "", err
	}
	return c.streamStatus(ctx, &protocol.BidRequest{UID: s.UID, Password: s.Password, AID: aid, Value: value})
}

// ShowAsset downloads the asset of aid into dst. The file info is set
// only when the status is OK; dst holds garbage if an error is returned.
func (c *Client) ShowAsset(ctx context.Context, aid string, dst io.Writer, p *filetransfer.Progress) (protocol.Status, filetransfer.FileInfo, error) {
	var (
		status protocol.Status
		info   filetransfer.FileInfo
	)
	err := c.stream(ctx, &protocol.ShowAssetRequest{AID: aid}, func(conn *transport.Conn) error {
		m, err := conn.Decoder().ReadExpected(protocol.KindRSA)
		if err != nil {
			return err
		}
		status = m.(*protocol.ShowAssetReply).Status
		if status != protocol.StatusOK {
			return nil
		}
		info, err = filetransfer.Receive(conn.Decoder(), dst, p)
		return err
	})
	return status, info, err
}
