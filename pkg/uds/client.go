package uds

import (
	"context"
	"net"

	"tradecore/pkg/exception"
)

const unixNetwork = "unix"

// Client dials Unix domain sockets using a precomputed address.
type Client struct {
	addr     net.UnixAddr
	maxFrame int
}

// NewClient creates a client for the provided socket path. A maxFrame of zero
// selects DefaultMaxFrameSize.
func NewClient(path string, maxFrame int) (*Client, error) {
	if path == "" {
		return nil, exception.ErrEmptyPathUDS
	}
	return &Client{addr: net.UnixAddr{Name: path, Net: unixNetwork}, maxFrame: maxFrame}, nil
}

// Path returns the configured socket path.
func (c *Client) Path() string {
	if c == nil {
		return ""
	}
	return c.addr.Name
}

// Dial opens a framed connection.
func (c *Client) Dial(ctx context.Context) (*Conn, error) {
	if c == nil {
		return nil, exception.ErrNilClientUDS
	}
	if c.addr.Name == "" {
		return nil, exception.ErrEmptyPathUDS
	}
	var d net.Dialer
	raw, err := d.DialContext(ctx, unixNetwork, c.addr.Name)
	if err != nil {
		return nil, err
	}
	return newConn(raw.(*net.UnixConn), c.maxFrame), nil
}
