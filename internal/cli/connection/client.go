// Package connection provides the wire-protocol client for strand-cli.
package connection

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/strandkv/strand/internal/resp"
)

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 10 * time.Second

// Client is a single-connection wire-protocol client. It is not safe for
// concurrent use; the CLI sends one request at a time.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	buf     []byte
	tmp     []byte
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Dial connects to a strand server.
func Dial(addr string, opts ...Option) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
		tmp:     make([]byte, 4096),
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := net.DialTimeout("tcp", addr, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c.conn = conn
	return c, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command as an array of bulk strings and returns the decoded
// reply. Blocking commands may legitimately exceed the request timeout, so
// the deadline is extended by the caller-supplied wait.
func (c *Client) Do(args ...string) (resp.Value, error) {
	return c.DoWait(0, args...)
}

// DoWait is Do with extra headroom for commands that block server-side.
func (c *Client) DoWait(wait time.Duration, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.Value{}, errors.New("empty command")
	}

	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkStringText(a)
	}
	req := resp.Array(elems...).Encode()

	deadline := time.Now().Add(c.timeout + wait)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Value{}, err
	}
	if _, err := c.conn.Write(req); err != nil {
		return resp.Value{}, fmt.Errorf("send: %w", err)
	}

	for {
		if len(c.buf) > 0 {
			v, n, err := resp.Decode(c.buf)
			if err == nil {
				c.buf = c.buf[n:]
				return v, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				return resp.Value{}, fmt.Errorf("bad reply: %w", err)
			}
		}
		n, err := c.conn.Read(c.tmp)
		if n > 0 {
			c.buf = append(c.buf, c.tmp[:n]...)
			continue
		}
		if err != nil {
			return resp.Value{}, fmt.Errorf("recv: %w", err)
		}
	}
}
