package realtime

import (
	"errors"
	"sync"
)

var errClientClosed = errors.New("client closed")

// Client wraps one subscriber connection. Writes are serialized: the hub
// broadcast and the echo path may both write concurrently and the
// underlying websocket connection allows only one writer at a time.
type Client struct {
	mu     sync.Mutex
	conn   Conn
	closed bool
}

// Send writes a message to the subscriber. Returns an error if the client
// is already closed or the write fails.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClientClosed
	}
	return c.conn.WriteJSON(msg)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
}
