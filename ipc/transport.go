package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Transport moves envelopes. Reads happen on one goroutine; Connection
// serializes writes.
type Transport interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(Envelope) error
	Close() error
}

// socketTransport frames envelopes with a length prefix over a stream
// connection (unix socket, TCP, net.Pipe).
type socketTransport struct {
	conn net.Conn
}

func NewSocketTransport(conn net.Conn) Transport {
	return &socketTransport{conn: conn}
}

func (t *socketTransport) ReadEnvelope() (Envelope, error)  { return ReadEnvelope(t.conn) }
func (t *socketTransport) WriteEnvelope(env Envelope) error { return WriteEnvelope(t.conn, env) }
func (t *socketTransport) Close() error                     { return t.conn.Close() }

// wsTransport sends one envelope per websocket text frame.
type wsTransport struct {
	conn *websocket.Conn
}

func NewWSTransport(conn *websocket.Conn) Transport {
	conn.SetReadLimit(maxFrame)
	return &wsTransport{conn: conn}
}

// DialWS connects to a host's websocket endpoint.
func DialWS(ctx context.Context, url string) (Transport, error) {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := d.DialContext(ctx, url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return NewWSTransport(conn), nil
}

func (t *wsTransport) ReadEnvelope() (Envelope, error) {
	var env Envelope
	if err := t.conn.ReadJSON(&env); err != nil {
		return Envelope{}, fmt.Errorf("read frame: %w", err)
	}
	return env, nil
}

func (t *wsTransport) WriteEnvelope(env Envelope) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return t.conn.WriteJSON(env)
}

func (t *wsTransport) Close() error { return t.conn.Close() }
