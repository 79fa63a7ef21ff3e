package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned once the link is unusable: the read loop ended or a
// write to the transport failed.
var ErrClosed = errors.New("connection closed")

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one host link. Replies (ack, result) are routed to the
// request waiting for them; every other message goes to its handler on a
// single worker goroutine, in arrival order. Handlers may issue requests.
type Connection struct {
	t        Transport
	handlers map[string]Handler
	Session  string

	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan Envelope
	closed  chan struct{}
	err     error
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		t:        t,
		handlers: handlers,
		pending:  make(map[uint64]chan Envelope),
		closed:   make(chan struct{}),
	}
}

// RegisterHandler must be called before ReadLoop starts.
func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.t.WriteEnvelope(env); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrClosed, env.Type, err)
	}
	return nil
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

// Request sends a message and blocks until its reply arrives, ctx is done or
// the connection closes.
func (c *Connection) Request(ctx context.Context, msgType string, data any) (Envelope, error) {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return Envelope{}, err
	}
	env.ID = c.nextID.Add(1)

	reply := make(chan Envelope, 1)
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return Envelope{}, c.err
	}
	c.pending[env.ID] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, env.ID)
		c.mu.Unlock()
	}()

	if err := c.write(env); err != nil {
		return Envelope{}, err
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return Envelope{}, fmt.Errorf("%s %d: %w", msgType, env.ID, ctx.Err())
	case <-c.closed:
		return Envelope{}, c.Err()
	}
}

// Err reports why the connection closed, or nil while it is open.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done is closed when the read loop ends.
func (c *Connection) Done() <-chan struct{} { return c.closed }

func (c *Connection) Close() error { return c.t.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the
// transport lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	work := make(chan Envelope, 16)
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		for env := range work {
			c.dispatch(env)
		}
	}()

	var readErr error
	for {
		env, err := c.t.ReadEnvelope()
		if err != nil {
			readErr = err
			slog.Info("connection read ended", "session", c.Session, "error", err)
			break
		}
		if isReply(env.Type) {
			c.resolve(env)
			continue
		}
		work <- env
	}

	c.shutdown(readErr)
	close(work)
	<-worker
	_ = c.t.Close()
}

func (c *Connection) resolve(env Envelope) {
	c.mu.Lock()
	reply, ok := c.pending[env.ID]
	c.mu.Unlock()
	if !ok {
		slog.Warn("reply without request", "type", env.Type, "id", env.ID)
		return
	}
	select {
	case reply <- env:
	default:
		slog.Warn("duplicate reply dropped", "type", env.Type, "id", env.ID)
	}
}

func (c *Connection) shutdown(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	c.err = fmt.Errorf("%w: %v", ErrClosed, cause)
	close(c.closed)
}

func (c *Connection) dispatch(env Envelope) {
	handler, ok := c.handlers[env.Type]
	if !ok {
		slog.Warn("no handler for message type", "type", env.Type)
		return
	}

	resp, err := handler(env)
	if err != nil {
		slog.Error("handler error", "type", env.Type, "error", err)
		return
	}

	if resp != nil {
		resp.ID = env.ID
		if err := c.write(*resp); err != nil {
			slog.Error("failed to send response", "type", resp.Type, "error", err)
			return
		}
		slog.Debug("sent response", "type", resp.Type, "session", c.Session)
	}
}

// decodeResult turns a result envelope into the call's outcome.
func decodeResult(method string, env Envelope, out any) error {
	var res ResultMessage
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return fmt.Errorf("unmarshal %s result: %w", method, err)
	}
	if res.Illegal {
		op := res.Op
		if op == "" {
			op = method
		}
		return illegal(op, res.Error)
	}
	if res.Error != "" {
		return &RemoteError{Method: method, Message: res.Error}
	}
	if out == nil || len(res.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Value, out); err != nil {
		return fmt.Errorf("unmarshal %s value: %w", method, err)
	}
	return nil
}

// RemoteError is a non-action failure the host reported for a call.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("host %s: %s", e.Method, e.Message) }
