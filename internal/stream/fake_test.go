package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errFakeRejected = errors.New("fake: subscription rejected")

type fakeTransport struct {
	mu      sync.Mutex
	conns   []*fakeConn
	openErr error
	creds   []Credentials
	// priorClosed records, per opened conn, whether the previous conn was
	// already closed when Open ran.
	priorClosed []bool
}

func (t *fakeTransport) Open(_ context.Context, cred Credentials, onError ErrorHandler) (Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creds = append(t.creds, cred)
	if t.openErr != nil {
		return nil, t.openErr
	}
	c := &fakeConn{
		onError:  onError,
		handlers: make(map[Handle]func(Update)),
		items:    make(map[string]Handle),
	}
	if n := len(t.conns); n > 0 {
		t.priorClosed = append(t.priorClosed, t.conns[n-1].isClosed())
	} else {
		t.priorClosed = append(t.priorClosed, true)
	}
	t.conns = append(t.conns, c)
	return c, nil
}

func (t *fakeTransport) conn(i int) *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[i]
}

type fakeConn struct {
	mu       sync.Mutex
	onError  ErrorHandler
	next     Handle
	handlers map[Handle]func(Update)
	items    map[string]Handle
	requests []Request
	closed   bool
}

func (c *fakeConn) Subscribe(_ context.Context, req Request, handler func(Update)) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.New("fake: closed")
	}
	for _, item := range req.Items {
		if item == "MARKET:REJECT" {
			return 0, errFakeRejected
		}
	}
	c.next++
	c.handlers[c.next] = handler
	for _, item := range req.Items {
		c.items[item] = c.next
	}
	c.requests = append(c.requests, req)
	return c.next, nil
}

func (c *fakeConn) Unsubscribe(_ context.Context, h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[h]; !ok {
		return errors.New("fake: unknown handle")
	}
	delete(c.handlers, h)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// push delivers an update the way a transport does: synchronously, on the
// caller goroutine.
func (c *fakeConn) push(item string, changed, fields map[string]string) {
	c.mu.Lock()
	handler := c.handlers[c.items[item]]
	c.mu.Unlock()
	if handler != nil {
		handler(Update{Item: item, Changed: changed, Fields: fields})
	}
}

func (c *fakeConn) handlerOf(h Handle) func(Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handlers[h]
}

func (c *fakeConn) fail(err error) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.onError(err, true)
}

func popWithin(t *testing.T, s *Session, d time.Duration) (Event, bool) {
	t.Helper()
	type result struct {
		ev Event
		ok bool
	}
	ch := make(chan result, 1)
	go func() {
		ev, ok := s.PopData()
		ch <- result{ev, ok}
	}()
	select {
	case r := <-ch:
		return r.ev, r.ok
	case <-time.After(d):
		t.Fatal("PopData did not return in time")
	}
	return Event{}, false
}
