package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
	"venuestream/internal/obs"
	"venuestream/pkg/exception"
)

// State is the connection state seen by callers.
type State uint8

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

type Option func(*Session)

// WithCoercer replaces the default model coercer.
func WithCoercer(c Coercer) Option {
	return func(s *Session) {
		if c != nil {
			s.coercer = c
		}
	}
}

func WithMetrics(m *obs.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// StartOptions apply to every descriptor of a StartSubscriptions call.
type StartOptions struct {
	// Snapshot asks the transport for the current state of each item before updates.
	Snapshot bool
}

// Session owns one transport connection and the queue its events land on.
//
// Connect, Disconnect, StartSubscriptions and StopSubscription must be
// serialized by the caller. PopData is meant for a single consumer goroutine.
type Session struct {
	transport   Transport
	credentials CredentialsProvider
	coercer     Coercer
	metrics     *obs.Metrics

	mu    sync.Mutex
	state State
	conn  Conn
	queue *Queue
	gen   uint64
	subs  map[Handle]*atomic.Bool
}

func NewSession(transport Transport, credentials CredentialsProvider, opts ...Option) *Session {
	s := &Session{
		transport:   transport,
		credentials: credentials,
		coercer:     model.NewCoercer(),
		subs:        make(map[Handle]*atomic.Bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect discards any previous connection with its unread events and opens a
// new one. The returned error matches exception.ErrConnection.
func (s *Session) Connect(ctx context.Context) error {
	if s.transport == nil || s.credentials == nil {
		return fmt.Errorf("%w: %w", exception.ErrConnection, exception.ErrNilInstance)
	}

	cred, err := s.credentials.StreamingCredentials(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", exception.ErrConnection, err)
	}

	gen := s.teardown()

	queue := NewQueue()
	conn, err := s.transport.Open(ctx, cred, s.errorHandler(gen, queue))
	if err != nil {
		logs.Errorf("open stream %s, err: %+v", cred.Endpoint, err)
		return fmt.Errorf("%w: %w", exception.ErrConnection, err)
	}

	s.mu.Lock()
	if s.gen != gen || queue.Sealed() {
		s.mu.Unlock()
		_ = conn.Close()
		return errors.Wrap(exception.ErrConnection, "connection lost while connecting")
	}
	s.conn = conn
	s.queue = queue
	s.state = StateConnected
	s.mu.Unlock()

	s.metrics.IncConnect()
	logs.Infof("stream connected to %s", cred.Endpoint)
	return nil
}

// Disconnect closes the connection. Unread events are dropped and a blocked
// PopData returns.
func (s *Session) Disconnect() error {
	s.teardown()
	logs.Info("stream disconnected")
	return nil
}

// teardown detaches the current connection and queue, closes both and
// returns the new generation.
func (s *Session) teardown() uint64 {
	s.mu.Lock()
	conn, queue := s.conn, s.queue
	s.conn = nil
	s.queue = nil
	s.state = StateDisconnected
	s.gen++
	gen := s.gen
	s.metrics.AddSubscriptions(-int64(len(s.subs)))
	s.subs = make(map[Handle]*atomic.Bool)
	s.mu.Unlock()

	if queue != nil {
		queue.Close()
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logs.Warnf("close stream, err: %+v", err)
		}
	}
	return gen
}

// errorHandler turns transport errors into queue events. A fatal error seals
// the queue so the consumer drains what is left and then sees no session.
// The transport has already closed itself when fatal is set.
func (s *Session) errorHandler(gen uint64, queue *Queue) ErrorHandler {
	return func(err error, fatal bool) {
		wrapped := fmt.Errorf("%w: %w", exception.ErrTransport, err)
		if !fatal {
			var itemErr *ItemError
			item := ""
			if errors.As(err, &itemErr) {
				item = itemErr.Item
			}
			logs.Warnf("stream transport %s, err: %+v", item, err)
			s.push(queue, errorEvent(item, wrapped, false))
			return
		}

		logs.Errorf("stream connection lost, err: %+v", err)
		s.metrics.IncFatalError()
		s.push(queue, errorEvent("", wrapped, true))
		queue.Seal()

		s.mu.Lock()
		if s.gen == gen {
			s.conn = nil
			s.state = StateDisconnected
			s.metrics.AddSubscriptions(-int64(len(s.subs)))
			s.subs = make(map[Handle]*atomic.Bool)
		}
		s.mu.Unlock()
	}
}

func (s *Session) push(queue *Queue, ev Event) {
	if !queue.Push(ev) {
		s.metrics.IncQueueRejected()
		return
	}
	s.metrics.ObserveEnqueue(ev.Type, ev.Kind)
}

// StartSubscriptions submits every descriptor and reports one error per
// descriptor, in input order. A failure does not stop the others.
func (s *Session) StartSubscriptions(ctx context.Context, descriptors []Descriptor, opts StartOptions) ([]Handle, []error) {
	handles := make([]Handle, len(descriptors))
	errs := make([]error, len(descriptors))

	s.mu.Lock()
	conn, queue, gen := s.conn, s.queue, s.gen
	s.mu.Unlock()

	if conn == nil {
		for i := range errs {
			errs[i] = fmt.Errorf("%w: %w", exception.ErrSubscriptionStart, exception.ErrNotConnected)
		}
		return handles, errs
	}

	for i, d := range descriptors {
		if !d.valid() {
			errs[i] = fmt.Errorf("%w: %w", exception.ErrSubscriptionStart, exception.ErrInvalidArgument)
			continue
		}

		stopped := &atomic.Bool{}
		h, err := conn.Subscribe(ctx, d.request(opts.Snapshot), s.handler(d, queue, stopped))
		if err != nil {
			logs.Warnf("start %s subscription %v, err: %+v", d.family, d.items, err)
			errs[i] = fmt.Errorf("%w: %w", exception.ErrSubscriptionStart, err)
			continue
		}

		s.mu.Lock()
		if s.gen == gen {
			s.subs[h] = stopped
			s.metrics.AddSubscriptions(1)
		}
		s.mu.Unlock()
		handles[i] = h
		logs.Debugf("started %s subscription %v", d.family, d.items)
	}
	return handles, errs
}

// handler runs on the transport delivery goroutine. It never blocks on the
// consumer: Push only takes the queue lock.
func (s *Session) handler(d Descriptor, queue *Queue, stopped *atomic.Bool) func(Update) {
	normalize := d.normalize
	coercer := s.coercer
	return func(u Update) {
		if stopped.Load() {
			return
		}
		for _, ev := range normalize(coercer, u) {
			if ev.Type == enum.EventTypeTransportError {
				s.metrics.IncNormalizeError()
				logs.Errorf("normalize %s, err: %+v", u.Item, ev.Err)
			}
			s.push(queue, ev)
		}
	}
}

// StopSubscription suppresses further events of h. Events already queued stay.
func (s *Session) StopSubscription(ctx context.Context, h Handle) error {
	s.mu.Lock()
	conn := s.conn
	stopped, ok := s.subs[h]
	if ok {
		delete(s.subs, h)
		stopped.Store(true)
		s.metrics.AddSubscriptions(-1)
	}
	s.mu.Unlock()

	if conn == nil {
		return exception.ErrNotConnected
	}
	if !ok {
		return errors.Wrap(exception.ErrUnknownSubscription, "stop subscription").With("handle", h)
	}
	if err := conn.Unsubscribe(ctx, h); err != nil {
		return errors.Wrap(err, "unsubscribe")
	}
	return nil
}

// PopData returns the next event, blocking until one arrives. It reports
// false at once when there is no session, and after the queue of a lost
// session is drained.
func (s *Session) PopData() (Event, bool) {
	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()
	if queue == nil {
		return Event{}, false
	}

	ev, ok := queue.Pop()
	if ok {
		s.metrics.ObserveDelivery(time.Since(ev.ReceivedAt))
	}
	return ev, ok
}

// HasDataAvailable reports whether PopData would return without blocking on
// an event. It never consumes.
func (s *Session) HasDataAvailable() bool {
	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()
	return queue != nil && queue.Len() > 0
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
