package lightstreamer

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultAdapterSet   = "DEFAULT"
	DefaultClientID     = "mgQkwtwdysogQz2BJ4Ji kOj2Bg"
	DefaultStallGrace   = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	endpointPath = "/lightstreamer"
)

// Config defines how a session is opened.
type Config struct {
	Endpoint   string
	User       string
	Password   string
	AdapterSet string
	ClientID   string
	// Dialer is copied before use. Nil means websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// StallGrace is added to the server keepalive to form the read deadline.
	StallGrace   time.Duration
	WriteTimeout time.Duration
}

// ErrorHandler receives errors raised outside a request. fatal reports that
// the client has already closed itself.
type ErrorHandler func(err error, fatal bool)

// Client is one TLCP session over one WebSocket.
type Client struct {
	conn    *websocket.Conn
	cfg     Config
	onError ErrorHandler

	writeMu sync.Mutex

	mu      sync.Mutex
	reqID   int
	subID   int
	pending map[int]chan error
	subs    map[int]*subscription

	sessionID string
	keepAlive time.Duration
	backlog   []string

	closed atomic.Bool
	done   chan struct{}
}

// Dial opens the socket and creates a session. The returned client reads
// until Close is called or the session fails.
func Dial(ctx context.Context, cfg Config, onError ErrorHandler) (*Client, error) {
	endpoint, err := wsURL(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if len(cfg.AdapterSet) == 0 {
		cfg.AdapterSet = DefaultAdapterSet
	}
	if len(cfg.ClientID) == 0 {
		cfg.ClientID = DefaultClientID
	}
	if cfg.StallGrace <= 0 {
		cfg.StallGrace = DefaultStallGrace
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if onError == nil {
		onError = func(error, bool) {}
	}

	dialer := *websocket.DefaultDialer
	if cfg.Dialer != nil {
		dialer = *cfg.Dialer
	}
	dialer.Subprotocols = []string{Subprotocol}

	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:    conn,
		cfg:     cfg,
		onError: onError,
		pending: make(map[int]chan error),
		subs:    make(map[int]*subscription),
		done:    make(chan struct{}),
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	err = c.handshake()
	if !stop() {
		_ = conn.Close()
		return nil, ctx.Err()
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

func wsURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || len(u.Host) == 0 {
		return "", ErrInvalidEndpoint
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", ErrInvalidEndpoint
	}
	if len(u.Path) == 0 || u.Path == "/" {
		u.Path = endpointPath
	}
	return u.String(), nil
}

func (c *Client) handshake() error {
	if err := c.write(encodeRequest(reqWSOK)); err != nil {
		return err
	}
	if err := c.expect(tagWSOK); err != nil {
		return err
	}

	if err := c.write(encodeRequest(reqCreateSession,
		param{"LS_cid", c.cfg.ClientID},
		param{"LS_adapter_set", c.cfg.AdapterSet},
		param{"LS_user", c.cfg.User},
		param{"LS_password", c.cfg.Password},
		param{"LS_send_sync", "false"},
	)); err != nil {
		return err
	}

	for {
		line, err := c.nextLine()
		if err != nil {
			return err
		}
		tag, args := splitMessage(line, 4)
		switch tag {
		case tagCONOK:
			if len(args) < 3 {
				return ErrProtocol
			}
			c.sessionID = args[0]
			if ms, err := strconv.Atoi(args[2]); err == nil && ms > 0 {
				c.keepAlive = time.Duration(ms) * time.Millisecond
			}
			return nil
		case tagCONERR:
			return parseServerError(ErrSessionRefused, args)
		case tagEND:
			return parseServerError(ErrSessionEnded, args)
		case tagERROR:
			return parseServerError(ErrProtocol, args)
		}
	}
}

func (c *Client) expect(want string) error {
	line, err := c.nextLine()
	if err != nil {
		return err
	}
	if tag, _ := splitMessage(line, 0); tag != want {
		return ErrProtocol
	}
	return nil
}

// nextLine returns the next protocol line, reading a new frame when the
// backlog is empty.
func (c *Client) nextLine() (string, error) {
	for len(c.backlog) == 0 {
		if c.keepAlive > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.keepAlive + c.cfg.StallGrace))
		}
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return "", ErrStalled
			}
			return "", err
		}
		c.backlog = splitLines(string(frame))
	}
	line := c.backlog[0]
	c.backlog = c.backlog[1:]
	return line, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		line, err := c.nextLine()
		if err != nil {
			c.fail(err)
			return
		}
		if err := c.dispatch(line); err != nil {
			c.fail(err)
			return
		}
	}
}

// fail closes the socket and reports err once, unless Close got there first.
func (c *Client) fail(err error) {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	_ = c.conn.Close()
	c.onError(err, true)
}

func (c *Client) dispatch(line string) error {
	tag, args := splitMessage(line, 2)
	switch tag {
	case tagUpdate:
		_, args = splitMessage(line, 3)
		return c.onUpdate(args)
	case tagREQOK:
		c.ack(args, nil)
	case tagREQERR:
		_, args = splitMessage(line, 3)
		if len(args) > 0 {
			c.ack(args[:1], parseServerError(ErrRequestRejected, args[1:]))
		}
	case tagEOS, tagCS:
		sub, pos := c.lookup(args)
		if sub == nil {
			return nil
		}
		if tag == tagEOS {
			sub.endOfSnapshot(pos)
		} else {
			sub.clearSnapshot(pos)
		}
	case tagOV:
		_, args = splitMessage(line, 3)
		sub, pos := c.lookup(args)
		if sub == nil || len(args) < 3 || pos < 1 || pos > len(sub.def.Items) {
			return nil
		}
		lost, _ := strconv.Atoi(args[2])
		c.onError(&OverflowError{Subscription: sub.id, Item: sub.def.Items[pos-1], Lost: lost}, false)
	case tagUNSUB:
		if len(args) > 0 {
			if id, err := strconv.Atoi(args[0]); err == nil {
				c.mu.Lock()
				delete(c.subs, id)
				c.mu.Unlock()
			}
		}
	case tagEND:
		return parseServerError(ErrSessionEnded, args)
	case tagERROR:
		return parseServerError(ErrProtocol, args)
	case tagCONERR:
		return parseServerError(ErrSessionRefused, args)
	case tagLOOP:
		return &ServerError{Sentinel: ErrSessionEnded, Message: "rebind requested"}
	}
	return nil
}

func (c *Client) onUpdate(args []string) error {
	if len(args) < 3 {
		return ErrProtocol
	}
	sub, pos := c.lookup(args[:2])
	if sub == nil || sub.stopped.Load() {
		return nil
	}
	update, err := sub.apply(pos, args[2])
	if err != nil {
		return err
	}
	sub.handler(update)
	return nil
}

func (c *Client) lookup(args []string) (*subscription, int) {
	if len(args) < 2 {
		return nil, 0
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, 0
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, 0
	}
	c.mu.Lock()
	sub := c.subs[id]
	c.mu.Unlock()
	return sub, pos
}

func (c *Client) ack(args []string, err error) {
	if len(args) == 0 {
		return
	}
	id, convErr := strconv.Atoi(args[0])
	if convErr != nil {
		return
	}
	c.mu.Lock()
	ch, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if ok {
		ch <- err
	}
}

// Subscribe sends a subscription request and waits for the server to accept
// it. handler runs on the read goroutine and must not call Close.
func (c *Client) Subscribe(ctx context.Context, def Subscription, handler Handler) (int, error) {
	if handler == nil {
		return 0, ErrInvalidSubscription
	}
	if err := def.validate(); err != nil {
		return 0, err
	}
	def.Items = append([]string(nil), def.Items...)
	def.Fields = append([]string(nil), def.Fields...)

	c.mu.Lock()
	c.reqID++
	c.subID++
	reqID, subID := c.reqID, c.subID
	c.subs[subID] = newSubscription(subID, def, handler)
	c.mu.Unlock()

	if err := c.request(ctx, reqID, def.params(reqID, subID)); err != nil {
		c.mu.Lock()
		delete(c.subs, subID)
		c.mu.Unlock()
		return 0, err
	}
	return subID, nil
}

// Unsubscribe stops delivery for id and asks the server to drop it.
func (c *Client) Unsubscribe(ctx context.Context, id int) error {
	c.mu.Lock()
	sub, ok := c.subs[id]
	if ok {
		delete(c.subs, id)
		sub.stopped.Store(true)
	}
	c.reqID++
	reqID := c.reqID
	c.mu.Unlock()
	if !ok {
		return ErrUnknownSubscription
	}

	return c.request(ctx, reqID, []param{
		{"LS_reqId", itoa(reqID)},
		{"LS_op", opDelete},
		{"LS_subId", itoa(id)},
	})
}

func (c *Client) request(ctx context.Context, reqID int, params []param) error {
	if c.closed.Load() {
		return ErrClosed
	}
	ack := make(chan error, 1)
	c.mu.Lock()
	c.pending[reqID] = ack
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, reqID)
		c.mu.Unlock()
	}

	if err := c.write(encodeRequest(reqControl, params...)); err != nil {
		forget()
		return err
	}

	select {
	case err := <-ack:
		return err
	case <-c.done:
		forget()
		return ErrClosed
	case <-ctx.Done():
		forget()
		return ctx.Err()
	}
}

func (c *Client) write(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Close ends the session and waits for the read goroutine to exit.
// It must not be called from a Handler or an ErrorHandler.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	}
	<-c.done
	return nil
}

// Done is closed once the read goroutine has exited.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// KeepAlive is the keepalive interval announced by the server.
func (c *Client) KeepAlive() time.Duration {
	return c.keepAlive
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
