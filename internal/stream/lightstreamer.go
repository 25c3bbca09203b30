package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"

	"venuestream/internal/model/enum"
	"venuestream/pkg/lightstreamer"
)

// LightstreamerTransport opens connections with the TLCP client.
type LightstreamerTransport struct {
	AdapterSet     string
	ConnectTimeout time.Duration
	// Dialer is optional, see lightstreamer.Config.
	Dialer *websocket.Dialer
}

func (t LightstreamerTransport) Open(ctx context.Context, cred Credentials, onError ErrorHandler) (Conn, error) {
	if t.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.ConnectTimeout)
		defer cancel()
	}

	client, err := lightstreamer.Dial(ctx, lightstreamer.Config{
		Endpoint:   cred.Endpoint,
		User:       cred.User,
		Password:   cred.Password,
		AdapterSet: t.AdapterSet,
		Dialer:     t.Dialer,
	}, func(err error, fatal bool) {
		onError(itemErrorOf(err), fatal)
	})
	if err != nil {
		return nil, err
	}
	return &lightstreamerConn{client: client}, nil
}

// itemErrorOf tags errors that concern one item with that item.
func itemErrorOf(err error) error {
	var overflow *lightstreamer.OverflowError
	if errors.As(err, &overflow) {
		return &ItemError{Item: overflow.Item, Err: err}
	}
	return err
}

type lightstreamerConn struct {
	client *lightstreamer.Client
}

func (c *lightstreamerConn) Subscribe(ctx context.Context, req Request, handler func(Update)) (Handle, error) {
	merge := req.Mode == enum.MergeModeMerge
	id, err := c.client.Subscribe(ctx, lightstreamer.Subscription{
		Mode:     lightstreamer.Mode(req.Mode.String()),
		Items:    req.Items,
		Fields:   req.Fields,
		Snapshot: req.Snapshot,
	}, func(u lightstreamer.ItemUpdate) {
		update := Update{Item: u.ItemName, Changed: u.Changed}
		if merge {
			update.Fields = u.Fields
		}
		handler(update)
	})
	if err != nil {
		return 0, err
	}
	return Handle(id), nil
}

func (c *lightstreamerConn) Unsubscribe(ctx context.Context, h Handle) error {
	return c.client.Unsubscribe(ctx, int(h))
}

func (c *lightstreamerConn) Close() error {
	return c.client.Close()
}
