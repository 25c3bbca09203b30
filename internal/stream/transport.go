package stream

import (
	"context"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
)

// Credentials opens a streaming session. They are opaque to this package.
type Credentials struct {
	User     string
	Password string
	Endpoint string
}

// CredentialsProvider supplies the credentials of the logged in session.
type CredentialsProvider interface {
	StreamingCredentials(ctx context.Context) (Credentials, error)
}

// AccountsProvider lists the accounts of the active client.
// It is borrowed by the Builder and must outlive it.
type AccountsProvider interface {
	CurrentAccounts() []model.AccountRef
}

// Coercer turns a raw field set into a typed record.
type Coercer interface {
	Coerce(kind enum.UpdateKind, fields model.Fields) (model.Record, error)
}

// Update is one push delivered by the transport for one item.
type Update struct {
	// Item is the topic key the push belongs to.
	Item string
	// Changed holds the fields carried by the push.
	Changed map[string]string
	// Fields holds the merged state of the item. Only MERGE subscriptions fill it.
	Fields map[string]string
}

// Request declares a subscription to the transport.
type Request struct {
	Mode     enum.MergeMode
	Items    []string
	Fields   []string
	Snapshot bool
}

// Handle identifies an active subscription.
type Handle uint64

// ItemError is a transport error that concerns a single item.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string {
	return e.Item + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives transport errors. fatal reports that the connection is gone.
type ErrorHandler func(err error, fatal bool)

// Transport opens push connections.
type Transport interface {
	Open(ctx context.Context, cred Credentials, onError ErrorHandler) (Conn, error)
}

// Conn is one open push connection. Handlers passed to Subscribe are invoked
// on the transport delivery goroutine, one push at a time.
type Conn interface {
	Subscribe(ctx context.Context, req Request, handler func(Update)) (Handle, error)
	Unsubscribe(ctx context.Context, h Handle) error
	Close() error
}
