package exception

import "errors"

// Stream errors
var (
	// ErrMalformedTopicKey is returned when a topic key does not match the grammar of its family.
	ErrMalformedTopicKey = errors.New("stream: malformed topic key")

	// ErrCoercion is returned when a raw field set cannot be turned into a typed record.
	ErrCoercion = errors.New("stream: coercion failed")

	// ErrSubscriptionStart is returned per descriptor when the transport rejects a subscription.
	ErrSubscriptionStart = errors.New("stream: subscription start failed")

	ErrUnknownSubscription = errors.New("stream: unknown subscription")
	ErrNoAccounts          = errors.New("stream: no accounts available")
)
