package exception

import "github.com/yanun0323/errors"

var (
	ErrConnection   = errors.New("connection failed")
	ErrTransport    = errors.New("transport error")
	ErrNotConnected = errors.New("no active session")
)
