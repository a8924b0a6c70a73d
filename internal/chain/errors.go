package chain

import "errors"

var (
	// ErrTransport reports a network failure or timeout talking to the node.
	ErrTransport = errors.New("chain transport error")
	// ErrDecode reports a malformed node response.
	ErrDecode = errors.New("chain decode error")
	// ErrNotFound reports a height above the node's tip or below its pruned base.
	ErrNotFound = errors.New("chain height not found")
)

// ErrorKind returns a short label classifying err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "store"
	}
}
