package pool

import (
	"context"
	"errors"
	"io"
	"net"
)

// WithSession acquires a session for hostName, runs fn against it, and
// — if fn fails with what looks like a transport error — invalidates the
// cached connection and retries exactly once against a freshly dialed
// session. A single stale connection therefore costs one extra dial, not
// a failed call, per spec.md §4.3's testable retry-once property.
func WithSession[T any](ctx context.Context, p *Pool, hostName string, fn func(Session) (T, error)) (T, error) {
	var zero T

	sess, err := p.Acquire(ctx, hostName)
	if err != nil {
		return zero, err
	}

	result, err := fn(sess)
	if err == nil || !isTransportError(err) {
		return result, err
	}

	p.Invalidate(hostName)
	sess, err = p.Acquire(ctx, hostName)
	if err != nil {
		return zero, err
	}
	return fn(sess)
}

// isTransportError reports whether err looks like a broken connection
// rather than a command/application-level failure, i.e. whether retrying
// against a fresh dial is worth attempting.
func isTransportError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	if errors.Is(err, errClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
