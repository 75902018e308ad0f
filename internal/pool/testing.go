package pool

import "scout/internal/config"

// SetDialer overrides how Acquire dials new connections. It exists for
// packages downstream of pool (broadcast, tools) to exercise the pool
// against a fake session in their own tests without a real SSH server;
// production callers never call it.
func (p *Pool) SetDialer(dial func(config.SSHHost) (Session, error)) {
	p.dialFunc = dial
}
