package pool

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Session is the subset of a live SSH connection the executors need. The
// pool is the only component that constructs and closes a Session;
// executors borrow one for the duration of a single call and never close
// it themselves.
type Session interface {
	// Exec runs cmd on a fresh channel and returns its captured output.
	// Cancelling ctx sends SIGKILL to the remote process and returns
	// ctx.Err(); it never hangs past ctx's deadline.
	Exec(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error)
	// SFTP returns a lazily-created, connection-scoped SFTP client.
	SFTP() (*sftp.Client, error)
	// IsOpen reports whether the underlying transport is still alive.
	IsOpen() bool
	// Close tears down the SFTP subsystem (if opened) and the connection.
	Close() error
}

// clientSession adapts *ssh.Client to Session, caching the SFTP
// subsystem the way the teacher's internal/ssh.Client does.
type clientSession struct {
	mu   sync.Mutex
	conn *ssh.Client
	sftp *sftp.Client
}

func newClientSession(conn *ssh.Client) *clientSession {
	return &clientSession{conn: conn}
}

// Exec mirrors the teacher's Client.Run: start the command on its own
// channel, stream stdout/stderr concurrently, and race the read against
// ctx so a cancelled caller never blocks on a wedged remote process.
func (c *clientSession) Exec(ctx context.Context, cmd string) ([]byte, []byte, int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, nil, 0, errClosed
	}

	session, err := conn.NewSession()
	if err != nil {
		return nil, nil, 0, err
	}
	defer session.Close()

	stdoutPipe, err := session.StdoutPipe()
	if err != nil {
		return nil, nil, 0, err
	}
	stderrPipe, err := session.StderrPipe()
	if err != nil {
		return nil, nil, 0, err
	}

	if err := session.Start(cmd); err != nil {
		return nil, nil, 0, err
	}

	type output struct {
		stdout, stderr []byte
	}
	done := make(chan output, 1)
	go func() {
		var errOut []byte
		errDone := make(chan struct{})
		go func() {
			errOut, _ = io.ReadAll(stderrPipe)
			close(errDone)
		}()
		out, _ := io.ReadAll(stdoutPipe)
		<-errDone
		done <- output{stdout: out, stderr: errOut}
	}()

	var res output
	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return nil, nil, 0, ctx.Err()
	case res = <-done:
	}

	exitCode := 0
	if err := session.Wait(); err != nil {
		var exitErr *ssh.ExitError
		if ok := asExitError(err, &exitErr); ok {
			exitCode = exitErr.ExitStatus()
		} else {
			return res.stdout, res.stderr, 0, err
		}
	}

	return res.stdout, res.stderr, exitCode, nil
}

func asExitError(err error, target **ssh.ExitError) bool {
	if e, ok := err.(*ssh.ExitError); ok {
		*target = e
		return true
	}
	return false
}

func (c *clientSession) SFTP() (*sftp.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, errClosed
	}
	if c.sftp != nil {
		return c.sftp, nil
	}
	client, err := sftp.NewClient(c.conn)
	if err != nil {
		return nil, err
	}
	c.sftp = client
	return client, nil
}

func (c *clientSession) IsOpen() bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}
	_, _, err := conn.SendRequest("keepalive@scout", true, nil)
	return err == nil
}

func (c *clientSession) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sftp != nil {
		c.sftp.Close()
		c.sftp = nil
	}
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
