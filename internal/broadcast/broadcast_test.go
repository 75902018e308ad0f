package broadcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/sftp"

	"scout/internal/config"
	"scout/internal/pool"
)

// fakeSession is a pool.Session whose Exec behavior is fixed per host,
// letting a test make one target fail and the rest succeed.
type fakeSession struct {
	hostName string
	fail     bool
	delay    time.Duration
}

func (f *fakeSession) Exec(ctx context.Context, cmd string) ([]byte, []byte, int, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		return nil, nil, 1, fmt.Errorf("boom on %s", f.hostName)
	}
	return []byte("ok:" + f.hostName), nil, 0, nil
}
func (f *fakeSession) SFTP() (*sftp.Client, error) { return nil, fmt.Errorf("not available") }
func (f *fakeSession) IsOpen() bool                { return true }
func (f *fakeSession) Close() error                { return nil }

func buildTestPool(t *testing.T, hostNames ...string) *pool.Pool {
	t.Helper()

	var sb string
	for _, n := range hostNames {
		sb += fmt.Sprintf("Host %s\n  HostName %s\n  User root\n", n, n)
	}
	path := filepath.Join(t.TempDir(), "ssh_config")
	if err := os.WriteFile(path, []byte(sb), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cat, err := config.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	cfg := &config.Config{
		MaxPoolSize:       len(hostNames) + 1,
		IdleTimeout:       time.Hour,
		SSHConnectTimeout: time.Second,
		KnownHostsPath:    "none",
	}
	p, err := pool.New(cfg, cat)
	if err != nil {
		t.Fatalf("pool.New: %v", err)
	}
	t.Cleanup(p.Shutdown)
	return p
}

func echoOp(ctx context.Context, sess pool.Session, path string) (string, error) {
	stdout, _, _, err := sess.Exec(ctx, "echo")
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

func TestRunPreservesInputOrder(t *testing.T) {
	p := buildTestPool(t, "web1", "web2", "web3")
	p.SetDialer(func(host config.SSHHost) (pool.Session, error) {
		delay := time.Duration(0)
		if host.Name == "web1" {
			delay = 30 * time.Millisecond // slowest target finishes last
		}
		return &fakeSession{hostName: host.Name, delay: delay}, nil
	})

	results := Run(context.Background(), p, []string{"web1", "web2", "web3"}, echoOp)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"web1", "web2", "web3"}
	for i, r := range results {
		if r.Target != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, r.Target, want[i])
		}
		if !r.OK {
			t.Errorf("result[%d] (%s) unexpectedly failed: %s", i, r.Target, r.Error)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	p := buildTestPool(t, "good1", "bad", "good2")
	p.SetDialer(func(host config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: host.Name, fail: host.Name == "bad"}, nil
	})

	results := Run(context.Background(), p, []string{"good1", "bad", "good2"}, echoOp)

	if !results[0].OK || !results[2].OK {
		t.Fatalf("expected good1/good2 to succeed, got %+v / %+v", results[0], results[2])
	}
	if results[1].OK {
		t.Fatal("expected bad to fail")
	}
	if results[1].Error == "" {
		t.Error("expected an error message on the failed target")
	}
	if results[0].HostName != "good1" || results[2].HostName != "good2" {
		t.Errorf("unexpected host names: %+v", results)
	}
}

func TestRunRejectsHostsCommandTarget(t *testing.T) {
	p := buildTestPool(t, "web1")
	p.SetDialer(func(host config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: host.Name}, nil
	})

	results := Run(context.Background(), p, []string{"hosts"}, echoOp)
	if len(results) != 1 || results[0].OK {
		t.Fatalf("expected \"hosts\" target to be rejected, got %+v", results)
	}
}

func TestRunRejectsUnknownHost(t *testing.T) {
	p := buildTestPool(t, "web1")
	p.SetDialer(func(host config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: host.Name}, nil
	})

	results := Run(context.Background(), p, []string{"ghost"}, echoOp)
	if len(results) != 1 || results[0].OK {
		t.Fatalf("expected unknown host to fail, got %+v", results)
	}
}

func TestRunHasNoImplicitConcurrencyCap(t *testing.T) {
	hostNames := make([]string, 20)
	for i := range hostNames {
		hostNames[i] = fmt.Sprintf("h%d", i)
	}
	p := buildTestPool(t, hostNames...)
	p.SetDialer(func(host config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: host.Name, delay: 20 * time.Millisecond}, nil
	})

	start := time.Now()
	results := Run(context.Background(), p, hostNames, echoOp)
	elapsed := time.Since(start)

	// 20 targets at 20ms each run concurrently; a hidden serialization
	// or small worker cap would push this well past one delay interval.
	if elapsed > 200*time.Millisecond {
		t.Fatalf("fan-out took %v, looks serialized", elapsed)
	}
	for _, r := range results {
		if !r.OK {
			t.Errorf("unexpected failure: %+v", r)
		}
	}
}
