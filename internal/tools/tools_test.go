package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/sftp"

	"scout/internal/config"
	"scout/internal/pool"
)

// fakeSession is a pool.Session whose Exec returns the same scripted
// output for every command (or fails, when fail is set), letting a test
// stand in for cat/ls/run without a real SSH server.
type fakeSession struct {
	hostName string
	fail     bool
	output   string
}

func (f *fakeSession) Exec(ctx context.Context, cmd string) ([]byte, []byte, int, error) {
	if f.fail {
		return nil, []byte("boom"), 1, fmt.Errorf("exec failed on %s", f.hostName)
	}
	return []byte(f.output), nil, 0, nil
}
func (f *fakeSession) SFTP() (*sftp.Client, error) { return nil, fmt.Errorf("not available") }
func (f *fakeSession) IsOpen() bool                { return true }
func (f *fakeSession) Close() error                { return nil }

func buildTestDeps(t *testing.T, hosts ...string) deps {
	t.Helper()

	var sb strings.Builder
	for _, n := range hosts {
		fmt.Fprintf(&sb, "Host %s\n  HostName %s\n  User root\n", n, n)
	}
	path := filepath.Join(t.TempDir(), "ssh_config")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cat, err := config.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	cfg := &config.Config{
		MaxPoolSize:       len(hosts) + 1,
		MaxFileSize:       1 << 20,
		MaxOutputSize:     1 << 20,
		IdleTimeout:       time.Hour,
		SSHConnectTimeout: time.Second,
		KnownHostsPath:    "none",
		DiffContext:       3,
		CommandTimeout:    5 * time.Second,
	}
	p, err := pool.New(cfg, cat)
	if err != nil {
		t.Fatalf("pool.New: %v", err)
	}
	t.Cleanup(p.Shutdown)

	return deps{pool: p, cfg: cfg, catalog: cat}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected non-empty tool result content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return tc.Text
}

func TestStatPathHandler(t *testing.T) {
	d := buildTestDeps(t, "web1")
	d.pool.SetDialer(func(h config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: h.Name, output: "f\n"}, nil
	})

	res, err := createStatPathHandler(d)(context.Background(), callReq(map[string]any{
		"target": "web1:/etc/hosts",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, ": file") {
		t.Errorf("expected stat_path to report file, got %q", text)
	}
}

func TestRunCommandHandlerReportsFailure(t *testing.T) {
	d := buildTestDeps(t, "web1")
	d.pool.SetDialer(func(h config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: h.Name, fail: true}, nil
	})

	res, err := createRunCommandHandler(d)(context.Background(), callReq(map[string]any{
		"target":  "web1",
		"command": "false",
	}))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error result for a failed exec")
	}
}

func TestListHostsHandlerReportsOnlineAndOffline(t *testing.T) {
	d := buildTestDeps(t, "good", "bad")
	d.pool.SetDialer(func(h config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: h.Name, fail: h.Name == "bad"}, nil
	})

	res, err := createListHostsHandler(d)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "[✓] good") {
		t.Errorf("expected good host marked online, got %q", text)
	}
	if !strings.Contains(text, "[✗] bad") {
		t.Errorf("expected bad host marked offline, got %q", text)
	}
}

func TestBroadcastRunCommandIsolatesFailures(t *testing.T) {
	d := buildTestDeps(t, "good1", "bad", "good2")
	d.pool.SetDialer(func(h config.SSHHost) (pool.Session, error) {
		return &fakeSession{hostName: h.Name, fail: h.Name == "bad", output: "ok"}, nil
	})

	res, err := createBroadcastRunCommandHandler(d)(context.Background(), callReq(map[string]any{
		"targets": "good1, bad, good2",
		"command": "echo hi",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "=== good1 (ok") || !strings.Contains(text, "=== good2 (ok") {
		t.Errorf("expected good1/good2 to report ok, got %q", text)
	}
	if !strings.Contains(text, "=== bad (error") {
		t.Errorf("expected bad to report error, got %q", text)
	}
}

func TestDiffFilesHandlerAcrossHosts(t *testing.T) {
	d := buildTestDeps(t, "left", "right")
	d.pool.SetDialer(func(h config.SSHHost) (pool.Session, error) {
		content := "same\n"
		if h.Name == "right" {
			content = "different\n"
		}
		return &fakeSession{hostName: h.Name, output: content}, nil
	})

	res, err := createDiffFilesHandler(d)(context.Background(), callReq(map[string]any{
		"target_a": "left:/tmp/a",
		"target_b": "right:/tmp/b",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "-same") || !strings.Contains(text, "+different") {
		t.Errorf("expected a unified diff between the two hosts, got %q", text)
	}
}

func TestListHostsHandlerWithEmptyCatalog(t *testing.T) {
	d := buildTestDeps(t)

	res, err := createListHostsHandler(d)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultText(t, res) != "no hosts configured" {
		t.Errorf("expected the empty-catalog message, got %q", resultText(t, res))
	}
}
