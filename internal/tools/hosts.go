package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/pool"
)

// pingTimeout bounds a single liveness check. It is deliberately short
// and independent of command_timeout: a hosts listing should return
// promptly even when a handful of catalog entries are unreachable.
const pingTimeout = 5 * time.Second

// registerHostsTool registers the scenario-S1 catalog listing: every
// configured host, its hostname:port, and a liveness indicator from a
// parallel ping.
func registerHostsTool(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("list_hosts",
			mcp.WithDescription(`List every catalog entry with an online/offline liveness indicator (the "hosts" target)`),
		),
		createListHostsHandler(d),
	)
}

type hostStatus struct {
	name   string
	addr   string
	online bool
}

func createListHostsHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hosts := d.catalog.Hosts()
		if len(hosts) == 0 {
			return mcp.NewToolResultText("no hosts configured"), nil
		}

		results := make([]hostStatus, len(hosts))
		var wg sync.WaitGroup
		for i, h := range hosts {
			wg.Add(1)
			go func(i int, name, hostname string, port int) {
				defer wg.Done()
				results[i] = hostStatus{
					name:   name,
					addr:   fmt.Sprintf("%s:%d", hostname, port),
					online: pingHost(ctx, d.pool, name),
				}
			}(i, h.Name, h.Hostname, h.Port)
		}
		wg.Wait()

		var b strings.Builder
		for _, r := range results {
			indicator := "[✗]"
			if r.online {
				indicator = "[✓]"
			}
			fmt.Fprintf(&b, "%s %s (%s)\n", indicator, r.name, r.addr)
		}
		return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
	}
}

// pingHost reports whether a session can be acquired and a trivial
// command executed within pingTimeout. A stale pooled connection that
// fails here is left for the next real operation's retry wrapper to
// invalidate and redial; the ping itself doesn't call Invalidate.
func pingHost(ctx context.Context, p *pool.Pool, hostName string) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sess, err := p.Acquire(pingCtx, hostName)
	if err != nil {
		return false
	}
	_, _, _, err = sess.Exec(pingCtx, "true")
	return err == nil
}
