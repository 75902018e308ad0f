// Package tools adapts MCP tool and resource requests onto the
// executors in internal/exec, the fan-out in internal/broadcast, and
// the connection pool in internal/pool. Every single-host handler here
// parses a target string, resolves a session through the retry
// wrapper in withHostSession, and formats the executor's result (or
// error) into a reply. beam calls pool.WithSession itself rather than
// going through withHostSession, with the same retry behaviour.
// diff_files is the one handler without the retry wrapper: it compares
// two independently-resolved hosts, so it acquires both sessions
// directly (see createDiffFilesHandler).
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"scout/internal/config"
	"scout/internal/middleware"
	"scout/internal/pool"
	"scout/internal/target"
)

// deps bundles what every handler needs, so registerXxxTools functions
// take one value instead of three.
type deps struct {
	pool    *pool.Pool
	cfg     *config.Config
	catalog *config.Catalog
}

// withHostSession resolves raw into a concrete host (rejecting "hosts"),
// acquires a session with the retry wrapper, and runs fn. Any error —
// validation, pool, or fn's own — becomes a tool error reply rather than
// a Go error, so the MCP turn continues per spec.md §7.
func withHostSession(ctx context.Context, d deps, raw string, fn func(sess pool.Session, path string) (string, error)) (*mcp.CallToolResult, error) {
	t, err := target.RequireHost(raw)
	if err != nil {
		return mcp.NewToolResultError(middleware.FormatError(err)), nil
	}

	text, err := pool.WithSession(ctx, d.pool, t.Host, func(sess pool.Session) (string, error) {
		return fn(sess, t.Path)
	})
	if err != nil {
		return mcp.NewToolResultError(middleware.FormatError(err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
