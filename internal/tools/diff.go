package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/exec"
	"scout/internal/middleware"
	"scout/internal/pool"
	"scout/internal/target"
)

// registerDiffTools registers diff_files and diff_with_content, the two
// comparison executors from spec.md §4.4.
func registerDiffTools(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("diff_files",
			mcp.WithDescription("Unified diff between a path on one host and a path on another (or the same) host"),
			mcp.WithString("target_a", mcp.Required(), mcp.Description("host:path address for the left side")),
			mcp.WithString("target_b", mcp.Required(), mcp.Description("host:path address for the right side")),
			mcp.WithNumber("context", mcp.Description("diff context lines (default: diff_context)")),
		),
		createDiffFilesHandler(d),
	)

	s.AddTool(
		mcp.NewTool("diff_with_content",
			mcp.WithDescription("Unified diff between a remote file and an in-request string"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
			mcp.WithString("expected", mcp.Required(), mcp.Description("content to diff the remote file against")),
			mcp.WithNumber("context", mcp.Description("diff context lines (default: diff_context)")),
		),
		createDiffWithContentHandler(d),
	)
}

func createDiffFilesHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawA, err := req.RequireString("target_a")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rawB, err := req.RequireString("target_b")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		contextLines := req.GetInt("context", d.cfg.DiffContext)

		tA, err := target.RequireHost(rawA)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}
		tB, err := target.RequireHost(rawB)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}

		// Both sides are acquired directly rather than through
		// pool.WithSession: a single retry here would need to redial
		// whichever side failed without disturbing the other, and the
		// one-shot wrapper isn't shaped for that. A transport error on
		// either Exec call below surfaces as a plain error and the tool
		// call fails outright rather than silently comparing stale data.
		sessA, err := d.pool.Acquire(ctx, tA.Host)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}
		sessB, err := d.pool.Acquire(ctx, tB.Host)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}

		text, identical, truncated, err := exec.DiffFiles(ctx, sessA, d.cfg, tA.Path, sessB, tB.Path, contextLines)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}
		return mcp.NewToolResultText(formatDiffResult(text, identical, truncated)), nil
	}
}

func createDiffWithContentHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		expected, err := req.RequireString("expected")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		contextLines := req.GetInt("context", d.cfg.DiffContext)

		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			text, identical, truncated, err := exec.DiffWithContent(ctx, sess, d.cfg, path, expected, contextLines)
			if err != nil {
				return "", err
			}
			return formatDiffResult(text, identical, truncated), nil
		})
	}
}

func formatDiffResult(text string, identical, truncated bool) string {
	if identical {
		msg := "identical"
		if truncated {
			msg += " (compared against max_file_size-truncated prefixes)"
		}
		return msg
	}
	if truncated {
		text += "\n[note: one or both files exceeded max_file_size; diff computed against the truncated prefix]"
	}
	return text
}
