package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/broadcast"
	"scout/internal/exec"
	"scout/internal/pool"
)

// registerBroadcastTools registers the fan-out operations from spec.md
// §4.5. Targets are accepted as a single comma-separated string rather
// than a JSON array: nothing elsewhere in this tool surface uses array
// parameters, and splitting a delimited string keeps every handler in
// this package reading its arguments the same way.
func registerBroadcastTools(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("broadcast_cat_file",
			mcp.WithDescription("Read the same relative path on multiple hosts in parallel"),
			mcp.WithString("targets", mcp.Required(), mcp.Description("comma-separated host:path addresses")),
		),
		createBroadcastCatFileHandler(d),
	)

	s.AddTool(
		mcp.NewTool("broadcast_run_command",
			mcp.WithDescription("Run the same command on multiple hosts in parallel, bounded by a per-host timeout"),
			mcp.WithString("targets", mcp.Required(), mcp.Description("comma-separated host or host:cwd addresses")),
			mcp.WithString("command", mcp.Required(), mcp.Description("shell command to run on every target")),
			mcp.WithNumber("timeout", mcp.Description("timeout in seconds per host (default: command_timeout)")),
		),
		createBroadcastRunCommandHandler(d),
	)
}

func splitTargets(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func createBroadcastCatFileHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawTargets, err := req.RequireString("targets")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		targets := splitTargets(rawTargets)

		results := broadcast.Run(ctx, d.pool, targets, func(ctx context.Context, sess pool.Session, path string) (string, error) {
			content, truncated, err := exec.CatFileWithConfig(ctx, sess, d.cfg, path)
			if err != nil {
				return "", err
			}
			if truncated {
				content += "\n…[truncated]"
			}
			return content, nil
		})
		return mcp.NewToolResultText(formatBroadcastResults(results)), nil
	}
}

func createBroadcastRunCommandHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawTargets, err := req.RequireString("targets")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		command, err := req.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		timeout := req.GetInt("timeout", int(d.cfg.CommandTimeout.Seconds()))
		targets := splitTargets(rawTargets)

		results := broadcast.Run(ctx, d.pool, targets, func(ctx context.Context, sess pool.Session, cwd string) (string, error) {
			res, err := exec.RunCommand(ctx, sess, d.cfg, cwd, command, timeout)
			if err != nil {
				return "", err
			}
			return formatCommandResult(res), nil
		})
		return mcp.NewToolResultText(formatBroadcastResults(results)), nil
	}
}

func formatBroadcastResults(results []broadcast.Result) string {
	var b strings.Builder
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "error"
		}
		fmt.Fprintf(&b, "=== %s (%s, %dms) ===\n", r.Target, status, r.ElapsedMs)
		if r.OK {
			b.WriteString(r.Payload)
		} else {
			b.WriteString(r.Error)
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
