package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/exec"
	"scout/internal/pool"
)

// registerCoreTools registers stat_path and run_command, spec.md §4.4's
// two general-purpose operations.
func registerCoreTools(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("stat_path",
			mcp.WithDescription("Report whether a remote path is a file, a directory, or neither"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host or host:path address")),
		),
		createStatPathHandler(d),
	)

	s.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Run a shell command on a remote host, bounded by a two-layer timeout"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host or host:cwd address; cwd defaults to the host's home directory")),
			mcp.WithString("command", mcp.Required(), mcp.Description("shell command to run")),
			mcp.WithNumber("timeout", mcp.Description("timeout in seconds (default: command_timeout)")),
		),
		createRunCommandHandler(d),
	)
}

func createStatPathHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			kind, err := exec.StatPath(ctx, sess, path)
			if err != nil {
				return "", err
			}
			if kind == "" {
				return fmt.Sprintf("%s: neither a file nor a directory", path), nil
			}
			return fmt.Sprintf("%s: %s", path, kind), nil
		})
	}
}

func createRunCommandHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		command, err := req.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		timeout := req.GetInt("timeout", int(d.cfg.CommandTimeout.Seconds()))

		return withHostSession(ctx, d, raw, func(sess pool.Session, cwd string) (string, error) {
			res, err := exec.RunCommand(ctx, sess, d.cfg, cwd, command, timeout)
			if err != nil {
				return "", err
			}
			return formatCommandResult(res), nil
		})
	}
}

func formatCommandResult(res exec.CommandResult) string {
	status := fmt.Sprintf("exit=%d", res.ReturnCode)
	if res.TimedOut {
		status = "timed_out=true " + status
	}
	out := fmt.Sprintf("[%s]\n", status)
	if res.Stdout != "" {
		out += res.Stdout
	}
	if res.Stderr != "" {
		out += "\n--- stderr ---\n" + res.Stderr
	}
	return out
}
