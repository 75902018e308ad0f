package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/exec"
	"scout/internal/middleware"
	"scout/internal/pool"
	"scout/internal/target"
)

// registerTransferTools registers beam, the SFTP upload/download
// executor from spec.md §4.4.
func registerTransferTools(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("beam",
			mcp.WithDescription("Transfer a file between the local machine and a remote host over SFTP"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address for the remote side")),
			mcp.WithString("local_path", mcp.Required(), mcp.Description("path on the machine scout runs on")),
			mcp.WithString("direction", mcp.Description(`"upload", "download", or "auto" (default: auto, chosen from local_path's existence)`)),
		),
		createBeamHandler(d),
	)
}

func createBeamHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		localPath, err := req.RequireString("local_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		direction := exec.Direction(req.GetString("direction", string(exec.Auto)))

		t, err := target.RequireHost(raw)
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}

		text, err := pool.WithSession(ctx, d.pool, t.Host, func(sess pool.Session) (string, error) {
			res, err := exec.Beam(sess, localPath, t.Path, direction)
			if err != nil {
				return "", err
			}
			if !res.OK {
				return "", fmt.Errorf("%s: %s", res.Direction, res.Message)
			}
			return fmt.Sprintf("%s: %d bytes (%s)", res.Direction, res.BytesTransferred, res.Message), nil
		})
		if err != nil {
			return mcp.NewToolResultError(middleware.FormatError(err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
