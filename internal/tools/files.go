package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/exec"
	"scout/internal/pool"
	"scout/internal/syntax"
)

// registerFileTools registers the read-only and write file operations
// from spec.md §4.4 plus the supplemented write/validate pair from
// SPEC_FULL.md §4.7.
func registerFileTools(s *server.MCPServer, d deps) {
	s.AddTool(
		mcp.NewTool("cat_file",
			mcp.WithDescription("Read a remote file, bounded by max_file_size"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
		),
		createCatFileHandler(d),
	)

	s.AddTool(
		mcp.NewTool("ls_dir",
			mcp.WithDescription("List a remote directory (ls -la)"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
		),
		createListDirHandler(d),
	)

	s.AddTool(
		mcp.NewTool("tree_dir",
			mcp.WithDescription("Render a remote directory tree, falling back to find when tree is unavailable"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
			mcp.WithNumber("depth", mcp.Description("max depth (default: 2)")),
		),
		createTreeDirHandler(d),
	)

	s.AddTool(
		mcp.NewTool("find_files",
			mcp.WithDescription("Find files under a remote path matching a glob pattern"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
			mcp.WithString("pattern", mcp.Description("glob pattern (default: *)")),
			mcp.WithNumber("max_depth", mcp.Description("max depth (default: 5)")),
			mcp.WithNumber("max_results", mcp.Description("max results (default: 100)")),
		),
		createFindFilesHandler(d),
	)

	s.AddTool(
		mcp.NewTool("write_file",
			mcp.WithDescription("Write content to a remote file. Validates known syntax types before writing; set skip_validate to bypass."),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
			mcp.WithString("content", mcp.Required(), mcp.Description("content to write")),
			mcp.WithBoolean("skip_validate", mcp.Description("skip syntax validation before write (default: false)")),
		),
		createWriteFileHandler(d),
	)

	s.AddTool(
		mcp.NewTool("validate_file",
			mcp.WithDescription("Check a remote file's syntax server-side, without writing anything"),
			mcp.WithString("target", mcp.Required(), mcp.Description("host:path address")),
		),
		createValidateFileHandler(d),
	)
}

func createCatFileHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			content, truncated, err := exec.CatFileWithConfig(ctx, sess, d.cfg, path)
			if err != nil {
				return "", err
			}
			if truncated {
				content += fmt.Sprintf("\n…[truncated to max_file_size=%d bytes]", d.cfg.MaxFileSize)
			}
			return content, nil
		})
	}
}

func createListDirHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			return exec.ListDir(ctx, sess, d.cfg, path)
		})
	}
}

func createTreeDirHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		depth := req.GetInt("depth", 2)
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			return exec.TreeDir(ctx, sess, d.cfg, path, depth)
		})
	}
}

func createFindFilesHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pattern := req.GetString("pattern", "*")
		maxDepth := req.GetInt("max_depth", 5)
		maxResults := req.GetInt("max_results", 100)
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			return exec.FindFiles(ctx, sess, d.cfg, path, pattern, maxDepth, maxResults)
		})
	}
}

func createWriteFileHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		skipValidate := req.GetBool("skip_validate", false)

		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			res, err := exec.WriteFile(sess, path, content, skipValidate)
			if err != nil {
				if res.Validation != nil {
					return "", fmt.Errorf("%s", res.Validation.Summary(path))
				}
				return "", err
			}
			msg := fmt.Sprintf("wrote %d bytes to %s", res.BytesWritten, path)
			if res.Validation != nil {
				msg += fmt.Sprintf("\nsyntax (%s): OK", res.Validation.FileType)
			}
			return msg, nil
		})
	}
}

func createValidateFileHandler(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return withHostSession(ctx, d, raw, func(sess pool.Session, path string) (string, error) {
			content, _, err := exec.CatFileWithConfig(ctx, sess, d.cfg, path)
			if err != nil {
				return "", err
			}
			fileType := req.GetString("type", "")
			if fileType == "" {
				fileType = syntax.DetectType(path)
			}
			if fileType == "" {
				return fmt.Sprintf("%s: no syntax checker for this file type", path), nil
			}
			result := syntax.Check(content, fileType)
			if result == nil {
				return fmt.Sprintf("%s: no syntax checker for type %q", path, fileType), nil
			}
			return result.Summary(path), nil
		})
	}
}
