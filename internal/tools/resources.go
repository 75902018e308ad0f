package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/exec"
	"scout/internal/pool"
	"scout/internal/scerr"
)

// registerResources wires the generic scout://{host}/{path*} template
// plus, per spec.md §9's redesign note, a convenience pre-registration
// loop that gives every catalog entry its own <host>://{path*} scheme.
// Both routes end up at readResourcePath; there is no per-host closure
// state to capture incorrectly, since host is read back out of the
// request URI (generic route) or baked into a value captured by a
// local variable inside the loop body (per-host routes), never off a
// shared loop variable referenced by the registered callable.
func registerResources(s *server.MCPServer, d deps) {
	generic := mcp.NewResourceTemplate(
		"scout://{host}/{path*}",
		"Remote file",
		mcp.WithTemplateDescription("Read a file at {path} on catalog host {host}"),
	)
	s.AddResourceTemplate(generic, createGenericResourceHandler(d))

	for _, h := range d.catalog.Hosts() {
		host := h.Name // local copy; never read back through a shared loop variable
		tmpl := mcp.NewResourceTemplate(
			fmt.Sprintf("%s://{path*}", host),
			fmt.Sprintf("Remote file on %s", host),
			mcp.WithTemplateDescription(fmt.Sprintf("Read a file at {path} on %s", host)),
		)
		s.AddResourceTemplate(tmpl, createHostResourceHandler(d, host))
	}
}

// createGenericResourceHandler reads {host} and {path} out of the
// resource URI itself.
func createGenericResourceHandler(d deps) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		host, path, err := parseResourceURI(req.Params.URI)
		if err != nil {
			return nil, err
		}
		return readResourcePath(ctx, d, req.Params.URI, host, path)
	}
}

// createHostResourceHandler is identical except host comes from the
// value captured at registration time rather than the URI: a per-host
// scheme's URI is "<host>://{path}" with no separate host segment, so
// everything after "://" is the path.
func createHostResourceHandler(d deps, host string) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		_, path, ok := strings.Cut(req.Params.URI, "://")
		if !ok {
			return nil, scerr.New(scerr.KindValidation, "malformed resource uri: "+req.Params.URI)
		}
		return readResourcePath(ctx, d, req.Params.URI, host, path)
	}
}

// parseResourceURI splits "scheme://rest" into a host and a path. For
// the generic scout:// scheme, rest is "{host}/{path}" and host comes
// from its first segment. Only the generic handler calls it; the
// per-host handler takes everything after "://" as the path itself.
func parseResourceURI(uri string) (host, path string, err error) {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "", "", scerr.New(scerr.KindValidation, "malformed resource uri: "+uri)
	}
	host, path, ok = strings.Cut(rest, "/")
	if !ok {
		host, path = rest, ""
	}
	if host == "" {
		return "", "", scerr.New(scerr.KindValidation, "resource uri missing host: "+uri)
	}
	return host, path, nil
}

func readResourcePath(ctx context.Context, d deps, uri, host, path string) ([]mcp.ResourceContents, error) {
	text, err := pool.WithSession(ctx, d.pool, host, func(sess pool.Session) (string, error) {
		content, _, err := exec.CatFileWithConfig(ctx, sess, d.cfg, path)
		return content, err
	})
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
