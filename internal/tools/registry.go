package tools

import (
	"github.com/mark3labs/mcp-go/server"

	"scout/internal/config"
	"scout/internal/pool"
)

// RegisterAll wires every tool and resource template onto s. Call once,
// at process start, after Config/Catalog/Pool have all been built.
func RegisterAll(s *server.MCPServer, p *pool.Pool, cfg *config.Config, catalog *config.Catalog) {
	d := deps{pool: p, cfg: cfg, catalog: catalog}

	registerHostsTool(s, d)
	registerCoreTools(s, d)
	registerFileTools(s, d)
	registerDiffTools(s, d)
	registerBroadcastTools(s, d)
	registerTransferTools(s, d)
	registerResources(s, d)
}
