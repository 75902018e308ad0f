// Package main is the entry point for the Scout SSH MCP gateway.
// Supports stdio (for local MCP hosts) and Streamable HTTP transports.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"scout/internal/config"
	"scout/internal/middleware"
	"scout/internal/pool"
	"scout/internal/tools"
)

const serverName = "scout"

// Injected at build time.
var commitSHA = "dev"

const healthPath = "/health"

func main() {
	transportFlag := flag.String("transport", "", "override SCOUT_TRANSPORT (stdio or http)")
	debug := flag.Bool("debug", false, "enable verbose logging regardless of LOG_LEVEL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *transportFlag != "" {
		cfg.Transport = *transportFlag
	}
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	catalog, err := config.LoadCatalog(cfg.SSHConfigPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	log.Printf("loaded %d catalog hosts from %s", catalog.Len(), cfg.SSHConfigPath)

	connPool, err := pool.New(cfg, catalog)
	if err != nil {
		log.Fatalf("pool: %v", err)
	}

	mcpServer := server.NewMCPServer(
		serverName,
		commitSHA,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	tools.RegisterAll(mcpServer, connPool, cfg, catalog)

	log.Printf("starting %s (commit=%s, transport=%s)", serverName, commitSHA, cfg.Transport)

	switch cfg.Transport {
	case "stdio":
		runStdio(mcpServer, connPool)
	case "http":
		runHTTP(mcpServer, cfg, connPool)
	default:
		log.Fatalf("unknown transport %q: use \"stdio\" or \"http\"", cfg.Transport)
	}
}

func runStdio(s *server.MCPServer, p *pool.Pool) {
	defer p.Shutdown()
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("stdio server error: %v", err)
	}
}

// runHTTP serves the Streamable HTTP transport behind the full
// middleware chain, with healthPath exempted from auth and rate
// limiting so orchestrators can probe liveness without a key.
func runHTTP(s *server.MCPServer, cfg *config.Config, p *pool.Pool) {
	httpSrv := server.NewStreamableHTTPServer(s)

	mux := http.NewServeMux()
	mux.Handle("/mcp", httpSrv)
	mux.HandleFunc(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := cfg.HTTPHost + ":" + cfg.HTTPPort
	httpServer := &http.Server{
		Addr:    addr,
		Handler: middleware.Chain(cfg, healthPath, mux),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-sigChan
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	p.Shutdown()
	log.Println("server stopped")
}
