// Command grunnlag-mcp exposes the household-spending tools as an MCP
// server over stdio, so MCP clients like Claude Desktop can query the
// Statistics Norway household budget survey directly.
//
// Configuration for Claude Desktop:
//
//	{
//	    "mcpServers": {
//	        "grunnlag": {
//	            "command": "grunnlag-mcp"
//	        }
//	    }
//	}
//
// The server needs no API keys; it only reads the public SSB API. The cache
// location and freshness policy follow the same environment variables as the
// grunnlag command.
package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/perolav/grunnlag/mcp"
	"github.com/perolav/grunnlag/ssb"
	"github.com/perolav/grunnlag/tool"
)

func main() {
	godotenv.Load()

	// Stdout carries the MCP protocol; all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := []ssb.StoreOption{
		ssb.WithTTL(cacheTTL()),
		ssb.WithLogger(logger),
	}
	cache, err := ssb.OpenCache(cachePath())
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "err", err)
	} else {
		opts = append(opts, ssb.WithCache(cache))
	}
	store := ssb.NewStore(ssb.NewClient(), opts...)

	registry := tool.NewRegistry().Add(tool.SpendingTools(store)...)

	if err := mcp.ServeStdio(registry,
		mcp.WithName("grunnlag"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}

func cachePath() string {
	if path := os.Getenv("GRUNNLAG_CACHE"); path != "" {
		return path
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/grunnlag/datasets.db"
	}
	return "grunnlag-datasets.db"
}

func cacheTTL() time.Duration {
	if value := os.Getenv("GRUNNLAG_CACHE_TTL"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}
