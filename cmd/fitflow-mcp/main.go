package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitflow/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("FITFLOW_URL"), "FitFlow server URL (e.g. https://fitflow.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("FITFLOW_AUTH_API_KEY"), "API key for the FitFlow REST API")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitflow-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" || *apiKey == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitflow-mcp -server <URL> -api-key <key>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := mcp.NewHTTPClient(*serverURL, *apiKey)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	landmarks, err := client.Landmarks(ctx)
	cancel()
	if err != nil {
		log.Error("failed to fetch landmarks", "server", *serverURL, "error", err)
		os.Exit(1)
	}

	s := mcp.New(client, landmarks, Version, log)
	log.Info("mcp stdio bridge starting", "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
