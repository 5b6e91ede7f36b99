package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/staffscan/internal/ocr"
	"github.com/ironsheep/staffscan/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("staffscan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.Version())
			return
		case "--help", "-h", "help":
			fmt.Println("staffscan-mcp - MCP server for musical staff parsing")
			fmt.Println()
			fmt.Println("Usage: staffscan-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  STAFFSCAN_LOG_LEVEL=debug    Enable debug logging (per-parse pipeline statistics)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var opts []server.Option
	if os.Getenv("STAFFSCAN_LOG_LEVEL") == "debug" {
		log.Printf("Staffscan MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		opts = append(opts, server.WithDebugLogger(log.New(os.Stderr, "staffscan: ", log.Ldate|log.Ltime|log.Lmicroseconds)))
	}

	srv := server.New(opts...)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
