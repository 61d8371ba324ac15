// Command demoserver starts the SiteGuard demo server with fixture pages for
// trying the scanner and the sandbox rewriter.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/siteguard/siteguard/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   SiteGuard Demo Server - Fixture Pages")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Pages here exercise the scanner's heuristics:")
	fmt.Println("  - /clean      scores 0 (Low)")
	fmt.Println("  - /phishy     trips most rules at once")
	fmt.Println("  - /handlers   crosses the inline-handler threshold")
	fmt.Println("  - /versioned  switchable versions for scan diffs")
	fmt.Println("  - /csp        CSP meta for the sandbox rewriter")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
