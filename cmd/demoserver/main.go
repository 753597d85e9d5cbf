// Command demoserver starts a small local-business website for trying out
// sitegrade audits and audit comparisons.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/sitegrade/internal/demoserver"
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
	fmt.Println("   sitegrade Demo Server - Joe's Plumbing")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Version 1 of the site has the SEO problems a")
	fmt.Println("neglected small-business site usually has.")
	fmt.Println("Version 2 fixes most of them.")
	fmt.Println()
	fmt.Println("Try:")
	fmt.Printf("  sitegrade http://localhost:%d --client \"Joe's Plumbing\"\n", cfg.Port)
	fmt.Printf("  curl -X POST http://localhost:%d/demo/bump-all\n", cfg.Port)
	fmt.Println("  then audit again and compare the two reports.")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
