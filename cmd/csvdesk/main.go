// csvdesk is a terminal client for the CSV file service.
//
// Build with version information:
//
//	go build -ldflags "-X github.com/csvdesk/csvdesk/internal/version.Version=v0.3.0 \
//	  -X github.com/csvdesk/csvdesk/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/csvdesk
package main

import (
	"os"

	"github.com/csvdesk/csvdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
