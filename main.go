// =============================================================================
// Broker Helper - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Broker Helper CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   brokerhelper split       - Split a carrier manifest into invoice workbooks
//   brokerhelper rejects     - Scrape reject codes out of CBP reject PDFs
//   brokerhelper upload      - Upload a split workbook to the filing API
//   brokerhelper version     - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - Resources/     : Contains the canonical header template workbook
//
// =============================================================================

package main

import (
	"github.com/Marshall-Ye/Broker-Helper/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
