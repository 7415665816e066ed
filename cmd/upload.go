// =============================================================================
// Broker Helper - Upload Command
// =============================================================================
//
// This file defines the 'upload' command, which pushes a split workbook to
// the filing API, either as a header-only entry envelope or as an "RD"
// line-item payload matched to an existing entry by invoice number.
//
// COMMAND USAGE:
//   brokerhelper upload [flags]
//
// FLAGS:
//   --file : Path to a split workbook (required)
//   --mode : "entry" for the header-only envelope, "lines" for line items
//
// The payload is written to the debug directory before sending and the raw
// reply is written after, whatever the status. On a non-2xx reply the error
// carries the vendor's correlation ID so it can be quoted to support.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Marshall-Ye/Broker-Helper/internal/config"
	"github.com/Marshall-Ye/Broker-Helper/internal/filing"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
	"github.com/Marshall-Ye/Broker-Helper/pkg/utils"
)

// debugRetention is how long archived payload / reply copies are kept.
const debugRetention = 30 * 24 * time.Hour

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// uploadFile is the path to the split workbook to upload.
var uploadFile string

// uploadMode selects the payload flavor: "entry" or "lines".
var uploadMode string

// =============================================================================
// UPLOAD COMMAND DEFINITION
// =============================================================================

// uploadCmd represents the 'upload' command.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a split workbook to the filing API",
	Long: `The upload command reads a split workbook back in and submits it to the
filing API. Two modes exist:

  entry  Build a header-only Entry Summary envelope from the first row and
         create the entry with an empty line-item list.
  lines  Build an "RD" payload carrying one item per row and attach it to
         the existing entry by invoice number.

For support, the exact payload is saved as last_payload.json before the
request goes out and the raw reply body as last_reply.json afterwards, win
or lose. Archive copies of both accumulate in the debug directory and are
pruned after thirty days.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadMode != "entry" && uploadMode != "lines" {
			return fmt.Errorf("--mode must be \"entry\" or \"lines\", got %q", uploadMode)
		}
		return runUpload()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the upload command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(
		&uploadFile,
		"file",
		"",
		"Path to the split workbook to upload (required)",
	)
	uploadCmd.MarkFlagRequired("file")

	uploadCmd.Flags().StringVar(
		&uploadMode,
		"mode",
		"lines",
		"Payload flavor: \"entry\" or \"lines\"",
	)
}

// =============================================================================
// MAIN UPLOAD FUNCTION
// =============================================================================

// runUpload reads the workbook, builds the requested payload, and submits it.
func runUpload() error {
	logger := types.NewLogger(verbose)

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Broker Helper - Filing Upload ===")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if mainConfig.Filing.BaseURL == "" {
		return fmt.Errorf("filing base_url is not configured")
	}

	// =========================================================================
	// STEP 2: READ THE WORKBOOK AND BUILD THE PAYLOAD
	// =========================================================================

	logger.Info("reading %s", uploadFile)
	records, err := filing.ReadSplitWorkbook(uploadFile)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	var payload interface{}
	switch uploadMode {
	case "entry":
		payload, err = filing.BuildEntry(records[0])
	case "lines":
		payload, err = filing.BuildLineItems(records)
	}
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	// =========================================================================
	// STEP 3: SUBMIT
	// =========================================================================

	client := filing.NewClient(mainConfig.Filing, mainConfig.DebugDir, logger)

	logger.Info("uploading %d row(s) as %q payload", len(records), uploadMode)
	reply, err := client.CreateEntrySummary(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	// =========================================================================
	// STEP 4: PRUNE DEBUG ARCHIVES AND PRINT SUMMARY
	// =========================================================================

	// Only the uuid-named archive copies age out; last_payload.json and
	// last_reply.json always reflect the most recent run.
	if removed, err := utils.CleanOldArchives(mainConfig.DebugDir, debugRetention, "payload_*.json", "reply_*.json"); err != nil {
		logger.Warn("failed to prune debug archives: %v", err)
	} else if removed > 0 {
		logger.Debug("pruned %d old debug file(s)", removed)
	}

	fmt.Println("\n=== Upload Complete ===")
	fmt.Printf("Status:         %d\n", reply.StatusCode)
	fmt.Printf("Correlation ID: %s\n", reply.CorrelationID)
	fmt.Printf("Reply saved to: %s\n", mainConfig.DebugDir)

	return nil
}
