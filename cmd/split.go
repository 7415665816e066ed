// =============================================================================
// Broker Helper - Split Command
// =============================================================================
//
// This file defines the 'split' command, the main command for reshaping a
// carrier manifest into canonical invoice workbooks.
//
// COMMAND USAGE:
//   brokerhelper split [flags]
//
// FLAGS:
//   --file     : Path to the source manifest workbook (required)
//   --rows     : Rows per output chunk (overrides configuration)
//   --output   : Output directory (overrides configuration)
//   --archive  : Move the source manifest aside after a successful run
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Read the manifest and remap its columns to the canonical layout
//   3. Repair manufacturer IDs from street addresses
//   4. Clamp sub-floor line values, logging every adjusted row
//   5. Write the chunk workbooks plus the adjustment and MID reports
//   6. Optionally archive the processed manifest
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Marshall-Ye/Broker-Helper/internal/config"
	"github.com/Marshall-Ye/Broker-Helper/internal/splitter"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
	"github.com/Marshall-Ye/Broker-Helper/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// splitFile is the path to the source manifest workbook.
var splitFile string

// splitRows overrides the configured rows-per-chunk when positive.
var splitRows int

// splitOutput overrides the configured output directory when set.
var splitOutput string

// splitArchive moves the source manifest aside after a successful run.
var splitArchive bool

// =============================================================================
// SPLIT COMMAND DEFINITION
// =============================================================================

// splitCmd represents the 'split' command.
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a carrier manifest into canonical invoice workbooks",
	Long: `The split command reads a carrier manifest workbook, remaps its columns to
the canonical invoice layout, repairs manufacturer IDs, clamps sub-floor line
values, and writes the rows out in fixed-size chunks, one workbook per
invoice suffix.

Every run produces a fresh run directory named after the master air waybill
and the run date. Alongside the chunk workbooks it holds:
  - an adjustment log listing every row whose value was raised to the floor
  - a MID report listing every manufacturer ID that was repaired

The source manifest is never modified; pass --archive to move it into the
processed_manifests folder once the run succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSplit()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the split command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVar(
		&splitFile,
		"file",
		"",
		"Path to the source manifest workbook (required)",
	)
	splitCmd.MarkFlagRequired("file")

	splitCmd.Flags().IntVar(
		&splitRows,
		"rows",
		0,
		"Rows per output chunk (overrides the configured value)",
	)

	splitCmd.Flags().StringVar(
		&splitOutput,
		"output",
		"",
		"Output directory (overrides the configured value)",
	)

	splitCmd.Flags().BoolVar(
		&splitArchive,
		"archive",
		false,
		"Move the source manifest to processed_manifests after a successful run",
	)
}

// =============================================================================
// MAIN SPLIT FUNCTION
// =============================================================================

// runSplit loads the configuration and drives one split run end to end.
func runSplit() error {
	logger := types.NewLogger(verbose)

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Broker Helper - Manifest Split ===")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := splitter.Options{
		OutputDir:    mainConfig.OutputDir,
		TemplateFile: mainConfig.Splitter.TemplateFile,
		RowsPerChunk: mainConfig.Splitter.RowsPerChunk,
		ValueFloor:   *mainConfig.Splitter.ValueFloor,
		RepairMIDs:   !mainConfig.Splitter.SkipMIDRepair,
		ExemptMIDs:   mainConfig.Splitter.ExemptMIDs,
	}
	if splitRows != 0 {
		if splitRows < 0 {
			return fmt.Errorf("--rows must be positive, got %d", splitRows)
		}
		opts.RowsPerChunk = splitRows
	}
	if splitOutput != "" {
		opts.OutputDir = splitOutput
	}

	// =========================================================================
	// STEP 2: RUN THE SPLIT
	// =========================================================================

	result := splitter.New(opts, logger).Run(splitFile)
	if !result.Success {
		return fmt.Errorf("split failed: %w", result.Error)
	}

	// =========================================================================
	// STEP 3: ARCHIVE THE MANIFEST
	// =========================================================================

	if splitArchive {
		fm := utils.NewFileManager(filepath.Join(opts.OutputDir, "processed_manifests"))
		archived, err := fm.ArchiveFile(splitFile)
		if err != nil {
			return fmt.Errorf("split succeeded but archival failed: %w", err)
		}
		logger.Info("manifest archived to %s", archived)
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Println("\n=== Split Complete ===")
	fmt.Printf("MAWB:           %s\n", result.MAWB)
	fmt.Printf("Run directory:  %s\n", result.RunDir)
	fmt.Printf("Rows mapped:    %d\n", result.Stats.RowsMapped)
	fmt.Printf("Chunks written: %d\n", result.Stats.ChunksWritten)
	fmt.Printf("Rows adjusted:  %d\n", result.Stats.RowsAdjusted)
	fmt.Printf("MIDs repaired:  %d\n", result.Stats.MIDsRepaired)
	fmt.Printf("Time elapsed:   %s\n", result.Stats.ProcessingTime)

	return nil
}
