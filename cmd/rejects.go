// =============================================================================
// Broker Helper - Rejects Command
// =============================================================================
//
// This file defines the 'rejects' command, which scrapes reject codes out of
// CBP reject PDFs and writes a grouped text report per PDF.
//
// COMMAND USAGE:
//   brokerhelper rejects [flags]
//
// FLAGS:
//   --file : Scrape a single PDF
//   --dir  : Scrape every PDF in a folder (concurrently)
//
// Exactly one of --file and --dir must be given. Folder runs process each
// PDF in its own goroutine; a failure in one PDF does not stop the others,
// and a batch summary log is written alongside the reports.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Marshall-Ye/Broker-Helper/internal/config"
	"github.com/Marshall-Ye/Broker-Helper/internal/rejects"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
	"github.com/Marshall-Ye/Broker-Helper/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// rejectsFile is the path to a single PDF to scrape.
var rejectsFile string

// rejectsDir is a folder whose PDFs are all scraped.
var rejectsDir string

// =============================================================================
// REJECTS COMMAND DEFINITION
// =============================================================================

// rejectsCmd represents the 'rejects' command.
var rejectsCmd = &cobra.Command{
	Use:   "rejects",
	Short: "Scrape reject codes out of CBP reject PDFs",
	Long: `The rejects command reads one PDF (or every PDF in a folder), collects the
"Line# N CODE" reject tokens page by page, groups the line numbers under
their codes, and writes a text report next to the configured report
directory. Each code is annotated with the broker's side note (ignore, fix
MID, add tariff, and so on) so the report can be worked top to bottom.

Folder runs are concurrent: every PDF is scraped in its own goroutine and a
batch summary log records which files succeeded and which failed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if (rejectsFile == "") == (rejectsDir == "") {
			return fmt.Errorf("exactly one of --file and --dir must be given")
		}
		return runRejects()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the rejects command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(rejectsCmd)

	rejectsCmd.Flags().StringVar(
		&rejectsFile,
		"file",
		"",
		"Path to a single reject PDF",
	)

	rejectsCmd.Flags().StringVar(
		&rejectsDir,
		"dir",
		"",
		"Folder whose PDFs are all scraped",
	)
}

// =============================================================================
// MAIN SCRAPE FUNCTION
// =============================================================================

// scrapeResult is the outcome of scraping one PDF.
type scrapeResult struct {
	pdfPath    string
	reportPath string
	elapsed    time.Duration
	err        error
}

// runRejects loads the configuration and scrapes one PDF or a whole folder.
func runRejects() error {
	logger := types.NewLogger(verbose)

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Broker Helper - Reject Scrape ===")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	notes := rejects.Notes(mainConfig.RejectNotes)
	outDir := mainConfig.RejectReportDir

	// =========================================================================
	// STEP 2: SINGLE FILE MODE
	// =========================================================================

	if rejectsFile != "" {
		report, err := rejects.ScrapeFile(rejectsFile, outDir, notes)
		if err != nil {
			return fmt.Errorf("failed to scrape %s: %w", filepath.Base(rejectsFile), err)
		}
		fmt.Printf("Report written to %s\n", report)
		return nil
	}

	// =========================================================================
	// STEP 3: FOLDER MODE - DISCOVER PDFS
	// =========================================================================

	pdfs, err := rejects.DiscoverPDFs(rejectsDir)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Println("No PDF files found in the folder.")
		return nil
	}
	fmt.Printf("Found %d PDF(s) to scrape\n", len(pdfs))

	// =========================================================================
	// STEP 4: SCRAPE CONCURRENTLY
	// =========================================================================
	// Each PDF gets its own goroutine; a buffered channel collects results.

	startTime := time.Now()

	var wg sync.WaitGroup
	results := make(chan scrapeResult, len(pdfs))

	for _, pdfPath := range pdfs {
		wg.Add(1)

		go func(pdfPath string) {
			defer wg.Done()

			began := time.Now()
			report, err := rejects.ScrapeFile(pdfPath, outDir, notes)
			results <- scrapeResult{
				pdfPath:    pdfPath,
				reportPath: report,
				elapsed:    time.Since(began),
				err:        err,
			}
		}(pdfPath)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 5: COLLECT RESULTS AND WRITE SUMMARY
	// =========================================================================

	summary := utils.BatchSummary{StartTime: startTime, TotalFiles: len(pdfs)}

	for result := range results {
		if result.err == nil {
			summary.SuccessfulFiles++
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.pdfPath,
				OutputFile:  result.reportPath,
				ProcessTime: result.elapsed,
			})
			fmt.Printf("  ✓ %s -> %s\n", filepath.Base(result.pdfPath), filepath.Base(result.reportPath))
		} else {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.pdfPath,
				ErrorMessage: result.err.Error(),
			})
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(result.pdfPath), result.err)
		}
	}
	summary.EndTime = time.Now()

	summaryPath, err := utils.WriteBatchSummary(summary, outDir)
	if err != nil {
		logger.Warn("failed to write batch summary: %v", err)
	} else {
		logger.Info("batch summary written to %s", summaryPath)
	}

	// =========================================================================
	// STEP 6: PRINT SUMMARY
	// =========================================================================

	fmt.Println("\n=== Scrape Complete ===")
	fmt.Printf("Total PDFs:   %d\n", summary.TotalFiles)
	fmt.Printf("Successful:   %d\n", summary.SuccessfulFiles)
	fmt.Printf("Errors:       %d\n", summary.FailedFiles)
	fmt.Printf("Time elapsed: %s\n", summary.EndTime.Sub(summary.StartTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d PDF(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}
