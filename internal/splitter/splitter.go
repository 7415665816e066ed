// =============================================================================
// Broker Helper - Split Run Orchestrator
// =============================================================================
//
// This module drives the whole reshaping pipeline for a single manifest:
//
//   1. Read the source workbook (MAWB cell, preamble skip, raw rows)
//   2. Map raw columns into the canonical 46-field layout
//   3. Repair MID digit runs against the manufacturer address (optional)
//   4. Load the customs-approved header template
//   5. Plan + write the row-bounded chunks and the audit artifacts
//
// CONCURRENCY:
//   A run is single-document, run-to-completion batch work. The splitter
//   holds no mutable state between runs, so one Splitter can serve
//   concurrent runs as long as each operates on its own source file.
//
// =============================================================================

package splitter

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Marshall-Ye/Broker-Helper/internal/mapper"
	"github.com/Marshall-Ye/Broker-Helper/internal/mid"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures one Splitter. All lookup data (exemption list, template
// path) arrives here; nothing is read from package-level state.
type Options struct {
	// OutputDir is the parent directory run folders are created under.
	OutputDir string

	// TemplateFile is the customs header-template workbook.
	TemplateFile string

	// RowsPerChunk bounds each output workbook.
	RowsPerChunk int

	// ValueFloor clamps Total_Line_Value; 0 disables clamping.
	ValueFloor float64

	// RepairMIDs toggles the address-derived MID repair.
	RepairMIDs bool

	// ExemptMIDs are full MID strings the repairer never rewrites.
	ExemptMIDs []string
}

// Result is the outcome of one split run.
type Result struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// SourceFile is the manifest that was processed.
	SourceFile string

	// MAWB is the master waybill driving file naming.
	MAWB string

	// RunDir is the dated output folder, empty when the run failed before
	// any file was written.
	RunDir string

	// ChunkFiles are the chunk workbook paths in suffix order.
	ChunkFiles []string

	// Success indicates whether the run completed.
	Success bool

	// Error holds the failure when Success is false.
	Error error

	// Stats carries the run counters.
	Stats Stats
}

// Stats contains counters for the summary line and the audit trail.
type Stats struct {
	// RowsMapped is the number of canonical records after blank-row removal.
	RowsMapped int

	// ChunksWritten is the number of chunk workbooks on disk.
	ChunksWritten int

	// RowsAdjusted is the number of rows bumped to the value floor.
	RowsAdjusted int

	// MIDsRepaired is the number of MID digit rewrites.
	MIDsRepaired int

	// ProcessingTime is the wall-clock duration of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// SPLITTER
// =============================================================================

// Splitter runs the reshaping pipeline with a fixed set of options.
type Splitter struct {
	opts   Options
	logger types.Logger
}

// New builds a Splitter. A nil logger falls back to the default stdout one.
func New(opts Options, logger types.Logger) *Splitter {
	if logger == nil {
		logger = types.NewLogger(false)
	}
	return &Splitter{opts: opts, logger: logger}
}

// Run executes the pipeline for one manifest and never panics on bad input;
// every failure lands in Result.Error.
func (s *Splitter) Run(srcPath string) Result {
	startTime := time.Now()
	result := Result{
		RunID:      uuid.New().String(),
		SourceFile: srcPath,
	}

	s.logger.Info("run %s: processing %s", result.RunID, srcPath)

	// =========================================================================
	// STEP 1: READ SOURCE
	// =========================================================================

	src, err := mapper.ReadSource(srcPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to read source: %w", err)
		return result
	}
	result.MAWB = src.MAWB
	s.logger.Debug("run %s: MAWB %s, %d raw rows", result.RunID, src.MAWB, len(src.Rows))

	// =========================================================================
	// STEP 2: MAP TO CANONICAL LAYOUT
	// =========================================================================

	table, err := mapper.Map(src)
	if err != nil {
		result.Error = fmt.Errorf("failed to map columns: %w", err)
		return result
	}
	result.Stats.RowsMapped = len(table.Records)
	s.logger.Debug("run %s: %d canonical rows", result.RunID, len(table.Records))

	// =========================================================================
	// STEP 3: REPAIR MIDS
	// =========================================================================

	if s.opts.RepairMIDs {
		repairer := mid.NewRepairer(s.opts.ExemptMIDs)
		repaired := repairer.RepairAll(table)
		s.logger.Debug("run %s: repaired %d MID(s)", result.RunID, repaired)
	}

	// =========================================================================
	// STEP 4: LOAD HEADER TEMPLATE
	// =========================================================================

	templateHeaders, err := LoadTemplateHeaders(s.opts.TemplateFile)
	if err != nil {
		result.Error = fmt.Errorf("failed to load header template: %w", err)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE CHUNKS AND AUDIT ARTIFACTS
	// =========================================================================

	date := time.Now().Format("2006-01-02")
	files, artifacts, err := WriteChunks(table, templateHeaders, s.opts.OutputDir, date,
		s.opts.RowsPerChunk, s.opts.ValueFloor)
	result.ChunkFiles = files
	if err != nil {
		// Chunks written before the failure stay on disk; report what landed.
		result.Error = err
		return result
	}

	result.RunDir = artifacts.RunDir
	result.Stats.ChunksWritten = len(files)
	result.Stats.RowsAdjusted = artifacts.RowsAdjusted
	result.Stats.MIDsRepaired = artifacts.MIDsRepaired
	result.Stats.ProcessingTime = time.Since(startTime)
	result.Success = true

	s.logger.Info("run %s: wrote %d chunk(s) to %s", result.RunID, len(files), artifacts.RunDir)
	return result
}
