// =============================================================================
// Broker Helper - Chunk Writer
// =============================================================================
//
// Serializes a planned run to disk. For each chunk:
//   1. Stamp the synthetic invoice number into every record
//   2. Clamp Total_Line_Value below the floor (keeping pre-clamp copies) and
//      recompute Unit_Price from the clamped total
//   3. Reorder fields to the customs-approved header template
//   4. Write one workbook with a bold, centered Times New Roman header row,
//      the invoice column sized to content, and a widened tariff column
//
// Two audit artifacts accompany the chunks, both inside the dated run folder:
//   - {mawb}_adjusted_rows.xlsx: the pre-clamp rows, Unit_Price recomputed
//     from the original totals
//   - MID_report_{mawb}.txt: one tab-separated line per MID repair
//
// File writes are not transactional. The capacity check runs before the
// first chunk is written, but a failure partway through the loop leaves the
// chunks already written on disk.
//
// =============================================================================

package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/mapper"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// sheetName is the single sheet every output workbook carries.
const sheetName = "Sheet1"

// tariffColumn is kept wide enough to read full tariff numbers.
const (
	tariffColumn      = "F"
	tariffColumnWidth = 20
)

// =============================================================================
// RUN FOLDER NAMING
// =============================================================================

// RunDirName builds the per-run folder name, e.g. "GA_CI_16940128955_2026-08-31".
func RunDirName(mawb, date string) string {
	return fmt.Sprintf("GA_CI_%s_%s", mawb, date)
}

// ChunkFileName builds one chunk workbook name, e.g.
// "GA_CI_16940128955-A1_2026-08-31.xlsx".
func ChunkFileName(invoice, date string) string {
	return fmt.Sprintf("GA_CI_%s_%s.xlsx", invoice, date)
}

// =============================================================================
// WRITER
// =============================================================================

// writer carries the per-run state shared by the chunk loop and the audit
// artifacts.
type writer struct {
	templateHeaders []string
	runDir          string
	mawb            string
	date            string
	floor           float64

	// adjusted collects pre-clamp copies of every bumped record, across all
	// chunks, in chunk order.
	adjusted []types.Record
}

// WriteChunks partitions the table, writes every chunk workbook plus the
// audit artifacts, and returns the chunk file paths. The capacity check runs
// before any file is written.
func WriteChunks(table *types.Table, templateHeaders []string, outputDir, date string, rowsPerChunk int, floor float64) ([]string, *RunArtifacts, error) {
	suffixes := Suffixes(rowsPerChunk)
	if err := CheckCapacity(len(table.Records), rowsPerChunk, suffixes); err != nil {
		return nil, nil, err
	}

	runDir := filepath.Join(outputDir, RunDirName(table.MAWB, date))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create run folder: %w", err)
	}

	w := &writer{
		templateHeaders: templateHeaders,
		runDir:          runDir,
		mawb:            table.MAWB,
		date:            date,
		floor:           floor,
	}

	var files []string
	part := 0
	for start := 0; start < len(table.Records); start += rowsPerChunk {
		end := start + rowsPerChunk
		if end > len(table.Records) {
			end = len(table.Records)
		}

		invoice := InvoiceNumber(table.MAWB, suffixes[part])
		path, err := w.writeChunk(table.Records[start:end], invoice)
		if err != nil {
			return files, nil, fmt.Errorf("failed to write chunk %s: %w", invoice, err)
		}
		files = append(files, path)
		part++
	}

	artifacts := &RunArtifacts{RunDir: runDir}

	if len(w.adjusted) > 0 {
		path, err := w.writeAdjustmentLog()
		if err != nil {
			return files, nil, fmt.Errorf("failed to write adjustment log: %w", err)
		}
		artifacts.AdjustmentLog = path
		artifacts.RowsAdjusted = len(w.adjusted)
	}

	if path, count, err := w.writeMIDReport(table); err != nil {
		return files, nil, fmt.Errorf("failed to write MID report: %w", err)
	} else if count > 0 {
		artifacts.MIDReport = path
		artifacts.MIDsRepaired = count
	}

	return files, artifacts, nil
}

// RunArtifacts describes the side-channel outputs of one run.
type RunArtifacts struct {
	// RunDir is the dated, MAWB-named folder everything was written to.
	RunDir string

	// AdjustmentLog is the bumped-rows workbook path, empty when no row was
	// clamped.
	AdjustmentLog string

	// RowsAdjusted counts the clamped rows across all chunks.
	RowsAdjusted int

	// MIDReport is the tab-separated MID audit path, empty when nothing was
	// repaired.
	MIDReport string

	// MIDsRepaired counts repaired records.
	MIDsRepaired int
}

// =============================================================================
// CHUNK SERIALIZATION
// =============================================================================

// writeChunk stamps, clamps, reorders, and serializes one chunk.
func (w *writer) writeChunk(records []types.Record, invoice string) (string, error) {
	// Stamp the invoice and clamp below-floor totals. Pre-clamp copies are
	// taken after stamping so the adjustment log shows which file the row
	// landed in.
	rows := make([]types.Record, len(records))
	for i, rec := range records {
		rows[i] = rec.Clone()
		rows[i].Fields[layout.FieldInvoiceNo] = invoice
		w.clamp(&rows[i])
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeHeaderRow(f, invoice); err != nil {
		return "", err
	}

	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, rowValues(rec, w.templateHeaders)); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(w.runDir, ChunkFileName(invoice, w.date))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// clamp bumps a below-floor Total_Line_Value up to the floor, keeping the
// pre-clamp record for the adjustment log and recomputing Unit_Price from
// the clamped total. Non-numeric totals are left alone.
func (w *writer) clamp(rec *types.Record) {
	if w.floor <= 0 {
		return
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(rec.Fields[layout.FieldTotalLineValue]), 64)
	if err != nil || total >= w.floor {
		return
	}

	w.adjusted = append(w.adjusted, rec.Clone())

	floorText := strconv.FormatFloat(w.floor, 'f', 2, 64)
	rec.Fields[layout.FieldTotalLineValue] = floorText
	rec.Fields[layout.FieldUnitPrice] = mapper.DivideRounded(floorText, rec.Fields[layout.FieldQuantity])
}

// writeHeaderRow writes the template titles with the customs formatting:
// bold centered Times New Roman 12, invoice column fitted, tariff column
// widened.
func (w *writer) writeHeaderRow(f *excelize.File, invoice string) error {
	header := make([]interface{}, len(w.templateHeaders))
	for i, h := range w.templateHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Times New Roman", Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(w.templateHeaders))
	if err != nil {
		return fmt.Errorf("failed to name last header column: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	invoiceWidth := len(layout.FieldInvoiceNo)
	if len(invoice) > invoiceWidth {
		invoiceWidth = len(invoice)
	}
	if err := f.SetColWidth(sheetName, "A", "A", float64(invoiceWidth+2)); err != nil {
		return fmt.Errorf("failed to size invoice column: %w", err)
	}
	if err := f.SetColWidth(sheetName, tariffColumn, tariffColumn, tariffColumnWidth); err != nil {
		return fmt.Errorf("failed to size tariff column: %w", err)
	}
	return nil
}

// rowValues reorders one record to the template column order. Template
// titles the record does not carry become blank cells.
func rowValues(rec types.Record, templateHeaders []string) *[]interface{} {
	values := make([]interface{}, len(templateHeaders))
	for i, h := range templateHeaders {
		values[i] = rec.Fields[h]
	}
	return &values
}

// =============================================================================
// AUDIT ARTIFACTS
// =============================================================================

// writeAdjustmentLog writes the pre-clamp rows, in template order, with
// Unit_Price recomputed from the original (pre-clamp) totals.
func (w *writer) writeAdjustmentLog() (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(w.templateHeaders))
	for i, h := range w.templateHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range w.adjusted {
		row := rec.Clone()
		row.Fields[layout.FieldUnitPrice] = mapper.DivideRounded(
			row.Fields[layout.FieldTotalLineValue],
			row.Fields[layout.FieldQuantity],
		)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, rowValues(row, w.templateHeaders)); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(w.runDir, fmt.Sprintf("%s_adjusted_rows.xlsx", w.mawb))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// writeMIDReport writes one tab-separated line per MID repair:
// source file, row number, original MID, final MID, manufacturer name,
// manufacturer address. Nothing is written when no record was repaired.
func (w *writer) writeMIDReport(table *types.Table) (string, int, error) {
	var b strings.Builder
	count := 0
	for _, rec := range table.Records {
		if !rec.MIDChanged {
			continue
		}
		fmt.Fprintf(&b, "%s\t%d\t%s\t%s\t%s\t%s\n",
			filepath.Base(table.SourceFile),
			rec.SourceRow,
			rec.MIDOriginal,
			rec.Fields[layout.FieldMIDCode],
			rec.Fields[layout.FieldMfrName],
			rec.Fields[layout.FieldMfrAddress1],
		)
		count++
	}
	if count == 0 {
		return "", 0, nil
	}

	path := filepath.Join(w.runDir, fmt.Sprintf("MID_report_%s.txt", w.mawb))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", 0, err
	}
	return path, count, nil
}
