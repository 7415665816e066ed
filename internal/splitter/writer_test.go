package splitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

func testRecord(row int, total, qty string) types.Record {
	fields := make(map[string]string, layout.FieldCount())
	for _, h := range layout.Headers() {
		fields[h] = ""
	}
	fields[layout.FieldTariffNumber] = "61091000"
	fields[layout.FieldQuantity] = qty
	fields[layout.FieldTotalLineValue] = total
	fields[layout.FieldMfrName] = "ACME KNITTING"
	fields[layout.FieldMfrAddress1] = "ROOM 402 FACTORY RD"
	fields[layout.FieldMIDCode] = "CNACM402GUA"
	return types.Record{Fields: fields, SourceRow: row}
}

func testTable(rows int) *types.Table {
	table := &types.Table{SourceFile: "/in/manifest.xlsx", MAWB: "16940128955"}
	for i := 0; i < rows; i++ {
		table.Records = append(table.Records, testRecord(11+i, "25.00", "10"))
	}
	return table
}

func readColumn(t *testing.T, path, col string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	idx := layout.ColIndex(col)
	var out []string
	for _, row := range rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func TestWriteChunksPartitionsAndStampsInvoices(t *testing.T) {
	outDir := t.TempDir()
	table := testTable(5)

	files, artifacts, err := WriteChunks(table, layout.Headers(), outDir, "2026-08-31", 2, 0.51)
	require.NoError(t, err)
	require.Len(t, files, 3)

	wantDir := filepath.Join(outDir, "GA_CI_16940128955_2026-08-31")
	assert.Equal(t, wantDir, artifacts.RunDir)
	assert.Equal(t, filepath.Join(wantDir, "GA_CI_16940128955-A1_2026-08-31.xlsx"), files[0])
	assert.Equal(t, filepath.Join(wantDir, "GA_CI_16940128955-A2_2026-08-31.xlsx"), files[1])
	assert.Equal(t, filepath.Join(wantDir, "GA_CI_16940128955-B1_2026-08-31.xlsx"), files[2])

	// First chunk: header plus two data rows, invoice stamped in column A.
	colA := readColumn(t, files[0], "A")
	require.Len(t, colA, 3)
	assert.Equal(t, layout.FieldInvoiceNo, colA[0])
	assert.Equal(t, "16940128955-A1", colA[1])
	assert.Equal(t, "16940128955-A1", colA[2])

	// Last chunk holds the single remaining row.
	colA = readColumn(t, files[2], "A")
	require.Len(t, colA, 2)
	assert.Equal(t, "16940128955-B1", colA[1])

	// Nothing was adjusted or repaired, so no audit artifacts.
	assert.Empty(t, artifacts.AdjustmentLog)
	assert.Zero(t, artifacts.RowsAdjusted)
	assert.Empty(t, artifacts.MIDReport)
}

func TestWriteChunksClampsBelowFloor(t *testing.T) {
	outDir := t.TempDir()
	table := &types.Table{SourceFile: "m.xlsx", MAWB: "777"}
	table.Records = append(table.Records, testRecord(11, "0.30", "3")) // below floor
	table.Records = append(table.Records, testRecord(12, "9.00", "3")) // untouched

	files, artifacts, err := WriteChunks(table, layout.Headers(), outDir, "2026-08-31", 495, 0.51)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// Chunk carries the clamped total and the recomputed unit price.
	totals := readColumn(t, files[0], "J")
	units := readColumn(t, files[0], "I")
	assert.Equal(t, "0.51", totals[1])
	assert.Equal(t, "0.17", units[1])
	assert.Equal(t, "9.00", totals[2])

	// Adjustment log carries the pre-clamp rows with the original math.
	require.NotEmpty(t, artifacts.AdjustmentLog)
	assert.Equal(t, 1, artifacts.RowsAdjusted)
	assert.Equal(t, filepath.Join(artifacts.RunDir, "777_adjusted_rows.xlsx"), artifacts.AdjustmentLog)

	totals = readColumn(t, artifacts.AdjustmentLog, "J")
	units = readColumn(t, artifacts.AdjustmentLog, "I")
	require.Len(t, totals, 2)
	assert.Equal(t, "0.30", totals[1])
	assert.Equal(t, "0.10", units[1])

	// The logged row shows which chunk it landed in.
	invoices := readColumn(t, artifacts.AdjustmentLog, "A")
	assert.Equal(t, "777-A1", invoices[1])
}

func TestWriteChunksZeroFloorDisablesClamping(t *testing.T) {
	outDir := t.TempDir()
	table := &types.Table{MAWB: "778"}
	table.Records = append(table.Records, testRecord(11, "0.30", "3"))

	files, artifacts, err := WriteChunks(table, layout.Headers(), outDir, "2026-08-31", 495, 0)
	require.NoError(t, err)

	totals := readColumn(t, files[0], "J")
	assert.Equal(t, "0.30", totals[1])
	assert.Zero(t, artifacts.RowsAdjusted)
}

func TestWriteChunksMIDReport(t *testing.T) {
	outDir := t.TempDir()
	table := &types.Table{SourceFile: "/drop/manifest_aug.xlsx", MAWB: "779"}

	rec := testRecord(14, "5.00", "1")
	rec.MIDOriginal = "CNACM123GUA"
	rec.MIDChanged = true
	table.Records = append(table.Records, rec)
	table.Records = append(table.Records, testRecord(15, "5.00", "1"))

	_, artifacts, err := WriteChunks(table, layout.Headers(), outDir, "2026-08-31", 495, 0.51)
	require.NoError(t, err)

	require.NotEmpty(t, artifacts.MIDReport)
	assert.Equal(t, 1, artifacts.MIDsRepaired)

	data, err := os.ReadFile(artifacts.MIDReport)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)

	parts := strings.Split(lines[0], "\t")
	require.Len(t, parts, 6)
	assert.Equal(t, "manifest_aug.xlsx", parts[0])
	assert.Equal(t, "14", parts[1])
	assert.Equal(t, "CNACM123GUA", parts[2])
	assert.Equal(t, "CNACM402GUA", parts[3])
	assert.Equal(t, "ACME KNITTING", parts[4])
	assert.Equal(t, "ROOM 402 FACTORY RD", parts[5])
}

func TestWriteChunksCapacityFailureWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	table := testTable(3)

	// 1 row per chunk x 52 suffixes = 52 max; force an overflow with a
	// table bigger than that.
	big := testTable(53)
	_, _, err := WriteChunks(big, layout.Headers(), outDir, "2026-08-31", 1, 0)
	require.Error(t, err)

	// The failed run created nothing on disk.
	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	// A fitting table still works in the same directory afterwards.
	files, _, err := WriteChunks(table, layout.Headers(), outDir, "2026-08-31", 2, 0)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestRunDirAndChunkFileNames(t *testing.T) {
	assert.Equal(t, "GA_CI_123_2026-08-31", RunDirName("123", "2026-08-31"))
	assert.Equal(t, "GA_CI_123-A1_2026-08-31.xlsx", ChunkFileName("123-A1", "2026-08-31"))
}
