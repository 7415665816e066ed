package splitter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
)

// writeManifest builds a minimal standard-layout manifest: MAWB in U9,
// header at row 10, data from row 11.
func writeManifest(t *testing.T, dir string, dataRows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(dir, "manifest.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "U9", "16940128955"))
	require.NoError(t, f.SetSheetRow(sheet, "A10", &[]interface{}{"No", "HS Code", "X", "Qty", "GW", "Value", "Maker", "Address", "City", "X", "Zip", "X", "MID"}))
	for i := range dataRows {
		cell, err := excelize.CoordinatesToCellName(1, 11+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &dataRows[i]))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func manifestRow(total string) []interface{} {
	//            A    B=tariff      C    D=qty  E=gw   F=total  G=maker          H=address              I=city       J    K=zip     L    M=mid
	return []interface{}{"1", "61091000", "", "10", "2.5", total, "ACME KNITTING", "ROOM 402 FACTORY RD", "GUANGZHOU", "", "510000", "", "CNACM123GUA"}
}

func TestSplitterRunEndToEnd(t *testing.T) {
	workDir := t.TempDir()
	outDir := filepath.Join(workDir, "out")

	src := writeManifest(t, workDir, [][]interface{}{
		manifestRow("25.00"),
		manifestRow("0.30"), // below floor
		manifestRow("25.00"),
	})
	template := filepath.Join(workDir, "Header Sample.xlsx")
	tf := excelize.NewFile()
	titles := make([]interface{}, 0, layout.FieldCount())
	for _, h := range layout.Headers() {
		titles = append(titles, h)
	}
	require.NoError(t, tf.SetSheetRow(tf.GetSheetName(0), "A1", &titles))
	require.NoError(t, tf.SaveAs(template))
	require.NoError(t, tf.Close())

	s := New(Options{
		OutputDir:    outDir,
		TemplateFile: template,
		RowsPerChunk: 2,
		ValueFloor:   0.51,
		RepairMIDs:   true,
	}, nil)

	result := s.Run(src)
	require.True(t, result.Success, "run failed: %v", result.Error)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "16940128955", result.MAWB)
	assert.Equal(t, 3, result.Stats.RowsMapped)
	assert.Equal(t, 2, result.Stats.ChunksWritten)
	assert.Equal(t, 1, result.Stats.RowsAdjusted)
	// Every row carries the 123-vs-402 mismatch, so every row was repaired.
	assert.Equal(t, 3, result.Stats.MIDsRepaired)
	require.Len(t, result.ChunkFiles, 2)

	// Spot-check the repaired MID landing in the first chunk.
	f, err := excelize.OpenFile(result.ChunkFiles[0])
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	midIdx := layout.ColIndex("T")
	require.Greater(t, len(rows[1]), midIdx)
	assert.Equal(t, "CNACM402GUA", rows[1][midIdx])
}

func TestSplitterRunMissingSource(t *testing.T) {
	s := New(Options{
		OutputDir:    t.TempDir(),
		TemplateFile: "nope.xlsx",
		RowsPerChunk: 495,
	}, nil)

	result := s.Run(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "failed to read source")
}

func TestSplitterRunWithoutMIDRepair(t *testing.T) {
	workDir := t.TempDir()

	src := writeManifest(t, workDir, [][]interface{}{manifestRow("25.00")})
	template := filepath.Join(workDir, "Header Sample.xlsx")
	tf := excelize.NewFile()
	titles := []interface{}{layout.FieldInvoiceNo, layout.FieldMIDCode}
	require.NoError(t, tf.SetSheetRow(tf.GetSheetName(0), "A1", &titles))
	require.NoError(t, tf.SaveAs(template))
	require.NoError(t, tf.Close())

	s := New(Options{
		OutputDir:    filepath.Join(workDir, "out"),
		TemplateFile: template,
		RowsPerChunk: 495,
		RepairMIDs:   false,
	}, nil)

	result := s.Run(src)
	require.True(t, result.Success, "run failed: %v", result.Error)
	assert.Zero(t, result.Stats.MIDsRepaired)

	// The MID column keeps its raw value when repair is off.
	f, err := excelize.OpenFile(result.ChunkFiles[0])
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, "CNACM123GUA", rows[1][1])
}
