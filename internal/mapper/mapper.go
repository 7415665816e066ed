// =============================================================================
// Broker Helper - Column Mapper
// =============================================================================
//
// This module reshapes a raw carrier manifest into the canonical 46-column
// customs layout. The raw sheet has a fixed 9-row preamble, a header row, and
// positionally addressed data columns; nothing about it is schema-enforced,
// so every value is treated as loose cell text.
//
// MAPPING PIPELINE:
//   1. Pull mapped source columns into canonical fields (letter tables from
//      the layout package)
//   2. Drop rows that are blank across all mapped fields
//   3. Inject the hard-coded constants (after the blank check, so blank-row
//      detection sees only source-derived values)
//   4. Override Manufacturer_Country to SG/HK when the MID starts with that
//      prefix
//   5. Normalize ZIP-like fields to 6-digit zero-padded strings
//   6. Compute Unit_Price = Total_Line_Value / Quantity (2-decimal round)
//
// TWO INPUT LAYOUTS:
//   Newer manifests insert a commodity-description column before position 2.
//   The layout is auto-detected by scanning the header row for "commodity"
//   (case-insensitive): when present, position 2 feeds Commercial_Description
//   directly and every mapped source index >= 2 reads one position right.
//
// =============================================================================

package mapper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// =============================================================================
// SOURCE GEOMETRY
// =============================================================================

// preambleRows is the fixed number of sheet rows above the header row.
const preambleRows = 9

// mawbCell is the fixed cell holding the master air waybill number.
const mawbCell = "U9"

// descriptionSrcIndex is the raw column feeding Commercial_Description in the
// alternate layout (position 2, i.e. column C).
const descriptionSrcIndex = 2

// zipPattern matches digits optionally followed by a trailing ".0"-style
// fractional remainder, the shape a numeric ZIP takes after a spreadsheet
// round-trip (e.g. "90045.0").
var zipPattern = regexp.MustCompile(`^(\d+)(?:\.0*)?$`)

// zipFields are the canonical fields that get 6-digit zero padding.
var zipFields = []string{layout.FieldMfrZip, layout.FieldBuyerZip}

// =============================================================================
// RAW SOURCE
// =============================================================================

// Source is a raw manifest workbook read into memory.
type Source struct {
	// Path is the workbook location, carried through for audit reporting.
	Path string

	// MAWB is the trimmed master waybill value from the fixed cell.
	MAWB string

	// Header is the raw header row (the row after the preamble).
	Header []string

	// Rows are the raw data rows below the header, positionally addressed.
	Rows [][]string

	// FirstDataRow is the 1-based sheet row number of Rows[0].
	FirstDataRow int
}

// ReadSource opens a manifest workbook and extracts the MAWB, the header row,
// and the data rows below the fixed preamble.
func ReadSource(path string) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("source workbook has no sheets")
	}

	mawb, err := f.GetCellValue(sheet, mawbCell)
	if err != nil {
		return nil, fmt.Errorf("failed to read MAWB cell %s: %w", mawbCell, err)
	}
	mawb = strings.TrimSpace(mawb)
	if mawb == "" {
		return nil, fmt.Errorf("MAWB cell %s is empty", mawbCell)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) <= preambleRows {
		return nil, fmt.Errorf("source sheet has no data below the %d-row preamble", preambleRows)
	}

	return &Source{
		Path:         path,
		MAWB:         mawb,
		Header:       rows[preambleRows],
		Rows:         rows[preambleRows+1:],
		FirstDataRow: preambleRows + 2,
	}, nil
}

// =============================================================================
// LAYOUT DETECTION
// =============================================================================

// HasAltLayout reports whether the header row carries a commodity-description
// column, i.e. the newer layout with one extra column before position 2.
func HasAltLayout(header []string) bool {
	for _, h := range header {
		if strings.Contains(strings.ToLower(h), "commodity") {
			return true
		}
	}
	return false
}

// =============================================================================
// MAPPING
// =============================================================================

// Map reshapes the raw source into the canonical table. The alternate layout
// is auto-detected from the header row.
func Map(src *Source) (*types.Table, error) {
	if src == nil || len(src.Rows) == 0 {
		return nil, fmt.Errorf("source has no data rows")
	}

	alt := HasAltLayout(src.Header)
	pairs := layout.Mapping()

	records := make([]types.Record, 0, len(src.Rows))
	for i, raw := range src.Rows {
		fields := make(map[string]string, layout.FieldCount())

		// Pull mapped source columns into canonical fields.
		blank := true
		if alt {
			v := cellAt(raw, descriptionSrcIndex)
			fields[layout.FieldDescription] = v
			if v != "" {
				blank = false
			}
		}
		for _, p := range pairs {
			srcIdx := layout.ColIndex(p.Src)
			if alt && srcIdx >= descriptionSrcIndex {
				srcIdx++
			}
			v := cellAt(raw, srcIdx)
			fields[layout.FieldAt(p.Tgt)] = v
			if v != "" {
				blank = false
			}
		}

		// Drop rows blank across all mapped fields, before constants land.
		if blank {
			continue
		}

		// Expand to the full 46-column layout.
		for _, h := range layout.Headers() {
			if _, ok := fields[h]; !ok {
				fields[h] = ""
			}
		}

		// Inject constants.
		for _, c := range layout.Constants() {
			fields[layout.FieldAt(c.Tgt)] = c.Value
		}

		rec := types.Record{
			Fields:    fields,
			SourceRow: src.FirstDataRow + i,
		}
		applyCountryOverride(&rec)
		normalizeZips(&rec)
		computeUnitPrice(&rec)

		records = append(records, rec)
	}

	return &types.Table{
		SourceFile: src.Path,
		MAWB:       src.MAWB,
		Records:    records,
	}, nil
}

// cellAt returns the trimmed cell at idx, or "" past the row end.
func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// =============================================================================
// FIELD NORMALIZATION
// =============================================================================

// applyCountryOverride replaces Manufacturer_Country with SG or HK when the
// MID starts with that prefix (case-insensitive).
func applyCountryOverride(rec *types.Record) {
	mid := strings.ToUpper(rec.Fields[layout.FieldMIDCode])
	switch {
	case strings.HasPrefix(mid, "SG"):
		rec.Fields[layout.FieldMfrCountry] = "SG"
	case strings.HasPrefix(mid, "HK"):
		rec.Fields[layout.FieldMfrCountry] = "HK"
	}
}

// normalizeZips rewrites ZIP-like values as 6-digit zero-padded strings.
// Non-matching non-empty values pass through unchanged.
func normalizeZips(rec *types.Record) {
	for _, field := range zipFields {
		rec.Fields[field] = PadZip(rec.Fields[field])
	}
}

// PadZip normalizes one ZIP-like value: "12345" -> "012345", "90045.0" ->
// "090045", "ABC123" -> "ABC123", "" -> "".
func PadZip(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	m := zipPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Digit run too long for an integer; not a ZIP, pass through.
		return s
	}
	return fmt.Sprintf("%06d", n)
}

// computeUnitPrice fills Unit_Price = Total_Line_Value / Quantity rounded to
// two decimals. Non-numeric inputs coerce to missing rather than erroring.
func computeUnitPrice(rec *types.Record) {
	rec.Fields[layout.FieldUnitPrice] = DivideRounded(
		rec.Fields[layout.FieldTotalLineValue],
		rec.Fields[layout.FieldQuantity],
	)
}

// DivideRounded divides two cell values and formats the result with two
// decimals. Any coercion failure or zero divisor yields "" (missing).
func DivideRounded(total, quantity string) string {
	t, err1 := strconv.ParseFloat(strings.TrimSpace(total), 64)
	q, err2 := strconv.ParseFloat(strings.TrimSpace(quantity), 64)
	if err1 != nil || err2 != nil || q == 0 {
		return ""
	}
	return strconv.FormatFloat(t/q, 'f', 2, 64)
}
