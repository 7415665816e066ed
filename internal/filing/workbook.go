// =============================================================================
// Broker Helper - Split Workbook Reader
// =============================================================================
//
// Reads a split workbook back into records for upload. The first row is
// taken as the field names, so any workbook laid out in the canonical shape
// works, not only ones this tool produced.
//
// =============================================================================

package filing

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// ReadSplitWorkbook loads the first sheet of a split workbook. Rows with no
// non-blank cell are skipped; trailing cells past the header width are
// ignored.
func ReadSplitWorkbook(path string) ([]types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook carries no data rows")
	}

	header := rows[0]
	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		blank := true
		fields := make(map[string]string, len(header))
		for c, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			var cell string
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			if cell != "" {
				blank = false
			}
			fields[name] = cell
		}
		if blank {
			continue
		}
		records = append(records, types.Record{
			Fields:    fields,
			SourceRow: i + 2,
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("workbook carries no data rows")
	}
	return records, nil
}
