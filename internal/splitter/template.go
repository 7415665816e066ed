// =============================================================================
// Broker Helper - Output Header Template
// =============================================================================
//
// The exact column order and titles of every split workbook come from a
// customs-approved reference workbook, not from code. Its first row is the
// single source of truth; the file is loaded read-only and never modified.
//
// =============================================================================

package splitter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadTemplateHeaders reads the first row of the template workbook's first
// sheet and returns the non-blank titles in order.
func LoadTemplateHeaders(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open header template: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("header template has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read header template rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("header template %s has no header row", path)
	}

	var headers []string
	for _, cell := range rows[0] {
		if strings.TrimSpace(cell) != "" {
			headers = append(headers, cell)
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("header template %s has an empty header row", path)
	}

	return headers, nil
}
