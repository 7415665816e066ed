// =============================================================================
// Broker Helper - PDF Text Extraction
// =============================================================================
//
// Customs rejection notices arrive as loosely structured PDFs. Only the
// plain text matters here; per-page extraction keeps the scanner's
// page-boundary semantics intact.
//
// =============================================================================

package rejects

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns the plain text of every page of a PDF, in page order.
// Pages whose text cannot be decoded are returned as empty strings rather
// than failing the whole notice.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
