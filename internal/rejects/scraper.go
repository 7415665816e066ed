// =============================================================================
// Broker Helper - Reject Code Scraper
// =============================================================================
//
// A rejection notice lists per-line reject tokens of the form
// "Line# <line_number> <reason_code>". The notice body repeats unrelated
// "Line# N M" shapes further down (totals, legal text), so the scanner only
// accepts tokens that continue the visual block: the first token seen, or a
// token whose line number equals or is exactly one greater than the previous
// accepted one. Any other line number ends the scan for that page.
//
// GROUPING:
//   Accepted tokens are grouped by reason code, preserving first-seen order
//   of codes, with one explicit ordering override: code 465 is always moved
//   to just before code 628, and 628 is always placed last. The override is
//   policy, not data-derived - the two "ignore" codes sit at the bottom of
//   the report so the actionable ones read first.
//
// REPORT:
//   One header line per reason code (code + its side-note from the note
//   table, blank when unknown) followed by each accepted "Line# n" in that
//   group.
//
// =============================================================================

package rejects

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// NOTE TABLE
// =============================================================================

// trailingCode always sorts last; penultimateCode sits just before it.
const (
	trailingCode    = "628"
	penultimateCode = "465"
)

// defaultNotes maps reason codes to the side-note shown next to them.
var defaultNotes = map[string]string{
	"628": "ignore",
	"465": "ignore",
	"523": "fix MID",
	"771": "add tariff: 9903.01.63",
	"794": "add CN",
	"687": "delete the line",
	"483": "calculate MID",
	"775": "delete the line",
	"613": "delete the line",
	"773": "change country to SG",
}

// Notes builds the effective side-note table: the defaults overlaid with the
// configured overrides. The result is a fresh map the caller owns.
func Notes(overrides map[string]string) map[string]string {
	notes := make(map[string]string, len(defaultNotes)+len(overrides))
	for code, note := range defaultNotes {
		notes[code] = note
	}
	for code, note := range overrides {
		notes[code] = note
	}
	return notes
}

// =============================================================================
// TOKEN SCANNING
// =============================================================================

// Token is one accepted "Line# <line> <code>" occurrence.
type Token struct {
	// Line is the customs line number.
	Line int

	// Code is the reason/message code.
	Code string
}

// tokenPattern matches one reject token in page text.
var tokenPattern = regexp.MustCompile(`Line#\s+(\d+)\s+(\d+)`)

// Scan walks the page texts and collects the accepted tokens. Acceptance
// state (the last accepted line number) carries across pages; a
// non-consecutive line number breaks out of the current page only.
func Scan(pages []string) []Token {
	var tokens []Token
	for _, text := range pages {
		for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
			line, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if len(tokens) > 0 {
				last := tokens[len(tokens)-1].Line
				if line != last && line != last+1 {
					break
				}
			}
			tokens = append(tokens, Token{Line: line, Code: m[2]})
		}
	}
	return tokens
}

// =============================================================================
// GROUPING
// =============================================================================

// Report is the grouped scan result, ready to render.
type Report struct {
	// Codes are the reason codes in final display order.
	Codes []string

	// Groups maps each code to its accepted line numbers, in scan order.
	Groups map[string][]int
}

// Group buckets tokens by reason code, preserving first-seen code order and
// applying the fixed 465-before-628-last override.
func Group(tokens []Token) *Report {
	groups := make(map[string][]int)
	var order []string
	seen := make(map[string]bool)

	for _, tok := range tokens {
		if !seen[tok.Code] {
			order = append(order, tok.Code)
			seen[tok.Code] = true
		}
		groups[tok.Code] = append(groups[tok.Code], tok.Line)
	}

	// Ordering override: drop the two fixed codes out of scan order, then
	// re-append 465 and finally 628.
	final := make([]string, 0, len(order))
	for _, code := range order {
		if code != penultimateCode && code != trailingCode {
			final = append(final, code)
		}
	}
	if seen[penultimateCode] {
		final = append(final, penultimateCode)
	}
	if seen[trailingCode] {
		final = append(final, trailingCode)
	}

	return &Report{Codes: final, Groups: groups}
}

// =============================================================================
// RENDERING
// =============================================================================

// Render produces the ordered text report: per code, a blank separator, a
// header line "code note" (note omitted when the table has none), then each
// line number as "Line# n".
func Render(report *Report, notes map[string]string) string {
	var b strings.Builder
	for _, code := range report.Codes {
		header := code
		if note := notes[code]; note != "" {
			header += " " + note
		}
		fmt.Fprintf(&b, "\n%s\n", header)
		for _, line := range report.Groups[code] {
			fmt.Fprintf(&b, "Line# %d\n", line)
		}
	}
	return b.String()
}

// =============================================================================
// FILE-LEVEL ENTRY POINTS
// =============================================================================

// ScrapeFile parses one rejection PDF and writes the ordered report next to
// the other generated reports, named after the PDF. Returns the report path.
func ScrapeFile(pdfPath, outDir string, notes map[string]string) (string, error) {
	pages, err := ExtractPages(pdfPath)
	if err != nil {
		return "", err
	}

	report := Group(Scan(pages))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report folder: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outPath := filepath.Join(outDir, base+".txt")
	if err := os.WriteFile(outPath, []byte(Render(report, notes)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return outPath, nil
}

// DiscoverPDFs lists the PDF files directly inside dir, matching the
// extension case-insensitively. A missing folder aborts with the path in
// the error.
func DiscoverPDFs(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("missing folder %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list PDFs: %w", err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	return matches, nil
}
