// =============================================================================
// Broker Helper - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - mapper
//   - mid
//   - splitter
//   - filing
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// CANONICAL RECORD TYPES
// =============================================================================

// Record is one canonical customs line. Every record in a run shares the same
// 46-field set; fields not sourced from the raw sheet are empty strings or
// one of the layout constants. Values stay as spreadsheet cell text and are
// coerced to numbers only where a computation needs them.
type Record struct {
	// Fields maps canonical field names to cell values.
	Fields map[string]string

	// SourceRow is the 1-based row number in the source workbook.
	// Useful for audit reporting.
	SourceRow int

	// MIDOriginal is the pre-repair MID_Code text. Set by the MID repairer.
	MIDOriginal string

	// MIDChanged reports whether the MID repairer rewrote the MID digits.
	MIDChanged bool
}

// Clone returns a deep copy of the record. Chunk clamping keeps pre-clamp
// copies for the adjustment log, so records must copy cleanly.
func (r Record) Clone() Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	out := r
	out.Fields = fields
	return out
}

// Table is the canonical table produced from one source workbook.
type Table struct {
	// SourceFile is the path of the workbook the table was read from.
	SourceFile string

	// MAWB is the master air waybill identifier read from the fixed cell.
	MAWB string

	// Records are the surviving (non-blank) rows in source order.
	Records []Record
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger is the logging interface shared by the pipeline components.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// stdLogger prints to stdout. Debug lines are dropped unless verbose.
type stdLogger struct {
	verbose bool
}

// NewLogger returns the default stdout logger. Verbose enables Debug output.
func NewLogger(verbose bool) Logger {
	return &stdLogger{verbose: verbose}
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	if l.verbose {
		fmt.Printf("[DEBUG] "+msg+"\n", args...)
	}
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *stdLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *stdLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
