// =============================================================================
// Broker Helper - Chunk Planning
// =============================================================================
//
// A run partitions the canonical table into contiguous, order-preserving
// row-bounded chunks. Each chunk gets a suffix from a fixed sequence and the
// synthetic invoice number "{MAWB}-{suffix}". The whole plan is checked
// before any file is written: if the table cannot fit in the available
// suffixes the run fails with nothing on disk.
//
// =============================================================================

package splitter

import "fmt"

// twoPerLetterBelow is the rows-per-chunk threshold under which the suffix
// sequence doubles up per letter. Small chunks mean more files; 26 letters
// alone stop being enough around the 500-row cap the filing portal likes.
const twoPerLetterBelow = 600

// suffixLetters is the base sequence.
const suffixLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Suffixes returns the file-suffix sequence for a given chunk size:
// A1, A2, B1, B2, ... when rowsPerChunk < 600, otherwise A, B, C, ...
func Suffixes(rowsPerChunk int) []string {
	if rowsPerChunk < twoPerLetterBelow {
		out := make([]string, 0, len(suffixLetters)*2)
		for _, ltr := range suffixLetters {
			out = append(out, fmt.Sprintf("%c1", ltr), fmt.Sprintf("%c2", ltr))
		}
		return out
	}
	out := make([]string, 0, len(suffixLetters))
	for _, ltr := range suffixLetters {
		out = append(out, string(ltr))
	}
	return out
}

// CheckCapacity fails the run when the row count exceeds what the suffix
// sequence can hold at the given chunk size.
func CheckCapacity(totalRows, rowsPerChunk int, suffixes []string) error {
	if rowsPerChunk <= 0 {
		return fmt.Errorf("rows per chunk must be positive, got %d", rowsPerChunk)
	}
	if max := rowsPerChunk * len(suffixes); totalRows > max {
		return fmt.Errorf("too many rows for available file parts: %d rows exceed %d parts x %d rows",
			totalRows, len(suffixes), rowsPerChunk)
	}
	return nil
}

// ChunkCount returns ceil(totalRows / rowsPerChunk).
func ChunkCount(totalRows, rowsPerChunk int) int {
	if totalRows <= 0 {
		return 0
	}
	return (totalRows + rowsPerChunk - 1) / rowsPerChunk
}

// InvoiceNumber builds the synthetic invoice for one chunk.
func InvoiceNumber(mawb, suffix string) string {
	return mawb + "-" + suffix
}
