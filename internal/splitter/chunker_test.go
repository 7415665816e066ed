package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffixesDoubled(t *testing.T) {
	s := Suffixes(495)
	require.Len(t, s, 52)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, s[:4])
	assert.Equal(t, "Z2", s[51])
}

func TestSuffixesSingle(t *testing.T) {
	s := Suffixes(600)
	require.Len(t, s, 26)
	assert.Equal(t, "A", s[0])
	assert.Equal(t, "Z", s[25])

	// 599 sits just below the threshold and still doubles up.
	assert.Len(t, Suffixes(599), 52)
}

func TestCheckCapacity(t *testing.T) {
	suffixes := Suffixes(495) // 52 parts

	// Exactly full fits.
	assert.NoError(t, CheckCapacity(495*52, 495, suffixes))

	// One row over fails.
	err := CheckCapacity(495*52+1, 495, suffixes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many rows")

	// Non-positive chunk size fails.
	assert.Error(t, CheckCapacity(10, 0, suffixes))
	assert.Error(t, CheckCapacity(10, -5, suffixes))
}

func TestChunkCount(t *testing.T) {
	assert.Equal(t, 0, ChunkCount(0, 495))
	assert.Equal(t, 1, ChunkCount(1, 495))
	assert.Equal(t, 1, ChunkCount(495, 495))
	assert.Equal(t, 2, ChunkCount(496, 495))
	assert.Equal(t, 3, ChunkCount(991, 495))
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "16940128955-A1", InvoiceNumber("16940128955", "A1"))
}
