package mid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

func TestCleanToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"402", "402"},
		{"4b", "4"},
		{"B-12", "12"},
		{"0042", "42"},
		{"0000", "0"},  // leading-zero floor
		{"12345", "1234"}, // 4-digit cap
		{"abc", "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanToken(tc.in), "CleanToken(%q)", tc.in)
	}
}

func TestExtractUnitNumber(t *testing.T) {
	cases := []struct {
		name string
		addr string
		want string
		ok   bool
	}{
		{"room", "ROOM 402, 88 FACTORY RD", "402", true},
		{"room-glued", "Room402 Building 3", "402", true},
		{"unit with letter", "Unit 4B, Industrial Park", "4", true},
		{"shop", "SHOP 15, MARKET ST", "15", true},
		{"booth", "Booth A-23", "23", true},
		{"hash pair hyphen", "#12-34 ORCHARD TOWERS", "1234", true},
		{"hash pair en dash", "#12–34 ORCHARD TOWERS", "1234", true},
		{"hash single", "#305 TRADE CENTER", "305", true},
		{"building", "BUILDING 6 EXPORT ZONE", "6", true},
		{"street number", "NO. 88 HUANSHI ROAD", "88", true},
		{"bare digits", "HUANSHI ROAD EAST 1688", "1688", true},
		{"no digits", "INDUSTRIAL PARK EAST", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractUnitNumber(tc.addr)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoomBeatsBareDigits(t *testing.T) {
	// The ladder picks the most specific cue even when other digit runs
	// appear earlier in the address.
	got, ok := ExtractUnitNumber("1688 HUANSHI RD, ROOM 402")
	require.True(t, ok)
	assert.Equal(t, "402", got)
}

func TestMIDNumber(t *testing.T) {
	n, ok := MIDNumber("CNACM123GUA")
	require.True(t, ok)
	assert.Equal(t, "123", n)

	_, ok = MIDNumber("CNACMGUA")
	assert.False(t, ok)
}

func TestReplaceMIDNumber(t *testing.T) {
	assert.Equal(t, "CNACM402GUA", ReplaceMIDNumber("CNACM123GUA", "402"))
	// Only the first digit run is rewritten.
	assert.Equal(t, "CN9MAK55SHE", ReplaceMIDNumber("CN1MAK55SHE", "9"))
	// No digits: unchanged.
	assert.Equal(t, "CNACMGUA", ReplaceMIDNumber("CNACMGUA", "402"))
}

func newRecord(mid, addr string) types.Record {
	return types.Record{Fields: map[string]string{
		layout.FieldMIDCode:     mid,
		layout.FieldMfrAddress1: addr,
	}}
}

func TestRepairRewritesMismatchedMID(t *testing.T) {
	r := NewRepairer(nil)
	rec := newRecord("CNACM123GUA", "ROOM 402 FACTORY RD")

	changed := r.Repair(&rec)

	require.True(t, changed)
	assert.Equal(t, "CNACM402GUA", rec.Fields[layout.FieldMIDCode])
	assert.Equal(t, "CNACM123GUA", rec.MIDOriginal)
	assert.True(t, rec.MIDChanged)
}

func TestRepairLeavesMatchingMID(t *testing.T) {
	r := NewRepairer(nil)
	rec := newRecord("CNACM402GUA", "ROOM 402 FACTORY RD")

	assert.False(t, r.Repair(&rec))
	assert.Equal(t, "CNACM402GUA", rec.Fields[layout.FieldMIDCode])
	assert.False(t, rec.MIDChanged)
	// Audit fields are set even when nothing changed.
	assert.Equal(t, "CNACM402GUA", rec.MIDOriginal)
}

func TestRepairHonorsExemptList(t *testing.T) {
	r := NewRepairer([]string{"CNGUAJIA163GUA"})
	rec := newRecord("CNGUAJIA163GUA", "ROOM 402 FACTORY RD")

	assert.False(t, r.Repair(&rec))
	assert.Equal(t, "CNGUAJIA163GUA", rec.Fields[layout.FieldMIDCode])
}

func TestRepairSkipsUnusableInput(t *testing.T) {
	r := NewRepairer(nil)

	// Address with no extractable number.
	rec := newRecord("CNACM123GUA", "INDUSTRIAL PARK EAST")
	assert.False(t, r.Repair(&rec))

	// MID with no digit run.
	rec = newRecord("CNACMGUA", "ROOM 402 FACTORY RD")
	assert.False(t, r.Repair(&rec))
	assert.Equal(t, "CNACMGUA", rec.Fields[layout.FieldMIDCode])
}

func TestRepairAllCounts(t *testing.T) {
	r := NewRepairer(nil)
	table := &types.Table{Records: []types.Record{
		newRecord("CNACM123GUA", "ROOM 402 FACTORY RD"),
		newRecord("CNACM402GUA", "ROOM 402 FACTORY RD"),
		newRecord("CNMAK5SHE", "UNIT 9 TRADE CENTER"),
	}}

	assert.Equal(t, 2, r.RepairAll(table))
	assert.Equal(t, "CNACM402GUA", table.Records[0].Fields[layout.FieldMIDCode])
	assert.Equal(t, "CNMAK9SHE", table.Records[2].Fields[layout.FieldMIDCode])
}
