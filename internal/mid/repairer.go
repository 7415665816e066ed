// =============================================================================
// Broker Helper - MID Repairer
// =============================================================================
//
// A Manufacturer Identification Code (MID) embeds a building/room/unit number
// derived from the manufacturer's address. Manifest data routinely carries
// MIDs whose digits disagree with the address on the same line; customs
// rejects those lines (reject code 523). This module extracts the number the
// address actually names and rewrites the MID's digit run to match.
//
// EXTRACTION LADDER:
//   The address is probed with an ordered list of (pattern, extraction-rule)
//   pairs; the first match wins. Priority runs from the most specific cue
//   ("room 402") down to a bare digit run. Each rule is an explicit entry so
//   the ladder can be unit-tested rule by rule and reordered safely.
//
// TOKEN RULES:
//   The matched token is stripped of letters and hyphens, has leading zeros
//   trimmed (floor value "0"), and is truncated to at most 4 digits. A token
//   is valid only if the result is 1-4 digits.
//
// REPLACEMENT:
//   Only the first digit run inside the MID is replaced, leaving surrounding
//   letters untouched, and only when the address token and the MID token are
//   both present, differ, and the full MID is not on the exemption list.
//
// =============================================================================

package mid

import (
	"regexp"
	"strings"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// =============================================================================
// EXTRACTION LADDER
// =============================================================================

// Rule is one rung of the extraction ladder: a pattern plus the rule turning
// its submatches into a raw token.
type Rule struct {
	// Name identifies the rung in tests and audit output.
	Name string

	// Pattern is applied to the lowercased address.
	Pattern *regexp.Regexp

	// Extract turns the submatch slice into the raw token text.
	Extract func(m []string) string
}

// first returns submatch 1, the common case.
func first(m []string) string { return m[1] }

// ladder is the fixed priority order. The "#N-M" rung concatenates both
// numbers; the dash class includes the en dash that PDF-sourced addresses
// carry.
var ladder = []Rule{
	{Name: "room", Pattern: regexp.MustCompile(`\broom\s*([a-z0-9\-]+)`), Extract: first},
	{Name: "unit", Pattern: regexp.MustCompile(`\bunit\s*([a-z0-9\-]+)`), Extract: first},
	{Name: "shop", Pattern: regexp.MustCompile(`\b(?:shop|booth|stall)\s*([a-z0-9\-]+)`), Extract: first},
	{Name: "hash-pair", Pattern: regexp.MustCompile(`#\s*(\d+)[\x{2013}-](\d+)`), Extract: func(m []string) string { return m[1] + m[2] }},
	{Name: "hash", Pattern: regexp.MustCompile(`#\s*([a-z0-9\-]+)`), Extract: first},
	{Name: "building", Pattern: regexp.MustCompile(`\bbuilding\s*(\d+)`), Extract: first},
	{Name: "street", Pattern: regexp.MustCompile(`\b(?:no\.?|road|rd\.?|street|st\.?|ave\.?|avenue)\s*(\d+)`), Extract: first},
	{Name: "bare-digits", Pattern: regexp.MustCompile(`(\d+)`), Extract: first},
}

// midDigitRun finds the first embedded digit run inside a MID.
var midDigitRun = regexp.MustCompile(`\d+`)

// nonDigit strips letters and hyphens out of a raw token.
var nonDigit = regexp.MustCompile(`[a-zA-Z\-]`)

// CleanToken normalizes a raw ladder token: strip letters/hyphens, trim
// leading zeros (floor "0"), truncate to 4 digits.
func CleanToken(raw string) string {
	t := nonDigit.ReplaceAllString(raw, "")
	t = strings.TrimLeft(t, "0")
	if t == "" {
		t = "0"
	}
	if len(t) > 4 {
		t = t[:4]
	}
	return t
}

// validToken reports whether a cleaned token is 1-4 digits.
func validToken(t string) bool {
	if len(t) < 1 || len(t) > 4 {
		return false
	}
	for _, ch := range t {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// ExtractUnitNumber walks the ladder over an address and returns the first
// valid cleaned token. ok is false when no rung yields a valid token.
func ExtractUnitNumber(addr string) (token string, ok bool) {
	low := strings.ToLower(addr)
	for _, rule := range ladder {
		m := rule.Pattern.FindStringSubmatch(low)
		if m == nil {
			continue
		}
		tok := CleanToken(rule.Extract(m))
		if validToken(tok) {
			return tok, true
		}
	}
	return "", false
}

// MIDNumber returns the first digit run embedded in a MID, if any.
func MIDNumber(mid string) (string, bool) {
	m := midDigitRun.FindString(mid)
	return m, m != ""
}

// ReplaceMIDNumber rewrites only the first digit run inside a MID, leaving
// surrounding letters untouched. A MID with no digits is returned unchanged.
func ReplaceMIDNumber(mid, digits string) string {
	loc := midDigitRun.FindStringIndex(mid)
	if loc == nil {
		return mid
	}
	return mid[:loc[0]] + digits + mid[loc[1]:]
}

// =============================================================================
// REPAIRER
// =============================================================================

// Repairer rewrites MID digit runs against the manufacturer address. The
// exemption list is immutable configuration passed in at construction.
type Repairer struct {
	exempt map[string]struct{}
}

// NewRepairer builds a Repairer with the given full-MID exemption list.
func NewRepairer(exemptMIDs []string) *Repairer {
	exempt := make(map[string]struct{}, len(exemptMIDs))
	for _, m := range exemptMIDs {
		exempt[m] = struct{}{}
	}
	return &Repairer{exempt: exempt}
}

// Repair inspects one canonical record and rewrites its MID digits when the
// address-derived number disagrees. The record's MIDOriginal and MIDChanged
// audit fields are always set; changed reports whether a rewrite happened.
// Empty addresses or MIDs short-circuit to "no match" rather than erroring.
func (r *Repairer) Repair(rec *types.Record) (changed bool) {
	midValue := rec.Fields[layout.FieldMIDCode]
	rec.MIDOriginal = midValue
	rec.MIDChanged = false

	addrTok, ok := ExtractUnitNumber(rec.Fields[layout.FieldMfrAddress1])
	if !ok {
		return false
	}
	midTok, ok := MIDNumber(midValue)
	if !ok {
		return false
	}
	if addrTok == midTok {
		return false
	}
	if _, exempt := r.exempt[midValue]; exempt {
		return false
	}

	rec.Fields[layout.FieldMIDCode] = ReplaceMIDNumber(midValue, addrTok)
	rec.MIDChanged = true
	return true
}

// RepairAll runs Repair over a whole table and returns the number of records
// rewritten.
func (r *Repairer) RepairAll(table *types.Table) int {
	count := 0
	for i := range table.Records {
		if r.Repair(&table.Records[i]) {
			count++
		}
	}
	return count
}
