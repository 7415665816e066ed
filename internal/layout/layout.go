// =============================================================================
// Broker Helper - Canonical Customs Layout
// =============================================================================
//
// This package defines the fixed 46-column customs invoice layout that every
// split workbook conforms to, together with the letter-addressed tables that
// drive the column mapper:
//   - Headers: the 46 field names in their canonical column order
//   - Mapping: source column letter -> target column letter pairs
//   - Constants: target column letter -> hard-coded value pairs
//
// COLUMN ADDRESSING:
//   Both the raw import and the canonical layout are addressed by Excel-style
//   column letters ('A'..'Z', 'AA'..). ColIndex converts a letter to a
//   zero-based position; the same arithmetic is used for source extraction
//   and target placement, so the tables stay auditable as plain letter pairs.
//
// The tables are package data but are exposed only as copies, so callers
// cannot mutate the layout out from under a running split.
//
// =============================================================================

package layout

import "fmt"

// =============================================================================
// CANONICAL HEADERS
// =============================================================================

// headers is the customs-approved 46-field record layout, in column order.
// Column A is Invoice_No, column T is MID_Code, and so on.
var headers = []string{
	"Invoice_No", "Part", "Commercial_Description", "Country_of_Origin", "Country_of_Export",
	"Tariff_Number", "Quantity", "Quantity_UOM", "Unit_Price", "Total_Line_Value",
	"Net_Weight_KG", "Gross_Weight_KG", "Manufacturer_Name", "Manufacturer_Address_1",
	"Manufacturer_Address_2", "Manufacturer_City", "Manufacturer_State", "Manufacturer_Zip",
	"Manufacturer_Country", "MID_Code", "Buyer_Name", "Buyer_Address_1", "Buyer_Address_2",
	"Buyer_City", "Buyer_State", "Buyer_Zip", "Buyer_Country", "Buyer_ID_Number",
	"Consignee_Name", "Consignee_Address_1", "Consignee_Address_2", "Consignee_City",
	"Consignee_State", "Consignee_Zip", "Consignee_Country", "Consignee_ID_Number",
	"SICountry", "SP1", "SP2", "Zone_Status", "Privileged_Filing_Date", "Line_Piece_Count",
	"ADD_Case_Number", "CVD_Case_Number", "AD_Non_Reimbursement_Statement",
	"AD-CVD_Certification_Designation",
}

// Named fields used throughout the splitter. Kept in sync with headers above.
const (
	FieldInvoiceNo      = "Invoice_No"
	FieldPart           = "Part"
	FieldDescription    = "Commercial_Description"
	FieldOriginCountry  = "Country_of_Origin"
	FieldExportCountry  = "Country_of_Export"
	FieldTariffNumber   = "Tariff_Number"
	FieldQuantity       = "Quantity"
	FieldQuantityUOM    = "Quantity_UOM"
	FieldUnitPrice      = "Unit_Price"
	FieldTotalLineValue = "Total_Line_Value"
	FieldMfrName        = "Manufacturer_Name"
	FieldMfrAddress1    = "Manufacturer_Address_1"
	FieldMfrZip         = "Manufacturer_Zip"
	FieldMfrCountry     = "Manufacturer_Country"
	FieldMIDCode        = "MID_Code"
	FieldBuyerZip       = "Buyer_Zip"
)

// =============================================================================
// LETTER TABLES
// =============================================================================

// LetterPair is one entry of the source-to-target column remapping.
type LetterPair struct {
	// Src is the column letter in the raw import sheet.
	Src string

	// Tgt is the column letter in the canonical layout.
	Tgt string
}

// ConstantFill is one hard-coded value injected into a canonical column.
type ConstantFill struct {
	// Tgt is the column letter in the canonical layout.
	Tgt string

	// Value is the constant written to every record.
	Value string
}

// mapping is the fixed letter-to-letter remapping applied to every raw row.
// Order matters only for auditability; the pairs are disjoint on both sides.
var mapping = []LetterPair{
	{Src: "B", Tgt: "F"}, // Tariff_Number
	{Src: "D", Tgt: "G"}, // Quantity
	{Src: "F", Tgt: "J"}, // Total_Line_Value
	{Src: "E", Tgt: "L"}, // Gross_Weight_KG
	{Src: "G", Tgt: "M"}, // Manufacturer_Name
	{Src: "H", Tgt: "N"}, // Manufacturer_Address_1
	{Src: "I", Tgt: "P"}, // Manufacturer_City
	{Src: "K", Tgt: "R"}, // Manufacturer_Zip
	{Src: "M", Tgt: "T"}, // MID_Code
}

// constants are the values injected after blank-row removal.
var constants = []ConstantFill{
	{Tgt: "D", Value: "CN"},  // Country_of_Origin
	{Tgt: "E", Value: "CN"},  // Country_of_Export
	{Tgt: "S", Value: "CN"},  // Manufacturer_Country
	{Tgt: "H", Value: "PCS"}, // Quantity_UOM
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Headers returns a copy of the canonical 46-field header list in column order.
func Headers() []string {
	out := make([]string, len(headers))
	copy(out, headers)
	return out
}

// FieldCount is the number of fields in a canonical record.
func FieldCount() int {
	return len(headers)
}

// Mapping returns a copy of the source-to-target letter pairs.
func Mapping() []LetterPair {
	out := make([]LetterPair, len(mapping))
	copy(out, mapping)
	return out
}

// Constants returns a copy of the constant-injection table.
func Constants() []ConstantFill {
	out := make([]ConstantFill, len(constants))
	copy(out, constants)
	return out
}

// =============================================================================
// COLUMN-LETTER ARITHMETIC
// =============================================================================

// ColIndex converts an Excel-style column letter ("A", "Z", "AB") into a
// zero-based column index. The letter tables above are fixed at compile time,
// so a malformed letter is a programming error and panics rather than
// returning an error.
func ColIndex(col string) int {
	if col == "" {
		panic("layout: empty column letter")
	}
	idx := 0
	for _, ch := range col {
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			panic(fmt.Sprintf("layout: malformed column letter %q", col))
		}
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx - 1
}

// FieldAt returns the canonical field name sitting at the given column letter.
// Panics when the letter points outside the 46-column layout.
func FieldAt(col string) string {
	i := ColIndex(col)
	if i >= len(headers) {
		panic(fmt.Sprintf("layout: column %q outside canonical layout", col))
	}
	return headers[i]
}
