// =============================================================================
// Broker Helper - Filing Payload Builders
// =============================================================================
//
// All JSON shaping for the filing API lives here, so a schema change touches
// one file. Two payload flavors exist:
//
//   - BuildEntry:     header-only Entry Summary envelope built from the first
//     row of a split workbook. Static importer / parties blocks per the
//     brokerage account setup; line items deliberately empty.
//   - BuildLineItems: "RD" line-item payload carrying one item per data row,
//     matched to the existing entry by invoice number.
//
// Both run through StripEmpty before submission so blank cells never reach
// the API as empty strings or null branches.
//
// =============================================================================

package filing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Marshall-Ye/Broker-Helper/internal/layout"
	"github.com/Marshall-Ye/Broker-Helper/internal/types"
)

// =============================================================================
// VALUE SCRUBBING
// =============================================================================

// emptyValue reports whether a leaf value should be dropped from the payload.
// Spreadsheet readers hand back "nan"-family strings for blank cells, so
// those count as empty too.
func emptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "nat", "none":
		return true
	}
	return false
}

// StripEmpty recursively removes empty leaves, then any map left hollow by
// the removal. Empty lists survive: the header-only entry deliberately
// carries an empty line-item list.
func StripEmpty(obj interface{}) interface{} {
	switch val := obj.(type) {
	case map[string]interface{}:
		clean := make(map[string]interface{}, len(val))
		for k, v := range val {
			if emptyValue(v) {
				continue
			}
			stripped := StripEmpty(v)
			if m, ok := stripped.(map[string]interface{}); ok && len(m) == 0 {
				continue
			}
			clean[k] = stripped
		}
		return clean
	case []interface{}:
		clean := make([]interface{}, 0, len(val))
		for _, v := range val {
			if emptyValue(v) {
				continue
			}
			clean = append(clean, StripEmpty(v))
		}
		return clean
	default:
		return obj
	}
}

// CleanTariff keeps only the digits of a tariff number and pads / cuts to the
// ten characters the schema requires.
func CleanTariff(v string) string {
	var digits strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	for len(s) < 10 {
		s = "0" + s
	}
	return s[:10]
}

// formatAmount coerces a cell to a float and renders it with the given number
// of decimal places. Unparseable cells come back empty and get stripped.
func formatAmount(v string, decimals int) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// =============================================================================
// HEADER-ONLY ENTRY
// =============================================================================

// BuildEntry returns a header-only Entry Summary envelope keyed off the
// invoice number of the given row. Importer, routing, and party blocks are
// static per the brokerage account; the line-item list stays empty so the
// entry can be created first and populated by a later RD upload.
func BuildEntry(head types.Record) (interface{}, error) {
	invoice := strings.TrimSpace(head.Fields[layout.FieldInvoiceNo])
	if invoice == "" {
		return nil, fmt.Errorf("first row carries no invoice number")
	}

	// House bill drops the three-letter carrier prefix of the invoice.
	houseBill := invoice
	if len(invoice) > 3 {
		houseBill = invoice[3:]
	}

	importer := map[string]interface{}{
		"Account": "SHEI00001",
		"Filer":   "D9T",
		"Tax_id":  "86-371698000",
	}

	general := map[string]interface{}{
		"Invoice_number":         invoice,
		"Invoice_date":           "06/01/2025",
		"Entry_filing_type":      "01",
		"Mode_of_transportation": "40",
		"Payment_type":           "7",

		"Entry_port":       "3901",
		"Port_of_lading":   "3901",
		"Port_of_unlading": "3901",
		"Firms":            "HB61",
		"broker_ref_num":   "TESTBROKER",

		"Scac":             "K4",
		"vessel_flight_no": "0933",

		"gross_weight":         "3099",
		"Charges":              "3099",
		"manifest_description": "TANK TOP",

		"Anticipated_arrival": map[string]interface{}{"Date": "06/05/2025"},
		"export_date":          "06/04/2025",
		"origin_country":       "CN",
		"export_country":       "CN",

		"BillLading": []interface{}{
			map[string]interface{}{
				"BillType":    "M",
				"BillNo":      invoice,
				"Quantity":    17,
				"QuantityUOM": "CTN",
				"SCAC":        "K4",
				"HouseBill": []interface{}{
					map[string]interface{}{
						"BillNo":      houseBill,
						"Quantity":    17,
						"QuantityUOM": "CTN",
						"SCAC":        "K4",
					},
				},
			},
		},
	}

	parties := map[string]interface{}{
		"Seller":    map[string]interface{}{"Name": "ROADGET BUSINESS PTE. LTD."},
		"Consignee": map[string]interface{}{"Name": "SHEIN DISTRIBUTION CORPORATION"},
		"Buyer":     map[string]interface{}{"Name": "SHEIN DISTRIBUTION CORPORATION"},
	}

	shipment := map[string]interface{}{
		"Reference": invoice,
		"Header": map[string]interface{}{
			"Importer_of_record": importer,
			"General":            general,
			"Parties":            parties,
		},
		"Line": map[string]interface{}{"Item": []interface{}{}},
	}

	return StripEmpty(map[string]interface{}{
		"Shipment": []interface{}{shipment},
	}), nil
}

// =============================================================================
// RD LINE-ITEM PAYLOAD
// =============================================================================

// BuildLineItems returns an "RD" payload carrying one item per record. No
// entry number is sent; the API matches the upload to the existing entry by
// invoice number.
func BuildLineItems(records []types.Record) (interface{}, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("workbook carries no data rows")
	}
	invoice := strings.TrimSpace(records[0].Fields[layout.FieldInvoiceNo])
	if invoice == "" {
		return nil, fmt.Errorf("first row carries no invoice number")
	}

	importer := map[string]interface{}{
		"name": "GOLDEN ARCUS INTL CO",
		"address": map[string]interface{}{
			"address_1": "5343 W IMPERIAL HWY NO. 700",
			"address_2": "",
		},
		"city":        "LOS ANGELES",
		"region":      "CA",
		"country":     "US",
		"postal_code": "90045",
		// EIN 46-2750048 plus suffix 00, dashes removed.
		"account": "46275004800",
		"tax_id":  "",
		"filer":   "",
	}

	items := make([]interface{}, 0, len(records))
	for idx, rec := range records {
		quantity := formatAmount(rec.Fields[layout.FieldQuantity], 0)
		items = append(items, map[string]interface{}{
			"Id":             fmt.Sprintf("%03d", idx+1),
			"Inv_number":     invoice,
			"Description":    strings.TrimSpace(rec.Fields[layout.FieldDescription]),
			"Product_number": strings.TrimSpace(rec.Fields[layout.FieldPart]),

			"Country_of_origin": rec.Fields[layout.FieldOriginCountry],
			"Country_of_export": rec.Fields[layout.FieldExportCountry],

			"Manufacturer": map[string]interface{}{
				"Name": strings.TrimSpace(rec.Fields[layout.FieldMfrName]),
				"Address": map[string]interface{}{
					"Address_1": strings.TrimSpace(rec.Fields[layout.FieldMfrAddress1]),
				},
				"Mid_code": strings.TrimSpace(rec.Fields[layout.FieldMIDCode]),
			},

			"Tariff": []interface{}{
				map[string]interface{}{
					"Number": CleanTariff(rec.Fields[layout.FieldTariffNumber]),
					"Reporting_quantity_1": map[string]interface{}{
						"Uom":  rec.Fields[layout.FieldQuantityUOM],
						"Text": quantity,
					},
				},
			},

			"Quantity": map[string]interface{}{
				"Amount": quantity,
				"Uom":    rec.Fields[layout.FieldQuantityUOM],
			},

			"Price": map[string]interface{}{
				"Unit_price":  formatAmount(rec.Fields[layout.FieldUnitPrice], 2),
				"Total_price": formatAmount(rec.Fields[layout.FieldTotalLineValue], 2),
				// The schema requires a price name on every line.
				"Name": "Total Value",
			},
		})
	}

	return StripEmpty(map[string]interface{}{
		"shipment": []interface{}{
			map[string]interface{}{
				"header": map[string]interface{}{
					"general":            map[string]interface{}{"invoice_number": invoice},
					"importer_of_record": importer,
					"terms": map[string]interface{}{
						"terms_of_sale":  "FOB",
						"terms_location": "",
					},
					"freight": map[string]interface{}{
						"freight_included_in_invoice": true,
						"charges":                     "0.00",
						"currency":                    "USD",
					},
				},
				"line":             map[string]interface{}{"item": items},
				"invoice_number":   invoice,
				"user_action_code": "RD",
			},
		},
	}), nil
}
