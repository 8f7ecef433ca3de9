package model

import "time"

// Row is one spreadsheet line keyed by header name. Values are strings or
// float64, exactly as handed over by the workbook parser. A Row produced by
// the parser is never mutated; edits replace it with a fresh copy.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Sheet is one tab of an imported workbook in header/row form.
// SheetDate is inferred from the sheet name and may be overridden later;
// it is context for time reconciliation, not authoritative data.
type Sheet struct {
	Name      string     `json:"name"`
	Headers   []string   `json:"headers"`
	Rows      []Row      `json:"rows"`
	SheetDate *time.Time `json:"sheetDate,omitempty"`
}

// ReferenceOption is one entry of an externally supplied lookup table
// (airlines, stations, aircraft types, staff, status codes).
type ReferenceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	ID    int    `json:"id,omitempty"`
}

// ValidationIssue is a single finding against one cell of one row.
type ValidationIssue struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ValidatedRow is the outcome of validating one spreadsheet row.
// Errors block the row from upload; warnings never do. The payload is
// assembled best-effort even for invalid rows so that in-place correction
// does not lose already-resolved context.
type ValidatedRow struct {
	RowID         string            `json:"rowId"`
	OriginalIndex int               `json:"originalIndex"`
	Data          Row               `json:"data"`
	Payload       FlightPayload     `json:"payload"`
	IsValid       bool              `json:"isValid"`
	Errors        []ValidationIssue `json:"errors"`
	Warnings      []ValidationIssue `json:"warnings"`
	Uploaded      bool              `json:"uploaded"`
}
