package validator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/triple-tgg/sams-sub000/internal/model"
	"github.com/triple-tgg/sams-sub000/internal/parser"
	"github.com/triple-tgg/sams-sub000/internal/refdata"
)

// HeaderRowCount is the fixed number of header rows preceding data rows in
// an imported sheet; OriginalIndex positions account for it.
const HeaderRowCount = 1

// Validator applies field-level and cross-field rules to spreadsheet rows,
// combining reference resolution and time reconciliation into per-row
// results. Validation is pure over the inputs: rows are never mutated.
type Validator struct {
	lookups   *refdata.Snapshot
	mapper    *parser.FieldMapper
	namespace uuid.UUID
}

// New creates a validator over one reference snapshot. The namespace seeds
// deterministic row IDs, so re-validating unchanged data reproduces the
// identical result set while IDs stay unique across sessions.
func New(lookups *refdata.Snapshot, namespace uuid.UUID) *Validator {
	return &Validator{
		lookups:   lookups,
		mapper:    parser.NewFieldMapper(),
		namespace: namespace,
	}
}

// ValidateSheet validates every row of one sheet. A row's failures never
// abort validation of the remaining rows.
func (v *Validator) ValidateSheet(sheet *model.Sheet) []model.ValidatedRow {
	mappings := v.mapper.MapHeaders(sheet.Headers)
	results := make([]model.ValidatedRow, 0, len(sheet.Rows))
	occurrences := make(map[string]int)
	for i := range sheet.Rows {
		fp := rowFingerprint(sheet.Headers, sheet.Rows[i])
		results = append(results, v.validateRow(sheet, mappings, i, fp, occurrences[fp]))
		occurrences[fp]++
	}
	return results
}

// validateRow applies all rules to one row.
func (v *Validator) validateRow(sheet *model.Sheet, mappings map[int]parser.FieldMapping, rowIdx int, fingerprint string, occurrence int) model.ValidatedRow {
	row := sheet.Rows[rowIdx]
	originalIndex := rowIdx + HeaderRowCount + 1

	result := model.ValidatedRow{
		RowID:         uuid.NewSHA1(v.namespace, []byte(fmt.Sprintf("%s/%d/%s", sheet.Name, occurrence, fingerprint))).String(),
		OriginalIndex: originalIndex,
		Data:          row,
		Errors:        []model.ValidationIssue{},
		Warnings:      []model.ValidationIssue{},
	}
	result.Payload = model.FlightPayload{RowID: result.RowID}

	var timeSeen bool
	var firstTimeColumn string

	// Walk headers in order so issues come out in column order.
	for idx, header := range sheet.Headers {
		raw, present := row[header]
		text := parser.CellString(raw)

		mapping, recognized := mappings[idx]
		if !recognized {
			if header != "" && text != "" {
				if result.Payload.Extra == nil {
					result.Payload.Extra = make(map[string]string)
				}
				result.Payload.Extra[header] = text
			}
			continue
		}

		switch mapping.Kind {
		case parser.FieldFlightNo:
			result.Payload.FlightNo = text

		case parser.FieldAirline:
			if text == "" {
				continue
			}
			if opt, ok := refdata.Resolve(text, v.lookups.Airlines, refdata.MatchByLabel); ok {
				result.Payload.AirlineID = opt.ID
				result.Payload.AirlineCode = opt.Value
			} else {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("Airline %q not found in database", text)))
			}

		case parser.FieldStationFrom, parser.FieldStationTo:
			if text == "" {
				continue
			}
			opt, ok := refdata.Resolve(text, v.lookups.Stations, refdata.MatchByValue)
			if !ok {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("Station %q not found in database", text)))
				continue
			}
			if mapping.Kind == parser.FieldStationFrom {
				result.Payload.StationFrom = opt.Value
			} else {
				result.Payload.StationTo = opt.Value
			}

		case parser.FieldAircraftType:
			if text == "" {
				continue
			}
			if opt, ok := refdata.Resolve(text, v.lookups.AircraftTypes, refdata.MatchByValue); ok {
				result.Payload.AircraftType = opt.Value
			} else {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("Aircraft type %q not found in database", text)))
			}

		case parser.FieldAircraftReg:
			result.Payload.AircraftReg = text

		case parser.FieldStatus:
			if text == "" {
				continue
			}
			if opt, ok := refdata.Resolve(text, v.lookups.Statuses, refdata.MatchByValue); ok {
				result.Payload.StatusCode = opt.Value
			} else {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("Status %q not found in database", text)))
			}

		case parser.FieldStaffCS, parser.FieldStaffMC:
			if text == "" {
				continue
			}
			matched, unresolved := refdata.ResolveStaff(text, v.lookups.Staff)
			ids := make([]int, 0, len(matched))
			for _, opt := range matched {
				ids = append(ids, opt.ID)
			}
			if mapping.Kind == parser.FieldStaffCS {
				result.Payload.CSStaffIDs = ids
			} else {
				result.Payload.MCStaffIDs = ids
			}
			for _, name := range unresolved {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("Staff %q not found in database", name)))
			}

		case parser.FieldPax:
			if !present || text == "" {
				continue
			}
			n, ok := parser.CellNumber(raw)
			if !ok || n != math.Trunc(n) || n < 0 {
				result.Errors = append(result.Errors, issue(originalIndex, header,
					fmt.Sprintf("PAX %q is not a valid passenger count", text)))
				continue
			}
			result.Payload.Pax = int(n)

		case parser.FieldTime:
			if firstTimeColumn == "" {
				firstTimeColumn = header
			}
			if !present || text == "" {
				continue
			}
			cell := parser.ReconcileCellTime(raw, sheet.SheetDate)
			if cell.TimeOfDay == "" {
				result.Errors = append(result.Errors, issue(originalIndex, header,
					fmt.Sprintf("%s value %q is not a recognizable time", strings.ToUpper(mapping.TimeRole), text)))
				continue
			}
			timeSeen = true
			if cell.HasMismatch {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("%s date %s does not match sheet date %s",
						strings.ToUpper(mapping.TimeRole),
						cell.EmbeddedDate.Format("2006-01-02"),
						sheet.SheetDate.Format("2006-01-02"))))
			}
			if cell.MissingDateContext {
				result.Warnings = append(result.Warnings, issue(originalIndex, header,
					fmt.Sprintf("%s %q has no date context", strings.ToUpper(mapping.TimeRole), cell.TimeOfDay)))
			}
			if result.Payload.Times == nil {
				result.Payload.Times = make(map[string]model.TimeValue)
			}
			result.Payload.Times[mapping.TimeRole] = timeValue(cell, sheet.SheetDate)
		}
	}

	// Structural rules are hard errors regardless of reference state.
	if strings.TrimSpace(result.Payload.FlightNo) == "" {
		result.Errors = append(result.Errors, issue(originalIndex, "FLIGHT NO",
			"Flight number is required"))
	}
	if !timeSeen {
		// Sheets with no recognized time column still need an addressable
		// column on the issue.
		if firstTimeColumn == "" {
			firstTimeColumn = "STA"
		}
		result.Errors = append(result.Errors, issue(originalIndex, firstTimeColumn,
			"At least one arrival or departure time is required"))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// rowFingerprint serializes row content in header order. Row IDs hash the
// fingerprint plus a duplicate ordinal rather than the row position, so
// identity follows the data: re-validating unchanged rows reproduces the same
// IDs, an edit mints a fresh ID, and deleting a row never lets a survivor
// inherit a different row's upload status through renumbering.
func rowFingerprint(headers []string, row model.Row) string {
	var b strings.Builder
	for _, header := range headers {
		b.WriteString(header)
		b.WriteByte('=')
		b.WriteString(parser.CellString(row[header]))
		b.WriteByte('\x1f')
	}
	return b.String()
}

// timeValue builds the payload time field: the cell's own date wins,
// otherwise the sheet date fills in.
func timeValue(cell parser.TimeCell, sheetDate *time.Time) model.TimeValue {
	tv := model.TimeValue{Time: cell.TimeOfDay}
	if cell.EmbeddedDate != nil {
		tv.Date = cell.EmbeddedDate.Format("2006-01-02")
	} else if sheetDate != nil {
		tv.Date = sheetDate.Format("2006-01-02")
	}
	return tv
}

func issue(row int, column, message string) model.ValidationIssue {
	return model.ValidationIssue{Row: row, Column: column, Message: message}
}
