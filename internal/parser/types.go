package parser

import "time"

// FieldKind classifies a recognized spreadsheet column.
type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldFlightNo
	FieldAirline
	FieldStationFrom
	FieldStationTo
	FieldAircraftType
	FieldAircraftReg
	FieldStatus
	FieldPax
	FieldStaffCS
	FieldStaffMC
	FieldTime
)

// Time roles carried by FieldTime mappings.
const (
	TimeSTA = "sta"
	TimeSTD = "std"
	TimeETA = "eta"
	TimeETD = "etd"
	TimeATA = "ata"
	TimeATD = "atd"
)

// TimeRoles lists the six recognized time columns in display order.
var TimeRoles = []string{TimeSTA, TimeSTD, TimeETA, TimeETD, TimeATA, TimeATD}

// FieldMapping is the resolution of one column header against the fixed
// column-name vocabulary.
type FieldMapping struct {
	ColumnIndex int       `json:"columnIndex"`
	ColumnName  string    `json:"columnName"`
	Kind        FieldKind `json:"kind"`
	TimeRole    string    `json:"timeRole,omitempty"` // set when Kind == FieldTime
}

// TimeCell is the reconciliation of one time-bearing cell value.
type TimeCell struct {
	TimeOfDay          string     `json:"timeOfDay,omitempty"`
	EmbeddedDate       *time.Time `json:"embeddedDate,omitempty"`
	HasMismatch        bool       `json:"hasMismatch"`
	MissingDateContext bool       `json:"missingDateContext"`
}
