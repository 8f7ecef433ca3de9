package model

// TimeValue is a normalized time field of the submission payload.
// Date comes from the cell's own embedded date when it has one, otherwise
// from the sheet date; it stays empty when neither is known.
type TimeValue struct {
	Date string `json:"date,omitempty"` // 2006-01-02
	Time string `json:"time"`           // HH:MM
}

// FlightPayload is the canonical per-row record submitted to the reference
// service: resolved entity IDs/codes plus normalized dates and times.
type FlightPayload struct {
	RowID        string               `json:"rowId"`
	FlightNo     string               `json:"flightNo"`
	AirlineID    int                  `json:"airlineId,omitempty"`
	AirlineCode  string               `json:"airlineCode,omitempty"`
	StationFrom  string               `json:"stationFrom,omitempty"`
	StationTo    string               `json:"stationTo,omitempty"`
	AircraftType string               `json:"acType,omitempty"`
	AircraftReg  string               `json:"acReg,omitempty"`
	Pax          int                  `json:"pax,omitempty"`
	StatusCode   string               `json:"statusCode,omitempty"`
	CSStaffIDs   []int                `json:"csStaffIds,omitempty"`
	MCStaffIDs   []int                `json:"mcStaffIds,omitempty"`
	Times        map[string]TimeValue `json:"times,omitempty"` // keyed sta/std/eta/etd/ata/atd
	Extra        map[string]string    `json:"extra,omitempty"` // unrecognized columns, passed through
}

// UploadOutcome is the per-row verdict returned by the batch service,
// matched back to the session by RowID.
type UploadOutcome struct {
	RowID      string `json:"rowId"`
	FlightNo   string `json:"flightNo"`
	StatusText string `json:"statusText"`
	Passed     bool   `json:"passed"`
}
