package parser

// FieldMapper resolves spreadsheet column headers against the fixed vocabulary
// of recognized flight-schedule columns. Matching is case-insensitive;
// unrecognized headers stay unmapped and pass through as opaque free text.
type FieldMapper struct{}

// NewFieldMapper creates a field mapper.
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// MapHeaders maps every recognized header to its field kind, keyed by column
// index. Column order follows the header sequence.
func (m *FieldMapper) MapHeaders(headers []string) map[int]FieldMapping {
	mappings := make(map[int]FieldMapping)
	for idx, header := range headers {
		col := NormalizeHeader(header)
		if col == "" {
			continue
		}
		mapping := m.mapColumn(col, idx)
		if mapping.Kind != FieldUnknown {
			mappings[idx] = mapping
		}
	}
	return mappings
}

// mapColumn maps a single normalized column name.
func (m *FieldMapper) mapColumn(col string, idx int) FieldMapping {
	mapping := FieldMapping{
		ColumnIndex: idx,
		ColumnName:  col,
	}

	// Time columns first: short codes would otherwise shadow nothing, but
	// they are the most frequent recognized headers.
	switch {
	case MatchPattern(col, `(?i)^STA$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeSTA
		return mapping
	case MatchPattern(col, `(?i)^STD$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeSTD
		return mapping
	case MatchPattern(col, `(?i)^ETA$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeETA
		return mapping
	case MatchPattern(col, `(?i)^ETD$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeETD
		return mapping
	case MatchPattern(col, `(?i)^ATA$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeATA
		return mapping
	case MatchPattern(col, `(?i)^ATD$`):
		mapping.Kind, mapping.TimeRole = FieldTime, TimeATD
		return mapping
	}

	// Identity and reference columns.
	if MatchPattern(col, `(?i)^(FLIGHT|FLT)\s*NO\.?$`) {
		mapping.Kind = FieldFlightNo
		return mapping
	}
	if MatchPattern(col, `(?i)^AIRLINE$`) {
		mapping.Kind = FieldAirline
		return mapping
	}
	if MatchPattern(col, `(?i)^(ROUTE\s+FROM|STATION\s+FROM|FROM)$`) {
		mapping.Kind = FieldStationFrom
		return mapping
	}
	if MatchPattern(col, `(?i)^(ROUTE\s+TO|STATION\s+TO|TO)$`) {
		mapping.Kind = FieldStationTo
		return mapping
	}
	if MatchPattern(col, `(?i)^(A/?C\s*TYPE|AIRCRAFT\s+TYPE)$`) {
		mapping.Kind = FieldAircraftType
		return mapping
	}
	if MatchPattern(col, `(?i)^(A/?C\s*REG\.?|REGISTRATION)$`) {
		mapping.Kind = FieldAircraftReg
		return mapping
	}
	if MatchPattern(col, `(?i)^STATUS$`) {
		mapping.Kind = FieldStatus
		return mapping
	}
	if MatchPattern(col, `(?i)^PAX$`) {
		mapping.Kind = FieldPax
		return mapping
	}

	// Staff columns hold comma/semicolon-separated free-text names.
	if MatchPattern(col, `(?i)^CS(\s+STAFF)?$`) {
		mapping.Kind = FieldStaffCS
		return mapping
	}
	if MatchPattern(col, `(?i)^MC(\s+STAFF)?$`) {
		mapping.Kind = FieldStaffMC
		return mapping
	}

	return mapping
}
