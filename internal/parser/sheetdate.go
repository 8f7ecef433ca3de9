package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sheetNameDigits = regexp.MustCompile(`^\d{6,8}$`)

// InferSheetDate derives the reporting date encoded in a sheet name.
// An 8-digit name parses as DDMMYYYY; a 6-7 digit name is left-padded with
// zeros to 8 digits and re-tried. Anything else, including digit runs that
// do not form a real calendar date, yields no date. Many sheets are
// legitimately not named by date, so "no date" is not an error.
func InferSheetDate(name string) (time.Time, bool) {
	name = strings.TrimSpace(name)
	if !sheetNameDigits.MatchString(name) {
		return time.Time{}, false
	}
	for len(name) < 8 {
		name = "0" + name
	}

	day, _ := strconv.Atoi(name[0:2])
	month, _ := strconv.Atoi(name[2:4])
	year, _ := strconv.Atoi(name[4:8])
	if day < 1 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31 Feb becomes 2-3 Mar), so a
	// round-trip mismatch means the digits were not a real date.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
