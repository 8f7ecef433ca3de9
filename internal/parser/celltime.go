package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the workbook 1900 date system; day 25569 on
// this epoch is 1970-01-01.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// datetimeLayouts are tried in order for cells that are neither serial
// numbers nor bare HH:MM clocks. Time-only layouts parse to the zero year,
// which stands for "no date given".
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02-01-2006 15:04",
	"2006-01-02",
	"15:04:05",
}

// ReconcileCellTime converts one heterogeneous time cell into a canonical
// time-of-day plus an optional date embedded in the value itself, and checks
// the result against the sheet's inferred date. The same column may arrive
// as a bare "HH:MM" string, a full timestamp, or a numeric spreadsheet
// serial depending on the source file.
func ReconcileCellTime(raw any, sheetDate *time.Time) TimeCell {
	switch v := raw.(type) {
	case float64:
		return reconcileSerial(v, sheetDate)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return TimeCell{}
		}
		// The workbook parser hands serials over as float64, but edited
		// rows may carry the same value retyped as text.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return reconcileSerial(f, sheetDate)
		}
		if clockPattern.MatchString(s) {
			return finishTimeCell(TimeCell{TimeOfDay: s}, sheetDate)
		}
		return reconcileDatetime(s, sheetDate)
	default:
		return TimeCell{}
	}
}

// reconcileSerial splits a spreadsheet serial value into day count and
// fractional time-of-day. Values below 1 carry no embedded date.
func reconcileSerial(v float64, sheetDate *time.Time) TimeCell {
	// strconv.ParseFloat accepts "NaN" and "Inf"; neither is a serial.
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return TimeCell{}
	}
	days := int(v)
	minutes := int(math.Round((v - float64(days)) * 24 * 60))
	if minutes >= 24*60 {
		// Fraction rounded up to a full day: roll into the next one.
		minutes -= 24 * 60
		days++
	}

	cell := TimeCell{TimeOfDay: fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)}
	if v >= 1 {
		d := serialEpoch.AddDate(0, 0, days)
		cell.EmbeddedDate = &d
	}
	return finishTimeCell(cell, sheetDate)
}

// reconcileDatetime attempts general datetime parsing against the layout
// list. A parsed zero year means the layout carried no date part.
func reconcileDatetime(s string, sheetDate *time.Time) TimeCell {
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		cell := TimeCell{TimeOfDay: fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())}
		if t.Year() != 0 {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			cell.EmbeddedDate = &d
		}
		return finishTimeCell(cell, sheetDate)
	}
	return TimeCell{}
}

// finishTimeCell computes the mismatch and missing-context flags once the
// time-of-day and embedded date are settled.
func finishTimeCell(cell TimeCell, sheetDate *time.Time) TimeCell {
	if cell.EmbeddedDate != nil && sheetDate != nil {
		cell.HasMismatch = !sameDay(*cell.EmbeddedDate, *sheetDate)
	}
	if cell.TimeOfDay != "" && cell.EmbeddedDate == nil && sheetDate == nil {
		cell.MissingDateContext = true
	}
	return cell
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
