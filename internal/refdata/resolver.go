package refdata

import (
	"strings"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

// MatchMode selects which side of a ReferenceOption a raw value is matched
// against.
type MatchMode int

const (
	// MatchByLabel compares against the display name (airline names).
	MatchByLabel MatchMode = iota
	// MatchByValue compares against the canonical code (station and
	// aircraft-type codes, status codes).
	MatchByValue
)

// Resolve matches a raw spreadsheet value against a lookup table with a
// case-insensitive exact comparison.
func Resolve(raw string, options []model.ReferenceOption, mode MatchMode) (model.ReferenceOption, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ReferenceOption{}, false
	}
	for _, opt := range options {
		candidate := opt.Value
		if mode == MatchByLabel {
			candidate = opt.Label
		}
		if strings.EqualFold(raw, candidate) {
			return opt, true
		}
	}
	return model.ReferenceOption{}, false
}

// SplitStaffNames splits a staff cell on commas and semicolons.
func SplitStaffNames(raw string) []string {
	var names []string
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			names = append(names, tok)
		}
	}
	return names
}

// ResolveStaff resolves each name of a comma/semicolon-separated staff cell
// independently against the roster by display name. Unresolved names come
// back for warning display; they never block submission.
func ResolveStaff(raw string, roster []model.ReferenceOption) (matched []model.ReferenceOption, unresolved []string) {
	for _, name := range SplitStaffNames(raw) {
		if opt, ok := Resolve(name, roster, MatchByLabel); ok {
			matched = append(matched, opt)
		} else {
			unresolved = append(unresolved, name)
		}
	}
	return matched, unresolved
}
