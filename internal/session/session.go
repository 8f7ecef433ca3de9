package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triple-tgg/sams-sub000/internal/model"
	"github.com/triple-tgg/sams-sub000/internal/refdata"
	"github.com/triple-tgg/sams-sub000/internal/validator"
)

// Command precondition failures. Every rejected command returns one of these
// explicitly; there are no silent no-ops, so callers can surface "finish
// editing first" and the like.
var (
	ErrNoSheets       = errors.New("no sheets loaded")
	ErrSheetIndex     = errors.New("sheet index out of range")
	ErrRowIndex       = errors.New("row index out of range")
	ErrEditLocked     = errors.New("another row is being edited")
	ErrNotEditing     = errors.New("no row is being edited")
	ErrEditMismatch   = errors.New("a different row is being edited")
	ErrUploadInFlight = errors.New("an upload is already in progress")
	ErrNoValidRows    = errors.New("no valid rows to upload")
)

// editLock pins the single row that may be edited at a time.
type editLock struct {
	sheet int
	row   int
}

// Session is the stateful orchestrator of one spreadsheet import: the parsed
// sheets, the active sheet, cached validation results per sheet, and the
// exclusive single-row edit lock. All commands are synchronous and guarded by
// one mutex; correctness does not depend on any UI disabling controls.
type Session struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"sourceFile"`
	CreatedAt  time.Time `json:"createdAt"`

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	sheets    []model.Sheet
	active    int
	validated map[int][]model.ValidatedRow
	committed map[int]map[string]bool
	editing   *editLock
	uploading bool
	validator *validator.Validator
}

// New creates a session over one reference snapshot.
func New(sourceFile string, lookups *refdata.Snapshot) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:         id,
		SourceFile: sourceFile,
		CreatedAt:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		validated:  make(map[int][]model.ValidatedRow),
		committed:  make(map[int]map[string]bool),
		validator:  validator.New(lookups, uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))),
	}
}

// Context is cancelled when the session closes; network work on behalf of
// the session must stop with it.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close tears the session down and aborts any in-flight upload.
func (s *Session) Close() {
	s.cancel()
}

// LoadSheets replaces the session's sheets and discards all prior validation
// state: changed sheets invalidate everything derived from them.
func (s *Session) LoadSheets(sheets []model.Sheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return ErrEditLocked
	}
	s.sheets = sheets
	s.active = 0
	s.validated = make(map[int][]model.ValidatedRow)
	s.committed = make(map[int]map[string]bool)
	return nil
}

// Sheets returns a copy of the loaded sheets. Row slices are cloned so the
// caller can iterate outside the lock while commands mutate the originals.
func (s *Session) Sheets() []model.Sheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheets := make([]model.Sheet, len(s.sheets))
	for i, sheet := range s.sheets {
		sheet.Rows = append([]model.Row(nil), sheet.Rows...)
		sheets[i] = sheet
	}
	return sheets
}

// ActiveSheet returns the visible sheet index.
func (s *Session) ActiveSheet() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActiveSheet switches the visible sheet without discarding other sheets'
// validation results. Disallowed mid-edit.
func (s *Session) SetActiveSheet(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return ErrEditLocked
	}
	if index < 0 || index >= len(s.sheets) {
		return ErrSheetIndex
	}
	s.active = index
	return nil
}

// Validate runs the row validator over every row of the active sheet and
// fully replaces that sheet's prior result. Other sheets keep theirs.
func (s *Session) Validate() ([]model.ValidatedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return nil, ErrEditLocked
	}
	if len(s.sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows := s.validator.ValidateSheet(&s.sheets[s.active])
	// Rows already committed by a positive upload verdict keep that status
	// across re-validation; only their data changing would mint a new ID.
	for i := range rows {
		if s.committed[s.active][rows[i].RowID] {
			rows[i].Uploaded = true
		}
	}
	s.validated[s.active] = rows
	return append([]model.ValidatedRow(nil), rows...), nil
}

// Validated returns a copy of the cached validation result for a sheet,
// if any.
func (s *Session) Validated(sheetIndex int) ([]model.ValidatedRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.validated[sheetIndex]
	if !ok {
		return nil, false
	}
	return append([]model.ValidatedRow(nil), rows...), true
}

// HasValidated reports whether any sheet currently has validation results.
func (s *Session) HasValidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.validated) > 0
}

// BeginEdit locks one row of the active sheet for in-place editing.
// A second concurrent edit is rejected: two in-progress copies of row data
// would clobber each other on commit.
func (s *Session) BeginEdit(rowIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return ErrEditLocked
	}
	if len(s.sheets) == 0 {
		return ErrNoSheets
	}
	if rowIndex < 0 || rowIndex >= len(s.sheets[s.active].Rows) {
		return ErrRowIndex
	}
	s.editing = &editLock{sheet: s.active, row: rowIndex}
	return nil
}

// EditingRow returns the locked row index, or -1 when no edit is open.
func (s *Session) EditingRow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return -1
	}
	return s.editing.row
}

// CommitEdit replaces the locked row with a copy of the new data and releases
// the lock. The edited sheet's validation result is discarded: a previously
// valid status must never be claimed for changed data.
func (s *Session) CommitEdit(rowIndex int, data model.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return ErrNotEditing
	}
	if s.editing.row != rowIndex {
		return ErrEditMismatch
	}
	sheet := s.editing.sheet
	s.sheets[sheet].Rows[rowIndex] = data.Clone()
	delete(s.validated, sheet)
	s.editing = nil
	return nil
}

// CancelEdit releases the lock without touching the row.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return ErrNotEditing
	}
	s.editing = nil
	return nil
}

// DeleteRow removes a row from the active sheet; remaining rows renumber and
// the sheet's cached validation is discarded. Disallowed mid-edit.
func (s *Session) DeleteRow(rowIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return ErrEditLocked
	}
	if len(s.sheets) == 0 {
		return ErrNoSheets
	}
	rows := s.sheets[s.active].Rows
	if rowIndex < 0 || rowIndex >= len(rows) {
		return ErrRowIndex
	}
	s.sheets[s.active].Rows = append(rows[:rowIndex], rows[rowIndex+1:]...)
	delete(s.validated, s.active)
	return nil
}

// SetSheetDate overrides a sheet's inferred date. Every time-bearing field's
// mismatch and missing-context computation depends on it, so the sheet's
// cached validation is discarded.
func (s *Session) SetSheetDate(sheetIndex int, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		return ErrEditLocked
	}
	if sheetIndex < 0 || sheetIndex >= len(s.sheets) {
		return ErrSheetIndex
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	s.sheets[sheetIndex].SheetDate = &d
	delete(s.validated, sheetIndex)
	return nil
}

// ValidRows collects the upload batch: every validated row that is valid and
// not yet committed by a positive upload verdict, across all sheets.
func (s *Session) ValidRows() []model.ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingRowsLocked()
}

func (s *Session) pendingRowsLocked() []model.ValidatedRow {
	var rows []model.ValidatedRow
	for sheetIndex := range s.sheets {
		for _, row := range s.validated[sheetIndex] {
			if row.IsValid && !row.Uploaded {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// StartUpload reserves the session's single in-flight upload slot.
func (s *Session) StartUpload() ([]model.ValidatedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploading {
		return nil, ErrUploadInFlight
	}
	if s.editing != nil {
		return nil, ErrEditLocked
	}
	rows := s.pendingRowsLocked()
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	s.uploading = true
	return rows, nil
}

// FinishUpload releases the upload slot.
func (s *Session) FinishUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false
}

// BatchSubmitter submits one payload batch and returns per-row verdicts.
type BatchSubmitter interface {
	Upload(ctx context.Context, payloads []model.FlightPayload) ([]model.UploadOutcome, error)
}

// UploadWith runs the submitter under a context that is cancelled by either
// the caller or session teardown, so closing the import dialog aborts an
// in-flight upload.
func (s *Session) UploadWith(ctx context.Context, submitter BatchSubmitter, payloads []model.FlightPayload) ([]model.UploadOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()
	return submitter.Upload(ctx, payloads)
}

// ApplyOutcomes merges per-row upload verdicts back into session state.
// Only rows with a positive verdict are marked committed; failing rows stay
// pending so the operator can correct and resubmit just the remainder.
// Committed row IDs are remembered per sheet, so corrections that rebuild a
// sheet's validation never resurrect already-committed rows into the batch.
func (s *Session) ApplyOutcomes(outcomes []model.UploadOutcome) (passed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	verdicts := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		verdicts[o.RowID] = o.Passed
	}
	for sheetIndex := range s.validated {
		rows := s.validated[sheetIndex]
		for i := range rows {
			if ok, seen := verdicts[rows[i].RowID]; seen && ok {
				rows[i].Uploaded = true
				if s.committed[sheetIndex] == nil {
					s.committed[sheetIndex] = make(map[string]bool)
				}
				s.committed[sheetIndex][rows[i].RowID] = true
				passed++
			}
		}
	}
	return passed
}
