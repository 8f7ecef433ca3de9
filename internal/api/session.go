package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triple-tgg/sams-sub000/internal/model"
	"github.com/triple-tgg/sams-sub000/internal/session"
)

// lookupSession resolves the :id param; a miss writes 404.
func (h *Handler) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

// rowParam parses the :row param.
func rowParam(c *gin.Context) (int, bool) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row index"})
		return 0, false
	}
	return row, true
}

// writeCommandError maps session precondition failures onto HTTP statuses:
// edit-lock and upload conflicts are 409, bad indices 400.
func writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrEditLocked),
		errors.Is(err, session.ErrEditMismatch),
		errors.Is(err, session.ErrUploadInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotEditing),
		errors.Is(err, session.ErrNoSheets),
		errors.Is(err, session.ErrNoValidRows),
		errors.Is(err, session.ErrSheetIndex),
		errors.Is(err, session.ErrRowIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// sheetSummary condenses one sheet for session views.
type sheetSummary struct {
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	SheetDate string `json:"sheetDate,omitempty"`
	Validated bool   `json:"validated"`
}

// GetSession returns the session's sheets, active sheet, and validation state.
// GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	sheets := sess.Sheets()
	summaries := make([]sheetSummary, 0, len(sheets))
	for i, sheet := range sheets {
		summary := sheetSummary{Name: sheet.Name, Rows: len(sheet.Rows)}
		if sheet.SheetDate != nil {
			summary.SheetDate = sheet.SheetDate.Format("2006-01-02")
		}
		_, summary.Validated = sess.Validated(i)
		summaries = append(summaries, summary)
	}

	active := sess.ActiveSheet()
	resp := gin.H{
		"id":           sess.ID,
		"sourceFile":   sess.SourceFile,
		"createdAt":    sess.CreatedAt,
		"sheets":       summaries,
		"activeSheet":  active,
		"hasValidated": sess.HasValidated(),
		"editingRow":   sess.EditingRow(),
	}
	if rows, ok := sess.Validated(active); ok {
		resp["validatedRows"] = rows
	}
	c.JSON(http.StatusOK, resp)
}

// CloseSession tears the session down, cancelling any in-flight upload.
// DELETE /api/sessions/:id
func (h *Handler) CloseSession(c *gin.Context) {
	if !h.sessions.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// Validate runs validation over the active sheet.
// POST /api/sessions/:id/validate
func (h *Handler) Validate(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	rows, err := sess.Validate()
	if err != nil {
		writeCommandError(c, err)
		return
	}

	valid := 0
	for _, row := range rows {
		if row.IsValid {
			valid++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"sheet":       sess.ActiveSheet(),
		"rows":        rows,
		"totalRows":   len(rows),
		"validRows":   valid,
		"invalidRows": len(rows) - valid,
	})
}

// SetActiveSheet switches the visible sheet.
// POST /api/sessions/:id/sheet
func (h *Handler) SetActiveSheet(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := sess.SetActiveSheet(req.Index); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeSheet": req.Index})
}

// SetSheetDate overrides a sheet's inferred reporting date.
// POST /api/sessions/:id/sheet-date
func (h *Handler) SetSheetDate(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req struct {
		SheetIndex int    `json:"sheetIndex"`
		Date       string `json:"date"` // 2006-01-02
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}
	if err := sess.SetSheetDate(req.SheetIndex, date); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheetIndex": req.SheetIndex, "sheetDate": req.Date})
}

// BeginEdit locks one row of the active sheet for editing.
// POST /api/sessions/:id/rows/:row/edit
func (h *Handler) BeginEdit(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	row, ok := rowParam(c)
	if !ok {
		return
	}
	if err := sess.BeginEdit(row); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editingRow": row})
}

// CommitEdit replaces the locked row's data and releases the lock.
// PUT /api/sessions/:id/rows/:row
func (h *Handler) CommitEdit(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	row, ok := rowParam(c)
	if !ok {
		return
	}
	var data model.Row
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row data"})
		return
	}
	if err := sess.CommitEdit(row, data); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"committed": true, "row": row})
}

// CancelEdit releases the edit lock without changing the row.
// POST /api/sessions/:id/edit/cancel
func (h *Handler) CancelEdit(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := sess.CancelEdit(); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// DeleteRow removes a row from the active sheet.
// DELETE /api/sessions/:id/rows/:row
func (h *Handler) DeleteRow(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	row, ok := rowParam(c)
	if !ok {
		return
	}
	if err := sess.DeleteRow(row); err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "row": row})
}
