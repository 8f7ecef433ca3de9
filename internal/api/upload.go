package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

// Upload submits the session's valid pending rows as one batch and merges
// the per-row verdicts back. Failing rows stay pending for resubmission.
// POST /api/sessions/:id/upload
func (h *Handler) Upload(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	rows, err := sess.StartUpload()
	if err != nil {
		writeCommandError(c, err)
		return
	}
	defer sess.FinishUpload()

	payloads := make([]model.FlightPayload, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, row.Payload)
	}

	logID, logErr := h.store.CreateUploadLog(sess.ID, sess.SourceFile, len(payloads))
	if logErr != nil {
		// Audit trouble must not block the operator's submission.
		logID = 0
	}

	outcomes, err := sess.UploadWith(c.Request.Context(), h.uploader, payloads)
	if err != nil {
		if logID > 0 {
			_ = h.store.FinishUploadLog(logID, 0, 0, "error", err.Error())
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	passed := sess.ApplyOutcomes(outcomes)
	failed := len(outcomes) - passed
	if logID > 0 {
		_ = h.store.FinishUploadLog(logID, passed, failed, "done", "")
	}

	c.JSON(http.StatusOK, gin.H{
		"submitted": len(payloads),
		"passed":    passed,
		"failed":    failed,
		"outcomes":  outcomes,
	})
}

// ListUploadLogs returns recent batch submissions.
// GET /api/upload-logs
func (h *Handler) ListUploadLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.store.ListUploadLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
