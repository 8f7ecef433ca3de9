package api

import (
	"github.com/gin-gonic/gin"

	"github.com/triple-tgg/sams-sub000/internal/importer"
	"github.com/triple-tgg/sams-sub000/internal/session"
	"github.com/triple-tgg/sams-sub000/internal/store"
	"github.com/triple-tgg/sams-sub000/internal/uploader"
)

// Handler wires the import API to the session registry and the reference
// service clients.
type Handler struct {
	sessions    *session.Manager
	coordinator *importer.Coordinator
	uploader    *uploader.Uploader
	store       *store.Store
}

// NewHandler creates the API handler.
func NewHandler(sessions *session.Manager, coordinator *importer.Coordinator, up *uploader.Uploader, st *store.Store) *Handler {
	return &Handler{
		sessions:    sessions,
		coordinator: coordinator,
		uploader:    up,
		store:       st,
	}
}

// RegisterRoutes registers the import API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Workbook intake
	router.POST("/import", h.Import)

	// Session commands
	router.GET("/sessions/:id", h.GetSession)
	router.DELETE("/sessions/:id", h.CloseSession)
	router.POST("/sessions/:id/validate", h.Validate)
	router.POST("/sessions/:id/sheet", h.SetActiveSheet)
	router.POST("/sessions/:id/sheet-date", h.SetSheetDate)
	router.POST("/sessions/:id/rows/:row/edit", h.BeginEdit)
	router.PUT("/sessions/:id/rows/:row", h.CommitEdit)
	router.POST("/sessions/:id/edit/cancel", h.CancelEdit)
	router.DELETE("/sessions/:id/rows/:row", h.DeleteRow)

	// Batch submission
	router.POST("/sessions/:id/upload", h.Upload)
	router.GET("/upload-logs", h.ListUploadLogs)
}
