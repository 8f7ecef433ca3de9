package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/triple-tgg/sams-sub000/internal/parser"
	"github.com/triple-tgg/sams-sub000/internal/refdata"
	"github.com/triple-tgg/sams-sub000/internal/session"
)

// Coordinator turns an uploaded workbook into a live import session: it
// parses the sheets, fetches a fresh reference snapshot, and registers the
// session, streaming progress along the way.
type Coordinator struct {
	refdata  *refdata.Client
	sessions *session.Manager
}

// NewCoordinator creates an import coordinator.
func NewCoordinator(rd *refdata.Client, sessions *session.Manager) *Coordinator {
	return &Coordinator{
		refdata:  rd,
		sessions: sessions,
	}
}

// ImportOptions carries one import request.
type ImportOptions struct {
	FilePath         string
	OriginalFilename string
}

// ProgressEvent is one step of an in-flight import.
type ProgressEvent struct {
	Type      string    `json:"type"` // start/info/sheet/session/error/done
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Import runs the import asynchronously and returns its progress channel.
// The channel closes when the import finishes either way; a "done" event
// carries the new session id.
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		c.doImport(ctx, opts, progress)
	}()
	return progress
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progress chan ProgressEvent) {
	filename := opts.OriginalFilename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	c.send(progress, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("Importing %s", filename),
		Data:      map[string]string{"filename": filename},
		Timestamp: time.Now(),
	})

	sheets, err := parser.ParseWorkbook(opts.FilePath)
	if err != nil {
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("Failed to parse workbook: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	totalRows := 0
	for _, sheet := range sheets {
		totalRows += len(sheet.Rows)
		data := map[string]any{
			"sheetName": sheet.Name,
			"rows":      len(sheet.Rows),
		}
		msg := fmt.Sprintf("Sheet %q: %d rows, no date in name", sheet.Name, len(sheet.Rows))
		if sheet.SheetDate != nil {
			data["sheetDate"] = sheet.SheetDate.Format("2006-01-02")
			msg = fmt.Sprintf("Sheet %q: %d rows, date %s", sheet.Name, len(sheet.Rows), sheet.SheetDate.Format("2006-01-02"))
		}
		c.send(progress, ProgressEvent{
			Type:      "sheet",
			Message:   msg,
			Data:      data,
			Timestamp: time.Now(),
		})
	}

	c.send(progress, ProgressEvent{
		Type:      "info",
		Message:   "Fetching reference data",
		Timestamp: time.Now(),
	})
	lookups, err := c.refdata.FetchSnapshot(ctx)
	if err != nil {
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("Failed to fetch reference data: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	sess := c.sessions.Create(filename, lookups)
	if err := sess.LoadSheets(sheets); err != nil {
		// A freshly created session can't hold an edit lock.
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("Failed to load sheets: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	c.send(progress, ProgressEvent{
		Type:    "done",
		Message: fmt.Sprintf("Import ready: %d sheets, %d rows", len(sheets), totalRows),
		Data: map[string]any{
			"sessionId":   sess.ID,
			"totalSheets": len(sheets),
			"totalRows":   totalRows,
		},
		Timestamp: time.Now(),
	})
}

// send drops events when the channel is full rather than blocking the import.
func (c *Coordinator) send(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}
