package store

import (
	"fmt"
	"time"
)

// UploadLog is one audit record of a batch submission.
type UploadLog struct {
	ID            int64      `json:"id"`
	SessionID     string     `json:"sessionId"`
	Filename      string     `json:"filename"`
	SubmittedRows int        `json:"submittedRows"`
	PassedRows    int        `json:"passedRows"`
	FailedRows    int        `json:"failedRows"`
	Status        string     `json:"status"` // processing/done/error
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// CreateUploadLog records the start of a batch submission and returns its id.
func (s *Store) CreateUploadLog(sessionID, filename string, submittedRows int) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO upload_logs (session_id, filename, submitted_rows, status)
		VALUES (?, ?, ?, 'processing')
	`, sessionID, filename, submittedRows)
	if err != nil {
		return 0, fmt.Errorf("failed to create upload log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get upload log id: %w", err)
	}
	return id, nil
}

// FinishUploadLog completes an upload log with the per-row verdict counts.
func (s *Store) FinishUploadLog(id int64, passedRows, failedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE upload_logs SET
			passed_rows = ?,
			failed_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, passedRows, failedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update upload log: %w", err)
	}
	return nil
}

// ListUploadLogs returns the most recent upload logs, newest first.
func (s *Store) ListUploadLogs(limit int) ([]UploadLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, filename, submitted_rows, passed_rows, failed_rows,
			status, COALESCE(error_message, ''), created_at, completed_at
		FROM upload_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload logs: %w", err)
	}
	defer rows.Close()

	var logs []UploadLog
	for rows.Next() {
		var l UploadLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Filename, &l.SubmittedRows,
			&l.PassedRows, &l.FailedRows, &l.Status, &l.ErrorMessage,
			&l.CreatedAt, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
