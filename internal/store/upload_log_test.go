package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sams.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUploadLogLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUploadLog("sess-1", "roster.xlsx", 10)
	if err != nil {
		t.Fatalf("CreateUploadLog: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	if err := s.FinishUploadLog(id, 7, 3, "done", ""); err != nil {
		t.Fatalf("FinishUploadLog: %v", err)
	}

	logs, err := s.ListUploadLogs(10)
	if err != nil {
		t.Fatalf("ListUploadLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}

	l := logs[0]
	if l.SessionID != "sess-1" || l.Filename != "roster.xlsx" {
		t.Errorf("log identity = %+v", l)
	}
	if l.SubmittedRows != 10 || l.PassedRows != 7 || l.FailedRows != 3 {
		t.Errorf("log counts = %+v", l)
	}
	if l.Status != "done" {
		t.Errorf("status = %q, want done", l.Status)
	}
	if l.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestListUploadLogsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for i, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx"} {
		if _, err := s.CreateUploadLog("sess", name, i); err != nil {
			t.Fatalf("CreateUploadLog(%s): %v", name, err)
		}
	}

	logs, err := s.ListUploadLogs(2)
	if err != nil {
		t.Fatalf("ListUploadLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want limit 2", len(logs))
	}
	if logs[0].Filename != "c.xlsx" || logs[1].Filename != "b.xlsx" {
		t.Errorf("order = %s, %s; want c.xlsx, b.xlsx", logs[0].Filename, logs[1].Filename)
	}
}
