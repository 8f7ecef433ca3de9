package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triple-tgg/sams-sub000/internal/importer"
	"github.com/triple-tgg/sams-sub000/internal/model"
	"github.com/triple-tgg/sams-sub000/internal/refdata"
	"github.com/triple-tgg/sams-sub000/internal/session"
	"github.com/triple-tgg/sams-sub000/internal/store"
	"github.com/triple-tgg/sams-sub000/internal/uploader"
)

func testLookups() *refdata.Snapshot {
	return &refdata.Snapshot{
		Airlines: []model.ReferenceOption{{Value: "TG", Label: "Thai Airways", ID: 1}},
		Statuses: []model.ReferenceOption{{Value: "SKD", Label: "Scheduled"}},
	}
}

func testSheets() []model.Sheet {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	return []model.Sheet{{
		Name:    "25122025",
		Headers: []string{"FLIGHT NO", "AIRLINE", "STA"},
		Rows: []model.Row{
			{"FLIGHT NO": "TG104", "AIRLINE": "Thai Airways", "STA": "09:00"},
			{"FLIGHT NO": "TG105", "AIRLINE": "Thai Airways", "STA": "10:30"},
		},
		SheetDate: &date,
	}}
}

type testEnv struct {
	router  *gin.Engine
	session *session.Session
}

// newTestEnv wires a router around one seeded session and a stub batch
// backend that passes every row.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Flights []model.FlightPayload `json:"flights"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		results := make([]model.UploadOutcome, 0, len(req.Flights))
		for _, f := range req.Flights {
			results = append(results, model.UploadOutcome{RowID: f.RowID, FlightNo: f.FlightNo, StatusText: "OK", Passed: true})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	t.Cleanup(backend.Close)

	st, err := store.New(filepath.Join(t.TempDir(), "sams.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewManager()
	sess := sessions.Create("roster.xlsx", testLookups())
	if err := sess.LoadSheets(testSheets()); err != nil {
		t.Fatalf("LoadSheets: %v", err)
	}

	refClient := refdata.NewClient(backend.URL, 5*time.Second)
	handler := NewHandler(sessions, importer.NewCoordinator(refClient, sessions), uploader.New(backend.URL, 5*time.Second), st)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return &testEnv{router: router, session: sess}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/sessions/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/sessions/"+env.session.ID+"/validate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalRows   int `json:"totalRows"`
		ValidRows   int `json:"validRows"`
		InvalidRows int `json:"invalidRows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalRows != 2 || resp.ValidRows != 2 || resp.InvalidRows != 0 {
		t.Errorf("counts = %+v", resp)
	}
}

func TestEditConflictMapsTo409(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.session.ID

	if w := env.do(t, http.MethodPost, base+"/rows/0/edit", nil); w.Code != http.StatusOK {
		t.Fatalf("begin edit status = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, base+"/rows/1/edit", nil); w.Code != http.StatusConflict {
		t.Errorf("second edit status = %d, want 409", w.Code)
	}
	if w := env.do(t, http.MethodPost, base+"/sheet", map[string]int{"index": 0}); w.Code != http.StatusConflict {
		t.Errorf("sheet switch mid-edit status = %d, want 409", w.Code)
	}
	if w := env.do(t, http.MethodDelete, base+"/rows/1", nil); w.Code != http.StatusConflict {
		t.Errorf("delete mid-edit status = %d, want 409", w.Code)
	}

	if w := env.do(t, http.MethodPut, base+"/rows/0", model.Row{"FLIGHT NO": "TG200", "AIRLINE": "Thai Airways", "STA": "11:00"}); w.Code != http.StatusOK {
		t.Fatalf("commit status = %d, body = %s", w.Code, w.Body.String())
	}

	// Lock released: editing works again.
	if w := env.do(t, http.MethodPost, base+"/rows/1/edit", nil); w.Code != http.StatusOK {
		t.Errorf("edit after commit status = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, base+"/edit/cancel", nil); w.Code != http.StatusOK {
		t.Errorf("cancel status = %d", w.Code)
	}
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.session.ID

	// Nothing validated yet.
	if w := env.do(t, http.MethodPost, base+"/upload", nil); w.Code != http.StatusBadRequest {
		t.Errorf("upload before validate status = %d, want 400", w.Code)
	}

	if w := env.do(t, http.MethodPost, base+"/validate", nil); w.Code != http.StatusOK {
		t.Fatalf("validate status = %d", w.Code)
	}

	w := env.do(t, http.MethodPost, base+"/upload", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Submitted int `json:"submitted"`
		Passed    int `json:"passed"`
		Failed    int `json:"failed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Submitted != 2 || resp.Passed != 2 || resp.Failed != 0 {
		t.Errorf("upload counts = %+v", resp)
	}

	// Everything committed: a second upload has nothing to send.
	if w := env.do(t, http.MethodPost, base+"/upload", nil); w.Code != http.StatusBadRequest {
		t.Errorf("re-upload status = %d, want 400", w.Code)
	}

	// The batch was audited.
	if w := env.do(t, http.MethodGet, "/api/upload-logs", nil); w.Code != http.StatusOK {
		t.Errorf("upload-logs status = %d", w.Code)
	} else if !bytes.Contains(w.Body.Bytes(), []byte("roster.xlsx")) {
		t.Errorf("upload log missing: %s", w.Body.String())
	}
}

func TestSetSheetDateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.session.ID

	w := env.do(t, http.MethodPost, base+"/sheet-date", map[string]any{"sheetIndex": 0, "date": "2025-12-26"})
	if w.Code != http.StatusOK {
		t.Fatalf("sheet-date status = %d, body = %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, base+"/sheet-date", map[string]any{"sheetIndex": 0, "date": "26/12/2025"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodPost, base+"/sheet-date", map[string]any{"sheetIndex": 9, "date": "2025-12-26"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad index status = %d, want 400", w.Code)
	}
}

func TestCloseSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/sessions/"+env.session.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("close status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/sessions/"+env.session.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("closed session status = %d, want 404", w.Code)
	}
}
