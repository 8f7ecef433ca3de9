package refdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

func newRefdataServer(t *testing.T, failPath string) *httptest.Server {
	t.Helper()
	tables := map[string][]model.ReferenceOption{
		"/api/airlines":       {{Value: "TG", Label: "Thai Airways", ID: 1}},
		"/api/stations":       {{Value: "BKK", Label: "Bangkok Suvarnabhumi"}, {Value: "CNX", Label: "Chiang Mai"}},
		"/api/aircraft-types": {{Value: "A320", Label: "Airbus A320"}},
		"/api/staff":          {{Value: "jdoe", Label: "John Doe", ID: 11}},
		"/api/statuses":       {{Value: "SKD", Label: "Scheduled"}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == failPath {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		options, ok := tables[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(options)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSnapshot(t *testing.T) {
	srv := newRefdataServer(t, "")
	client := NewClient(srv.URL, 5*time.Second)

	snap, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(snap.Airlines) != 1 || snap.Airlines[0].Label != "Thai Airways" {
		t.Errorf("airlines = %+v", snap.Airlines)
	}
	if len(snap.Stations) != 2 {
		t.Errorf("got %d stations, want 2", len(snap.Stations))
	}
	if len(snap.Staff) != 1 || snap.Staff[0].ID != 11 {
		t.Errorf("staff = %+v", snap.Staff)
	}
}

func TestFetchSnapshotPartialFailure(t *testing.T) {
	// One failing table fails the whole snapshot.
	srv := newRefdataServer(t, "/api/staff")
	client := NewClient(srv.URL, 5*time.Second)

	if _, err := client.FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected an error when one lookup table fails")
	}
}

func TestFetchSnapshotCancelled(t *testing.T) {
	srv := newRefdataServer(t, "")
	client := NewClient(srv.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.FetchSnapshot(ctx); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
