package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

// Snapshot is the full set of reference lookup tables, fetched once per
// import session and treated as stable until the session ends.
type Snapshot struct {
	Airlines      []model.ReferenceOption `json:"airlines"`
	Stations      []model.ReferenceOption `json:"stations"`
	AircraftTypes []model.ReferenceOption `json:"aircraftTypes"`
	Staff         []model.ReferenceOption `json:"staff"`
	Statuses      []model.ReferenceOption `json:"statuses"`
}

// Client fetches reference lookup tables from the reference data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a reference data client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSnapshot loads all lookup tables. Any single failing table fails the
// snapshot: validating against a partial reference set would turn missing
// data into spurious warnings.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	tables := []struct {
		path string
		dest *[]model.ReferenceOption
	}{
		{"/api/airlines", &snap.Airlines},
		{"/api/stations", &snap.Stations},
		{"/api/aircraft-types", &snap.AircraftTypes},
		{"/api/staff", &snap.Staff},
		{"/api/statuses", &snap.Statuses},
	}
	for _, table := range tables {
		if err := c.fetchOptions(ctx, table.path, table.dest); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table.path, err)
		}
	}
	return snap, nil
}

// fetchOptions GETs one lookup table.
func (c *Client) fetchOptions(ctx context.Context, path string, dest *[]model.ReferenceOption) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
