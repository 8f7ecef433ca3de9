package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

// Uploader submits the valid row subset to the reference service as one
// batch and hands the per-row verdicts back. It never retries: partial
// pass/fail is the expected common case and the caller decides what to
// resubmit after correction.
type Uploader struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a batch uploader.
func New(baseURL string, timeout time.Duration) *Uploader {
	return &Uploader{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type batchRequest struct {
	Flights []model.FlightPayload `json:"flights"`
}

type batchResponse struct {
	Results []model.UploadOutcome `json:"results"`
}

// Upload POSTs the canonical payload array in one request. Transport and
// whole-batch failures return an error with no outcomes, so no row gets
// marked committed without a positive verdict.
func (u *Uploader) Upload(ctx context.Context, payloads []model.FlightPayload) ([]model.UploadOutcome, error) {
	body, err := json.Marshal(batchRequest{Flights: payloads})
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/flights/batch-validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("batch rejected with status %d: %s", resp.StatusCode, snippet)
	}

	var decoded batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return decoded.Results, nil
}
