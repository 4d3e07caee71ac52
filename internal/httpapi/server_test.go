package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
	"catalogmatch/internal/driver"
)

type instantRunner struct{}

func (instantRunner) BestMatch(ctx context.Context, track catalog.InputTrack) catalog.MatchResult {
	return catalog.MatchResult{Track: track}
}

func newTestServer() *Server {
	d := driver.New(instantRunner{}, config.Default())
	return NewServer(d)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreateRunRejectsEmptyTracks(t *testing.T) {
	srv := newTestServer()
	body, _ := json.Marshal(createRunRequest{Tracks: nil})
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateRunAndPollToCompletion(t *testing.T) {
	srv := newTestServer()
	engine := srv.Engine()

	body, _ := json.Marshal(createRunRequest{Tracks: []catalog.InputTrack{{Title: "Night Tales", Artists: "Tim Green"}}})
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}

	var created struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.RunID == "" {
		t.Fatal("expected a non-empty run_id")
	}

	var result struct {
		Done    bool                     `json:"done"`
		Results []catalog.MatchResult    `json:"results"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/runs/"+created.RunID, nil))
		json.Unmarshal(w2.Body.Bytes(), &result)
		if result.Done {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !result.Done {
		t.Fatal("run did not complete in time")
	}
	if len(result.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(result.Results))
	}
}

func TestGetResultUnknownRunIsNotFound(t *testing.T) {
	srv := newTestServer()
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
