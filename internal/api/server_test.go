package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codearena/arena/internal/store"
)

// fakeDB is an in-memory store.DB for handler tests.
type fakeDB struct {
	rounds map[string]*store.Round
	saved  []*store.Round
}

func newFakeDB() *fakeDB {
	return &fakeDB{rounds: make(map[string]*store.Round)}
}

func (f *fakeDB) Close() error   { return nil }
func (f *fakeDB) Migrate() error { return nil }

func (f *fakeDB) SaveRound(round *store.Round) error {
	if round.ID == "" {
		round.ID = "fixed-id"
	}
	f.rounds[round.ID] = round
	f.saved = append(f.saved, round)
	return nil
}

func (f *fakeDB) GetRound(id string) (*store.Round, error) {
	round, ok := f.rounds[id]
	if !ok {
		return nil, errors.New("round not found: " + id)
	}
	return round, nil
}

func (f *fakeDB) ListRounds(query store.RoundsQuery) (*store.RoundsList, error) {
	list := &store.RoundsList{Rounds: []store.Round{}, Page: query.Page, PerPage: query.PerPage}
	for _, round := range f.rounds {
		if query.Game != "" && round.Game != query.Game {
			continue
		}
		list.Rounds = append(list.Rounds, *round)
	}
	list.TotalCount = len(list.Rounds)
	return list, nil
}

type fakeService struct {
	round *store.Round
	err   error
	calls []int
}

func (f *fakeService) RunRound(ctx context.Context, round int) (*store.Round, error) {
	f.calls = append(f.calls, round)
	if f.err != nil {
		return nil, f.err
	}
	return f.round, nil
}

func newTestServer(db store.DB, service RoundService) http.Handler {
	return NewServer(db, service).Routes()
}

func TestHealth(t *testing.T) {
	handler := newTestServer(newFakeDB(), &fakeService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestRunRoundEndpoint(t *testing.T) {
	service := &fakeService{round: &store.Round{ID: "r1", Game: "Bridge", RoundNum: 3, Status: "completed", Winner: "alice/carol"}}
	handler := newTestServer(newFakeDB(), service)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rounds", bytes.NewBufferString(`{"round": 3}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(service.calls) != 1 || service.calls[0] != 3 {
		t.Errorf("service calls = %v, want [3]", service.calls)
	}
	var got store.Round
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Winner != "alice/carol" {
		t.Errorf("winner = %q", got.Winner)
	}
}

func TestRunRoundRejectsBadInput(t *testing.T) {
	service := &fakeService{}
	handler := newTestServer(newFakeDB(), service)

	for _, body := range []string{`{"round": 0}`, `{"round": -2}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rounds", bytes.NewBufferString(body))
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
	if len(service.calls) != 0 {
		t.Errorf("service should not run for bad input, calls = %v", service.calls)
	}
}

func TestRunRoundServiceFailure(t *testing.T) {
	service := &fakeService{err: errors.New("save round: disk full")}
	handler := newTestServer(newFakeDB(), service)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rounds", bytes.NewBufferString(`{"round": 1}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "round_failed" {
		t.Errorf("error type = %v", body["error"])
	}
}

func TestGetRoundEndpoint(t *testing.T) {
	db := newFakeDB()
	db.rounds["r7"] = &store.Round{ID: "r7", Game: "Bridge", RoundNum: 7}
	handler := newTestServer(db, &fakeService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rounds/r7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rounds/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListRoundsEndpoint(t *testing.T) {
	db := newFakeDB()
	db.rounds["a"] = &store.Round{ID: "a", Game: "Bridge"}
	db.rounds["b"] = &store.Round{ID: "b", Game: "Chess"}
	handler := newTestServer(db, &fakeService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rounds?game=Bridge&page=1&per_page=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list store.RoundsList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.TotalCount != 1 || list.Rounds[0].Game != "Bridge" {
		t.Errorf("filter failed: %+v", list)
	}
}
