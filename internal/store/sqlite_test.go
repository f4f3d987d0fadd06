package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleRound(num int) *Round {
	return &Round{
		Game:     "Bridge",
		RoundNum: num,
		Status:   "completed",
		Winner:   "alice/carol",
		Players: []PlayerRow{
			{Participant: "alice", Score: 6, ValidSubmit: true},
			{Participant: "bob", Score: 3, ValidSubmit: true},
			{Participant: "carol", Score: 6, ValidSubmit: true},
			{Participant: "dave", Score: 3, ValidSubmit: false, InvalidReason: "agent failed to compile"},
		},
		Sims: []SimOutcome{
			{Idx: 0, Winner: "alice/carol"},
			{Idx: 1, Winner: "TIE"},
			{Idx: 2, Winner: ""},
		},
	}
}

func TestSaveAndGetRound(t *testing.T) {
	db := testDB(t)

	round := sampleRound(1)
	if err := db.SaveRound(round); err != nil {
		t.Fatalf("SaveRound: %v", err)
	}
	if round.ID == "" {
		t.Fatal("SaveRound should assign an id")
	}
	if round.CreatedAt.IsZero() {
		t.Fatal("SaveRound should stamp created_at")
	}

	got, err := db.GetRound(round.ID)
	if err != nil {
		t.Fatalf("GetRound: %v", err)
	}
	if got.Game != "Bridge" || got.RoundNum != 1 || got.Status != "completed" {
		t.Errorf("round header mismatch: %+v", got)
	}
	if got.Winner != "alice/carol" {
		t.Errorf("winner = %q", got.Winner)
	}
	if len(got.Players) != 4 {
		t.Fatalf("players = %d, want 4", len(got.Players))
	}
	dave := got.Players[3]
	if dave.Participant != "dave" || dave.ValidSubmit || dave.InvalidReason == "" {
		t.Errorf("invalid participant row not preserved: %+v", dave)
	}
	if len(got.Sims) != 3 {
		t.Fatalf("sims = %d, want 3", len(got.Sims))
	}
	if got.Sims[2].Winner != "" {
		t.Errorf("empty sim winner not preserved: %+v", got.Sims[2])
	}
}

func TestGetRoundNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetRound("nope"); err == nil {
		t.Error("expected an error for an unknown id")
	}
}

func TestListRoundsPagination(t *testing.T) {
	db := testDB(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 5; i++ {
		round := sampleRound(i)
		round.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.SaveRound(round); err != nil {
			t.Fatalf("SaveRound %d: %v", i, err)
		}
	}

	list, err := db.ListRounds(RoundsQuery{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if list.TotalCount != 5 || list.TotalPages != 3 {
		t.Errorf("total=%d pages=%d, want 5 and 3", list.TotalCount, list.TotalPages)
	}
	if len(list.Rounds) != 2 {
		t.Fatalf("page holds %d rounds, want 2", len(list.Rounds))
	}
	// Newest first.
	if list.Rounds[0].RoundNum != 5 || list.Rounds[1].RoundNum != 4 {
		t.Errorf("order wrong: %d then %d", list.Rounds[0].RoundNum, list.Rounds[1].RoundNum)
	}

	last, err := db.ListRounds(RoundsQuery{Page: 3, PerPage: 2})
	if err != nil {
		t.Fatalf("ListRounds last page: %v", err)
	}
	if len(last.Rounds) != 1 || last.Rounds[0].RoundNum != 1 {
		t.Errorf("last page wrong: %+v", last.Rounds)
	}
}

func TestListRoundsGameFilter(t *testing.T) {
	db := testDB(t)

	bridge := sampleRound(1)
	if err := db.SaveRound(bridge); err != nil {
		t.Fatal(err)
	}
	other := sampleRound(1)
	other.Game = "Chess"
	if err := db.SaveRound(other); err != nil {
		t.Fatal(err)
	}

	list, err := db.ListRounds(RoundsQuery{Game: "Bridge", Page: 1, PerPage: 20})
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if list.TotalCount != 1 || len(list.Rounds) != 1 || list.Rounds[0].Game != "Bridge" {
		t.Errorf("filter failed: %+v", list)
	}
}

func TestListRoundsClampsPerPage(t *testing.T) {
	db := testDB(t)

	list, err := db.ListRounds(RoundsQuery{Page: 0, PerPage: 10000})
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if list.Page != 1 || list.PerPage != 20 {
		t.Errorf("page=%d perPage=%d, want clamped to 1 and 20", list.Page, list.PerPage)
	}
}
