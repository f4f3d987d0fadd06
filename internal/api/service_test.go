package api

import (
	"context"
	"testing"

	"github.com/codearena/arena/internal/arena"
)

// recordingArena settles every round as an auto-win for the first
// participant and exposes canned per-simulation outcomes.
type recordingArena struct {
	outcomes []string
}

func (r *recordingArena) Name() string { return "Bridge" }

func (r *recordingArena) Validate(ctx context.Context, p arena.Participant) (bool, string) {
	return true, ""
}

func (r *recordingArena) ExecuteRound(ctx context.Context, participants []arena.Participant, round int) error {
	return nil
}

func (r *recordingArena) GetResults(ctx context.Context, participants []arena.Participant, round int, stats *arena.RoundStats) {
	stats.Status = arena.StatusCompleted
	stats.Winner = participants[0].Name
	stats.Scores[participants[0].Name] = 7
	stats.Players[participants[0].Name].Score = 7
}

func (r *recordingArena) SimOutcomes() []string { return r.outcomes }

func TestServiceRunRoundPersists(t *testing.T) {
	db := newFakeDB()
	service := &Service{
		Arena:        &recordingArena{outcomes: []string{"alice/carol", "TIE", ""}},
		Participants: []arena.Participant{{Name: "alice"}, {Name: "bob"}},
		DB:           db,
	}

	record, err := service.RunRound(context.Background(), 5)
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}

	if record.Game != "Bridge" || record.RoundNum != 5 {
		t.Errorf("record header: %+v", record)
	}
	if record.Winner != "alice" {
		t.Errorf("winner = %q", record.Winner)
	}
	if len(record.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(record.Players))
	}
	if record.Players[0].Participant != "alice" || record.Players[0].Score != 7 {
		t.Errorf("alice row: %+v", record.Players[0])
	}
	if len(record.Sims) != 3 {
		t.Fatalf("sims = %d, want 3", len(record.Sims))
	}
	if record.Sims[2].Winner != "" {
		t.Errorf("empty outcome not preserved: %+v", record.Sims[2])
	}
	if len(db.saved) != 1 {
		t.Errorf("saved %d rounds, want 1", len(db.saved))
	}
}
