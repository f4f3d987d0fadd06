package arena

import (
	"context"
	"testing"
)

// fakeArena records driver calls and scripts validation outcomes.
type fakeArena struct {
	invalid map[string]string

	executed []string
	resulted []string
}

func (f *fakeArena) Name() string { return "fake" }

func (f *fakeArena) Validate(ctx context.Context, p Participant) (bool, string) {
	if reason, bad := f.invalid[p.Name]; bad {
		return false, reason
	}
	return true, ""
}

func (f *fakeArena) ExecuteRound(ctx context.Context, participants []Participant, round int) error {
	for _, p := range participants {
		f.executed = append(f.executed, p.Name)
	}
	return nil
}

func (f *fakeArena) GetResults(ctx context.Context, participants []Participant, round int, stats *RoundStats) {
	for _, p := range participants {
		f.resulted = append(f.resulted, p.Name)
	}
	stats.Winner = "alice"
}

func TestRunRoundExcludesInvalidFromExecution(t *testing.T) {
	fake := &fakeArena{invalid: map[string]string{"bob": "no submission"}}
	participants := []Participant{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}}

	stats := RunRound(context.Background(), fake, participants, 1, nil)

	if len(fake.executed) != 2 {
		t.Fatalf("executed %v, want alice and carol only", fake.executed)
	}
	for _, name := range fake.executed {
		if name == "bob" {
			t.Error("invalid participant reached execution")
		}
	}
	// Results still cover everyone.
	if len(fake.resulted) != 3 {
		t.Errorf("resulted %v, want all three", fake.resulted)
	}

	if stats.Players["bob"].ValidSubmit {
		t.Error("bob should be flagged invalid")
	}
	if stats.Players["bob"].InvalidReason != "no submission" {
		t.Errorf("reason = %q", stats.Players["bob"].InvalidReason)
	}
	if stats.Winner != "alice" {
		t.Errorf("winner = %q, want alice", stats.Winner)
	}
}

func TestRunRoundAlwaysReturnsCompleteStats(t *testing.T) {
	fake := &fakeArena{invalid: map[string]string{
		"alice": "bad", "bob": "bad", "carol": "bad",
	}}
	participants := []Participant{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}}

	stats := RunRound(context.Background(), fake, participants, 1, nil)

	if len(fake.executed) != 0 {
		t.Errorf("nothing should execute, got %v", fake.executed)
	}
	for _, p := range participants {
		if _, ok := stats.Players[p.Name]; !ok {
			t.Errorf("stats missing %s", p.Name)
		}
		if _, ok := stats.Scores[p.Name]; !ok {
			t.Errorf("scores missing %s", p.Name)
		}
	}
}
