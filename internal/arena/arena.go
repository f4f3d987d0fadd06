// Package arena defines the round lifecycle contract shared by every game
// integration, together with the pieces each implementation composes:
// setup-failure classification, the bounded simulation runner, the
// role-assignment manifest, and outcome aggregation.
package arena

import (
	"context"

	"github.com/codearena/arena/internal/sandbox"
)

// ResultTie is the reserved winner value meaning "no strict winner",
// used at both simulation and round granularity.
const ResultTie = "TIE"

// Participant is one competing submission, identified by a stable name,
// with the sandbox environment holding its code.
type Participant struct {
	Name string
	Env  sandbox.Environment
}

// PlayerStat is one participant's per-round record.
type PlayerStat struct {
	Score         float64 `json:"score"`
	ValidSubmit   bool    `json:"valid_submit"`
	InvalidReason string  `json:"invalid_reason,omitempty"`
}

// RoundStats is the complete result of one round as seen by the driver.
// It is always fully populated: a tie or a degraded status is a legitimate
// terminal value, never an error.
type RoundStats struct {
	Winner  string                 `json:"winner"`
	Status  Status                 `json:"status"`
	Reason  string                 `json:"reason,omitempty"`
	Scores  map[string]float64     `json:"scores"`
	Players map[string]*PlayerStat `json:"players"`
}

// NewRoundStats seeds a stats record with every participant valid and at
// zero score.
func NewRoundStats(participants []Participant) *RoundStats {
	stats := &RoundStats{
		Winner:  ResultTie,
		Status:  StatusCompleted,
		Scores:  make(map[string]float64, len(participants)),
		Players: make(map[string]*PlayerStat, len(participants)),
	}
	for _, p := range participants {
		stats.Scores[p.Name] = 0
		stats.Players[p.Name] = &PlayerStat{ValidSubmit: true}
	}
	return stats
}

// Arena is the round lifecycle contract a game integration implements.
// Validate runs once per participant before the round; ExecuteRound
// performs setup classification and, if the round is contested, dispatches
// simulations; GetResults parses what ExecuteRound produced and fills the
// stats. Only ExecuteRound can fail, and only structurally; per-simulation
// failures are absorbed before they reach the driver.
type Arena interface {
	Name() string
	Validate(ctx context.Context, p Participant) (bool, string)
	ExecuteRound(ctx context.Context, participants []Participant, round int) error
	GetResults(ctx context.Context, participants []Participant, round int, stats *RoundStats)
}
