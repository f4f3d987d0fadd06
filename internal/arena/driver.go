package arena

import (
	"context"
	"log"
)

// RunRound drives one full round: per-participant validation, then the
// classification-gated execution, then result parsing. Participants that
// fail validation are excluded from execution but stay in the stats; the
// returned RoundStats is always complete regardless of what failed along
// the way.
func RunRound(ctx context.Context, a Arena, participants []Participant, round int, logger *log.Logger) *RoundStats {
	stats := NewRoundStats(participants)

	active := make([]Participant, 0, len(participants))
	for _, p := range participants {
		ok, reason := a.Validate(ctx, p)
		if !ok {
			if logger != nil {
				logger.Printf("round %d: %s failed validation: %s", round, p.Name, reason)
			}
			stats.Players[p.Name].ValidSubmit = false
			stats.Players[p.Name].InvalidReason = reason
			continue
		}
		active = append(active, p)
	}

	if err := a.ExecuteRound(ctx, active, round); err != nil && logger != nil {
		logger.Printf("round %d: execute failed: %v", round, err)
	}

	a.GetResults(ctx, participants, round, stats)
	return stats
}
