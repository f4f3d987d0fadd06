package arena

import "fmt"

// Status is the round-level outcome of setup classification.
type Status string

const (
	// StatusCompleted means at least two participants built and the round
	// was (or can be) contested.
	StatusCompleted Status = "completed"
	// StatusAutoWin means exactly one participant survived setup and takes
	// the round uncontested.
	StatusAutoWin Status = "auto_win"
	// StatusNoContest means nobody survived setup; the round score is
	// split evenly.
	StatusNoContest Status = "no_contest"
)

// SetupResult is the outcome of building/validating one participant's
// submission before any simulation runs.
type SetupResult struct {
	Participant string
	OK          bool
	Reason      string
}

// Classification gates whether simulations run at all and, when they do
// not, fully determines the round result.
type Classification struct {
	Status Status
	Winner string // set for auto_win only
	Valid  []string
	Failed []SetupResult
	Reason string
}

// Classify turns per-participant setup outcomes into a round-level status:
// zero survivors is a no-contest, exactly one is an automatic win, two or
// more means the round is contested by the survivors.
func Classify(results []SetupResult) Classification {
	var c Classification
	for _, r := range results {
		if r.OK {
			c.Valid = append(c.Valid, r.Participant)
		} else {
			c.Failed = append(c.Failed, r)
		}
	}

	switch len(c.Valid) {
	case 0:
		c.Status = StatusNoContest
		c.Reason = "all participants failed setup"
	case 1:
		c.Status = StatusAutoWin
		c.Winner = c.Valid[0]
		c.Reason = fmt.Sprintf("only %s passed setup", c.Winner)
	default:
		c.Status = StatusCompleted
	}
	return c
}

// Degrade forces a classification that would otherwise be contested down
// to no-contest, e.g. when a game needs more seats than survived setup.
// Already-degraded classifications are returned unchanged.
func (c Classification) Degrade(reason string) Classification {
	if c.Status != StatusCompleted {
		return c
	}
	c.Status = StatusNoContest
	c.Winner = ""
	c.Reason = reason
	return c
}

// Apply fills stats for the degenerate statuses. For a no-contest every
// participant gets an even split of the round score and a failure reason;
// for an auto-win the survivor takes the full round score and every failed
// participant is flagged invalid. Contested rounds are left for the
// game-specific parser plus the aggregator.
func (c Classification) Apply(stats *RoundStats, simsPerRound int) {
	stats.Status = c.Status
	stats.Reason = c.Reason

	switch c.Status {
	case StatusNoContest:
		stats.Winner = ResultTie
		points := 0.0
		if len(stats.Players) > 0 {
			points = float64(simsPerRound) / float64(len(stats.Players))
		}
		for name, ps := range stats.Players {
			stats.Scores[name] = points
			ps.Score = points
			ps.ValidSubmit = false
			ps.InvalidReason = c.reasonFor(name)
		}
	case StatusAutoWin:
		stats.Winner = c.Winner
		stats.Scores[c.Winner] = float64(simsPerRound)
		if ps, ok := stats.Players[c.Winner]; ok {
			ps.Score = float64(simsPerRound)
		}
		for _, failed := range c.Failed {
			if ps, ok := stats.Players[failed.Participant]; ok {
				ps.ValidSubmit = false
				ps.InvalidReason = failed.Reason
			}
		}
	}
}

func (c Classification) reasonFor(name string) string {
	for _, failed := range c.Failed {
		if failed.Participant == name {
			return failed.Reason
		}
	}
	return c.Reason
}
