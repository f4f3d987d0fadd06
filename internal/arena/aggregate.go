package arena

// Tally aggregates per-simulation outcomes into a round winner and score
// table. Each outcome is a participant id, ResultTie for a drawn
// simulation, or "" for a simulation that produced no parseable result
// (excluded from aggregation). The round winner is the unique id with the
// strict maximum win count; any tie for the maximum, including a round of
// nothing but draws or failures, collapses to ResultTie. Every entry in
// participants receives a score, zero if it never won. Aggregation is pure:
// the same outcomes always produce the same result.
func Tally(outcomes []string, participants []string) (string, map[string]float64) {
	scores := make(map[string]float64, len(participants))
	for _, p := range participants {
		scores[p] = 0
	}

	counted := 0
	for _, outcome := range outcomes {
		switch outcome {
		case "":
			// No result; excluded.
		case ResultTie:
			counted++
		default:
			scores[outcome]++
			counted++
		}
	}

	if counted == 0 {
		return ResultTie, scores
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		// Only draws.
		return ResultTie, scores
	}

	var leaders []string
	for p, s := range scores {
		if s == maxScore {
			leaders = append(leaders, p)
		}
	}
	if len(leaders) == 1 {
		return leaders[0], scores
	}
	return ResultTie, scores
}
