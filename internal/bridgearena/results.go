package bridgearena

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codearena/arena/internal/arena"
	"github.com/codearena/arena/internal/bridge"
)

// vpTieEpsilon is the VP margin below which a board counts as drawn.
const vpTieEpsilon = 0.01

// GetResults fills the round stats. Degenerate rounds are settled by the
// classification alone; contested rounds re-read the dispatch-time
// manifest, parse each simulation artifact into a winning pair, and feed
// the shared aggregator. Each participant's score is its pair's tally.
func (a *Arena) GetResults(ctx context.Context, participants []arena.Participant, round int, stats *arena.RoundStats) {
	c := a.getClassification()
	if c == nil {
		a.logger.Printf("round %d: get_results called without execute_round", round)
		stats.Winner = arena.ResultTie
		stats.Reason = "round was not executed"
		return
	}

	c.Apply(stats, a.cfg.SimsPerRound)
	if c.Status != arena.StatusCompleted {
		return
	}

	sims, err := arena.ReadManifest(a.roundDir(round))
	if err != nil {
		a.logger.Printf("round %d: %v", round, err)
		stats.Winner = arena.ResultTie
		stats.Reason = "simulation manifest missing"
		return
	}

	outcomes := make([]string, len(sims))
	memberPair := make(map[string]string)
	pairSet := make(map[string]bool)
	for i, sim := range sims {
		nsPair, ewPair := simPairs(sim)
		pairSet[nsPair] = true
		pairSet[ewPair] = true
		for _, member := range strings.Split(nsPair, "/") {
			memberPair[member] = nsPair
		}
		for _, member := range strings.Split(ewPair, "/") {
			memberPair[member] = ewPair
		}
		outcomes[i] = a.parseSimResult(filepath.Join(a.roundDir(round), sim.Artifact), sim)
	}

	pairs := make([]string, 0, len(pairSet))
	for pair := range pairSet {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	winner, pairScores := arena.Tally(outcomes, pairs)

	a.mu.Lock()
	a.lastOutcomes = outcomes
	a.mu.Unlock()

	stats.Winner = winner
	for name, ps := range stats.Players {
		if pair, ok := memberPair[name]; ok {
			stats.Scores[name] = pairScores[pair]
			ps.Score = pairScores[pair]
		}
	}

	a.logger.Printf("round %d results: winner=%s pair_scores=%v", round, winner, pairScores)
}

// parseSimResult maps one simulation artifact to a winning pair id, the
// tie sentinel, or "" when the artifact is missing or unparseable. An
// unparseable board is excluded from aggregation, not an error.
func (a *Arena) parseSimResult(path string, sim arena.SimulationMeta) string {
	data, err := os.ReadFile(path)
	if err != nil {
		a.logger.Printf("sim %d: result artifact missing, skipping", sim.Idx)
		return ""
	}

	var result bridge.Result
	if err := json.Unmarshal(data, &result); err != nil {
		a.logger.Printf("sim %d: could not parse result: %v", sim.Idx, err)
		return ""
	}
	if result.NormalizedScore == nil {
		a.logger.Printf("sim %d: result has no normalized score", sim.Idx)
		return ""
	}

	nsVP := result.NormalizedScore[bridge.TeamNS]
	ewVP := result.NormalizedScore[bridge.TeamEW]
	nsPair, ewPair := simPairs(sim)

	switch {
	case math.Abs(nsVP-ewVP) < vpTieEpsilon:
		return arena.ResultTie
	case nsVP > ewVP:
		return nsPair
	default:
		return ewPair
	}
}

// simPairs derives the two partnership ids for a simulation from its
// manifest roles. Pair ids are member names sorted and joined with "/",
// so a pair keeps its id as seating rotates across simulations.
func simPairs(sim arena.SimulationMeta) (ns, ew string) {
	return pairID(sim.Roles["0"], sim.Roles["2"]), pairID(sim.Roles["1"], sim.Roles["3"])
}

func pairID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}
