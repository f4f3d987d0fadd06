package bridge

import "github.com/shopspring/decimal"

// Team identifies a partnership: North/South (positions 0 and 2) or
// East/West (positions 1 and 3).
type Team string

const (
	TeamNS Team = "NS"
	TeamEW Team = "EW"
)

// TeamForPosition maps a seat to its partnership.
func TeamForPosition(position int) Team {
	if position%2 == 0 {
		return TeamNS
	}
	return TeamEW
}

// CalculateContractScore scores a finished contract and returns the signed
// (NS, EW) raw point pair. tricksMade is the declaring side's total trick
// count; the contract is made when it reaches 6+level.
func CalculateContractScore(level int, suit string, declarerTeam Team, tricksMade int, doubled, redoubled bool, vulnerable map[Team]bool) (int, int) {
	tricksNeeded := 6 + level
	isVulnerable := vulnerable[declarerTeam]

	var score int
	if tricksMade >= tricksNeeded {
		score = madeContractPoints(level, suit, tricksMade, tricksNeeded, doubled, redoubled, isVulnerable)
	} else {
		score = -undertrickPenalty(tricksNeeded-tricksMade, doubled, redoubled, isVulnerable)
	}

	if declarerTeam == TeamNS {
		return score, -score
	}
	return -score, score
}

func madeContractPoints(level int, suit string, tricksMade, tricksNeeded int, doubled, redoubled, vulnerable bool) int {
	basePerTrick := 30
	if suit == "C" || suit == "D" {
		basePerTrick = 20
	}

	trickPoints := basePerTrick * level
	if suit == "NT" {
		trickPoints += 10
	}

	if redoubled {
		trickPoints *= 4
	} else if doubled {
		trickPoints *= 2
	}

	overtricks := tricksMade - tricksNeeded
	overtrickPoints := 0
	if overtricks > 0 {
		if doubled || redoubled {
			perOvertrick := 50
			if vulnerable {
				perOvertrick = 100
			}
			if redoubled {
				perOvertrick *= 2
			}
			overtrickPoints = perOvertrick * overtricks
		} else {
			overtrickPoints = basePerTrick * overtricks
		}
	}

	bonus := 0
	if trickPoints >= 100 {
		// Game bonus.
		if vulnerable {
			bonus += 500
		} else {
			bonus += 300
		}
	} else {
		// Part-score bonus.
		bonus += 50
	}

	if level == 6 && tricksMade >= 12 {
		if vulnerable {
			bonus += 750
		} else {
			bonus += 500
		}
	}
	if level == 7 && tricksMade == 13 {
		if vulnerable {
			bonus += 1500
		} else {
			bonus += 1000
		}
	}

	// Insult bonus for making a doubled or redoubled contract.
	if redoubled {
		bonus += 100
	} else if doubled {
		bonus += 50
	}

	return trickPoints + overtrickPoints + bonus
}

// undertrickPenalty sums the penalty for going down. Doubled penalties
// beyond the third undertrick stay at a flat 300 regardless of
// vulnerability; that schedule is intentional, keep it.
func undertrickPenalty(undertricks int, doubled, redoubled, vulnerable bool) int {
	if !doubled && !redoubled {
		perUndertrick := 50
		if vulnerable {
			perUndertrick = 100
		}
		return perUndertrick * undertricks
	}

	total := 0
	for i := 0; i < undertricks; i++ {
		var penalty int
		switch {
		case i == 0:
			penalty = 100
			if vulnerable {
				penalty = 200
			}
		case i < 3:
			penalty = 200
			if vulnerable {
				penalty = 300
			}
		default:
			penalty = 300
		}
		if redoubled {
			penalty *= 2
		}
		total += penalty
	}
	return total
}

// NormalizeToVP converts raw scores to a Victory Point split on a 0-1
// scale. The point differential is converted to IMPs at 30 points per IMP,
// clamped at 10 IMPs, and mapped linearly around 0.5. The linear map is a
// deliberate simplification of the official IMP table.
func NormalizeToVP(nsRaw, ewRaw int) map[Team]float64 {
	imps := float64(nsRaw-ewRaw) / 30.0

	vpDiff := imps / 10.0
	if vpDiff > 1.0 {
		vpDiff = 1.0
	}
	if vpDiff < -1.0 {
		vpDiff = -1.0
	}

	return map[Team]float64{
		TeamNS: round3(0.5 + vpDiff/2),
		TeamEW: round3(0.5 - vpDiff/2),
	}
}

func round3(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return out
}
