package store

import "time"

// DB is the round-history persistence interface.
type DB interface {
	Close() error
	Migrate() error
	SaveRound(round *Round) error
	GetRound(id string) (*Round, error)
	ListRounds(query RoundsQuery) (*RoundsList, error)
}

// Round is one persisted round record with its per-participant and
// per-simulation children.
type Round struct {
	ID        string       `json:"id"`
	Game      string       `json:"game"`
	RoundNum  int          `json:"round_num"`
	Status    string       `json:"status"`
	Winner    string       `json:"winner"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Players   []PlayerRow  `json:"players"`
	Sims      []SimOutcome `json:"simulations"`
}

// PlayerRow is one participant's result within a round.
type PlayerRow struct {
	Participant   string  `json:"participant"`
	Score         float64 `json:"score"`
	ValidSubmit   bool    `json:"valid_submit"`
	InvalidReason string  `json:"invalid_reason,omitempty"`
}

// SimOutcome is one simulation's parsed winner ("" when it produced no
// result).
type SimOutcome struct {
	Idx    int    `json:"idx"`
	Winner string `json:"winner"`
}

// RoundsQuery selects and paginates rounds.
type RoundsQuery struct {
	Game    string `json:"game,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// RoundsList is a paginated rounds response.
type RoundsList struct {
	Rounds     []Round `json:"rounds"`
	TotalCount int     `json:"totalCount"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalPages int     `json:"totalPages"`
}
