package bridge

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Phase is the game lifecycle stage. Finished is terminal.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseBidding  Phase = "bidding"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// bidSuits in ascending bid order: a 1NT bid outranks 1S, which outranks 1H.
var bidSuits = []string{"C", "D", "H", "S", "NT"}

var bidSuitOrder = map[string]int{"C": 0, "D": 1, "H": 2, "S": 3, "NT": 4}

const (
	BidPass     = "PASS"
	BidDouble   = "DOUBLE"
	BidRedouble = "REDOUBLE"
)

// Bid is one entry in the auction history.
type Bid struct {
	Position int    `json:"position"`
	Bid      string `json:"bid"`
}

// Contract is the result of the auction: the final named level and strain,
// the declarer seat, and any doubling.
type Contract struct {
	Level     int    `json:"level"`
	Suit      string `json:"suit"`
	Declarer  int    `json:"declarer"`
	Doubled   bool   `json:"doubled"`
	Redoubled bool   `json:"redoubled"`
}

// TrickPlay is one card played into the current trick.
type TrickPlay struct {
	Position int    `json:"position"`
	Card     string `json:"card"`
}

// Game holds the authoritative state of one bridge deal from auction
// through play to scoring. All mutation goes through MakeBid and PlayCard;
// illegal or off-turn requests are rejected with a false return and leave
// the state untouched.
type Game struct {
	ID            string
	Phase         Phase
	Players       map[int]string
	Hands         map[int][]string
	Dealer        int
	Bids          []Bid
	Contract      *Contract
	CurrentTrick  []TrickPlay
	TricksWon     map[Team]int
	PlayedTricks  [][]TrickPlay
	CurrentPlayer int
	Vulnerability map[Team]bool
	RawScore      map[Team]int
	VPScore       map[Team]float64
}

// NewGame creates an unseeded game; StartGame will deal from a random seed.
func NewGame(dealer int) *Game {
	return newGame(nil, dealer)
}

// NewSeededGame creates a game whose deal is fully determined by seed.
func NewSeededGame(seed int64, dealer int) *Game {
	return newGame(&seed, dealer)
}

func newGame(seed *int64, dealer int) *Game {
	g := &Game{
		ID:            uuid.NewString()[:8],
		Phase:         PhaseWaiting,
		Players:       make(map[int]string),
		Hands:         make(map[int][]string),
		Dealer:        dealer,
		TricksWon:     map[Team]int{TeamNS: 0, TeamEW: 0},
		CurrentPlayer: -1,
		Vulnerability: map[Team]bool{TeamNS: false, TeamEW: false},
		RawScore:      map[Team]int{TeamNS: 0, TeamEW: 0},
		VPScore:       map[Team]float64{TeamNS: 0, TeamEW: 0},
	}
	if seed != nil {
		g.Hands = ShuffleAndDeal(*seed)
	}
	return g
}

// AddPlayer seats a player. Valid only before the game starts and only for
// an empty seat in 0-3.
func (g *Game) AddPlayer(position int, name string) bool {
	if g.Phase != PhaseWaiting {
		return false
	}
	if position < 0 || position > 3 {
		return false
	}
	if _, taken := g.Players[position]; taken {
		return false
	}
	g.Players[position] = name
	return true
}

// StartGame moves to the bidding phase once all four seats are filled,
// dealing first if the game was not pre-seeded. The dealer opens the
// auction.
func (g *Game) StartGame() bool {
	if g.Phase != PhaseWaiting || len(g.Players) != 4 {
		return false
	}
	if len(g.Hands) == 0 {
		g.Hands = ShuffleAndDeal(randomSeed())
	}
	g.Phase = PhaseBidding
	g.CurrentPlayer = g.Dealer
	return true
}

// GetLegalBids lists the bids the given seat may make right now: PASS plus
// every level+strain strictly above the current highest contract bid.
// Empty when it is not that seat's turn to bid.
func (g *Game) GetLegalBids(position int) []string {
	if g.Phase != PhaseBidding || position != g.CurrentPlayer {
		return nil
	}

	highestLevel := 0
	highestSuit := -1
	for _, record := range g.Bids {
		level, suit, ok := parseContractBid(record.Bid)
		if !ok {
			continue
		}
		if level > highestLevel || (level == highestLevel && bidSuitOrder[suit] > highestSuit) {
			highestLevel = level
			highestSuit = bidSuitOrder[suit]
		}
	}

	legal := []string{BidPass}
	for level := 1; level <= 7; level++ {
		for _, suit := range bidSuits {
			if level > highestLevel || (level == highestLevel && bidSuitOrder[suit] > highestSuit) {
				legal = append(legal, fmt.Sprintf("%d%s", level, suit))
			}
		}
	}
	return legal
}

// parseContractBid splits a bid like "3NT" into level and strain. PASS,
// DOUBLE, and REDOUBLE are not contract bids.
func parseContractBid(bid string) (int, string, bool) {
	if len(bid) < 2 {
		return 0, "", false
	}
	if bid == BidPass || bid == BidDouble || bid == BidRedouble {
		return 0, "", false
	}
	level, err := strconv.Atoi(bid[:1])
	if err != nil {
		return 0, "", false
	}
	suit := bid[1:]
	if _, ok := bidSuitOrder[suit]; !ok {
		return 0, "", false
	}
	return level, suit, true
}

// MakeBid applies a bid for the given seat. Rejects off-turn and illegal
// bids. Three passes after at least one bid end the auction: either a
// contract is finalized and play starts with the opening leader, or four
// initial passes end the game as a 50/50 VP split.
func (g *Game) MakeBid(position int, bid string) bool {
	if g.Phase != PhaseBidding || position != g.CurrentPlayer {
		return false
	}
	if !containsString(g.GetLegalBids(position), bid) {
		return false
	}

	g.Bids = append(g.Bids, Bid{Position: position, Bid: bid})

	if len(g.Bids) >= 4 {
		lastThreePassed := true
		for _, record := range g.Bids[len(g.Bids)-3:] {
			if record.Bid != BidPass {
				lastThreePassed = false
				break
			}
		}
		if lastThreePassed {
			g.finalizeContract()
			if g.Contract != nil {
				g.Phase = PhasePlaying
				g.CurrentPlayer = (g.Contract.Declarer + 1) % 4
			} else {
				// Passed out: no contract, no play, even split.
				g.Phase = PhaseFinished
				g.RawScore = map[Team]int{TeamNS: 0, TeamEW: 0}
				g.VPScore = map[Team]float64{TeamNS: 0.5, TeamEW: 0.5}
			}
			return true
		}
	}

	g.CurrentPlayer = (g.CurrentPlayer + 1) % 4
	return true
}

// finalizeContract derives the contract from the auction. The declarer is
// the first player on the winning side to have named the final strain.
func (g *Game) finalizeContract() {
	var last *Bid
	for i := range g.Bids {
		if _, _, ok := parseContractBid(g.Bids[i].Bid); ok {
			last = &g.Bids[i]
		}
	}
	if last == nil {
		g.Contract = nil
		return
	}

	level, suit, _ := parseContractBid(last.Bid)
	bidTeam := TeamForPosition(last.Position)

	declarer := -1
	for _, record := range g.Bids {
		_, recordSuit, ok := parseContractBid(record.Bid)
		if !ok {
			continue
		}
		if recordSuit == suit && TeamForPosition(record.Position) == bidTeam {
			declarer = record.Position
			break
		}
	}

	g.Contract = &Contract{Level: level, Suit: suit, Declarer: declarer}
}

// GetLegalCards lists the cards the given seat may play: the whole hand
// when leading, otherwise cards of the led suit if any are held.
func (g *Game) GetLegalCards(position int) []string {
	if g.Phase != PhasePlaying || position != g.CurrentPlayer {
		return nil
	}
	hand := g.Hands[position]
	if len(g.CurrentTrick) == 0 {
		return append([]string(nil), hand...)
	}

	leadSuit := CardSuit(g.CurrentTrick[0].Card)
	var inSuit []string
	for _, card := range hand {
		if CardSuit(card) == leadSuit {
			inSuit = append(inSuit, card)
		}
	}
	if len(inSuit) > 0 {
		return inSuit
	}
	return append([]string(nil), hand...)
}

// PlayCard plays a card for the given seat. The fourth card resolves the
// trick: the winner's team is credited and the winner leads next. When the
// last trick is resolved the game is scored and finished before any
// further turn advance.
func (g *Game) PlayCard(position int, card string) bool {
	if g.Phase != PhasePlaying || position != g.CurrentPlayer {
		return false
	}
	if !containsString(g.GetLegalCards(position), card) {
		return false
	}

	g.Hands[position] = removeCard(g.Hands[position], card)
	g.CurrentTrick = append(g.CurrentTrick, TrickPlay{Position: position, Card: card})

	if len(g.CurrentTrick) == 4 {
		g.completeTrick()
	}

	if g.handsEmpty() {
		g.finalizeScore()
		g.Phase = PhaseFinished
	} else if len(g.CurrentTrick) > 0 {
		g.CurrentPlayer = (g.CurrentPlayer + 1) % 4
	}
	return true
}

// completeTrick resolves a full trick, credits the winning team, and sets
// the winner as the next leader.
func (g *Game) completeTrick() {
	trump := ""
	if g.Contract.Suit != "NT" {
		trump = g.Contract.Suit
	}
	lead := CardSuit(g.CurrentTrick[0].Card)

	winner := g.CurrentTrick[0]
	for _, play := range g.CurrentTrick[1:] {
		if CompareCards(play.Card, winner.Card, trump, lead) > 0 {
			winner = play
		}
	}

	g.TricksWon[TeamForPosition(winner.Position)]++
	g.PlayedTricks = append(g.PlayedTricks, g.CurrentTrick)
	g.CurrentTrick = nil
	g.CurrentPlayer = winner.Position
}

func (g *Game) handsEmpty() bool {
	for _, hand := range g.Hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}

// finalizeScore computes the raw contract score and its VP normalization.
func (g *Game) finalizeScore() {
	if g.Contract == nil {
		g.RawScore = map[Team]int{TeamNS: 0, TeamEW: 0}
		g.VPScore = map[Team]float64{TeamNS: 0.5, TeamEW: 0.5}
		return
	}

	declarerTeam := TeamForPosition(g.Contract.Declarer)
	tricksMade := g.TricksWon[declarerTeam]

	nsRaw, ewRaw := CalculateContractScore(
		g.Contract.Level,
		g.Contract.Suit,
		declarerTeam,
		tricksMade,
		g.Contract.Doubled,
		g.Contract.Redoubled,
		g.Vulnerability,
	)
	g.RawScore = map[Team]int{TeamNS: nsRaw, TeamEW: ewRaw}
	g.VPScore = NormalizeToVP(nsRaw, ewRaw)
}

// State returns a view of the game for the given seat: during play each
// seat sees only its own hand. Pass a negative position for the full view.
func (g *Game) State(position int) map[string]any {
	state := map[string]any{
		"game_id":        g.ID,
		"phase":          string(g.Phase),
		"dealer":         g.Dealer,
		"vulnerability":  g.Vulnerability,
		"players":        g.Players,
		"current_player": g.CurrentPlayer,
		"bids":           g.Bids,
		"contract":       g.Contract,
	}
	if g.Phase == PhasePlaying || g.Phase == PhaseFinished {
		state["current_trick"] = g.CurrentTrick
		state["tricks_won"] = g.TricksWon
		if position >= 0 {
			state["hand"] = g.Hands[position]
		} else {
			state["all_hands"] = g.Hands
		}
	}
	if g.Phase == PhaseFinished {
		state["raw_score"] = g.RawScore
		state["vp_score"] = g.VPScore
	}
	return state
}

// Result is the finished-game document written as the simulation artifact.
type Result struct {
	GameID          string           `json:"game_id"`
	Contract        *Contract        `json:"contract"`
	TricksWon       map[Team]int     `json:"tricks_won"`
	RawScore        map[Team]int     `json:"raw_score"`
	NormalizedScore map[Team]float64 `json:"normalized_score"`
	Bids            []Bid            `json:"bids"`
	PlayedTricks    [][]TrickPlay    `json:"played_tricks"`
}

// Result returns the outcome document, or nil before the game finishes.
func (g *Game) Result() *Result {
	if g.Phase != PhaseFinished {
		return nil
	}
	return &Result{
		GameID:          g.ID,
		Contract:        g.Contract,
		TricksWon:       g.TricksWon,
		RawScore:        g.RawScore,
		NormalizedScore: g.VPScore,
		Bids:            g.Bids,
		PlayedTricks:    g.PlayedTricks,
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func removeCard(hand []string, card string) []string {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...)
		}
	}
	return hand
}
