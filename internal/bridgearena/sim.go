package bridgearena

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dop251/goja"

	"github.com/codearena/arena/internal/arena"
	"github.com/codearena/arena/internal/bridge"
)

// runSimulation plays one complete deal. The simulation index seeds the
// deal and rotates the dealer, so every simulation is replayable from its
// manifest entry. Agent errors and illegal moves degrade to PASS or the
// first legal card; only a failure to produce the artifact makes the
// simulation count as "no result".
func (a *Arena) runSimulation(ctx context.Context, meta arena.SimulationMeta, programs map[string]*goja.Program, roundDir string) error {
	game := bridge.NewSeededGame(int64(meta.Idx), meta.Idx%seats)

	bots := make(map[int]*bridge.Bot, seats)
	for pos := 0; pos < seats; pos++ {
		name := meta.Roles[strconv.Itoa(pos)]
		if !game.AddPlayer(pos, name) {
			return fmt.Errorf("sim %d: could not seat %s at %d", meta.Idx, name, pos)
		}
		// Runtimes are per-simulation; only the compiled program is shared.
		bot, err := bridge.NewBot(name, programs[name])
		if err != nil {
			return fmt.Errorf("sim %d: %w", meta.Idx, err)
		}
		bots[pos] = bot
	}

	if !game.StartGame() {
		return fmt.Errorf("sim %d: failed to start game", meta.Idx)
	}

	for game.Phase == bridge.PhaseBidding {
		if err := ctx.Err(); err != nil {
			return err
		}
		pos := game.CurrentPlayer

		bid, err := bots[pos].GetBid(bidState(game, pos))
		if err != nil {
			a.logger.Printf("sim %d: agent %s error in getBid: %v", meta.Idx, game.Players[pos], err)
			bid = bridge.BidPass
		}

		if !game.MakeBid(pos, bid) {
			a.logger.Printf("sim %d: invalid bid %q from %s, defaulting to PASS", meta.Idx, bid, game.Players[pos])
			game.MakeBid(pos, bridge.BidPass)
		}
	}

	for game.Phase == bridge.PhasePlaying {
		if err := ctx.Err(); err != nil {
			return err
		}
		pos := game.CurrentPlayer

		card, err := bots[pos].PlayCard(playState(game, pos))
		if err != nil {
			a.logger.Printf("sim %d: agent %s error in playCard: %v", meta.Idx, game.Players[pos], err)
			card = ""
		}

		if !game.PlayCard(pos, card) {
			legal := game.GetLegalCards(pos)
			if len(legal) == 0 {
				return fmt.Errorf("sim %d: no legal cards for seat %d", meta.Idx, pos)
			}
			if card != "" {
				a.logger.Printf("sim %d: invalid card %q from %s, using first legal card", meta.Idx, card, game.Players[pos])
			}
			game.PlayCard(pos, legal[0])
		}
	}

	result := game.Result()
	if result == nil {
		return fmt.Errorf("sim %d: game did not finish", meta.Idx)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("sim %d: marshal result: %w", meta.Idx, err)
	}
	if err := os.WriteFile(filepath.Join(roundDir, meta.Artifact), data, 0o644); err != nil {
		return fmt.Errorf("sim %d: write result: %w", meta.Idx, err)
	}
	return nil
}

// bidState is the view an agent gets during the auction.
func bidState(g *bridge.Game, pos int) map[string]any {
	return map[string]any{
		"position":      pos,
		"hand":          g.Hands[pos],
		"bids":          bidStrings(g.Bids),
		"legal_bids":    g.GetLegalBids(pos),
		"dealer":        g.Dealer,
		"vulnerability": vulnMap(g),
	}
}

// playState is the view an agent gets during trick play.
func playState(g *bridge.Game, pos int) map[string]any {
	trick := make([]map[string]any, len(g.CurrentTrick))
	for i, play := range g.CurrentTrick {
		trick[i] = map[string]any{"position": play.Position, "card": play.Card}
	}

	var contract map[string]any
	if g.Contract != nil {
		contract = map[string]any{
			"level":    g.Contract.Level,
			"suit":     g.Contract.Suit,
			"declarer": g.Contract.Declarer,
		}
	}

	return map[string]any{
		"position":      pos,
		"hand":          g.Hands[pos],
		"current_trick": trick,
		"legal_cards":   g.GetLegalCards(pos),
		"contract":      contract,
		"tricks_won":    tricksMap(g),
	}
}

func bidStrings(bids []bridge.Bid) []string {
	out := make([]string, len(bids))
	for i, b := range bids {
		out[i] = b.Bid
	}
	return out
}

func vulnMap(g *bridge.Game) map[string]bool {
	return map[string]bool{
		string(bridge.TeamNS): g.Vulnerability[bridge.TeamNS],
		string(bridge.TeamEW): g.Vulnerability[bridge.TeamEW],
	}
}

func tricksMap(g *bridge.Game) map[string]int {
	return map[string]int{
		string(bridge.TeamNS): g.TricksWon[bridge.TeamNS],
		string(bridge.TeamEW): g.TricksWon[bridge.TeamEW],
	}
}
