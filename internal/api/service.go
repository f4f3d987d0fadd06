package api

import (
	"context"
	"fmt"
	"log"

	"github.com/codearena/arena/internal/arena"
	"github.com/codearena/arena/internal/store"
)

// RoundService executes rounds for the configured game and records them.
type RoundService interface {
	RunRound(ctx context.Context, round int) (*store.Round, error)
}

// simOutcomeProvider is implemented by arenas that expose their last
// per-simulation outcomes for persistence.
type simOutcomeProvider interface {
	SimOutcomes() []string
}

// Service drives rounds against a fixed participant set and persists the
// results.
type Service struct {
	Arena        arena.Arena
	Participants []arena.Participant
	DB           store.DB
	Logger       *log.Logger
}

// RunRound runs one full round synchronously and saves the outcome. The
// round itself cannot fail; only persistence can.
func (s *Service) RunRound(ctx context.Context, round int) (*store.Round, error) {
	stats := arena.RunRound(ctx, s.Arena, s.Participants, round, s.Logger)

	record := &store.Round{
		Game:     s.Arena.Name(),
		RoundNum: round,
		Status:   string(stats.Status),
		Winner:   stats.Winner,
		Reason:   stats.Reason,
	}
	for _, p := range s.Participants {
		ps := stats.Players[p.Name]
		record.Players = append(record.Players, store.PlayerRow{
			Participant:   p.Name,
			Score:         ps.Score,
			ValidSubmit:   ps.ValidSubmit,
			InvalidReason: ps.InvalidReason,
		})
	}
	if provider, ok := s.Arena.(simOutcomeProvider); ok {
		for idx, winner := range provider.SimOutcomes() {
			record.Sims = append(record.Sims, store.SimOutcome{Idx: idx, Winner: winner})
		}
	}

	if err := s.DB.SaveRound(record); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}
	return record, nil
}
