// Package bridgearena implements the round lifecycle contract for Bridge,
// the one game whose rules engine runs fully in-process. Participants
// submit a bridge_agent.js; each simulation seats the four bots, plays a
// complete deal, and writes its result artifact for later parsing.
package bridgearena

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/codearena/arena/internal/arena"
	"github.com/codearena/arena/internal/bridge"
)

const seats = 4

const validateTimeout = 10 * time.Second

// botFuncPatterns match the required entry points in submitted scripts,
// covering both declarations and function-expression assignments.
var botFuncPatterns = map[string]*regexp.Regexp{
	"getBid":   regexp.MustCompile(`\bfunction\s+getBid\b|\bgetBid\s*=`),
	"playCard": regexp.MustCompile(`\bfunction\s+playCard\b|\bplayCard\s*=`),
}

// Config carries the round parameters.
type Config struct {
	SimsPerRound int
	Workers      int
	SimTimeout   time.Duration
	DataDir      string
}

// Arena runs Bridge rounds. Round-scoped state set by ExecuteRound is
// consumed by GetResults, mirroring the two-phase contract.
type Arena struct {
	cfg    Config
	logger *log.Logger

	mu             sync.Mutex
	classification *arena.Classification
	lastOutcomes   []string
}

// New creates a Bridge arena.
func New(cfg Config, logger *log.Logger) *Arena {
	if cfg.SimsPerRound <= 0 {
		cfg.SimsPerRound = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.SimTimeout <= 0 {
		cfg.SimTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[BRIDGE] ", log.LstdFlags)
	}
	return &Arena{cfg: cfg, logger: logger}
}

// Name identifies the game.
func (a *Arena) Name() string { return "Bridge" }

// SimsPerRound exposes the configured simulation count per round.
func (a *Arena) SimsPerRound() int { return a.cfg.SimsPerRound }

// Validate checks that the participant submitted a bridge_agent.js that
// defines the required entry points. It runs in the participant's own
// sandbox, before any round work.
func (a *Arena) Validate(ctx context.Context, p arena.Participant) (bool, string) {
	ls, err := p.Env.Execute(ctx, "ls", validateTimeout)
	if err != nil || !strings.Contains(ls.Output, bridge.SubmissionFile) {
		return false, fmt.Sprintf("no %s file found in root directory", bridge.SubmissionFile)
	}

	cat, err := p.Env.Execute(ctx, "cat "+bridge.SubmissionFile, validateTimeout)
	if err != nil || cat.ExitCode != 0 {
		return false, fmt.Sprintf("could not read %s", bridge.SubmissionFile)
	}

	var missing []string
	for _, fn := range bridge.RequiredBotFunctions {
		if !botFuncPatterns[fn].MatchString(cat.Output) {
			missing = append(missing, fn)
		}
	}
	if len(missing) > 0 {
		return false, "missing required functions: " + strings.Join(missing, ", ")
	}
	return true, ""
}

// ExecuteRound builds every participant's agent, classifies the round, and
// when contested dispatches the configured number of simulations on the
// worker pool. Seat assignment rotates with the simulation index and is
// persisted to the round manifest before dispatch.
func (a *Arena) ExecuteRound(ctx context.Context, participants []arena.Participant, round int) error {
	programs := make(map[string]*goja.Program, len(participants))
	setup := make([]arena.SetupResult, 0, len(participants))

	for _, p := range participants {
		prog, reason := a.buildAgent(ctx, p)
		if prog == nil {
			a.logger.Printf("round %d: %s failed setup: %s", round, p.Name, reason)
			setup = append(setup, arena.SetupResult{Participant: p.Name, Reason: reason})
			continue
		}
		programs[p.Name] = prog
		setup = append(setup, arena.SetupResult{Participant: p.Name, OK: true})
	}

	c := arena.Classify(setup)
	if c.Status == arena.StatusCompleted && len(c.Valid) != seats {
		// Bridge cannot seat a partial table.
		c = c.Degrade(fmt.Sprintf("bridge needs %d valid agents to seat a table, got %d", seats, len(c.Valid)))
	}
	a.setClassification(c)

	if c.Status != arena.StatusCompleted {
		a.logger.Printf("round %d: %s (%s)", round, c.Status, c.Reason)
		return nil
	}

	roundDir := a.roundDir(round)
	if err := os.MkdirAll(roundDir, 0o755); err != nil {
		return fmt.Errorf("create round dir: %w", err)
	}

	sims := make([]arena.SimulationMeta, a.cfg.SimsPerRound)
	for idx := range sims {
		roles := make(map[string]string, seats)
		for pos := 0; pos < seats; pos++ {
			// Rotate seating by index so no participant is pinned to
			// a seat across the round.
			roles[strconv.Itoa(pos)] = c.Valid[(pos+idx)%seats]
		}
		sims[idx] = arena.SimulationMeta{
			Idx:      idx,
			Roles:    roles,
			Artifact: fmt.Sprintf("sim_%d.json", idx),
		}
	}
	if err := arena.WriteManifest(roundDir, sims); err != nil {
		return err
	}

	a.logger.Printf("round %d: running %d bridge simulations", round, len(sims))
	runner := &arena.Runner{
		Workers: a.cfg.Workers,
		Timeout: a.cfg.SimTimeout,
		Logger:  a.logger,
	}
	report := runner.Run(ctx, len(sims), func(ctx context.Context, idx int) error {
		return a.runSimulation(ctx, sims[idx], programs, roundDir)
	})
	a.logger.Printf("round %d: %d/%d simulations completed", round, report.Completed, len(sims))
	return nil
}

// buildAgent fetches and compiles one participant's submission. A nil
// program means setup failure, with the reason in the second return.
func (a *Arena) buildAgent(ctx context.Context, p arena.Participant) (*goja.Program, string) {
	cat, err := p.Env.Execute(ctx, "cat "+bridge.SubmissionFile, validateTimeout)
	if err != nil || cat.TimedOut || cat.ExitCode != 0 {
		return nil, fmt.Sprintf("could not read %s", bridge.SubmissionFile)
	}

	prog, err := bridge.CompileBot(p.Name, cat.Output)
	if err != nil {
		return nil, "agent failed to compile: " + truncate(err.Error(), 1000)
	}
	return prog, ""
}

func (a *Arena) roundDir(round int) string {
	return filepath.Join(a.cfg.DataDir, "rounds", fmt.Sprintf("round_%d", round))
}

func (a *Arena) setClassification(c arena.Classification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classification = &c
	a.lastOutcomes = nil
}

func (a *Arena) getClassification() *arena.Classification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.classification
}

// SimOutcomes returns the per-simulation outcomes recorded by the last
// GetResults call: a pair id, the tie sentinel, or "" per simulation.
func (a *Arena) SimOutcomes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.lastOutcomes))
	copy(out, a.lastOutcomes)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... (truncated)"
}
