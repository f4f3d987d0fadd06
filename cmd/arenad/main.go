// arenad runs the Bridge arena as a service: participants are directories
// under the agents dir (one per participant, each holding a
// bridge_agent.js), and rounds are driven over the HTTP API.
package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/codearena/arena/internal/api"
	"github.com/codearena/arena/internal/arena"
	"github.com/codearena/arena/internal/bridgearena"
	"github.com/codearena/arena/internal/config"
	"github.com/codearena/arena/internal/sandbox"
	"github.com/codearena/arena/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[ARENAD] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatalf("migrate store: %v", err)
	}

	participants, err := discoverParticipants(cfg.AgentsDir)
	if err != nil {
		logger.Fatalf("discover participants: %v", err)
	}
	logger.Printf("found %d participants in %s", len(participants), cfg.AgentsDir)

	bridgeArena := bridgearena.New(bridgearena.Config{
		SimsPerRound: cfg.SimsPerRound,
		Workers:      cfg.Workers,
		SimTimeout:   cfg.SimTimeout,
		DataDir:      cfg.DataDir,
	}, nil)

	service := &api.Service{
		Arena:        bridgeArena,
		Participants: participants,
		DB:           db,
		Logger:       logger,
	}

	server := api.NewServer(db, service)
	logger.Printf("listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Routes()); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

// discoverParticipants treats each subdirectory of agentsDir as one
// participant workspace, in stable name order.
func discoverParticipants(agentsDir string) ([]arena.Participant, error) {
	entries, err := os.ReadDir(agentsDir)
	if err != nil {
		return nil, err
	}

	var participants []arena.Participant
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		participants = append(participants, arena.Participant{
			Name: entry.Name(),
			Env:  sandbox.NewLocal(filepath.Join(agentsDir, entry.Name())),
		})
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})
	return participants, nil
}
