package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "arena.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SimsPerRound != 10 || cfg.Workers != 5 {
		t.Errorf("SimsPerRound=%d Workers=%d", cfg.SimsPerRound, cfg.Workers)
	}
	if cfg.SimTimeout != 60*time.Second {
		t.Errorf("SimTimeout = %v", cfg.SimTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ARENA_LISTEN_ADDR", ":9999")
	t.Setenv("ARENA_SIMS_PER_ROUND", "25")
	t.Setenv("ARENA_SIM_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.SimsPerRound != 25 {
		t.Errorf("SimsPerRound = %d", cfg.SimsPerRound)
	}
	if cfg.SimTimeout != 90*time.Second {
		t.Errorf("SimTimeout = %v", cfg.SimTimeout)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	t.Setenv("ARENA_SIM_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a malformed duration")
	}
}
