package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) a SQLite database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL gives concurrent readers while a round is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			round_num INTEGER NOT NULL,
			status TEXT NOT NULL,
			winner TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS round_players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL,
			participant TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			valid_submit INTEGER NOT NULL DEFAULT 1,
			invalid_reason TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (round_id) REFERENCES rounds(id)
		)`,
		`CREATE TABLE IF NOT EXISTS round_sims (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (round_id) REFERENCES rounds(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_round_players_round ON round_players(round_id)`,
		`CREATE INDEX IF NOT EXISTS idx_round_sims_round ON round_sims(round_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game, round_num)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRound inserts a round and its children in one transaction. A missing
// ID or CreatedAt is filled in.
func (s *SQLiteDB) SaveRound(round *Round) error {
	if round.ID == "" {
		round.ID = uuid.NewString()
	}
	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rounds (id, game, round_num, status, winner, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.Game, round.RoundNum, round.Status, round.Winner, round.Reason, round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	for _, player := range round.Players {
		_, err = tx.Exec(
			`INSERT INTO round_players (round_id, participant, score, valid_submit, invalid_reason)
			 VALUES (?, ?, ?, ?, ?)`,
			round.ID, player.Participant, player.Score, boolToInt(player.ValidSubmit), player.InvalidReason,
		)
		if err != nil {
			return fmt.Errorf("insert round player: %w", err)
		}
	}

	for _, sim := range round.Sims {
		_, err = tx.Exec(
			`INSERT INTO round_sims (round_id, idx, winner) VALUES (?, ?, ?)`,
			round.ID, sim.Idx, sim.Winner,
		)
		if err != nil {
			return fmt.Errorf("insert round sim: %w", err)
		}
	}

	return tx.Commit()
}

// GetRound loads one round with its children.
func (s *SQLiteDB) GetRound(id string) (*Round, error) {
	var round Round
	err := s.db.QueryRow(
		`SELECT id, game, round_num, status, winner, reason, created_at FROM rounds WHERE id = ?`, id,
	).Scan(&round.ID, &round.Game, &round.RoundNum, &round.Status, &round.Winner, &round.Reason, &round.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("round not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query round: %w", err)
	}

	if round.Players, err = s.roundPlayers(id); err != nil {
		return nil, err
	}
	if round.Sims, err = s.roundSims(id); err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *SQLiteDB) roundPlayers(roundID string) ([]PlayerRow, error) {
	rows, err := s.db.Query(
		`SELECT participant, score, valid_submit, invalid_reason
		 FROM round_players WHERE round_id = ? ORDER BY id`, roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("query round players: %w", err)
	}
	defer rows.Close()

	var players []PlayerRow
	for rows.Next() {
		var p PlayerRow
		var valid int
		if err := rows.Scan(&p.Participant, &p.Score, &valid, &p.InvalidReason); err != nil {
			return nil, fmt.Errorf("scan round player: %w", err)
		}
		p.ValidSubmit = valid != 0
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteDB) roundSims(roundID string) ([]SimOutcome, error) {
	rows, err := s.db.Query(
		`SELECT idx, winner FROM round_sims WHERE round_id = ? ORDER BY idx`, roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("query round sims: %w", err)
	}
	defer rows.Close()

	var sims []SimOutcome
	for rows.Next() {
		var sim SimOutcome
		if err := rows.Scan(&sim.Idx, &sim.Winner); err != nil {
			return nil, fmt.Errorf("scan round sim: %w", err)
		}
		sims = append(sims, sim)
	}
	return sims, rows.Err()
}

// ListRounds returns a page of rounds, newest first, without children.
func (s *SQLiteDB) ListRounds(query RoundsQuery) (*RoundsList, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}

	where := ""
	args := []any{}
	if query.Game != "" {
		where = " WHERE game = ?"
		args = append(args, query.Game)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM rounds"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count rounds: %w", err)
	}

	offset := (query.Page - 1) * query.PerPage
	rows, err := s.db.Query(
		`SELECT id, game, round_num, status, winner, reason, created_at FROM rounds`+where+
			` ORDER BY created_at DESC, round_num DESC LIMIT ? OFFSET ?`,
		append(args, query.PerPage, offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	list := &RoundsList{
		Rounds:     []Round{},
		TotalCount: total,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: (total + query.PerPage - 1) / query.PerPage,
	}
	for rows.Next() {
		var round Round
		if err := rows.Scan(&round.ID, &round.Game, &round.RoundNum, &round.Status, &round.Winner, &round.Reason, &round.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		list.Rounds = append(list.Rounds, round)
	}
	return list, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
