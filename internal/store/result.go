package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Outcome is how a recorded game ended.
type Outcome string

const (
	// OutcomeHazard means a hazard was sliced.
	OutcomeHazard Outcome = "hazard"
	// OutcomeMisses means the miss cap was reached.
	OutcomeMisses Outcome = "misses"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Result is one finished game.
type Result struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Score     int       `json:"score"`
	Missed    int       `json:"missed"`
	Slices    int       `json:"slices"`
	Combos    int       `json:"combos"`
	Outcome   Outcome   `json:"outcome"`
}

// Duration returns how long the game lasted.
func (r *Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// ResultRepository stores finished games.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

// Create inserts a finished game.
func (r *ResultRepository) Create(res *Result) error {
	if res.ID == "" {
		return errors.New("result id is required")
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, ended_at, score, missed, slices, combos, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.StartedAt.UTC(), res.EndedAt.UTC(), res.Score, res.Missed, res.Slices, res.Combos, string(res.Outcome),
	)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", res.ID, err)
	}

	return nil
}

// GetByID retrieves one result.
func (r *ResultRepository) GetByID(id string) (*Result, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, score, missed, slices, combos, outcome
		 FROM sessions WHERE id = ?`,
		id,
	)
	return scanResult(row)
}

// List returns the most recent results first. A non-positive limit uses
// DefaultListLimit.
func (r *ResultRepository) List(limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, score, missed, slices, combos, outcome
		 FROM sessions ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// Best returns the highest scoring result, earliest first on ties.
func (r *ResultRepository) Best() (*Result, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, score, missed, slices, combos, outcome
		 FROM sessions ORDER BY score DESC, ended_at ASC LIMIT 1`,
	)
	return scanResult(row)
}

// Delete removes a result.
func (r *ResultRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*Result, error) {
	res := &Result{}
	var outcome string

	err := row.Scan(&res.ID, &res.StartedAt, &res.EndedAt, &res.Score, &res.Missed, &res.Slices, &res.Combos, &outcome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res.Outcome = Outcome(outcome)
	return res, nil
}
