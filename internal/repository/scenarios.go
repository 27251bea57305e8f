package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magiccombat/combat-server-go/internal/combat"
	"github.com/magiccombat/combat-server-go/internal/scenario"
)

// ErrNotFound is returned when a scenario does not exist.
var ErrNotFound = errors.New("repository: scenario not found")

// SolvedScenario pairs a scenario snapshot with the assignment the search
// chose for it.
type SolvedScenario struct {
	ID         string
	Snapshot   []byte
	Blocks     []int
	Score      combat.Score
	Iterations int
	CreatedAt  time.Time
}

// ScenarioRepository stores scenarios and solved assignments.
type ScenarioRepository struct {
	db *pgxpool.Pool
}

// NewScenarioRepository creates a repository over the pool.
func NewScenarioRepository(db *pgxpool.Pool) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
    id         TEXT PRIMARY KEY,
    snapshot   JSONB NOT NULL,
    blocks     JSONB,
    score      JSONB,
    iterations INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the scenarios table if it does not exist.
func (r *ScenarioRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating scenarios schema: %w", err)
	}
	return nil
}

// Save stores a scenario with its solved assignment and score.
func (r *ScenarioRepository) Save(ctx context.Context, sc *scenario.Scenario, blocks []int, score combat.Score, iterations int) error {
	snapshot, err := scenario.Encode(sc)
	if err != nil {
		return fmt.Errorf("encoding scenario %s: %w", sc.ID, err)
	}
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encoding blocks for %s: %w", sc.ID, err)
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encoding score for %s: %w", sc.ID, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO scenarios (id, snapshot, blocks, score, iterations)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET snapshot = EXCLUDED.snapshot,
		    blocks = EXCLUDED.blocks,
		    score = EXCLUDED.score,
		    iterations = EXCLUDED.iterations`,
		sc.ID, snapshot, blocksJSON, scoreJSON, iterations,
	)
	if err != nil {
		return fmt.Errorf("saving scenario %s: %w", sc.ID, err)
	}
	return nil
}

// Get loads one solved scenario by ID.
func (r *ScenarioRepository) Get(ctx context.Context, id string) (*SolvedScenario, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, snapshot, blocks, score, iterations, created_at
		FROM scenarios WHERE id = $1`, id)
	return scanSolved(row)
}

// List returns the most recent solved scenarios.
func (r *ScenarioRepository) List(ctx context.Context, limit int) ([]*SolvedScenario, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, snapshot, blocks, score, iterations, created_at
		FROM scenarios ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var out []*SolvedScenario
	for rows.Next() {
		solved, err := scanSolved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, solved)
	}
	return out, rows.Err()
}

func scanSolved(row pgx.Row) (*SolvedScenario, error) {
	var (
		solved     SolvedScenario
		blocksJSON []byte
		scoreJSON  []byte
	)
	err := row.Scan(&solved.ID, &solved.Snapshot, &blocksJSON, &scoreJSON, &solved.Iterations, &solved.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scenario: %w", err)
	}
	if blocksJSON != nil {
		if err := json.Unmarshal(blocksJSON, &solved.Blocks); err != nil {
			return nil, fmt.Errorf("decoding blocks for %s: %w", solved.ID, err)
		}
	}
	if scoreJSON != nil {
		if err := json.Unmarshal(scoreJSON, &solved.Score); err != nil {
			return nil, fmt.Errorf("decoding score for %s: %w", solved.ID, err)
		}
	}
	return &solved, nil
}
