/*
Package sqlite persists saved mortgage scenarios and their prepayment
strategies.

PURPOSE:
  Durable storage for the scenario workspace: the loan terms a user
  entered, a summary of the computed results, and any prepayment
  strategies attached to a scenario. Terms, results, and strategies are
  stored as JSON documents; the engine recomputes full schedules on
  load, so schedules themselves are never persisted.

KEY TABLES:
  scenarios:  Saved loan terms with a results summary
  strategies: Prepayment strategies, each attached to one scenario

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/mortgage.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/handlers.go: The scenario endpoints built on this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists scenarios and strategies in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Saved scenarios (terms + results summary as JSON documents)
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		terms_json TEXT NOT NULL,
		results_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name
		ON scenarios(name);
	CREATE INDEX IF NOT EXISTS idx_scenarios_updated_at
		ON scenarios(updated_at DESC);

	-- Prepayment strategies, each attached to one scenario
	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		strategy_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_strategies_scenario
		ON strategies(scenario_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCENARIO STORE
// =============================================================================

// ScenarioRecord is a saved scenario with its JSON documents.
type ScenarioRecord struct {
	ID          string
	Name        string
	Currency    string
	TermsJSON   string
	ResultsJSON string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveScenario inserts or updates a scenario. Updates keep the original
// created_at.
func (s *Store) SaveScenario(ctx context.Context, record ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO scenarios (id, name, currency, terms_json, results_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			currency = excluded.currency,
			terms_json = excluded.terms_json,
			results_json = excluded.results_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Currency,
		record.TermsJSON, record.ResultsJSON,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	return nil
}

// GetScenario retrieves a scenario by ID. Returns nil when not found.
func (s *Store) GetScenario(ctx context.Context, id string) (*ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record ScenarioRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, terms_json, results_json, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.Currency, &record.TermsJSON, &record.ResultsJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &record, nil
}

// ListScenarios returns all scenarios, most recently updated first.
func (s *Store) ListScenarios(ctx context.Context) ([]ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, currency, terms_json, results_json, created_at, updated_at FROM scenarios ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ScenarioRecord
	for rows.Next() {
		var record ScenarioRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&record.ID, &record.Name, &record.Currency, &record.TermsJSON, &record.ResultsJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		record.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteScenario removes a scenario and, via the foreign key cascade,
// its strategies. Reports whether a row was deleted.
func (s *Store) DeleteScenario(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// =============================================================================
// STRATEGY STORE
// =============================================================================

// StrategyRecord is a saved prepayment strategy attached to a scenario.
type StrategyRecord struct {
	ID           string
	ScenarioID   string
	Name         string
	Enabled      bool
	StrategyJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaveStrategy inserts or updates a strategy. The scenario must exist;
// the foreign key rejects orphans.
func (s *Store) SaveStrategy(ctx context.Context, record StrategyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO strategies (id, scenario_id, name, enabled, strategy_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			enabled = excluded.enabled,
			strategy_json = excluded.strategy_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.ScenarioID, record.Name, record.Enabled,
		record.StrategyJSON, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("scenario %s does not exist: %w", record.ScenarioID, err)
		}
		return fmt.Errorf("failed to save strategy: %w", err)
	}
	return nil
}

// GetStrategiesByScenario returns all strategies for a scenario.
func (s *Store) GetStrategiesByScenario(ctx context.Context, scenarioID string) ([]StrategyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, scenario_id, name, enabled, strategy_json, created_at, updated_at FROM strategies WHERE scenario_id = ? ORDER BY created_at ASC",
		scenarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StrategyRecord
	for rows.Next() {
		var record StrategyRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&record.ID, &record.ScenarioID, &record.Name, &record.Enabled, &record.StrategyJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		record.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteStrategy removes a strategy.
func (s *Store) DeleteStrategy(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM strategies WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"strategies", "scenarios"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
