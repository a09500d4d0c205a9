/*
Package sqlite provides a SQLite-backed implementation of board.Store.

PURPOSE:
  Persists shift snapshots, the target-adjustment audit log, and support
  staffing records. In production, the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

SNAPSHOT SEMANTICS:
  SaveEntries is a full replacement of one shift's rows, mirroring the
  engine's snapshot model: the caller ran transitions in memory and the
  result replaces whatever was stored. Causes and the applied-adjustment
  reference ride along as JSON columns.

APPEND-ONLY ENFORCEMENT:
  target_adjustments has no UPDATE or DELETE path; the audit log only
  grows. Same for support_adjustments.

KEY TABLES:
  production_entries:  One row per hour slot of a shift
  target_adjustments:  Append-only correction audit log
  support_adjustments: Support staffing records

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/board.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - board/store.go: Interface definition
  - board/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/linetrack/production-board/board"
)

// Store implements board.Store using SQLite.
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
	-- One row per hour slot of a shift. Saved as a full snapshot replace.
	CREATE TABLE IF NOT EXISTS production_entries (
		id TEXT NOT NULL,
		shift_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		hour TEXT NOT NULL,
		real_head_count INTEGER,
		additional_hc INTEGER,
		programmed_stop TEXT NOT NULL,
		available_time INTEGER NOT NULL,
		work_order TEXT NOT NULL DEFAULT '',
		part_number TEXT NOT NULL DEFAULT '',
		hourly_target INTEGER NOT NULL,
		daily_production INTEGER,
		downtime INTEGER NOT NULL,
		causes_json TEXT,
		registered_at TEXT NOT NULL,
		adjustment_json TEXT,
		adjustment_factor TEXT NOT NULL DEFAULT '1',
		is_overtime INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (shift_key, id)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_shift_position
		ON production_entries(shift_key, position);

	-- Append-only correction audit log. No UPDATE, no DELETE.
	CREATE TABLE IF NOT EXISTS target_adjustments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		shift_key TEXT NOT NULL,
		factor_type TEXT NOT NULL,
		description TEXT NOT NULL,
		percentage TEXT NOT NULL,
		scope TEXT NOT NULL,
		hour TEXT NOT NULL DEFAULT '',
		applied_by TEXT NOT NULL DEFAULT '',
		applied_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_shift
		ON target_adjustments(shift_key, seq);

	-- Support staffing records, also append-only.
	CREATE TABLE IF NOT EXISTS support_adjustments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		shift_key TEXT NOT NULL,
		shift TEXT NOT NULL,
		positions_json TEXT NOT NULL,
		applied_by TEXT NOT NULL DEFAULT '',
		applied_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_support_shift
		ON support_adjustments(shift_key, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRIES
// =============================================================================

func (s *Store) LoadEntries(ctx context.Context, key board.ShiftKey) ([]board.ProductionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hour, real_head_count, additional_hc, programmed_stop,
		       available_time, work_order, part_number, hourly_target,
		       daily_production, downtime, causes_json, registered_at,
		       adjustment_json, adjustment_factor, is_overtime
		FROM production_entries
		WHERE shift_key = ?
		ORDER BY position`, string(key))
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []board.ProductionEntry
	for rows.Next() {
		var (
			e              board.ProductionEntry
			id             string
			headCount      sql.NullInt64
			additional     sql.NullInt64
			production     sql.NullInt64
			causesJSON     sql.NullString
			registeredAt   string
			adjustmentJSON sql.NullString
			factor         string
			overtime       int
		)
		if err := rows.Scan(&id, &e.Hour, &headCount, &additional, &e.ProgrammedStop,
			&e.AvailableTime, &e.WorkOrder, &e.PartNumber, &e.HourlyTarget,
			&production, &e.Downtime, &causesJSON, &registeredAt,
			&adjustmentJSON, &factor, &overtime); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		e.ID = board.EntryID(id)
		e.RealHeadCount = nullableInt(headCount)
		e.AdditionalHC = nullableInt(additional)
		e.DailyProduction = nullableInt(production)
		e.IsOvertime = overtime != 0

		if causesJSON.Valid && causesJSON.String != "" {
			if err := json.Unmarshal([]byte(causesJSON.String), &e.Causes); err != nil {
				return nil, fmt.Errorf("decode causes for %s: %w", id, err)
			}
		}
		if adjustmentJSON.Valid && adjustmentJSON.String != "" {
			var adj board.TargetAdjustment
			if err := json.Unmarshal([]byte(adjustmentJSON.String), &adj); err != nil {
				return nil, fmt.Errorf("decode adjustment for %s: %w", id, err)
			}
			e.TargetAdjustment = &adj
		}
		if e.AdjustmentFactor, err = decimal.NewFromString(factor); err != nil {
			return nil, fmt.Errorf("decode adjustment factor for %s: %w", id, err)
		}
		if e.RegisteredAt, err = time.Parse(time.RFC3339Nano, registeredAt); err != nil {
			return nil, fmt.Errorf("decode registered_at for %s: %w", id, err)
		}

		// Delta is derived; recompute instead of trusting the stored row.
		board.RecomputeDerived(&e)

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) SaveEntries(ctx context.Context, key board.ShiftKey, entries []board.ProductionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM production_entries WHERE shift_key = ?`, string(key)); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO production_entries (
			id, shift_key, position, hour, real_head_count, additional_hc,
			programmed_stop, available_time, work_order, part_number,
			hourly_target, daily_production, downtime, causes_json,
			registered_at, adjustment_json, adjustment_factor, is_overtime
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var causesJSON any
		if len(e.Causes) > 0 {
			b, err := json.Marshal(e.Causes)
			if err != nil {
				return fmt.Errorf("encode causes for %s: %w", e.ID, err)
			}
			causesJSON = string(b)
		}
		var adjustmentJSON any
		if e.TargetAdjustment != nil {
			b, err := json.Marshal(e.TargetAdjustment)
			if err != nil {
				return fmt.Errorf("encode adjustment for %s: %w", e.ID, err)
			}
			adjustmentJSON = string(b)
		}
		factor := "1"
		if !e.AdjustmentFactor.IsZero() {
			factor = e.AdjustmentFactor.String()
		}

		if _, err := stmt.ExecContext(ctx,
			string(e.ID), string(key), i, e.Hour,
			nullableArg(e.RealHeadCount), nullableArg(e.AdditionalHC),
			e.ProgrammedStop, e.AvailableTime, e.WorkOrder, e.PartNumber,
			e.HourlyTarget, nullableArg(e.DailyProduction), e.Downtime,
			causesJSON, e.RegisteredAt.Format(time.RFC3339Nano),
			adjustmentJSON, factor, boolToInt(e.IsOvertime),
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// TARGET ADJUSTMENT LOG (append-only)
// =============================================================================

func (s *Store) AppendAdjustment(ctx context.Context, key board.ShiftKey, adj board.TargetAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO target_adjustments (
			id, shift_key, factor_type, description, percentage, scope,
			hour, applied_by, applied_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		adj.ID, string(key), adj.FactorType, adj.Description,
		adj.Percentage.String(), string(adj.Scope), adj.Hour,
		adj.AppliedBy, adj.AppliedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append adjustment: %w", err)
	}
	return nil
}

func (s *Store) ListAdjustments(ctx context.Context, key board.ShiftKey) ([]board.TargetAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, factor_type, description, percentage, scope, hour,
		       applied_by, applied_at
		FROM target_adjustments
		WHERE shift_key = ?
		ORDER BY seq`, string(key))
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []board.TargetAdjustment
	for rows.Next() {
		var (
			adj        board.TargetAdjustment
			percentage string
			scope      string
			appliedAt  string
		)
		if err := rows.Scan(&adj.ID, &adj.FactorType, &adj.Description,
			&percentage, &scope, &adj.Hour, &adj.AppliedBy, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		if adj.Percentage, err = decimal.NewFromString(percentage); err != nil {
			return nil, fmt.Errorf("decode percentage: %w", err)
		}
		adj.Scope = board.AdjustmentScope(scope)
		if adj.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt); err != nil {
			return nil, fmt.Errorf("decode applied_at: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// SUPPORT ADJUSTMENTS
// =============================================================================

func (s *Store) SaveSupportAdjustment(ctx context.Context, key board.ShiftKey, sa board.SupportAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions, err := json.Marshal(sa.Positions)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO support_adjustments (
			id, shift_key, shift, positions_json, applied_by, applied_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		sa.ID, string(key), sa.Shift, string(positions),
		sa.AppliedBy, sa.AppliedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save support adjustment: %w", err)
	}
	return nil
}

func (s *Store) ListSupportAdjustments(ctx context.Context, key board.ShiftKey) ([]board.SupportAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shift, positions_json, applied_by, applied_at
		FROM support_adjustments
		WHERE shift_key = ?
		ORDER BY seq`, string(key))
	if err != nil {
		return nil, fmt.Errorf("list support adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []board.SupportAdjustment
	for rows.Next() {
		var (
			sa        board.SupportAdjustment
			positions string
			appliedAt string
		)
		if err := rows.Scan(&sa.ID, &sa.Shift, &positions, &sa.AppliedBy, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan support adjustment: %w", err)
		}
		if err := json.Unmarshal([]byte(positions), &sa.Positions); err != nil {
			return nil, fmt.Errorf("decode positions: %w", err)
		}
		if sa.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt); err != nil {
			return nil, fmt.Errorf("decode applied_at: %w", err)
		}
		adjustments = append(adjustments, sa)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time interface check.
var _ board.Store = (*Store)(nil)
