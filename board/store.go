/*
store.go - Persistence boundary for ledger snapshots

PURPOSE:
  Defines the interface between the board engine and a durable store.
  The engine itself performs no I/O: callers load a shift's entries,
  run transitions in memory, and save the resulting snapshot. Each save
  is a full replacement of the shift's entry collection - there is no
  partial mutation of a single row.

  The adjustment log is APPEND-ONLY: corrections are displayed and
  audited, never edited or deleted. Support-staffing snapshots are
  likewise written once per application.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - board/store:  in-memory store for tests and dev
*/
package board

import "context"

// Store persists ledger snapshots, the adjustment audit log, and support
// staffing snapshots, keyed by shift.
type Store interface {
	// LoadEntries returns the shift's entries in stored order. An unknown
	// key yields an empty slice, not an error: hours are synthesized on
	// first read.
	LoadEntries(ctx context.Context, key ShiftKey) ([]ProductionEntry, error)

	// SaveEntries replaces the shift's entry collection with the snapshot.
	SaveEntries(ctx context.Context, key ShiftKey, entries []ProductionEntry) error

	// AppendAdjustment adds a correction to the append-only audit log.
	AppendAdjustment(ctx context.Context, key ShiftKey, adj TargetAdjustment) error

	// ListAdjustments returns the audit log in application order.
	ListAdjustments(ctx context.Context, key ShiftKey) ([]TargetAdjustment, error)

	// SaveSupportAdjustment records a support staffing snapshot.
	SaveSupportAdjustment(ctx context.Context, key ShiftKey, sa SupportAdjustment) error

	// ListSupportAdjustments returns support snapshots in application order.
	ListSupportAdjustments(ctx context.Context, key ShiftKey) ([]SupportAdjustment, error)
}
