// Package store provides board.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/linetrack/production-board/board"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	entries     map[board.ShiftKey][]board.ProductionEntry
	adjustments map[board.ShiftKey][]board.TargetAdjustment
	support     map[board.ShiftKey][]board.SupportAdjustment
}

func NewMemory() *Memory {
	return &Memory{
		entries:     make(map[board.ShiftKey][]board.ProductionEntry),
		adjustments: make(map[board.ShiftKey][]board.TargetAdjustment),
		support:     make(map[board.ShiftKey][]board.SupportAdjustment),
	}
}

func (m *Memory) LoadEntries(_ context.Context, key board.ShiftKey) ([]board.ProductionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEntries(m.entries[key]), nil
}

func (m *Memory) SaveEntries(_ context.Context, key board.ShiftKey, entries []board.ProductionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cloneEntries(entries)
	return nil
}

// AppendAdjustment is append-only: the log is never rewritten.
func (m *Memory) AppendAdjustment(_ context.Context, key board.ShiftKey, adj board.TargetAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments[key] = append(m.adjustments[key], adj)
	return nil
}

func (m *Memory) ListAdjustments(_ context.Context, key board.ShiftKey) ([]board.TargetAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]board.TargetAdjustment(nil), m.adjustments[key]...), nil
}

func (m *Memory) SaveSupportAdjustment(_ context.Context, key board.ShiftKey, sa board.SupportAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.support[key] = append(m.support[key], sa)
	return nil
}

func (m *Memory) ListSupportAdjustments(_ context.Context, key board.ShiftKey) ([]board.SupportAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]board.SupportAdjustment(nil), m.support[key]...), nil
}

func cloneEntries(entries []board.ProductionEntry) []board.ProductionEntry {
	out := make([]board.ProductionEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Causes != nil {
			causes := make([]board.CauseEntry, len(out[i].Causes))
			copy(causes, out[i].Causes)
			out[i].Causes = causes
		}
	}
	return out
}

// Compile-time interface check.
var _ board.Store = (*Memory)(nil)
