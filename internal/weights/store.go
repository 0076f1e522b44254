// Package weights holds the live agent weight table. Batches take one
// immutable snapshot for their whole run; the calibration service is the
// only writer and swaps whole versioned tables.
package weights

import (
	"sync"
	"time"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// Source provides read access to the current weight table
type Source interface {
	Snapshot() *models.WeightTable
}

// Store is the in-memory weight table with single-writer swap semantics
type Store struct {
	mu      sync.RWMutex
	current *models.WeightTable
}

// NewStore creates a store seeded with the given table
func NewStore(initial *models.WeightTable) *Store {
	if initial == nil {
		initial = models.NewWeightTable(nil)
	}
	return &Store{current: initial.Clone()}
}

// NewStoreFromStatic seeds a store from configured static weights, filling
// unnamed agents with the default weight.
func NewStoreFromStatic(agents []string, static map[string]float64) *Store {
	table := models.NewWeightTable(agents)
	for agent, w := range static {
		table.Weights[agent] = w
	}
	table.UpdatedAt = time.Now().UTC()
	return &Store{current: table}
}

// Snapshot returns a deep copy of the current table. Callers hold it for a
// whole batch; later swaps never touch it.
func (s *Store) Snapshot() *models.WeightTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Replace atomically swaps in a new table
func (s *Store) Replace(table *models.WeightTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = table.Clone()
}

// Version returns the current table version
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Version
}
