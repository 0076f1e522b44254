package weights

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStoreFromStatic([]string{"efficiency", "matchup"}, map[string]float64{"efficiency": 1.4})

	snap := store.Snapshot()
	require.Equal(t, 1.4, snap.Get("efficiency"))
	require.Equal(t, models.DefaultWeight, snap.Get("matchup"))

	// Mutating a snapshot must not leak back into the store
	snap.Weights["efficiency"] = 0.1
	assert.Equal(t, 1.4, store.Snapshot().Get("efficiency"))
}

func TestStoreReplaceSwapsWholeTable(t *testing.T) {
	store := NewStoreFromStatic([]string{"efficiency"}, nil)
	before := store.Snapshot()

	next := before.Clone()
	next.Version = before.Version + 1
	next.Weights["efficiency"] = 1.8
	next.UpdatedAt = time.Now().UTC()
	store.Replace(next)

	assert.Equal(t, before.Version+1, store.Version())
	assert.Equal(t, 1.8, store.Snapshot().Get("efficiency"))
	// The snapshot taken before the swap keeps its values
	assert.Equal(t, models.DefaultWeight, before.Get("efficiency"))
}

func TestStoreConcurrentReadersOneWriter(t *testing.T) {
	store := NewStoreFromStatic([]string{"efficiency"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := store.Snapshot()
				w := snap.Get("efficiency")
				assert.GreaterOrEqual(t, w, models.MinAgentWeight)
				assert.LessOrEqual(t, w, models.MaxAgentWeight)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			next := store.Snapshot()
			next.Version++
			next.Weights["efficiency"] = 1.0 + float64(j%3)*0.25
			store.Replace(next)
		}
	}()

	wg.Wait()
}
