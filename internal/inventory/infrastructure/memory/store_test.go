package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/core/internal/inventory/domain"
	"github.com/orderflow/core/internal/inventory/infrastructure/memory"
)

func TestReserveDecrements(t *testing.T) {
	store := memory.NewStore(map[string]int64{"P1": 50})

	remaining, err := store.Reserve(context.Background(), "P1", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(30), remaining)
}

func TestReserveUnknownProduct(t *testing.T) {
	store := memory.NewStore(nil)

	_, err := store.Reserve(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestReserveNeverOverdraws(t *testing.T) {
	store := memory.NewStore(map[string]int64{"P1": 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, failures := 0, 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Reserve(context.Background(), "P1", 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, successes)
	assert.Equal(t, 50, failures)

	final, err := store.Get(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), final)
}

func TestSetOverwrites(t *testing.T) {
	store := memory.NewStore(map[string]int64{"P1": 5})

	require.NoError(t, store.Set(context.Background(), "P1", 100))
	qty, err := store.Get(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), qty)

	assert.ErrorIs(t, store.Set(context.Background(), "missing", 1), domain.ErrProductNotFound)
}
