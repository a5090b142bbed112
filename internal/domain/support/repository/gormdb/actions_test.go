package gormdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
)

func TestActionStatRepository_ConcurrentIncrements(t *testing.T) {
	repo := NewActionStatRepository(newTestDB(t))
	ctx := context.Background()

	// K concurrent increments of the same (kind, day) counter must not
	// lose a single one
	const k = 20
	var wg sync.WaitGroup
	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, consts.ActionUserMessage)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	totals, err := repo.SumAllTime(ctx)
	require.NoError(t, err)
	require.EqualValues(t, k, totals[consts.ActionUserMessage])
}

func TestActionStatRepository_SumRange(t *testing.T) {
	repo := NewActionStatRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, consts.ActionNewUser))
	require.NoError(t, repo.Increment(ctx, consts.ActionUserMessage))
	require.NoError(t, repo.Increment(ctx, consts.ActionUserMessage))

	today := time.Now().UTC()
	totals, err := repo.SumRange(ctx, today.Add(-24*time.Hour), today)
	require.NoError(t, err)
	require.EqualValues(t, 1, totals[consts.ActionNewUser])
	require.EqualValues(t, 2, totals[consts.ActionUserMessage])

	// A window in the past sees nothing
	past, err := repo.SumRange(ctx, today.Add(-72*time.Hour), today.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Empty(t, past)
}
