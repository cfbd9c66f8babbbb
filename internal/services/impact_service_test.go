package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolo017/eco-sawa/internal/utils"
)

func TestImpactService_RecordCompletion(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_impact_record", "impact")
	svc := NewImpactService(db)
	ctx := context.Background()

	day := "2025-08-30"
	require.NoError(t, svc.RecordCompletion(ctx, day, 5))
	require.NoError(t, svc.RecordCompletion(ctx, day, 3))

	entry, err := svc.ImpactForDay(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 8.0, entry.TotalKg)
	assert.Equal(t, int64(2), entry.Pickups)

	// A completion on the next day starts a fresh entry
	nextDay := "2025-08-31"
	require.NoError(t, svc.RecordCompletion(ctx, nextDay, 2))

	fresh, err := svc.ImpactForDay(ctx, nextDay)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fresh.TotalKg)
	assert.Equal(t, int64(1), fresh.Pickups)

	// Prior day untouched
	entry, err = svc.ImpactForDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 8.0, entry.TotalKg)
	assert.Equal(t, int64(2), entry.Pickups)
}

func TestImpactService_RejectsNegativeQuantity(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_impact_negative", "impact")
	svc := NewImpactService(db)

	err := svc.RecordCompletion(context.Background(), "2025-08-30", -1)
	assert.True(t, IsValidation(err))
}

func TestImpactService_CurrentImpactEmpty(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_impact_empty", "impact")
	svc := NewImpactService(db)

	impact, err := svc.CurrentImpact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, impact.TotalKg)
	assert.Equal(t, int64(0), impact.PickupsToday)
}

func TestImpactService_ConcurrentFirstCompletionOfDay(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_impact_concurrent", "impact")
	svc := NewImpactService(db)
	ctx := context.Background()

	day := "2025-09-01"
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordCompletion(ctx, day, 1))
		}()
	}
	wg.Wait()

	entry, err := svc.ImpactForDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, float64(n), entry.TotalKg)
	assert.Equal(t, int64(n), entry.Pickups)
}

func TestDayKey(t *testing.T) {
	// The ledger is keyed by UTC date regardless of local zone
	loc := time.FixedZone("UTC+3", 3*3600)
	atMidnightLocal := time.Date(2025, 9, 1, 1, 0, 0, 0, loc) // 22:00 UTC prior day
	assert.Equal(t, "2025-08-31", DayKey(atMidnightLocal))
	assert.Equal(t, "2025-09-01", DayKey(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)))
}
