package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solomio312/ManuX/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	s, err := NewStore(t.TempDir(), log)
	require.NoError(t, err)
	return s
}

func sampleResult(months int) (*domain.PlanParameters, *domain.SimulationResult) {
	params := &domain.PlanParameters{
		InitialCapital:    decimal.NewFromInt(10000),
		AnnualRatePercent: decimal.NewFromInt(7),
		Compounding:       domain.CompoundMonthly,
		HorizonYears:      months / 12,
		StartMonth:        time.January,
		StartYear:         2026,
	}
	res := &domain.SimulationResult{
		FinalBalance: decimal.NewFromInt(99999),
	}
	for m := 1; m <= months; m++ {
		res.History = append(res.History, domain.MonthRecord{
			Index:   m,
			Balance: decimal.NewFromInt(int64(10000 + m)),
		})
	}
	return params, res
}

func TestSaveScenario_DecimatesToYearlyRecords(t *testing.T) {
	s := testStore(t)
	params, res := sampleResult(60)

	require.NoError(t, s.SaveScenario("base case", params, res))

	snapshots, err := s.LoadScenarios()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	snap := snapshots[0]
	assert.Equal(t, "base case", snap.Name)
	assert.True(t, snap.FinalBalance.Equal(decimal.NewFromInt(99999)))
	assert.False(t, snap.SavedAt.IsZero())

	require.Len(t, snap.History, 5)
	for i, rec := range snap.History {
		assert.Equal(t, (i+1)*12, rec.Index)
	}
}

func TestSaveScenario_RequiresName(t *testing.T) {
	s := testStore(t)
	params, res := sampleResult(12)
	assert.Error(t, s.SaveScenario("", params, res))
}

func TestLoadScenarios_EmptyWhenNoFile(t *testing.T) {
	s := testStore(t)
	snapshots, err := s.LoadScenarios()
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestSaveScenario_AppendsInOrder(t *testing.T) {
	s := testStore(t)
	params, res := sampleResult(24)

	require.NoError(t, s.SaveScenario("first", params, res))
	require.NoError(t, s.SaveScenario("second", params, res))
	require.NoError(t, s.SaveScenario("third", params, res))

	snapshots, err := s.LoadScenarios()
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "first", snapshots[0].Name)
	assert.Equal(t, "second", snapshots[1].Name)
	assert.Equal(t, "third", snapshots[2].Name)
}

func TestDeleteScenario(t *testing.T) {
	s := testStore(t)
	params, res := sampleResult(24)

	require.NoError(t, s.SaveScenario("keep-a", params, res))
	require.NoError(t, s.SaveScenario("drop", params, res))
	require.NoError(t, s.SaveScenario("keep-b", params, res))

	require.NoError(t, s.DeleteScenario(1))

	snapshots, err := s.LoadScenarios()
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "keep-a", snapshots[0].Name)
	assert.Equal(t, "keep-b", snapshots[1].Name)

	assert.Error(t, s.DeleteScenario(5))
	assert.Error(t, s.DeleteScenario(-1))
}

func TestPositionsRoundTrip(t *testing.T) {
	s := testStore(t)

	// Missing file reads as an empty book.
	positions, err := s.LoadPositions()
	require.NoError(t, err)
	assert.Empty(t, positions)

	want := []domain.HeldPosition{
		{Ticker: "VWCE.DE", Shares: decimal.NewFromInt(30), AvgCost: decimal.NewFromFloat(98.5)},
		{Ticker: "O", Shares: decimal.NewFromInt(20), AvgCost: decimal.NewFromInt(52)},
	}
	require.NoError(t, s.SavePositions(want))

	got, err := s.LoadPositions()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "VWCE.DE", got[0].Ticker)
	assert.Equal(t, "O", got[1].Ticker)
	assert.True(t, got[0].Shares.Equal(want[0].Shares))
	assert.True(t, got[1].AvgCost.Equal(want[1].AvgCost))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	dir := t.TempDir()
	s, err := NewStore(dir, log)
	require.NoError(t, err)

	require.NoError(t, s.SavePositions([]domain.HeldPosition{{Ticker: "AAA", Shares: decimal.NewFromInt(1)}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, positionsFile, entries[0].Name())

	_, err = os.Stat(filepath.Join(dir, positionsFile))
	assert.NoError(t, err)
}
