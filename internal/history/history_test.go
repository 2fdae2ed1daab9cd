package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Ember-Range/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFromSummary(t *testing.T) {
	e := FromSummary("headless", game.Summary{
		Seed: 7, Ticks: 600, Clock: 10, Kills: 3,
		ShotsFired: 12, ShotsHit: 6, Bounces: 2,
		EnemyShots: 20, EnemyHits: 5, PlayerHealth: 0,
		Outcome: game.OutcomeDefeat,
	})

	assert.NotEqual(t, uuid.Nil, e.RunID)
	assert.Equal(t, "headless", e.Source)
	assert.Equal(t, int64(7), e.Seed)
	assert.Equal(t, 10.0, e.Duration)
	assert.Equal(t, "defeat", e.Outcome)
	assert.InDelta(t, 0.5, e.Accuracy(), 1e-9)
	assert.Zero(t, Engagement{}.Accuracy())
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, Engagement{Seed: int64(i), Outcome: "victory", Kills: 5})
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Seed, "newest first")
	assert.Equal(t, int64(1), got[1].Seed)
	assert.NotEqual(t, uuid.Nil, got[0].RunID, "RunID assigned on record")
	assert.NotEqual(t, got[0].RunID, got[1].RunID)
}

func TestRecord_DuplicateRunIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := s.Record(ctx, Engagement{RunID: id, Outcome: "victory"})
	require.NoError(t, err)
	_, err = s.Record(ctx, Engagement{RunID: id, Outcome: "defeat"})
	require.Error(t, err)
}

func TestTotals(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, empty)

	rows := []Engagement{
		{Outcome: "victory", Kills: 5, ShotsFired: 20, ShotsHit: 10},
		{Outcome: "defeat", Kills: 2, ShotsFired: 15, ShotsHit: 4},
		{Outcome: "ongoing", Kills: 1, ShotsFired: 3, ShotsHit: 1},
	}
	for _, r := range rows {
		_, err := s.Record(ctx, r)
		require.NoError(t, err)
	}

	tot, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{Runs: 3, Victories: 1, Defeats: 1, Kills: 8, ShotsFired: 38, ShotsHit: 15}, tot)
}

func TestRecordHeadlessEngagement(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts := game.NewTestSim(game.WithSeed(3), game.WithEnemyAt(20, 0))
	ts.RunTicks(60)

	rec, err := s.Record(ctx, FromSummary("headless", ts.Summary()))
	require.NoError(t, err)

	got, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.RunID, got[0].RunID)
	assert.Equal(t, 60, got[0].Ticks)
	assert.Equal(t, "ongoing", got[0].Outcome)
}
