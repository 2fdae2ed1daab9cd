// Package history persists finished engagements to a SQLite database.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Garsondee/Ember-Range/internal/game"
)

// memoryDSN is the shared in-memory database used when no path is given.
const memoryDSN = "file::memory:?cache=shared"

// Engagement is one finished (or abandoned) run.
type Engagement struct {
	ID           uint      `gorm:"primarykey"`
	RunID        uuid.UUID `gorm:"type:text;uniqueIndex"`
	Source       string    `gorm:"size:32;index"` // "game" or "headless"
	Seed         int64
	Ticks        int
	Duration     float64 // simulated seconds
	Kills        int
	ShotsFired   int
	ShotsHit     int
	Bounces      int
	EnemyShots   int
	EnemyHits    int
	PlayerHealth int
	Outcome      string `gorm:"size:16;index"`
	CreatedAt    time.Time
}

// Accuracy is hits over shots, zero when nothing was fired.
func (e Engagement) Accuracy() float64 {
	if e.ShotsFired == 0 {
		return 0
	}
	return float64(e.ShotsHit) / float64(e.ShotsFired)
}

// FromSummary converts a simulation summary into a new engagement row.
func FromSummary(source string, s game.Summary) Engagement {
	return Engagement{
		RunID:        uuid.New(),
		Source:       source,
		Seed:         s.Seed,
		Ticks:        s.Ticks,
		Duration:     s.Clock,
		Kills:        s.Kills,
		ShotsFired:   s.ShotsFired,
		ShotsHit:     s.ShotsHit,
		Bounces:      s.Bounces,
		EnemyShots:   s.EnemyShots,
		EnemyHits:    s.EnemyHits,
		PlayerHealth: s.PlayerHealth,
		Outcome:      s.Outcome.String(),
	}
}

// Totals aggregates every recorded engagement.
type Totals struct {
	Runs       int64
	Victories  int64
	Defeats    int64
	Kills      int64
	ShotsFired int64
	ShotsHit   int64
}

// Store wraps the history database.
type Store struct {
	DB  *gorm.DB
	log zerolog.Logger
}

// Open connects to the SQLite file at path and migrates the schema. An
// empty path opens a shared in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&Engagement{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	if path == "" {
		log.Info().Msg("Using in-memory history DB")
	} else {
		log.Info().Str("path", path).Msg("Using history DB")
	}
	return &Store{DB: db, log: log}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Record inserts e, assigning a RunID when it has none.
func (s *Store) Record(ctx context.Context, e Engagement) (Engagement, error) {
	if e.RunID == uuid.Nil {
		e.RunID = uuid.New()
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return e, fmt.Errorf("record engagement %s: %w", e.RunID, err)
	}
	s.log.Debug().Str("run", e.RunID.String()).Str("outcome", e.Outcome).
		Int("kills", e.Kills).Msg("engagement recorded")
	return e, nil
}

// Recent returns up to n engagements, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Engagement, error) {
	var out []Engagement
	err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Limit(n).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}
	return out, nil
}

// Totals sums every recorded engagement.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.DB.WithContext(ctx).Model(&Engagement{}).
		Select(`COUNT(*) AS runs,
			COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS victories,
			COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS defeats,
			COALESCE(SUM(kills), 0) AS kills,
			COALESCE(SUM(shots_fired), 0) AS shots_fired,
			COALESCE(SUM(shots_hit), 0) AS shots_hit`,
			game.OutcomeVictory.String(), game.OutcomeDefeat.String()).
		Scan(&t).Error
	if err != nil {
		return Totals{}, fmt.Errorf("sum engagements: %w", err)
	}
	return t, nil
}
