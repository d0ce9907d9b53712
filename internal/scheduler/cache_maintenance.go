package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/database"
)

// WALFramesThreshold is the WAL size, in frames, above which the job
// truncates the WAL.
const WALFramesThreshold = 1000

// CacheMaintenanceJob checks the cache database and keeps its WAL small
type CacheMaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCacheMaintenanceJob creates a new CacheMaintenanceJob
func NewCacheMaintenanceJob(db *database.DB, log zerolog.Logger) *CacheMaintenanceJob {
	return &CacheMaintenanceJob{
		db:  db,
		log: log.With().Str("job", "cache_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *CacheMaintenanceJob) Name() string {
	return "cache_maintenance"
}

// Run pings the database, reads the WAL status and truncates the WAL when it
// has grown past WALFramesThreshold.
func (j *CacheMaintenanceJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("%s database is unreachable: %w", j.db.Name(), err)
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, frames, checkpointed int
	err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		return fmt.Errorf("failed to check WAL checkpoint for %s: %w", j.db.Name(), err)
	}

	if frames <= WALFramesThreshold {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", frames).
			Msg("WAL checkpoint status OK")
		return nil
	}

	j.log.Warn().
		Str("database", j.db.Name()).
		Int("wal_frames", frames).
		Int("checkpointed", checkpointed).
		Msg("WAL file is large, truncating")

	return j.db.WALCheckpoint("TRUNCATE")
}
