package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushlab/push-analytics/internal/database"
	"github.com/pushlab/push-analytics/internal/store"
)

const healthCheckTimeout = 10 * time.Second

// HealthCheckJob pings the database and logs row counts so a stalled
// data pipeline shows up in the logs before customers notice.
type HealthCheckJob struct {
	db    *database.DB
	store store.CustomerStore
	log   zerolog.Logger
}

func NewHealthCheckJob(db *database.DB, st store.CustomerStore, log zerolog.Logger) *HealthCheckJob {
	return &HealthCheckJob{
		db:    db,
		store: st,
		log:   log.With().Str("job", "health_check").Logger(),
	}
}

func (j *HealthCheckJob) Name() string { return "health_check" }

func (j *HealthCheckJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if j.db != nil {
		if err := j.db.Ping(ctx); err != nil {
			j.log.Error().Err(err).Msg("database ping failed")
			return err
		}
	}

	if counter, ok := j.store.(store.Counter); ok {
		counts, err := counter.Counts(ctx)
		if err != nil {
			j.log.Error().Err(err).Msg("row counts failed")
			return err
		}
		j.log.Info().
			Int64("clients", counts.Clients).
			Int64("transactions", counts.Transactions).
			Int64("transfers", counts.Transfers).
			Msg("store healthy")
	}

	return nil
}
