package worker

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	StatsBatchSize    = 50
	StatsBatchTimeout = 2 * time.Second
	StatsPollTimeout  = 1 * time.Second
	statsDrainTimeout = 5 * time.Second

	// StatsMaxAttempts bounds refreshes of one user before the id is dropped.
	// A dropped user's stats are recomputed on the next read.
	StatsMaxAttempts = 3
)

// StatsRefresher recomputes and caches a user's aggregate.
type StatsRefresher interface {
	RefreshUserStats(ctx context.Context, userID int) (*model.UserStats, error)
}

// StatsRefreshWorker consumes user ids from the refresh queue and rebuilds
// their cached statistics in batches.
type StatsRefreshWorker struct {
	refresher StatsRefresher
	rdb       *redis.Client
	log       zerolog.Logger

	// failures counts consecutive failed refreshes per user. Only the Start
	// goroutine touches it.
	failures map[int]int
	requeue  func(ctx context.Context, userID int) error
}

func NewStatsRefreshWorker(refresher StatsRefresher, rdb *redis.Client, log zerolog.Logger) *StatsRefreshWorker {
	w := &StatsRefreshWorker{
		refresher: refresher,
		rdb:       rdb,
		log:       log.With().Str("component", "stats_refresh_worker").Logger(),
		failures:  make(map[int]int),
	}
	w.requeue = w.pushBack
	return w
}

func (w *StatsRefreshWorker) pushBack(ctx context.Context, userID int) error {
	return w.rdb.RPush(ctx, config.WorkerKey.RefreshStatsQueue, userID).Err()
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then drains the pending batch.
func (w *StatsRefreshWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsRefreshWorker started")

	batch := make([]int, 0, StatsBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= StatsBatchSize || time.Since(lastFlush) >= StatsBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			drainCtx, cancel := context.WithTimeout(context.Background(), statsDrainTimeout)
			w.flushSafe(drainCtx, batch)
			cancel()
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.RefreshStatsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(StatsPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			userID, err := strconv.Atoi(item[1])
			if err != nil || userID <= 0 {
				w.log.Error().Str("payload", item[1]).Msg("Invalid user id payload")
				continue
			}

			batch = append(batch, userID)
		}
	}
}

// ----------------------------------------------------------------
// Batch refresh with requeue fallback
// ----------------------------------------------------------------

func (w *StatsRefreshWorker) flushSafe(ctx context.Context, batch []int) {
	if len(batch) == 0 {
		return
	}

	ids := dedupeUserIDs(batch)
	failed, dropped := 0, 0
	for _, id := range ids {
		if _, err := w.refresher.RefreshUserStats(ctx, id); err != nil {
			failed++
			w.failures[id]++
			if w.failures[id] >= StatsMaxAttempts {
				dropped++
				delete(w.failures, id)
				w.log.Error().Err(err).Int("user_id", id).Int("attempts", StatsMaxAttempts).Msg("Stats refresh failed, dropping")
				continue
			}
			w.log.Error().Err(err).Int("user_id", id).Int("attempt", w.failures[id]).Msg("Stats refresh failed, requeueing")
			if err := w.requeue(context.Background(), id); err != nil {
				w.log.Error().Err(err).Int("user_id", id).Msg("Requeue failed")
			}
			continue
		}
		delete(w.failures, id)
	}

	w.log.Debug().
		Int("received", len(batch)).
		Int("users", len(ids)).
		Int("failed", failed).
		Int("dropped", dropped).
		Msg("Stats batch flushed")
}

// dedupeUserIDs returns each id once, keeping first-seen order.
func dedupeUserIDs(batch []int) []int {
	seen := make(map[int]struct{}, len(batch))
	out := make([]int, 0, len(batch))
	for _, id := range batch {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
