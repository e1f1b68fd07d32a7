package topicsync

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"debatematch/internal/services/topics"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	interval  = 10 * time.Second
	batchSize = 200
)

// Run mirrors the Redis topic counters into Postgres every 10 s. Only topics
// touched since the previous pass are written.
func Run(ctx context.Context, rdc *redis.Client, db *sql.DB) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				if _, err := syncOnce(ctx, rdc, db); err != nil {
					zap.L().Warn("topicsync.pass", zap.Error(err))
				}
			}
		}
	}()
}

// syncOnce returns how many topics were written.
func syncOnce(ctx context.Context, rdc *redis.Client, db *sql.DB) (int, error) {
	names, err := rdc.SPopN(ctx, topics.DirtyKey, batchSize).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	// 1. counters and statuses in one pipelined round-trip
	pipe := rdc.Pipeline()
	counts := make([]*redis.StringCmd, len(names))
	statuses := make([]*redis.StringCmd, len(names))
	for i, n := range names {
		counts[i] = pipe.HGet(ctx, topics.CountsKey, n)
		statuses[i] = pipe.HGet(ctx, topics.StatusKey, n)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		requeue(ctx, rdc, names)
		return 0, err
	}

	// 2. upsert
	const upsert = `
	INSERT INTO topics (name, suggestion_count, status, updated_at)
	     VALUES ($1, $2, $3, now())
	ON CONFLICT (name) DO UPDATE
	       SET suggestion_count = EXCLUDED.suggestion_count,
	           status           = EXCLUDED.status,
	           updated_at       = EXCLUDED.updated_at`

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		requeue(ctx, rdc, names)
		return 0, err
	}
	defer tx.Rollback()

	written := 0
	for i, n := range names {
		raw, err := counts[i].Result()
		if err != nil {
			continue // counter vanished (key flushed)
		}
		count, _ := strconv.ParseInt(raw, 10, 64)
		status := statuses[i].Val()
		if status == "" {
			status = topics.StatusNormal
		}
		if _, err := tx.ExecContext(ctx, upsert, n, count, status); err != nil {
			requeue(ctx, rdc, names)
			return 0, err
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		requeue(ctx, rdc, names)
		return 0, err
	}
	zap.L().Debug("topicsync.synced", zap.Int("topics", written))
	return written, nil
}

// requeue marks topics dirty again so the next pass retries them.
func requeue(ctx context.Context, rdc *redis.Client, names []string) {
	if err := rdc.SAdd(ctx, topics.DirtyKey, lo.ToAnySlice(names)...).Err(); err != nil {
		zap.L().Error("topicsync.requeue", zap.Error(err))
	}
}
