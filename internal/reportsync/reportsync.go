package reportsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"debatematch/internal/ws"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	stream       = "reports:stream"
	streamMaxLen = 10000
	readCount    = 100
	readBlock    = 2 * time.Second
)

// Publisher appends accepted reports to the Redis stream.
type Publisher struct {
	rdc *redis.Client
}

var _ ws.ReportPublisher = (*Publisher)(nil)

func NewPublisher(rdc *redis.Client) *Publisher {
	return &Publisher{rdc: rdc}
}

func (p *Publisher) Publish(ctx context.Context, rec ws.ReportRecord) error {
	return p.rdc.XAdd(ctx, xaddArgs(rec)).Err()
}

func xaddArgs(rec ws.ReportRecord) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: []string{
			"room", rec.RoomID,
			"topic", rec.Topic,
			"reporter", rec.ReporterID,
			"reported", rec.ReportedID,
			"at", strconv.FormatInt(rec.At.Unix(), 10),
		},
	}
}

// Run tails the report stream and persists every entry. Persisted entries
// are deleted from the stream.
func Run(ctx context.Context, rdc *redis.Client, db *sql.DB) {
	go func() {
		lastID := "0-0"
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			next, err := drain(ctx, rdc, db, lastID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Warn("reportsync.drain", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			lastID = next
		}
	}()
}

// drain reads one batch after lastID and returns the id to resume from.
func drain(ctx context.Context, rdc *redis.Client, db *sql.DB, lastID string) (string, error) {
	res, err := rdc.XRead(ctx, &redis.XReadArgs{
		Streams: []string{stream, lastID},
		Count:   readCount,
		Block:   readBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return lastID, nil
		}
		return lastID, err
	}
	if len(res) == 0 || len(res[0].Messages) == 0 {
		return lastID, nil
	}

	entries := res[0].Messages
	if err := persist(ctx, db, entries); err != nil {
		return lastID, fmt.Errorf("persist reports: %w", err)
	}

	ids := make([]string, len(entries))
	for i, m := range entries {
		ids[i] = m.ID
	}
	if err := rdc.XDel(ctx, stream, ids...).Err(); err != nil {
		zap.L().Warn("reportsync.xdel", zap.Error(err))
	}
	return ids[len(ids)-1], nil
}

func persist(ctx context.Context, db *sql.DB, msgs []redis.XMessage) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const ins = `INSERT INTO reports (stream_id, room_id, topic, reporter_id, reported_id, reported_at)
	             VALUES ($1, $2, $3, $4, $5, to_timestamp($6))
	             ON CONFLICT (stream_id) DO NOTHING`
	for _, m := range msgs {
		at, _ := strconv.ParseInt(field(m, "at"), 10, 64)
		if _, err := tx.ExecContext(ctx, ins, m.ID,
			field(m, "room"), field(m, "topic"), field(m, "reporter"), field(m, "reported"), at); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func field(m redis.XMessage, k string) string {
	s, _ := m.Values[k].(string)
	return s
}
