package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrQueueEmpty    = errors.New("no directory task ready")
	ErrMalformedTask = errors.New("malformed directory task")
)

// Queue is a reliable Redis work queue. A reserved task sits in the
// processing list until it is acked, rescheduled or buried, so a crashed
// worker never loses it.
type Queue struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewQueue(rdb redis.UniversalClient, prefix string) *Queue {
	return &Queue{rdb: rdb, prefix: prefix}
}

func (q *Queue) pendingKey() string    { return q.prefix + ":pending" }
func (q *Queue) processingKey() string { return q.prefix + ":processing" }
func (q *Queue) retryKey() string      { return q.prefix + ":retry" }
func (q *Queue) deadKey() string       { return q.prefix + ":dead" }

// Reservation is a task taken off the pending list. Raw is the exact payload
// stored in the processing list.
type Reservation struct {
	Task Task
	Raw  string
}

func (q *Queue) Enqueue(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}
	return q.rdb.LPush(ctx, q.pendingKey(), values...).Err()
}

// Reserve blocks up to timeout for the oldest pending task.
func (q *Queue) Reserve(ctx context.Context, timeout time.Duration) (*Reservation, error) {
	raw, err := q.rdb.BRPopLPush(ctx, q.pendingKey(), q.processingKey(), timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}

	var t Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil || t.Op == "" {
		if buryErr := q.moveToDead(ctx, raw, raw); buryErr != nil {
			return nil, buryErr
		}
		return nil, fmt.Errorf("%w: %q", ErrMalformedTask, raw)
	}
	return &Reservation{Task: t, Raw: raw}, nil
}

func (q *Queue) Ack(ctx context.Context, r *Reservation) error {
	return q.rdb.LRem(ctx, q.processingKey(), 1, r.Raw).Err()
}

// Retry takes the reservation out of processing and schedules t to run at at.
func (q *Queue) Retry(ctx context.Context, r *Reservation, t Task, at time.Time) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processingKey(), 1, r.Raw)
		pipe.ZAdd(ctx, q.retryKey(), redis.Z{Score: float64(at.UnixMilli()), Member: string(b)})
		return nil
	})
	return err
}

// Bury moves the reservation to the dead-letter list with t's final state.
func (q *Queue) Bury(ctx context.Context, r *Reservation, t Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return q.moveToDead(ctx, r.Raw, string(b))
}

func (q *Queue) moveToDead(ctx context.Context, raw, payload string) error {
	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processingKey(), 1, raw)
		pipe.LPush(ctx, q.deadKey(), payload)
		return nil
	})
	return err
}

// PromoteDue moves retries whose time has come back to the pending list.
// ZRem guards against two workers promoting the same member.
func (q *Queue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := q.rdb.ZRangeByScore(ctx, q.retryKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, member := range due {
		removed, err := q.rdb.ZRem(ctx, q.retryKey(), member).Result()
		if err != nil {
			return promoted, err
		}
		if removed != 1 {
			continue
		}
		if err := q.rdb.LPush(ctx, q.pendingKey(), member).Err(); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

// RecoverProcessing returns tasks left in the processing list by a worker
// that stopped mid-task. Only call it when no other worker is running.
func (q *Queue) RecoverProcessing(ctx context.Context) (int, error) {
	n := 0
	for {
		err := q.rdb.RPopLPush(ctx, q.processingKey(), q.pendingKey()).Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Stats reports the queue depth per list.
type Stats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Retrying   int64 `json:"retrying"`
	Dead       int64 `json:"dead"`
}

func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	var (
		pending, processing, dead *redis.IntCmd
		retrying                  *redis.IntCmd
	)
	_, err := q.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pending = pipe.LLen(ctx, q.pendingKey())
		processing = pipe.LLen(ctx, q.processingKey())
		retrying = pipe.ZCard(ctx, q.retryKey())
		dead = pipe.LLen(ctx, q.deadKey())
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		Retrying:   retrying.Val(),
		Dead:       dead.Val(),
	}, nil
}
