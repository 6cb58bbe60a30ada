// cmd/reaper/main.go is an asynchronous worker that drains move events from a
// Redis queue into the move_events audit table and periodically prunes
// completed games from the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/tictacgo/tictacgo/internal/cache"
	"github.com/tictacgo/tictacgo/internal/database"
)

// ReaperService encapsulates the Redis + DB logic for archiving move
// events and bulk-deleting finished games on an interval.
type ReaperService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration
	pruneEvery  time.Duration

	batchMu  sync.Mutex
	batch    []cache.MoveEventRecord
	ctx      context.Context
	cancelFn context.CancelFunc

	// flushFn receives each drained batch; defaults to the move_events
	// insert and is swappable in tests.
	flushFn func(ctx context.Context, batch []cache.MoveEventRecord) error
}

// NewReaperService constructs a ReaperService from environment variables
// or defaults.
func NewReaperService() *ReaperService {
	batchSize := getEnvInt("REAPER_BATCH_SIZE", 20)
	flushMs := getEnvInt("REAPER_FLUSH_MS", 500)
	pruneSec := getEnvInt("REAPER_PRUNE_INTERVAL_SEC", 3600)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	rs := &ReaperService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		pruneEvery:  time.Duration(pruneSec) * time.Second,
		batch:       make([]cache.MoveEventRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
	rs.flushFn = rs.writeEvents
	return rs
}

// Run starts the two main loops: the queue drain with batched flushes,
// and the completed-game prune ticker.
func (rs *ReaperService) Run() {
	database.ConnectDB()

	go rs.readQueueLoop()
	go rs.pruneLoop()

	log.Println("tictacgo-reaper service started.")
	<-rs.ctx.Done()
	rs.flushBatchToDB()
	log.Println("tictacgo-reaper shutting down.")
}

// Stop cancels the service context.
func (rs *ReaperService) Stop() {
	rs.cancelFn()
}

// readQueueLoop uses BLPop to retrieve move events, accumulating them in
// a batch that is flushed on size or on the flush timer.
func (rs *ReaperService) readQueueLoop() {
	ticker := time.NewTicker(rs.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("MOVE_QUEUE_NAME", cache.DefaultQueueName)

	for {
		select {
		case <-rs.ctx.Done():
			return

		case <-ticker.C:
			rs.flushBatchToDB()

		default:
			// BLPop blocks at most popTimeout so the flush ticker and
			// context cancellation are honored.
			res, err := rs.redisClient.BLPop(rs.ctx, rs.popTimeout(), queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if rs.ctx.Err() != nil {
					return
				}
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			// res[0] is the queue name, res[1] the payload.
			record, err := decodeMoveEvent(res[1])
			if err != nil {
				log.Printf("invalid move event: %v\n", err)
				continue
			}

			if rs.enqueue(record) {
				rs.flushBatchToDB()
			}
		}
	}
}

// popTimeout bounds how long one BLPop may block. It tracks the
// configured flush delay so the ticker fires close to schedule, clamped
// to keep redis round-trips sane.
func (rs *ReaperService) popTimeout() time.Duration {
	d := rs.flushDelay
	if d < 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	if d > 3*time.Second {
		d = 3 * time.Second
	}
	return d
}

// enqueue appends a record to the pending batch and reports whether the
// batch reached the flush size.
func (rs *ReaperService) enqueue(record cache.MoveEventRecord) bool {
	rs.batchMu.Lock()
	defer rs.batchMu.Unlock()
	rs.batch = append(rs.batch, record)
	return len(rs.batch) >= rs.batchSize
}

// flushBatchToDB hands the pending events to flushFn. The batch is only
// swapped out; a failed flush logs and the events are dropped, matching
// the best-effort contract of the queue.
func (rs *ReaperService) flushBatchToDB() {
	rs.batchMu.Lock()
	if len(rs.batch) == 0 {
		rs.batchMu.Unlock()
		return
	}
	pending := rs.batch
	rs.batch = make([]cache.MoveEventRecord, 0, rs.batchSize)
	rs.batchMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rs.flushFn(ctx, pending); err != nil {
		log.Printf("[ERROR] flushing %d move events: %v\n", len(pending), err)
		return
	}
	log.Printf("flushed %d move event(s)\n", len(pending))
}

// writeEvents inserts a batch into move_events in one transaction.
func (rs *ReaperService) writeEvents(ctx context.Context, batch []cache.MoveEventRecord) error {
	return pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `INSERT INTO move_events (game_id, actor_user_id, mark, position, move_index, recorded_at)
		      VALUES ($1, $2, $3, $4, $5, $6)`
		for _, rec := range batch {
			recordedAt := time.UnixMilli(rec.Timestamp)
			if _, err := tx.Exec(ctx, q,
				rec.GameID, rec.ActorUserID, rec.Mark, rec.Position, rec.MoveIndex, recordedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// pruneLoop bulk-deletes won and drawn games on a timer. Ongoing games
// and their moves are never touched.
func (rs *ReaperService) pruneLoop() {
	ticker := time.NewTicker(rs.pruneEvery)
	defer ticker.Stop()

	for {
		select {
		case <-rs.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := database.DeleteCompletedGames(ctx)
			cancel()
			if err != nil {
				log.Printf("[ERROR] pruning completed games: %v\n", err)
				continue
			}
			if count > 0 {
				log.Printf("pruned %d completed game(s)\n", count)
			}
		}
	}
}

func main() {
	rs := NewReaperService()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		rs.Stop()
	}()

	rs.Run()
}

func decodeMoveEvent(payload string) (cache.MoveEventRecord, error) {
	var record cache.MoveEventRecord
	err := json.Unmarshal([]byte(payload), &record)
	return record, err
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
