// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the reaper drains move events from.
var DefaultQueueName = "tictacgo_moves"

// MoveEventRecord is the minimal payload the reaper needs to persist a
// move to the audit table.
type MoveEventRecord struct {
	GameID      uuid.UUID `json:"game_id"`
	ActorUserID uuid.UUID `json:"actor_user_id"`
	Mark        string    `json:"mark"`
	Position    int       `json:"position"`
	MoveIndex   int       `json:"move_index"`
	Timestamp   int64     `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client from environment
// variables REDIS_ADDR (default "localhost:6379") and REDIS_DB (default 0).
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishMoveEvent serializes the record and pushes it onto the move
// queue. Callers treat failures as best-effort; the move itself is already
// committed to Postgres by the time this runs.
func PublishMoveEvent(ctx context.Context, record MoveEventRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MoveEventRecord: %w", err)
	}

	queueName := getEnv("MOVE_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
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
