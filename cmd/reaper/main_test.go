// cmd/reaper/main_test.go
package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tictacgo/tictacgo/internal/cache"
)

// collector swaps in for the move_events insert so batching can be
// exercised without redis or postgres.
type collector struct {
	flushes [][]cache.MoveEventRecord
}

func (c *collector) flush(ctx context.Context, batch []cache.MoveEventRecord) error {
	c.flushes = append(c.flushes, batch)
	return nil
}

func testRecord(index int) cache.MoveEventRecord {
	return cache.MoveEventRecord{
		GameID:      uuid.New(),
		ActorUserID: uuid.New(),
		Mark:        "X",
		Position:    (index % 9) + 1,
		MoveIndex:   index,
		Timestamp:   time.Now().UnixMilli(),
	}
}

func TestDecodeMoveEvent(t *testing.T) {
	want := testRecord(3)
	data, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := decodeMoveEvent(string(data))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = decodeMoveEvent("{not json")
	assert.Error(t, err)
}

func TestFlushOnBatchSize(t *testing.T) {
	rs := NewReaperService()
	rs.batchSize = 5
	c := &collector{}
	rs.flushFn = c.flush

	for i := 0; i < rs.batchSize-1; i++ {
		assert.False(t, rs.enqueue(testRecord(i)), "batch must not report full early")
	}
	require.True(t, rs.enqueue(testRecord(rs.batchSize-1)))

	rs.flushBatchToDB()
	require.Len(t, c.flushes, 1)
	assert.Len(t, c.flushes[0], rs.batchSize)

	// the batch was swapped out; a second flush has nothing to do
	rs.flushBatchToDB()
	assert.Len(t, c.flushes, 1)
}

// The ticker case flushes whatever is pending, even below the batch size.
func TestFlushTimerPathDrainsPending(t *testing.T) {
	rs := NewReaperService()
	c := &collector{}
	rs.flushFn = c.flush

	rs.enqueue(testRecord(0))
	rs.enqueue(testRecord(1))

	rs.flushBatchToDB()
	require.Len(t, c.flushes, 1)
	assert.Len(t, c.flushes[0], 2)
}

// Run performs one last flush after the context is cancelled so events
// accepted just before shutdown are not lost.
func TestShutdownFlush(t *testing.T) {
	rs := NewReaperService()
	c := &collector{}
	rs.flushFn = c.flush

	rs.enqueue(testRecord(0))
	rs.Stop()

	select {
	case <-rs.ctx.Done():
	default:
		t.Fatal("Stop must cancel the service context")
	}

	rs.flushBatchToDB()
	require.Len(t, c.flushes, 1)
	assert.Len(t, c.flushes[0], 1)
}

// BLPop may block no longer than the configured flush delay, within
// sane bounds, so the flush ticker fires close to schedule.
func TestPopTimeoutTracksFlushDelay(t *testing.T) {
	rs := NewReaperService()

	rs.flushDelay = 500 * time.Millisecond
	assert.Equal(t, 500*time.Millisecond, rs.popTimeout())

	rs.flushDelay = time.Millisecond
	assert.Equal(t, 100*time.Millisecond, rs.popTimeout())

	rs.flushDelay = time.Minute
	assert.Equal(t, 3*time.Second, rs.popTimeout())
}
