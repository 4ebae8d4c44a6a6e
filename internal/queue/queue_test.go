package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lumiloops/portal-api/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Use unique connection name per test to avoid global adapter caching issues
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func testConfig(name string) Config {
	return Config{
		Name:              name,
		ConsumerGroup:     "test-group",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
	}
}

func TestQueue_PublishAndConsume(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := testConfig("test:jobs")
	config.MaxLen = 1000
	config.EnableDLQ = true

	q, err := New(adapter, config)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = q.Publish(ctx, Envelope{JobID: "job-1", NotificationType: "viewed"})
	require.NoError(t, err)

	received := make(chan Envelope, 1)
	handler := func(ctx context.Context, d *Delivery) error {
		received <- d.Envelope
		return nil
	}

	err = q.Consume(handler)
	require.NoError(t, err)

	select {
	case env := <-received:
		assert.Equal(t, "job-1", env.JobID)
		assert.Equal(t, "viewed", env.NotificationType)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery not received")
	}

	q.Stop(time.Second)
}

func TestQueue_RetryMechanism(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := testConfig("test:retry:jobs")
	config.MaxRetries = 2
	config.VisibilityTimeout = 1 * time.Second
	config.EnableDLQ = true

	q, err := New(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	_, err = q.Publish(ctx, Envelope{JobID: "job-retry", NotificationType: "responded"})
	require.NoError(t, err)

	attempts := 0
	handler := func(ctx context.Context, d *Delivery) error {
		attempts++
		if attempts <= 2 {
			return assert.AnError
		}
		return nil
	}

	err = q.Consume(handler)
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	assert.GreaterOrEqual(t, attempts, 1)
}

func TestQueue_GetStats(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	q, err := New(adapter, testConfig("test:stats:jobs"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := q.Publish(ctx, Envelope{JobID: "job", NotificationType: "completed"})
		require.NoError(t, err)
	}

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalEntries, int64(5))
}

func TestDelivery_Ack(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	q, err := New(adapter, testConfig("test:ack:jobs"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	t.Run("ack marks entry as processed", func(t *testing.T) {
		id, err := q.Publish(context.Background(), Envelope{JobID: "job-ack"})
		require.NoError(t, err)

		d := &Delivery{
			ID:    id,
			queue: q,
		}

		err = d.Ack()
		assert.NoError(t, err)
		assert.True(t, d.acked)
	})

	t.Run("cannot ack twice", func(t *testing.T) {
		d := &Delivery{
			ID:    "0-1",
			acked: true,
			queue: q,
		}

		err := d.Ack()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already acknowledged")
	})
}

func TestQueue_Validation(t *testing.T) {
	_, adapter := setupTestRedis(t)

	t.Run("name is required", func(t *testing.T) {
		_, err := New(adapter, Config{})
		assert.Error(t, err)
	})

	t.Run("defaults fill the rest", func(t *testing.T) {
		q, err := New(adapter, Config{Name: "minimal:jobs"})
		require.NoError(t, err)
		assert.Equal(t, "default-group", q.config.ConsumerGroup)
		assert.Equal(t, 3, q.config.MaxRetries)
		q.Stop(time.Second)
	})
}

func TestQueue_ConcurrentPublish(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	q, err := New(adapter, testConfig("test:concurrent:jobs"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	numGoroutines := 10
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			_, err := q.Publish(ctx, Envelope{JobID: "job", NotificationType: "scheduled"})
			assert.NoError(t, err)
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalEntries, int64(numGoroutines))
}

func TestQueue_Stop(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	q, err := New(adapter, testConfig("test:stop:jobs"))
	require.NoError(t, err)

	handler := func(ctx context.Context, d *Delivery) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	}

	err = q.Consume(handler)
	require.NoError(t, err)

	err = q.Stop(2 * time.Second)
	assert.NoError(t, err)
}
