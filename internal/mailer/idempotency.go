package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumiloops/portal-api/pkg/logger"
	"github.com/lumiloops/portal-api/pkg/redis"
)

var (
	ErrAlreadySent = errors.New("email job already sent")
	ErrLockHeld    = errors.New("email job locked by another consumer")
)

// GuardConfig tunes the redis keys the dispatch guard writes. The sent
// marker TTL is deliberately short: a manual Retry resets the job row to
// queued, and a day-long marker would silently swallow that resend.
type GuardConfig struct {
	LockTTL time.Duration

	SentTTL time.Duration

	LockKeyPrefix string

	SentKeyPrefix string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LockTTL:       30 * time.Second,
		SentTTL:       10 * time.Minute,
		LockKeyPrefix: "email:lock:",
		SentKeyPrefix: "email:sent:",
	}
}

// Guard serializes concurrent consumers working on the same job and absorbs
// stream redeliveries that arrive after the row was already marked sent.
// Retry accounting lives on the job row, not here.
type Guard struct {
	redis  redis.RedisAdapter
	config GuardConfig
}

func NewGuard(redisAdapter redis.RedisAdapter, config GuardConfig) *Guard {
	return &Guard{
		redis:  redisAdapter,
		config: config,
	}
}

// DispatchLock is a held per-job processing lock.
type DispatchLock struct {
	JobID    string
	acquired bool
	guard    *Guard
}

// Acquire checks the sent marker and takes the per-job lock. ErrAlreadySent
// means the delivery is a duplicate and should be acked without work;
// ErrLockHeld means another consumer is on it right now.
func (g *Guard) Acquire(ctx context.Context, jobID string) (*DispatchLock, error) {
	sentKey := g.config.SentKeyPrefix + jobID
	exists, err := g.redis.Exist(sentKey)
	if err != nil {
		logger.Warn("failed to check sent marker", "job_id", jobID, "error", err)
		// keep going; a duplicate send is recoverable, a stalled queue is not
	} else if exists > 0 {
		return nil, ErrAlreadySent
	}

	lockKey := g.config.LockKeyPrefix + jobID
	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))

	acquired, err := g.redis.SetNX(lockKey, lockValue, g.config.LockTTL)
	if err != nil {
		logger.Error("failed to acquire dispatch lock", "job_id", jobID, "error", err)
		return nil, fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !acquired {
		return nil, ErrLockHeld
	}

	return &DispatchLock{
		JobID:    jobID,
		acquired: true,
		guard:    g,
	}, nil
}

// MarkSent sets the short-lived sent marker and releases the lock.
func (g *Guard) MarkSent(ctx context.Context, l *DispatchLock) error {
	sentKey := g.config.SentKeyPrefix + l.JobID
	if err := g.redis.Set(sentKey, []byte("1"), g.config.SentTTL); err != nil {
		logger.Error("failed to set sent marker", "job_id", l.JobID, "error", err)
		return fmt.Errorf("set sent marker: %w", err)
	}
	return g.Release(ctx, l)
}

// Release drops the lock so a retry can pick the job up again.
func (g *Guard) Release(ctx context.Context, l *DispatchLock) error {
	if l == nil || !l.acquired {
		return nil
	}

	lockKey := g.config.LockKeyPrefix + l.JobID
	if err := g.redis.Del(lockKey); err != nil {
		logger.Warn("failed to release dispatch lock", "job_id", l.JobID, "error", err)
		return err
	}

	l.acquired = false
	return nil
}

// WasSent reports whether the sent marker is still live for a job.
func (g *Guard) WasSent(ctx context.Context, jobID string) (bool, error) {
	exists, err := g.redis.Exist(g.config.SentKeyPrefix + jobID)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
