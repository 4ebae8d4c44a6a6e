package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumiloops/portal-api/internal/config"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/pkg/logger"
	"github.com/lumiloops/portal-api/pkg/redis"
	"github.com/lumiloops/portal-api/pkg/worker"
)

const ProcessingTimeout = time.Second * 15
const HealthInterval = time.Second * 30
const ShutdownTimeout = time.Minute
const ConsumerInstances = 4
const SweepBatchSize = 100

// Processor handles one queue delivery.
type Processor interface {
	Process(ctx context.Context, d *queue.Delivery) error
	GetType() string
}

// ProviderHealth is the outbound email provider health probe.
type ProviderHealth interface {
	Healthy(ctx context.Context) bool
}

// Service runs the mailer: stream consumers feeding a worker pool, plus a
// periodic sweep that republishes queued job rows whose stream entry never
// arrived (lost publish, manual Retry, crash between insert and publish).
type Service struct {
	adapter   redis.RedisAdapter
	queues    []*queue.Queue
	publisher *queue.Queue
	processor Processor
	jobs      EmailJobRepository
	provider  ProviderHealth
	metrics   *DispatchMetrics
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	worker    *worker.WorkerManager

	sweepInterval time.Duration
	sweepMinAge   time.Duration
}

func NewService(redisAdapter redis.RedisAdapter, jobs EmailJobRepository, provider ProviderHealth) (*Service, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		adapter:       redisAdapter,
		queues:        make([]*queue.Queue, 0),
		jobs:          jobs,
		provider:      provider,
		metrics:       NewDispatchMetrics(),
		ctx:           ctx,
		cancel:        cancel,
		worker:        worker.NewWorkerManager(10_000, 20, nil),
		sweepInterval: config.Get().MailerSweepInterval,
		sweepMinAge:   config.Get().MailerSweepMinAge,
	}
	return s, nil
}

// RegisterProcessor sets the delivery handler.
func (s *Service) RegisterProcessor(processor Processor) {
	s.processor = processor
	logger.Info("registered processor", "type", processor.GetType())
}

// Start launches the worker pool, the consumer instances and the background
// loops. It returns once everything is running.
func (s *Service) Start() error {
	logger.Info("starting mailer service...")

	s.worker.SetWorker(s.workerHandler)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.worker.Start(); err != nil {
			logger.Error("worker manager stopped", "error", err)
		}
	}()

	for i := 0; i < ConsumerInstances; i++ {
		queueConfig := queue.Config{
			Name:              config.Get().QueueName,
			ConsumerGroup:     config.Get().QueueConsumerGroup,
			ConsumerName:      config.Get().QueueConsumerName,
			MaxRetries:        config.Get().QueueMaxRetries,
			VisibilityTimeout: config.Get().QueueVisibilityTimeout,
			PollInterval:      config.Get().QueuePollInterval,
			BatchSize:         config.Get().QueueBatchSize,
			MaxLen:            config.Get().QueueMaxLen,
			EnableDLQ:         config.Get().QueueEnableDLQ,
		}
		queueConfig.ConsumerName = fmt.Sprintf("%s-instance-%d", queueConfig.ConsumerName, i)

		q, err := queue.New(s.adapter, queueConfig)
		if err != nil {
			return fmt.Errorf("failed to create queue %d: %w", i, err)
		}

		if err := q.Consume(s.deliveryHandler); err != nil {
			return fmt.Errorf("failed to start consumer %d: %w", i, err)
		}

		s.queues = append(s.queues, q)
		logger.Info("started consumer instance", "instance", i)
	}

	// reuse the first consumer queue for sweep republishes
	s.publisher = s.queues[0]

	s.wg.Add(3)
	go s.sweeper()
	go s.metricsReporter()
	go s.healthChecker()

	logger.Info("mailer service started", "consumers", len(s.queues))
	return nil
}

// sweeper republishes stale queued rows. The row is the source of truth, so a
// job whose stream entry was lost still goes out, just late.
func (s *Service) sweeper() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, s.sweepInterval)
	defer cancel()

	jobs, err := s.jobs.ListQueuedOlderThan(ctx, s.sweepMinAge, SweepBatchSize)
	if err != nil {
		logger.Error("sweep query failed", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	republished := 0
	for _, job := range jobs {
		env := queue.Envelope{
			JobID:            job.ID,
			NotificationType: job.NotificationType,
		}
		if _, err := s.publisher.Publish(ctx, env); err != nil {
			logger.Error("sweep republish failed", "job_id", job.ID, "error", err)
			continue
		}
		republished++
	}

	logger.Info("swept stale queued jobs", "found", len(jobs), "republished", republished)
}

func (s *Service) metricsReporter() {
	defer s.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reportMetrics()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) reportMetrics() {
	stats := s.metrics.GetStats()

	logger.Info("mailer metrics",
		"total_sent", stats["total_sent"],
		"total_failed", stats["total_failed"],
		"rate_per_second", stats["rate_per_second"],
		"avg_duration_ms", stats["avg_duration_ms"],
		"uptime_seconds", stats["uptime_seconds"])

	for i, q := range s.queues {
		if qStats, err := q.GetStats(); err == nil {
			logger.Info("queue stats", "queue", i, "total", qStats.TotalEntries, "pending", qStats.PendingEntries)
		}
	}
}

func (s *Service) healthChecker() {
	defer s.wg.Done()

	ticker := time.NewTicker(HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.performHealthCheck()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) performHealthCheck() {
	if err := s.adapter.Client().Ping(context.Background()).Err(); err != nil {
		logger.Error("health check failed: redis connection error", "error", err)
		return
	}

	if s.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		healthy := s.provider.Healthy(ctx)
		cancel()
		if !healthy {
			logger.Warn("health check warning: email provider unreachable")
		}
	}

	for i, q := range s.queues {
		stats, err := q.GetStats()
		if err != nil {
			logger.Warn("health check warning: queue stats unavailable", "queue", i, "error", err)
			continue
		}
		if stats.PendingEntries > 10000 {
			logger.Warn("health check warning: queue has high lag", "queue", i, "pending_entries", stats.PendingEntries)
		}
	}

	logger.Info("health check: ok")
}

// Stop drains the service: consumers first so no new work arrives, then the
// worker pool, then the background loops.
func (s *Service) Stop() {
	logger.Info("shutting down mailer service...")

	s.cancel()

	timeout := ShutdownTimeout
	stopChan := make(chan bool, len(s.queues))

	for i, q := range s.queues {
		go func(index int, q *queue.Queue) {
			if err := q.Stop(timeout); err != nil {
				logger.Error("error stopping queue", "queue", index, "error", err)
			}
			stopChan <- true
		}(i, q)
	}

	for range s.queues {
		select {
		case <-stopChan:
		case <-time.After(timeout + 5*time.Second):
			logger.Warn("timeout waiting for queues to stop")
		}
	}

	s.worker.Exit()
	s.wg.Wait()

	s.reportMetrics()

	logger.Info("mailer service stopped")
}

type jobResult struct {
	delivery   *queue.Delivery
	resultChan chan error
	ctx        context.Context
}

// deliveryHandler hands the delivery to the worker pool and blocks until the
// worker reports back or the processing window closes.
func (s *Service) deliveryHandler(ctx context.Context, d *queue.Delivery) error {
	resultChan := make(chan error, 1)

	jobCtx, cancel := context.WithTimeout(ctx, ProcessingTimeout+time.Second)
	defer cancel()

	job := &jobResult{
		delivery:   d,
		resultChan: resultChan,
		ctx:        jobCtx,
	}

	s.worker.Enqueue(job)

	select {
	case err := <-resultChan:
		return err
	case <-jobCtx.Done():
		return fmt.Errorf("timeout waiting for worker to process delivery: %w", jobCtx.Err())
	}
}

func (s *Service) workerHandler(workerIndex int, job interface{}) {
	jobRes, ok := job.(*jobResult)
	if !ok {
		logger.Error("invalid job type in worker", "worker", workerIndex)
		return
	}

	start := time.Now()
	var resultErr error

	select {
	case <-jobRes.ctx.Done():
		logger.Warn("job context cancelled before processing started", "worker", workerIndex)
		return
	default:
	}

	if s.processor == nil {
		logger.Error("no processor registered", "worker", workerIndex)
		s.metrics.RecordFailure()
		resultErr = nil // ack, retrying cannot fix a missing processor
	} else if err := s.processor.Process(jobRes.ctx, jobRes.delivery); err != nil {
		s.metrics.RecordFailure()
		logger.Error("failed to process delivery", "worker", workerIndex, "error", err)
		resultErr = err
	} else {
		s.metrics.RecordSuccess(time.Since(start))
	}

	// the handler may have timed out and walked away
	select {
	case jobRes.resultChan <- resultErr:
	default:
	}
}
