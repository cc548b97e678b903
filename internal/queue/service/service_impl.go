package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	"github.com/nyarko-dennis/donor-app-backend/internal/observability/metrics"
	"github.com/nyarko-dennis/donor-app-backend/internal/queue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Config  config.Config
	Metrics *metrics.QueueMetrics `optional:"true"`
}

// Service is a Postgres-backed work queue: enqueue writes a row, the
// worker claims due rows and dispatches them to per-topic handlers.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	cfg     config.QueueConfig
	metrics *metrics.QueueMetrics

	mu       sync.RWMutex
	handlers map[string]domain.Handler
}

func New(p Params) (*Service, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil || p.Repo == nil {
		return nil, fmt.Errorf("queue service dependencies are required")
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("queue.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		cfg:      p.Config.Queue,
		metrics:  p.Metrics,
		handlers: map[string]domain.Handler{},
	}, nil
}

var _ domain.Queue = (*Service)(nil)

func (s *Service) Enqueue(ctx context.Context, topic string, payload any) error {
	return s.EnqueueTx(ctx, s.db, topic, payload)
}

// EnqueueTx writes the job inside the caller's transaction so it becomes
// visible only when the surrounding business write commits.
func (s *Service) EnqueueTx(ctx context.Context, tx *gorm.DB, topic string, payload any) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.ErrTopicRequired
	}
	if tx == nil {
		tx = s.db
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode job payload: %w", err)
	}

	maxAttempts := s.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	now := s.clock.Now()
	job := &domain.Job{
		ID:          s.genID.Generate(),
		Topic:       topic,
		Payload:     body,
		Status:      domain.JobStatusQueued,
		MaxAttempts: maxAttempts,
		VisibleAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, tx, job); err != nil {
		return fmt.Errorf("enqueue %s: %w", topic, err)
	}
	if s.metrics != nil {
		// Counts enqueue attempts: a caller rollback removes the row
		// but not the tick. Delivered work is the handled counter.
		s.metrics.JobEnqueued(topic)
	}
	return nil
}

func (s *Service) Subscribe(topic string, handler domain.Handler) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.ErrTopicRequired
	}
	if handler == nil {
		return domain.ErrHandlerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handlers[topic]; ok {
		return domain.ErrDuplicateHandler
	}
	s.handlers[topic] = handler
	return nil
}

func (s *Service) topics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topics := make([]string, 0, len(s.handlers))
	for topic := range s.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (s *Service) handler(topic string) domain.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[topic]
}

// ProcessOnce claims one batch of due jobs and runs their handlers.
// The claim commits before any handler runs, so a crashed handler only
// redelivers after the visibility timeout expires.
func (s *Service) ProcessOnce(ctx context.Context) (int, error) {
	topics := s.topics()
	if len(topics) == 0 {
		return 0, nil
	}

	visibility := s.cfg.VisibilityTimeout
	if visibility <= 0 {
		visibility = 5 * time.Minute
	}

	var jobs []domain.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed, err := s.repo.Claim(ctx, tx, topics, s.cfg.BatchSize, s.clock.Now(), visibility)
		if err != nil {
			return err
		}
		jobs = claimed
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("claim jobs: %w", err)
	}

	for i := range jobs {
		s.dispatch(ctx, &jobs[i])
	}
	return len(jobs), nil
}

func (s *Service) dispatch(ctx context.Context, job *domain.Job) {
	handler := s.handler(job.Topic)
	if handler == nil {
		return
	}

	log := s.log.With(
		zap.String("topic", job.Topic),
		zap.String("job_id", job.ID.String()),
		zap.Int("attempt", job.Attempts),
	)

	start := s.clock.Now()
	err := handler(ctx, job.Payload)
	elapsed := time.Since(start)

	now := s.clock.Now()
	switch {
	case err == nil:
		if dbErr := s.repo.Complete(ctx, s.db, job.ID, now); dbErr != nil {
			log.Error("mark job completed", zap.Error(dbErr))
		}
		s.observe(job.Topic, "completed", elapsed)
	case job.Attempts >= job.MaxAttempts:
		log.Error("job failed permanently", zap.Error(err))
		if dbErr := s.repo.MarkFailed(ctx, s.db, job.ID, now, err.Error()); dbErr != nil {
			log.Error("mark job failed", zap.Error(dbErr))
		}
		s.observe(job.Topic, "failed", elapsed)
	default:
		backoff := retryBackoff(job.Attempts)
		log.Warn("job failed, rescheduling", zap.Duration("backoff", backoff), zap.Error(err))
		if dbErr := s.repo.Retry(ctx, s.db, job.ID, now.Add(backoff), err.Error()); dbErr != nil {
			log.Error("reschedule job", zap.Error(dbErr))
		}
		s.observe(job.Topic, "retried", elapsed)
	}
}

func (s *Service) observe(topic, outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.JobHandled(topic, outcome, elapsed)
	}
}

func (s *Service) RunForever(ctx context.Context) {
	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.ProcessOnce(ctx); err != nil {
			s.log.Warn("queue poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	backoff := time.Duration(attempt) * 30 * time.Second
	if backoff > 10*time.Minute {
		backoff = 10 * time.Minute
	}
	return backoff
}
