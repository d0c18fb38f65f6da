package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/news"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"
	"countries-informer/pkg/redis"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const newsJob = "news-warmup"

// NewsSchedulerConfig holds configuration for the news warm-up
type NewsSchedulerConfig struct {
	CronExpression string
	LockTTL        time.Duration
	Countries      []string
}

// redisLocker lets gocron elect one replica per run through pkg/redis locks.
type redisLocker struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func (l *redisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	lock := redis.NewLock(l.client, key, redis.NewLockOptions().
		WithTTL(l.ttl).
		WithLockNamespace(lockNamespace))

	if err := lock.Lock(ctx); err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			log.Info(msg.GetMessage("schedule.skipped", key))
			l.metrics.ObserveScheduledRun(key, metrics.RunSkipped)
		}
		return nil, err
	}
	return lock, nil
}

// NewsScheduler refreshes the cached headlines of the configured countries
type NewsScheduler struct {
	scheduler gocron.Scheduler
	useCase   news.UseCase
	metrics   *metrics.Metrics
	config    NewsSchedulerConfig
}

func NewNewsScheduler(useCase news.UseCase, redisClient *redis.Client, m *metrics.Metrics, config NewsSchedulerConfig) (*NewsScheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithDistributedLocker(&redisLocker{client: redisClient, ttl: config.LockTTL, metrics: m}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create news scheduler: %w", err)
	}
	return &NewsScheduler{scheduler: scheduler, useCase: useCase, metrics: m, config: config}, nil
}

// InitNewsScheduleTasks registers the warm-up job and starts the scheduler until ctx is done
func (s *NewsScheduler) InitNewsScheduleTasks(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.config.CronExpression, false),
		gocron.NewTask(s.ExecuteScheduledTask),
		gocron.WithName(newsJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("invalid news cron %q: %w", s.config.CronExpression, err)
	}

	s.scheduler.Start()
	log.Infof("News warm-up scheduled with cron expression: %s", s.config.CronExpression)

	go func() {
		<-ctx.Done()
		if err := s.scheduler.Shutdown(); err != nil {
			log.Warn("news warm-up scheduler shutdown failed", zap.Error(err))
			return
		}
		log.Info("News warm-up scheduler stopped")
	}()
	return nil
}

// ExecuteScheduledTask refreshes the headlines of every configured country
func (s *NewsScheduler) ExecuteScheduledTask(ctx context.Context) {
	requestID := uuid.NewString()
	start := time.Now()
	log.Info(msg.GetMessage("schedule.start", newsJob, requestID), zap.String("request_id", requestID))

	outcome := metrics.RunSuccess
	for _, country := range s.config.Countries {
		feed, err := s.useCase.RefreshNews(ctx, model.NewsQuery{Country: country})
		outcome = foldOutcome(outcome, newsJob, country, feed == nil, err, requestID)
	}

	s.metrics.ObserveScheduledRun(newsJob, outcome)
	log.Info(msg.GetMessage("schedule.done", newsJob, time.Since(start).String()), zap.String("request_id", requestID))
}
