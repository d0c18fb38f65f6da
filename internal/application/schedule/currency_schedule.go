package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"countries-informer/internal/domain/usecase/currency"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"
	"countries-informer/pkg/redis"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	currencyJob   = "currency-warmup"
	lockNamespace = "schedule"
)

// CurrencySchedulerConfig holds configuration for the currency warm-up
type CurrencySchedulerConfig struct {
	CronExpression string
	LockTTL        time.Duration
	Bases          []string
}

// CurrencyScheduler refreshes the cached rate sheets of the configured bases.
// Each run holds a redis lock so only one replica calls the upstream.
type CurrencyScheduler struct {
	cron        *cron.Cron
	useCase     currency.UseCase
	redisClient *redis.Client
	metrics     *metrics.Metrics
	config      CurrencySchedulerConfig
}

func NewCurrencyScheduler(useCase currency.UseCase, redisClient *redis.Client, m *metrics.Metrics, config CurrencySchedulerConfig) *CurrencyScheduler {
	return &CurrencyScheduler{
		cron:        cron.New(),
		useCase:     useCase,
		redisClient: redisClient,
		metrics:     m,
		config:      config,
	}
}

// InitCurrencyScheduleTasks registers the warm-up job and starts the cron until ctx is done
func (s *CurrencyScheduler) InitCurrencyScheduleTasks(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.CronExpression, func() { s.ExecuteScheduledTask(ctx) })
	if err != nil {
		return fmt.Errorf("invalid currency cron %q: %w", s.config.CronExpression, err)
	}

	s.cron.Start()
	log.Infof("Currency warm-up scheduled with cron expression: %s", s.config.CronExpression)

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		log.Info("Currency warm-up scheduler stopped")
	}()
	return nil
}

// ExecuteScheduledTask runs one warm-up unless another replica holds the lock
func (s *CurrencyScheduler) ExecuteScheduledTask(ctx context.Context) {
	requestID := uuid.NewString()
	lock := redis.NewLock(s.redisClient, currencyJob, redis.NewLockOptions().
		WithTTL(s.config.LockTTL).
		WithLockNamespace(lockNamespace))

	if err := lock.Lock(ctx); err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			log.Info(msg.GetMessage("schedule.skipped", currencyJob), zap.String("request_id", requestID))
			s.metrics.ObserveScheduledRun(currencyJob, metrics.RunSkipped)
			return
		}
		log.Error(msg.GetMessage("schedule.failed", currencyJob, "lock", err.Error()), zap.String("request_id", requestID))
		s.metrics.ObserveScheduledRun(currencyJob, metrics.RunError)
		return
	}
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to release currency warm-up lock", zap.String("request_id", requestID), zap.Error(err))
		}
	}()

	start := time.Now()
	log.Info(msg.GetMessage("schedule.start", currencyJob, requestID), zap.String("request_id", requestID))

	outcome := metrics.RunSuccess
	for _, base := range s.config.Bases {
		rates, err := s.useCase.RefreshCurrency(ctx, base)
		outcome = foldOutcome(outcome, currencyJob, base, rates == nil, err, requestID)
	}

	s.metrics.ObserveScheduledRun(currencyJob, outcome)
	log.Info(msg.GetMessage("schedule.done", currencyJob, time.Since(start).String()), zap.String("request_id", requestID))
}

// foldOutcome records one refreshed item into the run outcome. An error outranks absent.
func foldOutcome(outcome, job, item string, absent bool, err error, requestID string) string {
	switch {
	case err != nil:
		log.Error(msg.GetMessage("schedule.failed", job, item, err.Error()), zap.String("request_id", requestID))
		return metrics.RunError
	case absent:
		log.Warn(msg.GetMessage("schedule.absent", job, item), zap.String("request_id", requestID))
		if outcome == metrics.RunError {
			return outcome
		}
		return metrics.RunAbsent
	default:
		return outcome
	}
}
