package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/xela07ax/bizdash/internal/infra"
	"go.uber.org/zap"
)

// Publisher доставляет сериализованный контракт подписчикам.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher публикует в Redis; подписчики это виджеты дашборда.
type RedisPublisher struct {
	rdb redis.Cmdable
}

func NewRedisPublisher(rdb redis.Cmdable) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

// ReliablePublisher оборачивает Publisher в повторы и Circuit Breaker.
// Повторы идут внутри одного Execute, так что брейкер видит серию как один отказ.
type ReliablePublisher struct {
	next     Publisher
	cb       *gobreaker.CircuitBreaker
	attempts uint
	delay    time.Duration
}

func NewReliablePublisher(next Publisher, cfg infra.PublisherConfig, metrics *Metrics, logger *zap.Logger) *ReliablePublisher {
	logger = logger.Named("publisher")
	threshold := cfg.CBFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 1 // 0 у retry-go означает «бесконечно»
	}

	const name = "redis-publisher"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &ReliablePublisher{
		next:     next,
		cb:       cb,
		attempts: attempts,
		delay:    cfg.RetryDelay,
	}
}

func (p *ReliablePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(p.attempts),
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				return p.delay
			}),
		)
		return nil, r.Do(func() error {
			return p.next.Publish(ctx, channel, payload)
		})
	})
	if err != nil {
		return fmt.Errorf("reliable publish %s: %w", channel, err)
	}
	return nil
}

// State: текущее состояние брейкера (для health-эндпоинта).
func (p *ReliablePublisher) State() gobreaker.State {
	return p.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 0.5
	default:
		return 0
	}
}
