package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xela07ax/bizdash/internal/domain"
	"github.com/xela07ax/bizdash/internal/infra"
	"github.com/xela07ax/bizdash/internal/schema"
	"go.uber.org/zap"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrDelivery      = errors.New("contract delivery failed")
)

// SyncLogFeed: куда уходят SyncLog вместо прямой публикации.
type SyncLogFeed interface {
	Push(entry domain.SyncLog) error
}

// Service: граница приёма контрактов: проверка, метрики, рассылка.
type Service struct {
	publisher Publisher
	feed      SyncLogFeed
	metrics   *Metrics
	logger    *zap.Logger
}

// NewService собирает сервис. feed может быть nil, тогда SyncLog публикуются по одному.
func NewService(publisher Publisher, feed SyncLogFeed, metrics *Metrics, logger *zap.Logger) *Service {
	return &Service{
		publisher: publisher,
		feed:      feed,
		metrics:   metrics,
		logger:    logger.Named("ingest-service"),
	}
}

// Validate проверяет ввод без побочных эффектов на данные (только метрики и debug-лог).
func (s *Service) Validate(ctx context.Context, entity string, input any) (any, error) {
	parse, ok := schema.Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	start := time.Now()
	value, err := parse(input)
	s.metrics.ValidationDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.Validations.WithLabelValues(entity, "invalid").Inc()
		if vErr, ok := schema.AsValidationError(err); ok {
			for _, issue := range vErr.Issues {
				s.metrics.ValidationIssues.WithLabelValues(entity, string(issue.Code)).Inc()
			}
			s.logger.Debug("contract rejected",
				zap.String("entity", entity),
				zap.Int("issues", len(vErr.Issues)))
		}
		return nil, err
	}

	s.metrics.Validations.WithLabelValues(entity, "valid").Inc()
	return value, nil
}

// Submit проверяет контракт и рассылает типизированное значение подписчикам.
func (s *Service) Submit(ctx context.Context, entity string, input any) (any, error) {
	value, err := s.Validate(ctx, entity, input)
	if err != nil {
		return nil, err
	}

	if entry, ok := value.(domain.SyncLog); ok && s.feed != nil {
		if err := s.feed.Push(entry); err != nil {
			return nil, err
		}
		return value, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", entity, err)
	}

	channel := infra.ContractChannel(entity)
	if err := s.publisher.Publish(ctx, channel, payload); err != nil {
		s.metrics.PublishErrors.WithLabelValues(entity).Inc()
		s.logger.Error("contract accepted but not delivered",
			zap.String("entity", entity),
			zap.String("channel", channel),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	s.logger.Info("contract accepted",
		zap.String("entity", entity),
		zap.String("channel", channel))
	return value, nil
}
