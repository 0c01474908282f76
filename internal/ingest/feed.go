package ingest

/*
Файл feed.go реализует ленту SyncLog: журнал синхронизации агентов приходит
частыми мелкими записями, поэтому в Redis он уходит пачками.

- Non-blocking: Push никогда не ждёт, при переполнении запись отбрасывается (Load Shedding).
- Batching: пачка отправляется по таймеру или при достижении BatchSize.
- Drain Pattern: Stop закрывает вход и ждёт, пока воркер допишет остаток.
*/

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/xela07ax/bizdash/internal/domain"
	"github.com/xela07ax/bizdash/internal/infra"
	"go.uber.org/zap"
)

var (
	ErrFeedClosed   = errors.New("sync log feed is stopped")
	ErrFeedOverflow = errors.New("sync log feed buffer is full")
)

const flushTimeout = 5 * time.Second

type Feed struct {
	ch            chan domain.SyncLog
	publisher     Publisher
	channel       string
	batchSize     int
	flushInterval time.Duration
	metrics       *Metrics
	logger        *zap.Logger
	wg            sync.WaitGroup

	// Push держит RLock на время отправки в канал, Stop закрывает канал под Lock
	mu     sync.RWMutex
	closed bool
}

func NewFeed(publisher Publisher, cfg infra.FeedConfig, metrics *Metrics, logger *zap.Logger) *Feed {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 500 * time.Millisecond
	}
	return &Feed{
		ch:            make(chan domain.SyncLog, cfg.BufferSize),
		publisher:     publisher,
		channel:       infra.ContractChannel("sync_log"),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		metrics:       metrics,
		logger:        logger.With(zap.String("mod", "feed")),
	}
}

func (f *Feed) Start() {
	f.wg.Add(1)
	go f.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (f *Feed) Stop() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.ch)
	f.mu.Unlock()

	f.logger.Info("stopping feed: flushing buffer...")
	f.wg.Wait()
	f.logger.Info("feed stopped gracefully")
}

// Push ставит запись в очередь. Ошибка означает, что запись не будет доставлена.
func (f *Feed) Push(entry domain.SyncLog) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		f.metrics.FeedDropped.Inc()
		f.logger.Warn("sync log dropped: feed is stopping", zap.String("id", entry.ID.String()))
		return ErrFeedClosed
	}

	select {
	case f.ch <- entry:
		f.metrics.FeedBufferFill.Set(float64(len(f.ch)))
		return nil
	default:
		f.metrics.FeedDropped.Inc()
		f.logger.Error("feed_buffer_overflow",
			zap.String("agent_name", entry.AgentName),
			zap.String("id", entry.ID.String()))
		return ErrFeedOverflow
	}
}

func (f *Feed) worker() {
	defer f.wg.Done()

	batch := make([]domain.SyncLog, 0, f.batchSize)
	ticker := time.NewTicker(f.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		f.metrics.FeedBufferFill.Set(float64(len(f.ch)))

		payload, err := json.Marshal(batch)
		if err != nil {
			f.logger.Error("feed batch encode failed", zap.Error(err))
			batch = batch[:0]
			return
		}

		// Background: контекст запроса к этому моменту давно завершён
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := f.publisher.Publish(ctx, f.channel, payload); err != nil {
			f.metrics.PublishErrors.WithLabelValues("sync_log").Add(float64(len(batch)))
			f.logger.Error("feed flush failed", zap.Int("batch", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-f.ch:
			if !ok {
				flush() // Финальный сброс
				f.logger.Info("feed worker finished")
				return
			}
			batch = append(batch, entry)
			if len(batch) >= f.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
