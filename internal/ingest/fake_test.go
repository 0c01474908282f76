package ingest

import (
	"context"
	"errors"
	"sync"
)

type published struct {
	channel string
	payload []byte
}

// fakePublisher запоминает сообщения и может падать первые failFirst вызовов.
type fakePublisher struct {
	mu        sync.Mutex
	messages  []published
	calls     int
	failFirst int
	failAll   bool
}

var errRedisDown = errors.New("redis: connection refused")

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failAll || p.calls <= p.failFirst {
		return errRedisDown
	}
	p.messages = append(p.messages, published{channel: channel, payload: payload})
	return nil
}

func (p *fakePublisher) snapshot() ([]published, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]published, len(p.messages))
	copy(out, p.messages)
	return out, p.calls
}
