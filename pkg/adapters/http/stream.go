package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans model events out to the SSE connections of each model.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for model. The returned function
// unregisters and closes it.
func (sm *StreamManager) Subscribe(model string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[model]; !ok {
		sm.subscribers[model] = make(map[chan string]struct{})
	}
	sm.subscribers[model][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[model]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, model)
		}
	}
}

// Subscribers returns the number of open subscriptions for model.
func (sm *StreamManager) Subscribers(model string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[model])
}

// Broadcast delivers msg to every subscriber of model. Slow subscribers
// whose buffer is full miss the message.
func (sm *StreamManager) Broadcast(model, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[model] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "model", model)
		}
	}
}
