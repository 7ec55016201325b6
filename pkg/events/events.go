// Package events distributes pipeline progress events to interested
// consumers, such as a tray UI or the CLI status printer.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a single pipeline notification.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Event types emitted by the pipeline.
const (
	TypeProcessingStarted   = "processing_started"
	TypeProgressUpdated     = "progress_updated"
	TypeProcessingCompleted = "processing_completed"
	TypeProcessingFailed    = "processing_failed"
)

// Stage identifies where a pipeline run currently is.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageSelecting  Stage = "selecting"
	StageGenerating Stage = "generating"
	StageWriting    Stage = "writing"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Bus fans events out to subscribers. Slow subscribers are skipped rather
// than blocking the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]chan Event)}
}

// Subscribe registers a named subscriber and returns its event channel.
func (b *Bus) Subscribe(name string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 64)
	b.subscribers[name] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[name]; ok {
		delete(b.subscribers, name)
		close(ch)
	}
}

// Publish broadcasts an event to all subscribers without holding the lock
// during delivery.
func (b *Bus) Publish(eventType string, data any) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	subscribers := make([]chan Event, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		subscribers = append(subscribers, ch)
	}
	b.mu.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
			// Channel full; drop rather than stall the pipeline.
		}
	}
}

// ProcessingStarted signals that a trigger was accepted.
func (b *Bus) ProcessingStarted() {
	b.Publish(TypeProcessingStarted, nil)
}

// ProgressUpdated reports the current pipeline stage.
func (b *Bus) ProgressUpdated(stage Stage) {
	b.Publish(TypeProgressUpdated, map[string]any{"stage": string(stage)})
}

// ProcessingCompleted signals a successful run.
func (b *Bus) ProcessingCompleted(message string) {
	b.Publish(TypeProcessingCompleted, map[string]any{"message": message})
}

// ProcessingFailed signals a failed run with the causing error.
func (b *Bus) ProcessingFailed(err error) {
	b.Publish(TypeProcessingFailed, map[string]any{"error": err.Error()})
}
