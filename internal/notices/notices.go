// Package notices carries user-facing outcome messages from the core to the presentation layer.
package notices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind classifies a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// ParseKind validates a raw kind label.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindSuccess, KindError, KindInfo:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("notices: unknown kind %q", raw)
	}
}

// Notice is one message for the user.
type Notice struct {
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier reports an outcome to the user.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(string, Kind) {}

// Dispatcher fans notices out to every live subscriber. A subscriber whose
// buffer is full misses the notice rather than blocking the publisher.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Notice
	nextID      int64
	bufferSize  int
	clock       func() time.Time
}

// NewDispatcher returns a dispatcher with no subscribers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[int64]chan Notice),
		bufferSize:  16,
		clock:       time.Now,
	}
}

// Subscribe registers a stream that stays open until ctx is done or cleanup is called.
func (d *Dispatcher) Subscribe(ctx context.Context) (<-chan Notice, func()) {
	stream := make(chan Notice, d.bufferSize)
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subscribers[id] = stream
	d.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cleanup := func() {
		once.Do(func() {
			close(done)
			d.mu.Lock()
			delete(d.subscribers, id)
			d.mu.Unlock()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return stream, cleanup
}

// Notify publishes a notice stamped with the current time.
func (d *Dispatcher) Notify(message string, kind Kind) {
	d.Publish(Notice{Message: message, Kind: kind, Timestamp: d.clock().UTC()})
}

// Publish delivers notice to every subscriber without blocking.
func (d *Dispatcher) Publish(notice Notice) {
	if notice.Message == "" || notice.Kind == "" {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, stream := range d.subscribers {
		select {
		case stream <- notice:
		default:
		}
	}
}

// Subscribers reports how many streams are registered.
func (d *Dispatcher) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}

// LogNotifier writes notices to a zap logger; errors log at error level.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string, kind Kind) {
	logger := n.Logger
	if logger == nil {
		return
	}
	if kind == KindError {
		logger.Error(message, zap.String("kind", string(kind)))
		return
	}
	logger.Info(message, zap.String("kind", string(kind)))
}

// Multi forwards each notice to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(message string, kind Kind) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(message, kind)
		}
	}
}
