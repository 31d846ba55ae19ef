// Package events carries notifications, upload progress and controller state
// changes from the controllers to whichever front end is active.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/csvdesk/csvdesk/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventNotification   EventType = "notification"
	EventUploadState    EventType = "upload_state"
	EventUploadProgress EventType = "upload_progress"
	EventListingChanged EventType = "listing_changed"
)

// Severity classifies a user-facing notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// NotificationEvent is a message destined for the user.
type NotificationEvent struct {
	BaseEvent
	Severity Severity
	Message  string
}

// UploadStateEvent represents an upload controller state transition
type UploadStateEvent struct {
	BaseEvent
	OldState string
	NewState string
	FileName string
	Error    string
}

// UploadProgressEvent reports bytes sent for the in-flight upload.
type UploadProgressEvent struct {
	BaseEvent
	FileName   string
	Percent    float64 // 0 to 100
	BytesSent  int64
	BytesTotal int64
}

// ListingChangedEvent is published after the listing snapshot or view state changes.
type ListingChangedEvent struct {
	BaseEvent
	Total    int
	Filtered int
	Page     int
	LastPage int
	Query    string
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns one channel that receives every event of the given types.
// With no types the channel receives all events.
func (eb *EventBus) Subscribe(types ...EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	if len(types) == 0 {
		eb.all = append(eb.all, ch)
		return ch
	}

	seen := make(map[EventType]bool, len(types))
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		eb.subscribers[t] = append(eb.subscribers[t], ch)
	}
	return ch
}

// Publish sends an event to all subscribers without blocking.
// Events for a full subscriber are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	for _, ch := range eb.all {
		close(ch)
	}
}

// PublishNotification is a convenience method for publishing notification events
func (eb *EventBus) PublishNotification(severity Severity, message string) {
	eb.Publish(&NotificationEvent{
		BaseEvent: BaseEvent{
			EventType: EventNotification,
			Time:      time.Now(),
		},
		Severity: severity,
		Message:  message,
	})
}

// PublishUploadState is a convenience method for publishing upload state transitions
func (eb *EventBus) PublishUploadState(oldState, newState, fileName, errMsg string) {
	eb.Publish(&UploadStateEvent{
		BaseEvent: BaseEvent{
			EventType: EventUploadState,
			Time:      time.Now(),
		},
		OldState: oldState,
		NewState: newState,
		FileName: fileName,
		Error:    errMsg,
	})
}

// PublishUploadProgress is a convenience method for publishing upload progress
func (eb *EventBus) PublishUploadProgress(fileName string, percent float64, sent, total int64) {
	eb.Publish(&UploadProgressEvent{
		BaseEvent: BaseEvent{
			EventType: EventUploadProgress,
			Time:      time.Now(),
		},
		FileName:   fileName,
		Percent:    percent,
		BytesSent:  sent,
		BytesTotal: total,
	})
}

// DroppedEvents returns the number of events dropped because a subscriber was full.
func (eb *EventBus) DroppedEvents() int64 {
	return eb.droppedEvents.Load()
}
