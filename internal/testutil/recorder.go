package testutil

import (
	"context"
	"sync"

	"github.com/csvdesk/csvdesk/internal/notify"
)

// Notification is one message captured by Recorder.
type Notification struct {
	Level   notify.Level
	Message string
}

// Recorder is a notify.Sink that keeps every notification.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements notify.Sink.
func (r *Recorder) Notify(level notify.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// All returns the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages returns just the message texts.
func (r *Recorder) Messages() []string {
	var out []string
	for _, n := range r.All() {
		out = append(out, n.Message)
	}
	return out
}

// Last returns the most recent notification, or the zero value.
func (r *Recorder) Last() Notification {
	all := r.All()
	if len(all) == 0 {
		return Notification{}
	}
	return all[len(all)-1]
}

// StaticConfirmer answers every confirmation with the same value and
// remembers the prompts it was shown.
type StaticConfirmer struct {
	Answer bool

	mu      sync.Mutex
	prompts []string
}

// Confirm returns a channel already holding Answer.
func (s *StaticConfirmer) Confirm(_ context.Context, prompt string) <-chan bool {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	ch := make(chan bool, 1)
	ch <- s.Answer
	return ch
}

// Prompts returns the prompts shown so far.
func (s *StaticConfirmer) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
