package tui

import "context"

type confirmRequest struct {
	prompt string
	reply  chan<- bool
}

// Confirmer routes confirmation questions into the running program, which
// shows them on the status line and waits for y/n.
type Confirmer struct {
	requests chan confirmRequest
}

// NewConfirmer creates a Confirmer. It must be handed to the Model that answers it.
func NewConfirmer() *Confirmer {
	return &Confirmer{requests: make(chan confirmRequest)}
}

// Confirm implements listing.Confirmer. It never blocks; a cancelled context
// answers no.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) <-chan bool {
	reply := make(chan bool, 1)
	go func() {
		select {
		case c.requests <- confirmRequest{prompt: prompt, reply: reply}:
		case <-ctx.Done():
			reply <- false
		}
	}()
	return reply
}
