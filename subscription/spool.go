package subscription

import "github.com/golangid/gqlsubscription/candishared"

// Spool in-process FIFO of change events waiting for flush
type Spool struct {
	queue *candishared.Queue[ChangeEvent]
}

// NewSpool constructor
func NewSpool() *Spool {
	return &Spool{queue: candishared.NewQueue[ChangeEvent]()}
}

// Append event
func (s *Spool) Append(event ChangeEvent) {
	s.queue.Push(event)
}

// Len pending events
func (s *Spool) Len() int {
	return s.queue.Len()
}

// Drain take a snapshot of pending events and clear the spool
func (s *Spool) Drain() []ChangeEvent {
	return s.queue.Drain()
}
