package action

import (
	"log/slog"

	"github.com/ayusman/holohud/internal/log"
)

// Submission is an action waiting in the queue along with its origin.
type Submission struct {
	Action Action
	Origin Origin
}

// Queue hands actions from background goroutines to the tick loop.
// Submit is safe for concurrent use and never blocks; Drain must only be
// called from the tick goroutine.
type Queue struct {
	ch     chan Submission
	logger *slog.Logger
}

// NewQueue creates a queue holding at most size pending actions.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		ch:     make(chan Submission, size),
		logger: log.With("component", "action.queue"),
	}
}

// Submit enqueues an action. When the queue is full the action is dropped
// and Submit returns false.
func (q *Queue) Submit(a Action, origin Origin) bool {
	if !a.Valid() {
		q.logger.Warn("rejecting invalid action", "action", a.String(), "origin", origin)
		return false
	}

	select {
	case q.ch <- Submission{Action: a, Origin: origin}:
		return true
	default:
		q.logger.Warn("action queue full, dropping", "action", a.String(), "origin", origin)
		return false
	}
}

// Drain returns every pending submission in FIFO order without blocking.
// Actions submitted while Drain runs may be left for the next call.
func (q *Queue) Drain() []Submission {
	n := len(q.ch)
	if n == 0 {
		return nil
	}

	out := make([]Submission, 0, n)
	for i := 0; i < n; i++ {
		select {
		case s := <-q.ch:
			out = append(out, s)
		default:
			return out
		}
	}
	return out
}

// Len returns the number of pending submissions.
func (q *Queue) Len() int {
	return len(q.ch)
}
