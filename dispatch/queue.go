package dispatch

import (
	"errors"

	"github.com/lixenwraith/contact-audio/interaction"
)

var ErrQueueFull = errors.New("dispatch: queue full")

// Queue is a fixed-capacity FIFO of interaction snapshots
// Owned by the dispatch phase; not safe for concurrent use
type Queue struct {
	buf  []interaction.Interaction
	head int
	n    int
}

func NewQueue(capacity int) *Queue {
	return &Queue{buf: make([]interaction.Interaction, capacity)}
}

// Push appends a copy of in, or returns ErrQueueFull at capacity
func (q *Queue) Push(in interaction.Interaction) error {
	if q.n == len(q.buf) {
		return ErrQueueFull
	}
	q.buf[(q.head+q.n)%len(q.buf)] = in
	q.n++
	return nil
}

// Drain pops every queued entry in insertion order
func (q *Queue) Drain(fn func(in *interaction.Interaction)) {
	for q.n > 0 {
		in := q.buf[q.head]
		q.buf[q.head] = interaction.Empty
		q.head = (q.head + 1) % len(q.buf)
		q.n--
		fn(&in)
	}
	q.head = 0
}

func (q *Queue) Len() int { return q.n }
func (q *Queue) Cap() int { return len(q.buf) }

// Reset discards pending entries
func (q *Queue) Reset() {
	clear(q.buf)
	q.head, q.n = 0, 0
}
