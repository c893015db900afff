package framework

import (
	"sync"

	"github.com/1broseidon/aurenfox/internal/window"
)

// DestroyQueue buffers window IDs awaiting deletion. Enqueue may be called
// from any goroutine, including from inside user code and IPC handlers; the
// frame loop is the single consumer.
type DestroyQueue struct {
	mu  sync.Mutex
	ids []window.ID
}

// Enqueue appends id. It never destroys anything itself.
func (q *DestroyQueue) Enqueue(id window.ID) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

// Drain empties the queue and returns its previous contents in enqueue order.
func (q *DestroyQueue) Drain() []window.ID {
	q.mu.Lock()
	ids := q.ids
	q.ids = nil
	q.mu.Unlock()
	return ids
}

// Len returns the number of pending IDs.
func (q *DestroyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
