package framework

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/aurenfox/internal/window"
)

func TestDestroyQueue_DrainIsFIFOAndEmpties(t *testing.T) {
	var q DestroyQueue
	q.Enqueue(2)
	q.Enqueue(0)
	q.Enqueue(2)
	q.Enqueue(1)

	if q.Len() != 4 {
		t.Fatalf("expected 4 pending, got %d", q.Len())
	}
	if diff := cmp.Diff([]window.ID{2, 0, 2, 1}, q.Drain()); diff != "" {
		t.Fatalf("first drain (-want +got):\n%s", diff)
	}
	if got := q.Drain(); len(got) != 0 {
		t.Fatalf("expected empty second drain, got %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("expected 0 pending, got %d", q.Len())
	}
}

func TestDestroyQueue_ConcurrentEnqueue(t *testing.T) {
	var q DestroyQueue
	const workers, perWorker = 8, 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				q.Enqueue(window.ID(base*perWorker + i))
			}
		}(w)
	}
	wg.Wait()

	got := q.Drain()
	if len(got) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(got))
	}

	// Per-producer order must survive interleaving.
	last := make(map[int]window.ID)
	for _, id := range got {
		base := int(id) / perWorker
		if prev, ok := last[base]; ok && id <= prev {
			t.Fatalf("producer %d out of order: %d after %d", base, id, prev)
		}
		last[base] = id
	}
}
