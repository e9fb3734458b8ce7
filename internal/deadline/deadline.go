// Package deadline orders one-shot callbacks by due time for the
// frame-refresh timer loop. A Queue is not safe for concurrent use; it is
// confined to the goroutine that drains it.
package deadline

import (
	"container/heap"
	"time"
)

// Queue is a min-heap of scheduled callbacks. Callbacks sharing a deadline
// pop in insertion order.
type Queue struct {
	entries entryHeap
	seq     uint64
}

type entry struct {
	at  time.Time
	seq uint64
	fn  func()
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Push schedules fn to run at the given time.
func (q *Queue) Push(at time.Time, fn func()) {
	q.seq++
	heap.Push(&q.entries, entry{at: at, seq: q.seq, fn: fn})
}

// Len reports the number of scheduled callbacks.
func (q *Queue) Len() int { return len(q.entries) }

// Next returns the earliest deadline, or false when the queue is empty.
func (q *Queue) Next() (time.Time, bool) {
	if len(q.entries) == 0 {
		return time.Time{}, false
	}
	return q.entries[0].at, true
}

// PopDue removes and returns every callback due at or before now, in
// deadline order.
func (q *Queue) PopDue(now time.Time) []func() {
	var due []func()
	for len(q.entries) > 0 && !q.entries[0].at.After(now) {
		e := heap.Pop(&q.entries).(entry)
		due = append(due, e.fn)
	}
	return due
}
