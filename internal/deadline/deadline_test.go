package deadline

import (
	"testing"
	"time"
)

func TestPopDueOrdersByDeadline(t *testing.T) {
	base := time.Now()
	var q Queue
	var order []int
	q.Push(base.Add(30*time.Millisecond), func() { order = append(order, 3) })
	q.Push(base.Add(10*time.Millisecond), func() { order = append(order, 1) })
	q.Push(base.Add(20*time.Millisecond), func() { order = append(order, 2) })

	for _, fn := range q.PopDue(base.Add(time.Second)) {
		fn()
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("pop order = %v, want [1 2 3]", order)
	}
	if q.Len() != 0 {
		t.Fatalf("queue retained %d entries", q.Len())
	}
}

func TestPopDueBoundary(t *testing.T) {
	base := time.Now()
	var q Queue
	q.Push(base, func() {})
	q.Push(base.Add(time.Millisecond), func() {})

	due := q.PopDue(base)
	if len(due) != 1 {
		t.Fatalf("callbacks due at boundary = %d, want 1", len(due))
	}
	if q.Len() != 1 {
		t.Fatalf("queue length after boundary pop = %d, want 1", q.Len())
	}
	if at, ok := q.Next(); !ok || !at.Equal(base.Add(time.Millisecond)) {
		t.Fatalf("next deadline = %v ok=%v", at, ok)
	}
}

func TestEqualDeadlinesPopInInsertionOrder(t *testing.T) {
	at := time.Now()
	var q Queue
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		q.Push(at, func() { order = append(order, i) })
	}
	for _, fn := range q.PopDue(at) {
		fn()
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("insertion order broken: %v", order)
		}
	}
}

func TestNextOnEmptyQueue(t *testing.T) {
	var q Queue
	if _, ok := q.Next(); ok {
		t.Fatal("empty queue reported a deadline")
	}
	if due := q.PopDue(time.Now()); due != nil {
		t.Fatalf("empty queue popped %d callbacks", len(due))
	}
}
