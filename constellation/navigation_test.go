package constellation

import (
	"reflect"
	"testing"

	"pkt.systems/orrery/schema"
)

func TestNavigateEvictsForwardStack(t *testing.T) {
	nav := navigationContext{
		previous: []schema.PipelineID{1, 2},
		next:     []schema.PipelineID{3},
		current:  4,
	}

	evicted := nav.navigate(5)

	if !reflect.DeepEqual(evicted, []schema.PipelineID{3}) {
		t.Fatalf("evicted = %v, want [3]", evicted)
	}
	if !reflect.DeepEqual(nav.previous, []schema.PipelineID{1, 2, 4}) {
		t.Fatalf("previous = %v, want [1 2 4]", nav.previous)
	}
	if len(nav.next) != 0 {
		t.Fatalf("next = %v, want empty", nav.next)
	}
	if nav.current != 5 {
		t.Fatalf("current = %v, want 5", nav.current)
	}
}

func TestBackForwardSymmetry(t *testing.T) {
	nav := navigationContext{previous: []schema.PipelineID{1}, current: 2}
	nav.navigate(5)
	before := navigationContext{
		previous: append([]schema.PipelineID(nil), nav.previous...),
		next:     append([]schema.PipelineID(nil), nav.next...),
		current:  nav.current,
	}

	id, ok := nav.back()
	if !ok || id != 2 {
		t.Fatalf("back = (%v, %v), want (2, true)", id, ok)
	}
	id, ok = nav.forward()
	if !ok || id != 5 {
		t.Fatalf("forward = (%v, %v), want (5, true)", id, ok)
	}

	if !reflect.DeepEqual(nav.previous, before.previous) ||
		!reflect.DeepEqual(nav.entries(), before.entries()) ||
		nav.current != before.current {
		t.Fatalf("back+forward did not restore the triple: %+v, want %+v", nav, before)
	}
}

func TestTraverseEmptyStacks(t *testing.T) {
	var nav navigationContext
	if _, ok := nav.back(); ok {
		t.Fatal("back succeeded on empty history")
	}
	if _, ok := nav.forward(); ok {
		t.Fatal("forward succeeded on empty history")
	}
	if nav.current != 0 || len(nav.previous) != 0 || len(nav.next) != 0 {
		t.Fatalf("empty traversal mutated state: %+v", nav)
	}
}

func TestEntriesOrderAndCurrentIndex(t *testing.T) {
	nav := navigationContext{
		previous: []schema.PipelineID{1, 2},
		next:     []schema.PipelineID{5, 4},
		current:  3,
	}
	want := []schema.PipelineID{1, 2, 3, 4, 5}
	if got := nav.entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	if got := nav.currentIndex(); got != 2 {
		t.Fatalf("currentIndex = %d, want 2", got)
	}

	var empty navigationContext
	if got := empty.currentIndex(); got != -1 {
		t.Fatalf("currentIndex with no commit = %d, want -1", got)
	}
}

func TestTrimEvictsOldestBackEntries(t *testing.T) {
	nav := navigationContext{previous: []schema.PipelineID{1, 2, 3}, current: 4}

	evicted := nav.trim(2)

	if !reflect.DeepEqual(evicted, []schema.PipelineID{1, 2}) {
		t.Fatalf("evicted = %v, want [1 2]", evicted)
	}
	if !reflect.DeepEqual(nav.entries(), []schema.PipelineID{3, 4}) {
		t.Fatalf("entries after trim = %v, want [3 4]", nav.entries())
	}

	if again := nav.trim(2); again != nil {
		t.Fatalf("second trim evicted %v, want nothing", again)
	}
}

func TestTrimNeverEvictsCurrentOrForward(t *testing.T) {
	nav := navigationContext{
		previous: []schema.PipelineID{1},
		next:     []schema.PipelineID{3, 4},
		current:  2,
	}

	evicted := nav.trim(2)

	if !reflect.DeepEqual(evicted, []schema.PipelineID{1}) {
		t.Fatalf("evicted = %v, want [1]", evicted)
	}
	if nav.current != 2 || len(nav.next) != 2 {
		t.Fatalf("trim touched current/forward: %+v", nav)
	}
}
