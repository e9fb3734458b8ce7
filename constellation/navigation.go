package constellation

import "pkt.systems/orrery/schema"

// navigationContext is one webview's session history: a back stack, a
// forward stack, and the committed current entry. The stacks hold pipeline
// ids with the nearest entry last. Mutated only by the constellation loop.
type navigationContext struct {
	previous []schema.PipelineID
	next     []schema.PipelineID
	current  schema.PipelineID
}

// navigate commits a fresh load: the old current entry moves onto the back
// stack and the whole forward stack is discarded. The evicted forward
// entries are returned so their pipelines can be exited.
func (n *navigationContext) navigate(id schema.PipelineID) []schema.PipelineID {
	evicted := n.next
	n.next = nil
	if n.current != 0 {
		n.previous = append(n.previous, n.current)
	}
	n.current = id
	return evicted
}

// back moves one entry toward the past. The second return value is false
// when the back stack is empty; nothing changes in that case.
func (n *navigationContext) back() (schema.PipelineID, bool) {
	if len(n.previous) == 0 {
		return 0, false
	}
	target := n.previous[len(n.previous)-1]
	n.previous = n.previous[:len(n.previous)-1]
	if n.current != 0 {
		n.next = append(n.next, n.current)
	}
	n.current = target
	return target, true
}

// forward moves one entry toward the future, symmetric to back.
func (n *navigationContext) forward() (schema.PipelineID, bool) {
	if len(n.next) == 0 {
		return 0, false
	}
	target := n.next[len(n.next)-1]
	n.next = n.next[:len(n.next)-1]
	if n.current != 0 {
		n.previous = append(n.previous, n.current)
	}
	n.current = target
	return target, true
}

// entries flattens the history oldest first: back stack, current, then the
// forward stack nearest-future first.
func (n *navigationContext) entries() []schema.PipelineID {
	out := append([]schema.PipelineID(nil), n.previous...)
	if n.current != 0 {
		out = append(out, n.current)
	}
	for i := len(n.next) - 1; i >= 0; i-- {
		out = append(out, n.next[i])
	}
	return out
}

// currentIndex reports the committed entry's position within entries, or -1
// when nothing has committed yet.
func (n *navigationContext) currentIndex() int {
	if n.current == 0 {
		return -1
	}
	return len(n.previous)
}

// trim evicts the oldest back-stack entries until at most max entries
// remain, returning the evicted ids. The current entry and the forward
// stack are never evicted.
func (n *navigationContext) trim(max int) []schema.PipelineID {
	if max <= 0 {
		return nil
	}
	total := len(n.entries())
	if total <= max {
		return nil
	}
	k := total - max
	if k > len(n.previous) {
		k = len(n.previous)
	}
	if k == 0 {
		return nil
	}
	evicted := append([]schema.PipelineID(nil), n.previous[:k]...)
	n.previous = append([]schema.PipelineID(nil), n.previous[k:]...)
	return evicted
}
